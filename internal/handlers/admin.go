package handlers

import (
	"net/http"

	"github.com/ukydev/car-rental-admin/internal/admin"
	"github.com/ukydev/car-rental-admin/internal/models"
)

// AdminHandler exposes maintenance operations. All routes require the
// admin role.
type AdminHandler struct {
	service *admin.Service
}

// NewAdminHandler creates an admin maintenance handler.
func NewAdminHandler(service *admin.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// Stats returns collection counts for the database status page.
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.DBStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type pruneRequest struct {
	Collections   []string `json:"collections"`
	OlderThanDays int      `json:"older_than_days"`
}

// Prune removes finished records older than the cutoff from the named
// collections.
func (h *AdminHandler) Prune(w http.ResponseWriter, r *http.Request) {
	var req pruneRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.OlderThanDays <= 0 {
		writeError(w, r, models.NewValidationError("older_than_days must be a positive number"))
		return
	}

	deleted, err := h.service.Prune(r.Context(), req.OlderThanDays, req.Collections)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Prune completed",
		"deleted": deleted,
	})
}

// Reset wipes all rentals and reminders. Cars are kept.
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.Reset(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Rental and reminder data reset",
		"deleted": deleted,
	})
}
