package handlers

import (
	"net/http"
	"time"

	"github.com/ukydev/car-rental-admin/internal/availability"
	"github.com/ukydev/car-rental-admin/internal/models"
)

// DashboardHandler serves the aggregated views backing the admin
// dashboard.
type DashboardHandler struct {
	service *availability.Service
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(service *availability.Service) *DashboardHandler {
	return &DashboardHandler{service: service}
}

type activeRentalResponse struct {
	models.Rental
	Overdue bool `json:"overdue"`
}

// ActiveRentals lists live rentals with their cars resolved and an
// overdue flag computed against the current time.
func (h *DashboardHandler) ActiveRentals(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.service.ActiveRentals(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	now := time.Now()
	out := make([]activeRentalResponse, 0, len(rentals))
	for _, rented := range rentals {
		out = append(out, activeRentalResponse{
			Rental:  rented,
			Overdue: availability.Overdue(&rented, now),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Summary returns fleet counters and the current month's revenue.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summarize(r.Context(), time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Revenue returns the fee rollup for a calendar period. The period query
// parameter accepts month, quarter or year and defaults to month.
func (h *DashboardHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "month"
	}

	start, end, err := availability.PeriodRange(period, time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := h.service.RevenueBetween(r.Context(), start, end)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
