package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ukydev/car-rental-admin/internal/models"
	"github.com/ukydev/car-rental-admin/internal/rental"
	"github.com/ukydev/car-rental-admin/internal/storage"
)

// RentalHandler handles rental ledger requests.
type RentalHandler struct {
	service *rental.Service
	files   storage.Store
}

// NewRentalHandler creates a rental ledger handler.
func NewRentalHandler(service *rental.Service, files storage.Store) *RentalHandler {
	return &RentalHandler{service: service, files: files}
}

type rentalRequest struct {
	CarID          string  `json:"car_id"`
	RentalDate     string  `json:"rental_date"`
	ReturnDate     string  `json:"return_date"`
	RentalFee      float64 `json:"rental_fee"`
	CustomerName   string  `json:"customer_name"`
	CustomerReg    string  `json:"customer_reg"`
	CustomerEmail  string  `json:"customer_email"`
	CustomerNumber string  `json:"customer_number"`
	RentalType     string  `json:"rental_type"`
	Note           string  `json:"note"`
}

// List returns all rentals with their cars resolved.
func (h *RentalHandler) List(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

// Get returns a single rental.
func (h *RentalHandler) Get(w http.ResponseWriter, r *http.Request) {
	rented, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rented)
}

// Create books a car for a date range. Conflicting bookings are rejected
// with 409.
func (h *RentalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req rentalRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	rentalDate, err := parseRequiredDate(req.RentalDate, "rental_date")
	if err != nil {
		writeError(w, r, err)
		return
	}
	returnDate, err := parseRequiredDate(req.ReturnDate, "return_date")
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.service.Create(r.Context(), rental.CreateInput{
		CarID:          req.CarID,
		RentalDate:     rentalDate,
		ReturnDate:     returnDate,
		RentalFee:      req.RentalFee,
		CustomerName:   req.CustomerName,
		CustomerReg:    req.CustomerReg,
		CustomerEmail:  req.CustomerEmail,
		CustomerNumber: req.CustomerNumber,
		RentalType:     models.RentalType(req.RentalType),
		Note:           req.Note,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Rental created successfully",
		"rental":  created,
	})
}

type endRequest struct {
	Rating  string `json:"rating"`
	Comment string `json:"comment"`
	Reason  string `json:"reason"`
}

// End deactivates a rental without marking the car as returned by the
// customer.
func (h *RentalHandler) End(w http.ResponseWriter, r *http.Request) {
	var req endRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	ended, err := h.service.End(r.Context(), chi.URLParam(r, "id"), req.Rating, req.Comment, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Rental ended successfully",
		"rental":  ended,
	})
}

// Return records the vehicle handed back, stamps the return date and
// frees the car.
func (h *RentalHandler) Return(w http.ResponseWriter, r *http.Request) {
	var req endRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	returned, err := h.service.Return(r.Context(), chi.URLParam(r, "id"), req.Rating, req.Comment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Car returned successfully",
		"rental":  returned,
	})
}

type extendRequest struct {
	NewReturnDate string  `json:"new_return_date"`
	Reason        string  `json:"reason"`
	AdditionalFee float64 `json:"additional_fee"`
}

// Extend moves a rental's return date forward and reopens it if needed.
func (h *RentalHandler) Extend(w http.ResponseWriter, r *http.Request) {
	var req extendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	newReturnDate, err := parseRequiredDate(req.NewReturnDate, "new_return_date")
	if err != nil {
		writeError(w, r, err)
		return
	}

	extended, err := h.service.Extend(r.Context(), chi.URLParam(r, "id"), newReturnDate, req.Reason, req.AdditionalFee)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Rental extended successfully",
		"rental":  extended,
	})
}

type noteRequest struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

// AddNote appends a timestamped note to a rental.
func (h *RentalHandler) AddNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	noted, err := h.service.AddNote(r.Context(), chi.URLParam(r, "id"), req.Content, req.Author)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Note added successfully",
		"notes":   noted.Notes,
	})
}

// ListNotes returns a rental's notes, newest first.
func (h *RentalHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.ListNotes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// Clear hides an inactive rental from the dashboard without deleting it.
func (h *RentalHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cleared, err := h.service.Clear(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Rental cleared from dashboard",
		"rental":  cleared,
	})
}

// Delete permanently removes a rental record.
func (h *RentalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Rental deleted successfully"})
}

// AddDocuments uploads documents to a rental.
func (h *RentalHandler) AddDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := saveUploads(r, h.files)
	if err != nil {
		writeError(w, r, err)
		return
	}

	attached, err := h.service.AttachDocuments(r.Context(), chi.URLParam(r, "id"), docs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Documents added successfully",
		"documents": attached.Documents,
	})
}
