package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental-admin/internal/cars"
	"github.com/ukydev/car-rental-admin/internal/db"
	"github.com/ukydev/car-rental-admin/internal/models"
	"github.com/ukydev/car-rental-admin/internal/rental"
)

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps a service error onto the HTTP taxonomy: not-found 404,
// validation 400, conflicts 409, everything else 500 with a generic
// message and a server-side log line. Booking overlaps and version
// conflicts both map to 409 but keep distinct messages so callers can
// tell a retryable write race from a booking that needs different dates.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *models.ValidationError

	switch {
	case errors.Is(err, db.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": validationErr.Message})
	case errors.Is(err, rental.ErrBookingConflict),
		errors.Is(err, db.ErrVersionConflict),
		errors.Is(err, cars.ErrCarOccupied):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		log.WithError(err).WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("Request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}

// decodeJSON decodes a JSON request body.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return models.NewValidationError("invalid JSON body")
	}
	return nil
}

// dateLayouts are the accepted request date formats.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseDate parses an optional request date. Empty input yields nil.
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t, nil
		}
	}
	return nil, models.NewValidationError("malformed date: " + value)
}

// parseRequiredDate parses a mandatory request date.
func parseRequiredDate(value, field string) (time.Time, error) {
	t, err := parseDate(value)
	if err != nil {
		return time.Time{}, err
	}
	if t == nil {
		return time.Time{}, models.NewValidationError(field + " is required")
	}
	return *t, nil
}
