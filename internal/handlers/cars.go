package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ukydev/car-rental-admin/internal/availability"
	"github.com/ukydev/car-rental-admin/internal/cars"
	"github.com/ukydev/car-rental-admin/internal/models"
	"github.com/ukydev/car-rental-admin/internal/reminder"
	"github.com/ukydev/car-rental-admin/internal/storage"
)

// CarHandler handles car registry requests.
type CarHandler struct {
	service      *cars.Service
	availability *availability.Service
	files        storage.Store
}

// NewCarHandler creates a car registry handler.
func NewCarHandler(service *cars.Service, availabilitySvc *availability.Service, files storage.Store) *CarHandler {
	return &CarHandler{service: service, availability: availabilitySvc, files: files}
}

// carResponse augments a car with its urgency classification for the
// fleet-health indicator.
type carResponse struct {
	models.Car
	Urgency string `json:"urgency"`
}

func toCarResponse(car models.Car) carResponse {
	return carResponse{Car: car, Urgency: reminder.UrgencyColor(&car, time.Now())}
}

// List returns all cars sorted by make and model.
func (h *CarHandler) List(w http.ResponseWriter, r *http.Request) {
	carList, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]carResponse, 0, len(carList))
	for _, car := range carList {
		out = append(out, toCarResponse(car))
	}
	writeJSON(w, http.StatusOK, out)
}

// Available returns every car without an active rental.
func (h *CarHandler) Available(w http.ResponseWriter, r *http.Request) {
	carList, err := h.availability.AvailableCars(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, carList)
}

// Get returns a single car.
func (h *CarHandler) Get(w http.ResponseWriter, r *http.Request) {
	car, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCarResponse(*car))
}

// Create registers a new car, with optional document uploads when the
// request is multipart.
func (h *CarHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, docs, err := h.carInput(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	car, err := h.service.Create(r.Context(), input, docs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Car added successfully",
		"car":     toCarResponse(*car),
	})
}

// Update merges provided fields into a car and appends any uploaded
// documents.
func (h *CarHandler) Update(w http.ResponseWriter, r *http.Request) {
	input, docs, err := h.carInput(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	car, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), input, docs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Car updated successfully",
		"car":     toCarResponse(*car),
	})
}

// Delete removes a car, its documents and its linked reminders. Refused
// while active rentals reference the car.
func (h *CarHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Car deleted successfully"})
}

// AddDocuments uploads additional documents to a car.
func (h *CarHandler) AddDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := saveUploads(r, h.files)
	if err != nil {
		writeError(w, r, err)
		return
	}

	car, err := h.service.AddDocuments(r.Context(), chi.URLParam(r, "id"), docs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Documents added successfully",
		"documents": car.Documents,
	})
}

// DeleteDocument removes one document from a car and deletes its file.
func (h *CarHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteDocument(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "docID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Document deleted successfully"})
}

// maintenanceRequest carries maintenance date updates and embedded
// reminder fields.
type maintenanceRequest struct {
	Type                  string `json:"type"`
	Date                  string `json:"date"`
	Message               string `json:"message"`
	Completed             *bool  `json:"completed"`
	ServiceDue            string `json:"service_due"`
	TaxDate               string `json:"tax_date"`
	InsuranceDate         string `json:"insurance_date"`
	TireChangeDate        string `json:"tire_change_date"`
	RegistrationDate      string `json:"registration_date"`
	CustomReminderMessage string `json:"custom_reminder_message"`
	CustomReminderDate    string `json:"custom_reminder_date"`
}

// SetReminders updates a car's maintenance dates, or adds a single custom
// embedded reminder when a bare type/date/message triple is posted.
func (h *CarHandler) SetReminders(w http.ResponseWriter, r *http.Request) {
	var req maintenanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	id := chi.URLParam(r, "id")

	// A bare reminder post adds one embedded entry; otherwise the typed
	// maintenance dates are updated and resynced.
	if req.Date != "" && req.ServiceDue == "" && req.TaxDate == "" && req.InsuranceDate == "" &&
		req.TireChangeDate == "" && req.RegistrationDate == "" && req.CustomReminderDate == "" {
		date, err := parseRequiredDate(req.Date, "date")
		if err != nil {
			writeError(w, r, err)
			return
		}
		car, err := h.service.AddReminder(r.Context(), id, models.CarReminderType(req.Type), date, req.Message)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Reminder added successfully",
			"car":     toCarResponse(*car),
		})
		return
	}

	input := cars.Input{CustomReminderMessage: req.CustomReminderMessage}
	var err error
	if input.ServiceDue, err = parseDate(req.ServiceDue); err != nil {
		writeError(w, r, err)
		return
	}
	if input.TaxDate, err = parseDate(req.TaxDate); err != nil {
		writeError(w, r, err)
		return
	}
	if input.InsuranceDate, err = parseDate(req.InsuranceDate); err != nil {
		writeError(w, r, err)
		return
	}
	if input.TireChangeDate, err = parseDate(req.TireChangeDate); err != nil {
		writeError(w, r, err)
		return
	}
	if input.RegistrationDate, err = parseDate(req.RegistrationDate); err != nil {
		writeError(w, r, err)
		return
	}
	if input.CustomReminderDate, err = parseDate(req.CustomReminderDate); err != nil {
		writeError(w, r, err)
		return
	}

	car, err := h.service.SetMaintenanceDates(r.Context(), id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Reminders updated successfully",
		"car":     toCarResponse(*car),
	})
}

// UpdateReminder edits an embedded car reminder.
func (h *CarHandler) UpdateReminder(w http.ResponseWriter, r *http.Request) {
	var req maintenanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	car, err := h.service.UpdateReminder(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "reminderID"), date, req.Message, req.Completed)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Reminder updated successfully",
		"car":     toCarResponse(*car),
	})
}

// DeleteReminder removes an embedded car reminder.
func (h *CarHandler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	_, err := h.service.DeleteReminder(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "reminderID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Reminder deleted successfully"})
}

// UpcomingReminders lists fleet maintenance due within the window
// (default 30 days).
func (h *CarHandler) UpcomingReminders(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, r, models.NewValidationError("days must be a positive number"))
			return
		}
		days = parsed
	}

	upcoming, err := h.service.UpcomingReminders(r.Context(), days, time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, upcoming)
}

// carRequest mirrors the car entity with string dates for JSON requests.
type carRequest struct {
	Make                  string `json:"make"`
	Model                 string `json:"model"`
	Year                  int    `json:"year"`
	Mileage               int    `json:"mileage"`
	Registration          string `json:"registration"`
	OwnerName             string `json:"owner_name"`
	OwnerContact          string `json:"owner_contact"`
	OwnerEmail            string `json:"owner_email"`
	Notes                 string `json:"notes"`
	ServiceDue            string `json:"service_due"`
	TaxDate               string `json:"tax_date"`
	InsuranceDate         string `json:"insurance_date"`
	TireChangeDate        string `json:"tire_change_date"`
	RegistrationDate      string `json:"registration_date"`
	CustomReminderMessage string `json:"custom_reminder_message"`
	CustomReminderDate    string `json:"custom_reminder_date"`
}

// carInput builds the service input from either a multipart form (with
// document uploads) or a JSON body.
func (h *CarHandler) carInput(r *http.Request) (cars.Input, []models.Document, error) {
	var req carRequest
	var docs []models.Document

	if isMultipart(r) {
		var err error
		docs, err = saveUploads(r, h.files)
		if err != nil {
			return cars.Input{}, nil, err
		}
		req = carRequest{
			Make:                  r.FormValue("make"),
			Model:                 r.FormValue("model"),
			Registration:          r.FormValue("registration"),
			OwnerName:             r.FormValue("owner_name"),
			OwnerContact:          r.FormValue("owner_contact"),
			OwnerEmail:            r.FormValue("owner_email"),
			Notes:                 r.FormValue("notes"),
			ServiceDue:            r.FormValue("service_due"),
			TaxDate:               r.FormValue("tax_date"),
			InsuranceDate:         r.FormValue("insurance_date"),
			TireChangeDate:        r.FormValue("tire_change_date"),
			RegistrationDate:      r.FormValue("registration_date"),
			CustomReminderMessage: r.FormValue("custom_reminder_message"),
			CustomReminderDate:    r.FormValue("custom_reminder_date"),
		}
		if v := r.FormValue("year"); v != "" {
			req.Year, err = strconv.Atoi(v)
			if err != nil {
				return cars.Input{}, nil, models.NewValidationError("year must be a number")
			}
		}
		if v := r.FormValue("mileage"); v != "" {
			req.Mileage, err = strconv.Atoi(v)
			if err != nil {
				return cars.Input{}, nil, models.NewValidationError("mileage must be a number")
			}
		}
	} else if err := decodeJSON(r, &req); err != nil {
		return cars.Input{}, nil, err
	}

	input := cars.Input{
		Make:                  req.Make,
		Model:                 req.Model,
		Year:                  req.Year,
		Mileage:               req.Mileage,
		Registration:          req.Registration,
		OwnerName:             req.OwnerName,
		OwnerContact:          req.OwnerContact,
		OwnerEmail:            req.OwnerEmail,
		Notes:                 req.Notes,
		CustomReminderMessage: req.CustomReminderMessage,
	}

	var err error
	if input.ServiceDue, err = parseDate(req.ServiceDue); err != nil {
		return cars.Input{}, nil, err
	}
	if input.TaxDate, err = parseDate(req.TaxDate); err != nil {
		return cars.Input{}, nil, err
	}
	if input.InsuranceDate, err = parseDate(req.InsuranceDate); err != nil {
		return cars.Input{}, nil, err
	}
	if input.TireChangeDate, err = parseDate(req.TireChangeDate); err != nil {
		return cars.Input{}, nil, err
	}
	if input.RegistrationDate, err = parseDate(req.RegistrationDate); err != nil {
		return cars.Input{}, nil, err
	}
	if input.CustomReminderDate, err = parseDate(req.CustomReminderDate); err != nil {
		return cars.Input{}, nil, err
	}
	return input, docs, nil
}
