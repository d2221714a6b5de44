package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ukydev/car-rental-admin/internal/models"
	"github.com/ukydev/car-rental-admin/internal/reminder"
)

// ReminderHandler handles standalone reminder requests.
type ReminderHandler struct {
	service *reminder.Service
}

// NewReminderHandler creates a reminder tracker handler.
func NewReminderHandler(service *reminder.Service) *ReminderHandler {
	return &ReminderHandler{service: service}
}

type reminderRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Type        *string `json:"type"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	RelatedType *string `json:"related_type"`
	RelatedTo   *string `json:"related_to"`
	Notes       *string `json:"notes"`
	CreatedBy   *string `json:"created_by"`
	Completed   *bool   `json:"completed"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// List returns reminders filtered by query parameters, with due status
// attached.
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := reminder.Filter{
		Type:     models.ReminderType(q.Get("type")),
		Category: models.ReminderCategory(q.Get("category")),
		CarID:    q.Get("car_id"),
	}
	if v := q.Get("completed"); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, r, models.NewValidationError("completed must be true or false"))
			return
		}
		filter.Completed = &completed
	}
	if v := q.Get("start_date"); v != "" {
		start, err := parseRequiredDate(v, "start_date")
		if err != nil {
			writeError(w, r, err)
			return
		}
		filter.StartDate = start
	}
	if v := q.Get("end_date"); v != "" {
		end, err := parseRequiredDate(v, "end_date")
		if err != nil {
			writeError(w, r, err)
			return
		}
		filter.EndDate = end
	}

	reminders, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, withDueStatus(reminders))
}

// Upcoming returns uncompleted reminders due within the window (default
// 30 days).
func (h *ReminderHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeError(w, r, models.NewValidationError("days must be a positive number"))
			return
		}
		days = parsed
	}

	reminders, err := h.service.Upcoming(r.Context(), days, time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, withDueStatus(reminders))
}

// Get returns a single reminder.
func (h *ReminderHandler) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reminderWithStatus(*found))
}

// Create stores a new reminder.
func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	input := reminder.CreateInput{
		Title:       str(req.Title),
		Description: str(req.Description),
		Type:        models.ReminderType(str(req.Type)),
		Category:    models.ReminderCategory(str(req.Category)),
		Priority:    models.Priority(str(req.Priority)),
		RelatedType: models.RelatedType(str(req.RelatedType)),
		RelatedTo:   str(req.RelatedTo),
		Notes:       str(req.Notes),
		CreatedBy:   str(req.CreatedBy),
	}
	if req.Date != nil {
		date, err := parseRequiredDate(*req.Date, "date")
		if err != nil {
			writeError(w, r, err)
			return
		}
		input.Date = date
	}

	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Reminder created successfully",
		"reminder": reminderWithStatus(*created),
	})
}

// Update applies the provided fields to a reminder.
func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req reminderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	input := reminder.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Notes:       req.Notes,
		Completed:   req.Completed,
		RelatedTo:   req.RelatedTo,
	}
	if req.Type != nil {
		t := models.ReminderType(*req.Type)
		input.Type = &t
	}
	if req.Category != nil {
		c := models.ReminderCategory(*req.Category)
		input.Category = &c
	}
	if req.Priority != nil {
		p := models.Priority(*req.Priority)
		input.Priority = &p
	}
	if req.RelatedType != nil {
		rt := models.RelatedType(*req.RelatedType)
		input.RelatedType = &rt
	}
	if req.Date != nil {
		date, err := parseRequiredDate(*req.Date, "date")
		if err != nil {
			writeError(w, r, err)
			return
		}
		input.Date = &date
	}

	updated, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Reminder updated successfully",
		"reminder": reminderWithStatus(*updated),
	})
}

// Complete marks a reminder done.
func (h *ReminderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	completed, err := h.service.Complete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Reminder marked as completed",
		"reminder": reminderWithStatus(*completed),
	})
}

// Delete removes a reminder.
func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Reminder deleted successfully"})
}

type reminderResponse struct {
	models.Reminder
	DueStatus models.DueStatus `json:"due_status"`
}

func reminderWithStatus(r models.Reminder) reminderResponse {
	return reminderResponse{Reminder: r, DueStatus: reminder.DueStatus(&r, time.Now())}
}

func withDueStatus(reminders []models.Reminder) []reminderResponse {
	out := make([]reminderResponse, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, reminderWithStatus(r))
	}
	return out
}
