package reminder

import (
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental-admin/internal/db"
	"github.com/ukydev/car-rental-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Service manages standalone reminders: due-date items optionally linked
// to a car or a rental.
type Service struct {
	reminders db.ReminderCollection
	cars      db.CarCollection
	rentals   db.RentalCollection
}

// NewService creates a reminder tracker service.
func NewService(reminders db.ReminderCollection, cars db.CarCollection, rentals db.RentalCollection) *Service {
	return &Service{reminders: reminders, cars: cars, rentals: rentals}
}

// CreateInput carries the fields for a new reminder.
type CreateInput struct {
	Title       string
	Description string
	Date        time.Time
	Type        models.ReminderType
	Category    models.ReminderCategory
	Priority    models.Priority
	RelatedType models.RelatedType
	RelatedTo   string
	Notes       string
	CreatedBy   string
}

// Create validates and stores a new reminder. A related car or rental must
// exist at creation time; the link is a plain reference with no cascade
// from the other side.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Reminder, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("reminder title is required")
	}
	if in.Date.IsZero() {
		return nil, models.NewValidationError("reminder date is required")
	}

	if err := s.checkRelated(ctx, in.RelatedType, in.RelatedTo); err != nil {
		return nil, err
	}

	reminderType := in.Type
	if reminderType == "" {
		if in.RelatedType == models.RelatedCar {
			reminderType = models.ReminderTypeCar
		} else {
			reminderType = models.ReminderTypeBusiness
		}
	}
	if !models.IsValidReminderType(reminderType) {
		return nil, models.NewValidationError("invalid reminder type")
	}

	category := in.Category
	if category == "" {
		category = models.CategoryCustom
	}
	if !models.IsValidCategory(category) {
		return nil, models.NewValidationError("invalid reminder category")
	}

	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.IsValidPriority(priority) {
		return nil, models.NewValidationError("invalid reminder priority")
	}

	createdBy := in.CreatedBy
	if createdBy == "" {
		createdBy = "system"
	}

	reminder := models.Reminder{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Type:        reminderType,
		Category:    category,
		Priority:    priority,
		RelatedType: in.RelatedType,
		RelatedTo:   in.RelatedTo,
		Notes:       in.Notes,
		CreatedBy:   createdBy,
	}

	if err := s.reminders.InsertReminder(ctx, reminder); err != nil {
		return nil, err
	}
	return &reminder, nil
}

// UpdateInput carries optional reminder fields; nil pointers leave the
// stored value unchanged.
type UpdateInput struct {
	Title       *string
	Description *string
	Date        *time.Time
	Type        *models.ReminderType
	Category    *models.ReminderCategory
	Priority    *models.Priority
	RelatedType *models.RelatedType
	RelatedTo   *string
	Notes       *string
	Completed   *bool
}

// Update applies the provided fields to a reminder.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*models.Reminder, error) {
	reminder, err := s.reminders.FindReminderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, models.NewValidationError("reminder title is required")
		}
		reminder.Title = *in.Title
	}
	if in.Description != nil {
		reminder.Description = *in.Description
	}
	if in.Date != nil {
		if in.Date.IsZero() {
			return nil, models.NewValidationError("reminder date is required")
		}
		reminder.Date = *in.Date
	}
	if in.Type != nil {
		if !models.IsValidReminderType(*in.Type) {
			return nil, models.NewValidationError("invalid reminder type")
		}
		reminder.Type = *in.Type
	}
	if in.Category != nil {
		if !models.IsValidCategory(*in.Category) {
			return nil, models.NewValidationError("invalid reminder category")
		}
		reminder.Category = *in.Category
	}
	if in.Priority != nil {
		if !models.IsValidPriority(*in.Priority) {
			return nil, models.NewValidationError("invalid reminder priority")
		}
		reminder.Priority = *in.Priority
	}
	if in.RelatedType != nil || in.RelatedTo != nil {
		relatedType := reminder.RelatedType
		relatedTo := reminder.RelatedTo
		if in.RelatedType != nil {
			relatedType = *in.RelatedType
		}
		if in.RelatedTo != nil {
			relatedTo = *in.RelatedTo
		}
		if err := s.checkRelated(ctx, relatedType, relatedTo); err != nil {
			return nil, err
		}
		reminder.RelatedType = relatedType
		reminder.RelatedTo = relatedTo
	}
	if in.Notes != nil {
		reminder.Notes = *in.Notes
	}
	if in.Completed != nil {
		s.setCompleted(reminder, *in.Completed)
	}

	if err := s.reminders.UpdateReminder(ctx, id, *reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// Complete marks a reminder as done and stamps the completion time.
func (s *Service) Complete(ctx context.Context, id string) (*models.Reminder, error) {
	reminder, err := s.reminders.FindReminderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.setCompleted(reminder, true)
	if err := s.reminders.UpdateReminder(ctx, id, *reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// Delete removes a reminder.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.reminders.DeleteReminder(ctx, id)
}

// DeleteForCar removes all reminders linked to a car. Called when a car is
// deleted so the tracker does not accumulate orphans.
func (s *Service) DeleteForCar(ctx context.Context, carID string) (int64, error) {
	return s.reminders.DeleteRemindersWhere(ctx, bson.M{
		"related_type": models.RelatedCar,
		"related_to":   carID,
	})
}

// Get returns a reminder with car details populated for car-linked
// entries.
func (s *Service) Get(ctx context.Context, id string) (*models.Reminder, error) {
	reminder, err := s.reminders.FindReminderByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.populateCarDetails(ctx, reminder)
	return reminder, nil
}

// Filter narrows reminder listings. Zero values are ignored.
type Filter struct {
	Type      models.ReminderType
	Category  models.ReminderCategory
	Completed *bool
	CarID     string
	StartDate time.Time
	EndDate   time.Time
}

// List returns reminders matching the filter, soonest first, with car
// details populated.
func (s *Service) List(ctx context.Context, f Filter) ([]models.Reminder, error) {
	query := bson.M{}
	if f.Type != "" {
		query["type"] = f.Type
	}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.Completed != nil {
		query["completed"] = *f.Completed
	}
	if f.CarID != "" {
		query["related_type"] = models.RelatedCar
		query["related_to"] = f.CarID
	}
	if !f.StartDate.IsZero() || !f.EndDate.IsZero() {
		dateRange := bson.M{}
		if !f.StartDate.IsZero() {
			dateRange["$gte"] = f.StartDate
		}
		if !f.EndDate.IsZero() {
			dateRange["$lte"] = f.EndDate
		}
		query["date"] = dateRange
	}

	reminders, err := s.reminders.FindReminders(ctx, query,
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	for i := range reminders {
		s.populateCarDetails(ctx, &reminders[i])
	}
	return reminders, nil
}

// Upcoming returns uncompleted reminders due within the given number of
// days, soonest first, with days-remaining populated.
func (s *Service) Upcoming(ctx context.Context, days int, now time.Time) ([]models.Reminder, error) {
	all, err := s.reminders.FindReminders(ctx, bson.M{"completed": false},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}

	end := now.AddDate(0, 0, days)
	upcoming := make([]models.Reminder, 0, len(all))
	for _, r := range all {
		if r.Date.IsZero() || r.Date.Before(now) || r.Date.After(end) {
			continue
		}
		remaining := daysUntil(now, r.Date)
		r.DaysLeft = &remaining
		s.populateCarDetails(ctx, &r)
		upcoming = append(upcoming, r)
	}
	return upcoming, nil
}

func (s *Service) setCompleted(reminder *models.Reminder, completed bool) {
	reminder.Completed = completed
	if completed {
		now := time.Now()
		reminder.CompletedAt = &now
	} else {
		reminder.CompletedAt = nil
	}
}

// checkRelated validates the optional entity link: the type must be known
// and the referenced car or rental must exist.
func (s *Service) checkRelated(ctx context.Context, relatedType models.RelatedType, relatedTo string) error {
	switch relatedType {
	case models.RelatedNone:
		if relatedTo != "" {
			return models.NewValidationError("related entity given without a related type")
		}
		return nil
	case models.RelatedCar:
		if relatedTo == "" {
			return models.NewValidationError("related car ID is required")
		}
		if _, err := s.cars.FindCarByID(ctx, relatedTo); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return models.NewValidationError("invalid car ID")
			}
			return err
		}
		return nil
	case models.RelatedRental:
		if relatedTo == "" {
			return models.NewValidationError("related rental ID is required")
		}
		if _, err := s.rentals.FindRentalByID(ctx, relatedTo); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return models.NewValidationError("invalid rental ID")
			}
			return err
		}
		return nil
	default:
		return models.NewValidationError("invalid related type")
	}
}

// populateCarDetails attaches the car summary for car-linked reminders.
// Dangling references are tolerated; the details stay nil.
func (s *Service) populateCarDetails(ctx context.Context, reminder *models.Reminder) {
	if reminder.RelatedType != models.RelatedCar || reminder.RelatedTo == "" {
		return
	}
	car, err := s.cars.FindCarByID(ctx, reminder.RelatedTo)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			log.WithError(err).WithField("car_id", reminder.RelatedTo).Error("Failed to fetch car details for reminder")
		}
		return
	}
	reminder.CarDetails = &models.CarSummary{
		Make:         car.Make,
		Model:        car.Model,
		Year:         car.Year,
		Registration: car.Registration,
	}
}
