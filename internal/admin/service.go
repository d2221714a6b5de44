package admin

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental-admin/internal/db"
	"github.com/ukydev/car-rental-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Service provides bulk operational maintenance over the collections:
// stats, pruning of old records, and full resets. Destructive by design;
// gated to admins at the HTTP layer.
type Service struct {
	cars      db.CarCollection
	rentals   db.RentalCollection
	reminders db.ReminderCollection
}

// NewService creates an admin maintenance service.
func NewService(cars db.CarCollection, rentals db.RentalCollection, reminders db.ReminderCollection) *Service {
	return &Service{cars: cars, rentals: rentals, reminders: reminders}
}

// Stats are the record counts per collection.
type Stats struct {
	Cars          int64 `json:"cars"`
	Rentals       int64 `json:"rentals"`
	ActiveRentals int64 `json:"active_rentals"`
	Reminders     int64 `json:"reminders"`
}

// DBStats counts the records in every collection.
func (s *Service) DBStats(ctx context.Context) (*Stats, error) {
	carCount, err := s.cars.CountCars(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	rentalCount, err := s.rentals.CountRentals(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	activeCount, err := s.rentals.CountRentals(ctx, bson.M{"active": true})
	if err != nil {
		return nil, err
	}
	reminderCount, err := s.reminders.CountReminders(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	return &Stats{
		Cars:          carCount,
		Rentals:       rentalCount,
		ActiveRentals: activeCount,
		Reminders:     reminderCount,
	}, nil
}

// Prune deletes settled records older than the cutoff from the named
// collections: inactive rentals past their return date and completed
// reminders past their due date. Returns deleted counts per collection.
func (s *Service) Prune(ctx context.Context, olderThanDays int, collections []string) (map[string]int64, error) {
	if olderThanDays <= 0 {
		return nil, models.NewValidationError("olderThan must be a positive number of days")
	}
	cutoff := time.Now().AddDate(0, 0, -olderThanDays)

	deleted := make(map[string]int64)
	for _, name := range collections {
		switch name {
		case "rentals":
			count, err := s.rentals.DeleteRentalsWhere(ctx, bson.M{
				"active":      false,
				"return_date": bson.M{"$lt": cutoff},
			})
			if err != nil {
				return nil, err
			}
			deleted["rentals"] = count
		case "reminders":
			count, err := s.reminders.DeleteRemindersWhere(ctx, bson.M{
				"completed": true,
				"date":      bson.M{"$lt": cutoff},
			})
			if err != nil {
				return nil, err
			}
			deleted["reminders"] = count
		default:
			return nil, models.NewValidationError("unknown collection: " + name)
		}
	}
	return deleted, nil
}

// Reset wipes the rentals and reminders collections. Car and user records
// survive a reset.
func (s *Service) Reset(ctx context.Context) (map[string]int64, error) {
	rentalsDeleted, err := s.rentals.DeleteRentalsWhere(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	remindersDeleted, err := s.reminders.DeleteRemindersWhere(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"rentals":   rentalsDeleted,
		"reminders": remindersDeleted,
	}).Info("Database reset")

	return map[string]int64{
		"rentals":   rentalsDeleted,
		"reminders": remindersDeleted,
	}, nil
}
