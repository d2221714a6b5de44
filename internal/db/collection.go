package db

import (
	"context"
	"time"

	"github.com/ukydev/car-rental-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CarCollection defines the interface for car record operations.
type CarCollection interface {
	InsertCar(ctx context.Context, car models.Car) error
	FindCarByID(ctx context.Context, id string) (*models.Car, error)
	FindCars(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Car, error)
	UpdateCar(ctx context.Context, id string, car models.Car) error
	SetRented(ctx context.Context, id string, rented bool, lastRented *time.Time) error
	DeleteCar(ctx context.Context, id string) error
	CountCars(ctx context.Context, filter bson.M) (int64, error)
}

// RentalCollection defines the interface for rental record operations.
type RentalCollection interface {
	InsertRental(ctx context.Context, rental models.Rental) error
	FindRentalByID(ctx context.Context, id string) (*models.Rental, error)
	FindRentals(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Rental, error)
	FindActiveByCar(ctx context.Context, carID string) ([]models.Rental, error)
	UpdateRental(ctx context.Context, id string, rental models.Rental) error
	UpdateRentalWithVersion(ctx context.Context, rental models.Rental) error
	DeleteRental(ctx context.Context, id string) error
	DeleteRentalsWhere(ctx context.Context, filter bson.M) (int64, error)
	CountRentals(ctx context.Context, filter bson.M) (int64, error)
}

// ReminderCollection defines the interface for standalone reminder
// operations.
type ReminderCollection interface {
	InsertReminder(ctx context.Context, reminder models.Reminder) error
	FindReminderByID(ctx context.Context, id string) (*models.Reminder, error)
	FindReminders(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Reminder, error)
	UpdateReminder(ctx context.Context, id string, reminder models.Reminder) error
	DeleteReminder(ctx context.Context, id string) error
	DeleteRemindersWhere(ctx context.Context, filter bson.M) (int64, error)
	CountReminders(ctx context.Context, filter bson.M) (int64, error)
}
