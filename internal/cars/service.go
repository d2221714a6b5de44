package cars

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"dario.cat/mergo"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental-admin/internal/db"
	"github.com/ukydev/car-rental-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrCarOccupied is returned when deleting a car that active rentals
	// still reference.
	ErrCarOccupied = errors.New("car has active rentals and cannot be deleted")
)

// ReminderSink removes standalone reminders linked to a car. Satisfied by
// the reminder service; keeps this package from depending on it directly.
type ReminderSink interface {
	DeleteForCar(ctx context.Context, carID string) (int64, error)
}

// FileRemover deletes stored files by locator. Satisfied by storage.Store.
type FileRemover interface {
	Delete(locator string) error
}

// Service owns the vehicle registry: car records, their maintenance dates
// and embedded reminders, and their document attachments.
type Service struct {
	cars      db.CarCollection
	rentals   db.RentalCollection
	reminders ReminderSink
	files     FileRemover
}

// NewService creates a car registry service.
func NewService(cars db.CarCollection, rentals db.RentalCollection, reminders ReminderSink, files FileRemover) *Service {
	return &Service{cars: cars, rentals: rentals, reminders: reminders, files: files}
}

// Input carries car fields for create and update. On update, zero fields
// leave the stored value unchanged.
type Input struct {
	Make                  string
	Model                 string
	Year                  int
	Mileage               int
	Registration          string
	OwnerName             string
	OwnerContact          string
	OwnerEmail            string
	Notes                 string
	ServiceDue            *time.Time
	TaxDate               *time.Time
	InsuranceDate         *time.Time
	TireChangeDate        *time.Time
	RegistrationDate      *time.Time
	CustomReminderMessage string
	CustomReminderDate    *time.Time
}

func (in *Input) toCar() models.Car {
	car := models.Car{
		Make:             in.Make,
		Model:            in.Model,
		Year:             in.Year,
		Mileage:          in.Mileage,
		Registration:     in.Registration,
		Owner:            models.Owner{Name: in.OwnerName, Contact: in.OwnerContact, Email: in.OwnerEmail},
		Notes:            in.Notes,
		ServiceDue:       in.ServiceDue,
		TaxDate:          in.TaxDate,
		InsuranceDate:    in.InsuranceDate,
		TireChangeDate:   in.TireChangeDate,
		RegistrationDate: in.RegistrationDate,
	}
	if in.CustomReminderMessage != "" || in.CustomReminderDate != nil {
		car.CustomReminder = &models.CustomReminder{
			Message: in.CustomReminderMessage,
			Date:    in.CustomReminderDate,
		}
	}
	return car
}

// Create registers a new car. Embedded reminders are built from whichever
// maintenance dates were provided.
func (s *Service) Create(ctx context.Context, in Input, docs []models.Document) (*models.Car, error) {
	if strings.TrimSpace(in.Make) == "" || strings.TrimSpace(in.Model) == "" {
		return nil, models.NewValidationError("make and model are required")
	}
	if in.Mileage < 0 {
		return nil, models.NewValidationError("mileage must not be negative")
	}

	car := in.toCar()
	car.ID = primitive.NewObjectID()
	car.Documents = docs
	if car.Documents == nil {
		car.Documents = []models.Document{}
	}
	car.Reminders = []models.CarReminder{}
	syncTypedReminders(&car)

	if err := s.cars.InsertCar(ctx, car); err != nil {
		return nil, fmt.Errorf("failed to save car: %w", err)
	}
	return &car, nil
}

// Update merges the provided fields into the stored car. Maintenance
// dates that were provided replace their embedded reminder entries; new
// documents are appended.
func (s *Service) Update(ctx context.Context, id string, in Input, docs []models.Document) (*models.Car, error) {
	car, err := s.cars.FindCarByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := in.toCar()
	if err := mergo.Merge(car, patch, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge car fields: %w", err)
	}
	car.Documents = append(car.Documents, docs...)
	syncTypedReminders(car)

	if err := s.cars.UpdateCar(ctx, id, *car); err != nil {
		return nil, err
	}
	return car, nil
}

// SetMaintenanceDates updates only the reminder-bearing dates and the
// custom reminder of a car, resyncing the embedded reminder entries.
func (s *Service) SetMaintenanceDates(ctx context.Context, id string, in Input) (*models.Car, error) {
	car, err := s.cars.FindCarByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.ServiceDue != nil {
		car.ServiceDue = in.ServiceDue
	}
	if in.TaxDate != nil {
		car.TaxDate = in.TaxDate
	}
	if in.InsuranceDate != nil {
		car.InsuranceDate = in.InsuranceDate
	}
	if in.TireChangeDate != nil {
		car.TireChangeDate = in.TireChangeDate
	}
	if in.RegistrationDate != nil {
		car.RegistrationDate = in.RegistrationDate
	}
	if in.CustomReminderMessage != "" || in.CustomReminderDate != nil {
		if car.CustomReminder == nil {
			car.CustomReminder = &models.CustomReminder{}
		}
		if in.CustomReminderMessage != "" {
			car.CustomReminder.Message = in.CustomReminderMessage
		}
		if in.CustomReminderDate != nil {
			car.CustomReminder.Date = in.CustomReminderDate
		}
	}
	syncTypedReminders(car)

	if err := s.cars.UpdateCar(ctx, id, *car); err != nil {
		return nil, err
	}
	return car, nil
}

// AddReminder appends a custom embedded reminder to a car.
func (s *Service) AddReminder(ctx context.Context, id string, reminderType models.CarReminderType, date time.Time, message string) (*models.Car, error) {
	if date.IsZero() {
		return nil, models.NewValidationError("reminder date is required")
	}

	car, err := s.cars.FindCarByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if reminderType == "" {
		reminderType = models.CarReminderCustom
	}
	car.Reminders = append(car.Reminders, models.CarReminder{
		ID:      primitive.NewObjectID(),
		Type:    reminderType,
		Date:    date,
		Message: message,
	})

	if err := s.cars.UpdateCar(ctx, id, *car); err != nil {
		return nil, err
	}
	return car, nil
}

// UpdateReminder edits an embedded reminder's date, message or completion
// state.
func (s *Service) UpdateReminder(ctx context.Context, id, reminderID string, date *time.Time, message string, completed *bool) (*models.Car, error) {
	car, err := s.cars.FindCarByID(ctx, id)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range car.Reminders {
		if car.Reminders[i].ID.Hex() != reminderID {
			continue
		}
		if date != nil {
			car.Reminders[i].Date = *date
		}
		if message != "" {
			car.Reminders[i].Message = message
		}
		if completed != nil {
			car.Reminders[i].Completed = *completed
		}
		found = true
		break
	}
	if !found {
		return nil, db.ErrNotFound
	}

	if err := s.cars.UpdateCar(ctx, id, *car); err != nil {
		return nil, err
	}
	return car, nil
}

// DeleteReminder removes an embedded reminder from a car.
func (s *Service) DeleteReminder(ctx context.Context, id, reminderID string) (*models.Car, error) {
	car, err := s.cars.FindCarByID(ctx, id)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range car.Reminders {
		if car.Reminders[i].ID.Hex() == reminderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, db.ErrNotFound
	}
	car.Reminders = append(car.Reminders[:idx], car.Reminders[idx+1:]...)

	if err := s.cars.UpdateCar(ctx, id, *car); err != nil {
		return nil, err
	}
	return car, nil
}

// AddDocuments appends stored document references to a car.
func (s *Service) AddDocuments(ctx context.Context, id string, docs []models.Document) (*models.Car, error) {
	if len(docs) == 0 {
		return nil, models.NewValidationError("no documents uploaded")
	}

	car, err := s.cars.FindCarByID(ctx, id)
	if err != nil {
		return nil, err
	}
	car.Documents = append(car.Documents, docs...)

	if err := s.cars.UpdateCar(ctx, id, *car); err != nil {
		return nil, err
	}
	return car, nil
}

// DeleteDocument removes a document record from a car and deletes the
// stored file.
func (s *Service) DeleteDocument(ctx context.Context, id, docID string) error {
	car, err := s.cars.FindCarByID(ctx, id)
	if err != nil {
		return err
	}

	idx := -1
	for i := range car.Documents {
		if car.Documents[i].ID.Hex() == docID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return db.ErrNotFound
	}

	locator := car.Documents[idx].URL
	car.Documents = append(car.Documents[:idx], car.Documents[idx+1:]...)

	if err := s.cars.UpdateCar(ctx, id, *car); err != nil {
		return err
	}
	if err := s.files.Delete(locator); err != nil {
		log.WithError(err).WithField("locator", locator).Error("Failed to delete stored document")
	}
	return nil
}

// Delete removes a car, its stored documents and its linked standalone
// reminders. Deletion is refused while any active rental references the
// car.
func (s *Service) Delete(ctx context.Context, id string) error {
	car, err := s.cars.FindCarByID(ctx, id)
	if err != nil {
		return err
	}

	active, err := s.rentals.FindActiveByCar(ctx, id)
	if err != nil {
		return err
	}
	if len(active) > 0 {
		return ErrCarOccupied
	}

	if err := s.cars.DeleteCar(ctx, id); err != nil {
		return err
	}

	for _, doc := range car.Documents {
		if err := s.files.Delete(doc.URL); err != nil {
			log.WithError(err).WithField("locator", doc.URL).Error("Failed to delete stored document")
		}
	}
	if _, err := s.reminders.DeleteForCar(ctx, id); err != nil {
		log.WithError(err).WithField("car_id", id).Error("Failed to delete linked reminders")
	}
	return nil
}

// Get returns a car by ID.
func (s *Service) Get(ctx context.Context, id string) (*models.Car, error) {
	return s.cars.FindCarByID(ctx, id)
}

// List returns all cars sorted by make then model.
func (s *Service) List(ctx context.Context) ([]models.Car, error) {
	return s.cars.FindCars(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "make", Value: 1}, {Key: "model", Value: 1}}))
}

// UpcomingReminder is a due maintenance item across the fleet.
type UpcomingReminder struct {
	CarID         string                 `json:"car_id"`
	CarInfo       string                 `json:"car_info"`
	Type          models.CarReminderType `json:"type"`
	Message       string                 `json:"message,omitempty"`
	Date          time.Time              `json:"date"`
	DaysRemaining int                    `json:"days_remaining"`
}

// UpcomingReminders scans every car's maintenance dates and uncompleted
// embedded reminders for items due within the window, sorted closest
// first.
func (s *Service) UpcomingReminders(ctx context.Context, days int, now time.Time) ([]UpcomingReminder, error) {
	carList, err := s.cars.FindCars(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	end := now.AddDate(0, 0, days)
	var upcoming []UpcomingReminder

	for i := range carList {
		car := &carList[i]
		dates := car.MaintenanceDates()
		for reminderType, date := range dates {
			if date.After(now) && date.Before(end) {
				upcoming = append(upcoming, UpcomingReminder{
					CarID:         car.ID.Hex(),
					CarInfo:       car.Label(),
					Type:          reminderType,
					Date:          date,
					DaysRemaining: daysUntil(now, date),
				})
			}
		}
		for _, r := range car.Reminders {
			if r.Completed || !r.Date.After(now) || !r.Date.Before(end) {
				continue
			}
			// Typed entries mirror the maintenance dates scanned above.
			if _, typed := dates[r.Type]; typed {
				continue
			}
			upcoming = append(upcoming, UpcomingReminder{
				CarID:         car.ID.Hex(),
				CarInfo:       car.Label(),
				Type:          r.Type,
				Message:       r.Message,
				Date:          r.Date,
				DaysRemaining: daysUntil(now, r.Date),
			})
		}
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].Date.Before(upcoming[j].Date)
	})
	return upcoming, nil
}

// reminderMessages maps typed maintenance reminders to their display
// message templates.
var reminderMessages = map[models.CarReminderType]string{
	models.CarReminderService:      "Service due for %s",
	models.CarReminderTax:          "Tax renewal due for %s",
	models.CarReminderInsurance:    "Insurance renewal due for %s",
	models.CarReminderTireChange:   "Tire change due for %s",
	models.CarReminderRegistration: "Registration renewal due for %s",
}

// syncTypedReminders rebuilds the embedded reminder entries for every
// maintenance date present on the car, replacing stale entries of the same
// type. Custom embedded reminders are left alone.
func syncTypedReminders(car *models.Car) {
	dates := car.MaintenanceDates()

	kept := car.Reminders[:0]
	for _, r := range car.Reminders {
		if _, replaced := dates[r.Type]; !replaced {
			kept = append(kept, r)
		}
	}
	car.Reminders = kept

	for reminderType, date := range dates {
		car.Reminders = append(car.Reminders, models.CarReminder{
			ID:      primitive.NewObjectID(),
			Type:    reminderType,
			Date:    date,
			Message: fmt.Sprintf(reminderMessages[reminderType], car.Label()),
		})
	}
}

func daysUntil(now, date time.Time) int {
	return int(math.Ceil(date.Sub(now).Hours() / 24))
}
