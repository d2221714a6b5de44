package rental

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental-admin/internal/db"
	"github.com/ukydev/car-rental-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrBookingConflict is returned when a requested rental window
	// overlaps an existing active rental on the same car.
	ErrBookingConflict = errors.New("car already booked for selected dates")
)

// noteRetries caps the optimistic-concurrency retry loop for note writes.
const noteRetries = 3

// Service is the authoritative record of who has which car, for which
// window, and in what state.
type Service struct {
	cars    db.CarCollection
	rentals db.RentalCollection
	locks   *carLocks
}

// NewService creates a rental ledger service.
func NewService(cars db.CarCollection, rentals db.RentalCollection) *Service {
	return &Service{
		cars:    cars,
		rentals: rentals,
		locks:   newCarLocks(),
	}
}

// CreateInput carries the fields required to book a rental or reservation.
type CreateInput struct {
	CarID          string
	RentalDate     time.Time
	ReturnDate     time.Time
	RentalFee      float64
	CustomerName   string
	CustomerReg    string
	CustomerEmail  string
	CustomerNumber string
	RentalType     models.RentalType
	Note           string
}

func (in *CreateInput) validate() error {
	if in.CarID == "" {
		return models.NewValidationError("car is required")
	}
	if in.RentalDate.IsZero() || in.ReturnDate.IsZero() {
		return models.NewValidationError("rental date and return date are required")
	}
	if !in.RentalDate.Before(in.ReturnDate) {
		return models.NewValidationError("return date must be after rental date")
	}
	if in.RentalFee < 0 {
		return models.NewValidationError("rental fee must not be negative")
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return models.NewValidationError("customer name is required")
	}
	if strings.TrimSpace(in.CustomerNumber) == "" {
		return models.NewValidationError("customer phone number is required")
	}
	if in.RentalType != "" && !models.IsValidRentalType(in.RentalType) {
		return models.NewValidationError("invalid rental type")
	}
	return nil
}

// Create books a rental after checking the requested window against every
// active rental on the same car. The check and the insert are serialized
// per car. Windows are half-open: a booking starting exactly when another
// ends is not a conflict.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Rental, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := s.cars.FindCarByID(ctx, in.CarID); err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(in.CarID)
	defer unlock()

	existing, err := s.rentals.FindActiveByCar(ctx, in.CarID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Overlaps(in.RentalDate, in.ReturnDate) {
			return nil, ErrBookingConflict
		}
	}

	rentalType := in.RentalType
	if rentalType == "" {
		rentalType = models.RentalTypeRental
	}

	rental := models.Rental{
		ID:             primitive.NewObjectID(),
		CarID:          in.CarID,
		RentalDate:     in.RentalDate,
		ReturnDate:     in.ReturnDate,
		RentalFee:      in.RentalFee,
		CustomerName:   in.CustomerName,
		CustomerReg:    in.CustomerReg,
		CustomerEmail:  in.CustomerEmail,
		CustomerNumber: in.CustomerNumber,
		RentalType:     rentalType,
		Note:           in.Note,
		Notes:          []models.Note{},
		Documents:      []models.Document{},
		Active:         true,
	}

	if err := s.rentals.InsertRental(ctx, rental); err != nil {
		return nil, fmt.Errorf("failed to save rental: %w", err)
	}
	if err := s.cars.SetRented(ctx, in.CarID, true, nil); err != nil {
		return nil, fmt.Errorf("failed to flag car as rented: %w", err)
	}
	return &rental, nil
}

// End deactivates a rental and records the closing rating, comment and
// reason. Unlike Return it does not mark the vehicle as returned. The
// car's occupancy flag is recomputed from the remaining active rentals.
func (s *Service) End(ctx context.Context, id, rating, comment, reason string) (*models.Rental, error) {
	rental, err := s.rentals.FindRentalByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rental.Rating = rating
	rental.Comment = comment
	rental.Reason = reason
	rental.Active = false

	if err := s.rentals.UpdateRental(ctx, id, *rental); err != nil {
		return nil, err
	}
	if err := s.recomputeCarRented(ctx, rental.CarID, nil); err != nil {
		return nil, err
	}
	return rental, nil
}

// Return closes out a rental: the vehicle is back. Marks the rental
// returned and inactive, stamps the return date, stores the rating
// (default "good") and comment, and appends a system note.
func (s *Service) Return(ctx context.Context, id, rating, comment string) (*models.Rental, error) {
	rental, err := s.rentals.FindRentalByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if rating == "" {
		rating = "good"
	}
	rental.Rating = rating
	rental.Comment = comment
	rental.Returned = true
	rental.Active = false
	rental.ReturnDate = now

	s.prependNote(rental, models.Note{
		Content:   "Vehicle returned",
		Author:    "System",
		Timestamp: now,
	})

	if err := s.rentals.UpdateRental(ctx, id, *rental); err != nil {
		return nil, err
	}
	if err := s.recomputeCarRented(ctx, rental.CarID, &now); err != nil {
		return nil, err
	}
	return rental, nil
}

// Extend moves a rental's return date and adds the additional fee to the
// rental fee. An ended or returned rental is reopened, which makes the new
// window subject to the overlap check again. A cleared rental becomes
// visible on the dashboard again.
func (s *Service) Extend(ctx context.Context, id string, newReturnDate time.Time, reason string, additionalFee float64) (*models.Rental, error) {
	rental, err := s.rentals.FindRentalByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !newReturnDate.After(rental.RentalDate) {
		return nil, models.NewValidationError("new return date must be after the rental date")
	}
	if additionalFee < 0 {
		return nil, models.NewValidationError("additional fee must not be negative")
	}

	unlock := s.locks.acquire(rental.CarID)
	defer unlock()

	active, err := s.rentals.FindActiveByCar(ctx, rental.CarID)
	if err != nil {
		return nil, err
	}
	for i := range active {
		if active[i].ID == rental.ID {
			continue
		}
		if active[i].Overlaps(rental.RentalDate, newReturnDate) {
			return nil, ErrBookingConflict
		}
	}

	wasInactive := !rental.Active
	rental.ReturnDate = newReturnDate
	rental.RentalFee += additionalFee
	rental.Active = true
	rental.Returned = false
	rental.ClearedFromDashboard = false

	content := fmt.Sprintf("Rental extended until %s. Additional fee: %.2f.",
		newReturnDate.Format("2006-01-02"), additionalFee)
	if reason != "" {
		content += " Reason: " + reason
	}
	s.prependNote(rental, models.Note{
		Content:   content,
		Author:    "System",
		Timestamp: time.Now(),
	})

	if err := s.rentals.UpdateRental(ctx, id, *rental); err != nil {
		return nil, err
	}
	if wasInactive {
		if err := s.cars.SetRented(ctx, rental.CarID, true, nil); err != nil {
			return nil, fmt.Errorf("failed to flag car as rented: %w", err)
		}
	}
	return rental, nil
}

// AddNote prepends a structured note and mirrors it into the legacy
// free-text field. The write is optimistic-concurrency safe: on a version
// conflict the rental is re-read and the write retried, up to three
// attempts, so two simultaneous note additions cannot clobber each other.
func (s *Service) AddNote(ctx context.Context, id, content, author string) (*models.Rental, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("note content is required")
	}
	if author == "" {
		author = models.DefaultNoteAuthor
	}

	var lastErr error
	for attempt := 0; attempt < noteRetries; attempt++ {
		rental, err := s.rentals.FindRentalByID(ctx, id)
		if err != nil {
			return nil, err
		}

		s.prependNote(rental, models.Note{
			Content:   content,
			Author:    author,
			Timestamp: time.Now(),
		})

		err = s.rentals.UpdateRentalWithVersion(ctx, *rental)
		if err == nil {
			return rental, nil
		}
		if !errors.Is(err, db.ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
		log.WithFields(log.Fields{"rental_id": id, "attempt": attempt + 1}).
			Warn("Note write lost optimistic race, retrying")
	}
	return nil, lastErr
}

// ListNotes returns a rental's structured notes, most recent first. Rentals
// that predate structured notes only carry the legacy free-text field; it
// is parsed best effort and never fails on malformed historical data.
func (s *Service) ListNotes(ctx context.Context, id string) ([]models.Note, error) {
	rental, err := s.rentals.FindRentalByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(rental.Notes) > 0 {
		return rental.Notes, nil
	}
	if rental.Note == "" {
		return []models.Note{}, nil
	}

	// Legacy lines were appended oldest first; flip them to match the
	// most-recent-first contract of the structured list.
	parsed := parseLegacyNote(rental.Note, time.Now())
	for i, j := 0, len(parsed)-1; i < j; i, j = i+1, j-1 {
		parsed[i], parsed[j] = parsed[j], parsed[i]
	}
	return parsed, nil
}

// Clear hides a rental from the live dashboard without deleting or ending
// it.
func (s *Service) Clear(ctx context.Context, id string) (*models.Rental, error) {
	rental, err := s.rentals.FindRentalByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rental.ClearedFromDashboard = true
	if err := s.rentals.UpdateRental(ctx, id, *rental); err != nil {
		return nil, err
	}
	return rental, nil
}

// Delete removes a rental permanently and recomputes the car's occupancy
// flag from the rentals that remain.
func (s *Service) Delete(ctx context.Context, id string) error {
	rental, err := s.rentals.FindRentalByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.rentals.DeleteRental(ctx, id); err != nil {
		return err
	}
	return s.recomputeCarRented(ctx, rental.CarID, nil)
}

// AttachDocuments appends stored document references to a rental.
func (s *Service) AttachDocuments(ctx context.Context, id string, docs []models.Document) (*models.Rental, error) {
	rental, err := s.rentals.FindRentalByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rental.Documents = append(rental.Documents, docs...)
	if err := s.rentals.UpdateRental(ctx, id, *rental); err != nil {
		return nil, err
	}
	return rental, nil
}

// Get returns a rental by ID with its car resolved.
func (s *Service) Get(ctx context.Context, id string) (*models.Rental, error) {
	rental, err := s.rentals.FindRentalByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.resolveCar(ctx, rental)
	return rental, nil
}

// List returns all rentals, active and ended, with cars resolved.
func (s *Service) List(ctx context.Context) ([]models.Rental, error) {
	rentals, err := s.rentals.FindRentals(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	for i := range rentals {
		s.resolveCar(ctx, &rentals[i])
	}
	return rentals, nil
}

// prependNote adds a note at the head of the structured list and mirrors
// it into the legacy field.
func (s *Service) prependNote(rental *models.Rental, note models.Note) {
	rental.Notes = append([]models.Note{note}, rental.Notes...)
	rental.Note = appendLegacyLine(rental.Note, note)
}

// recomputeCarRented derives the car's isRented flag from the remaining
// active rentals instead of flipping it unconditionally, so deleting or
// ending one rental cannot free a car that another active rental still
// occupies.
func (s *Service) recomputeCarRented(ctx context.Context, carID string, lastRented *time.Time) error {
	active, err := s.rentals.FindActiveByCar(ctx, carID)
	if err != nil {
		return err
	}
	if err := s.cars.SetRented(ctx, carID, len(active) > 0, lastRented); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			// The car may have been removed independently; the rental
			// operation itself succeeded.
			log.WithField("car_id", carID).Warn("Car not found while recomputing occupancy")
			return nil
		}
		return err
	}
	return nil
}

// resolveCar populates the response-only Car field. A dangling reference
// leaves the field nil rather than failing the read.
func (s *Service) resolveCar(ctx context.Context, rental *models.Rental) {
	car, err := s.cars.FindCarByID(ctx, rental.CarID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			log.WithError(err).WithField("car_id", rental.CarID).Error("Failed to resolve car")
		}
		return
	}
	rental.Car = car
}
