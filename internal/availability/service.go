package availability

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/car-rental-admin/internal/db"
	"github.com/ukydev/car-rental-admin/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Service is the read-only availability and dashboard aggregator. It owns
// no state of its own; it cross-references the rental ledger against the
// car registry.
//
// The active flag is authoritative for occupancy. The date window is
// advisory and only feeds the overdue classification: active/returned are
// explicit state transitions while a window is static data.
type Service struct {
	cars    db.CarCollection
	rentals db.RentalCollection
}

// NewService creates an availability aggregator.
func NewService(cars db.CarCollection, rentals db.RentalCollection) *Service {
	return &Service{cars: cars, rentals: rentals}
}

// ActiveRentals returns all live rentals shown on the dashboard: active
// and not cleared, with cars resolved.
func (s *Service) ActiveRentals(ctx context.Context) ([]models.Rental, error) {
	rentals, err := s.rentals.FindRentals(ctx, bson.M{
		"active":                 true,
		"cleared_from_dashboard": false,
	})
	if err != nil {
		return nil, err
	}
	for i := range rentals {
		s.resolveCar(ctx, &rentals[i])
	}
	return rentals, nil
}

// AvailableCars returns every car not referenced by an active rental.
// Clearing a rental from the dashboard does not free its car; only ending
// or returning does.
func (s *Service) AvailableCars(ctx context.Context) ([]models.Car, error) {
	occupied, err := s.occupiedCarIDs(ctx)
	if err != nil {
		return nil, err
	}

	cars, err := s.cars.FindCars(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	available := make([]models.Car, 0, len(cars))
	for _, car := range cars {
		if !occupied[car.ID.Hex()] {
			available = append(available, car)
		}
	}
	return available, nil
}

// Overdue reports whether a rental is past its agreed return date without
// having been returned.
func Overdue(r *models.Rental, asOf time.Time) bool {
	return r.Active && !r.Returned && asOf.After(r.ReturnDate)
}

// RevenueSummary is the fee rollup for a period. Single currency; no
// conversion.
type RevenueSummary struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Total float64   `json:"total"`
	Count int       `json:"rental_count"`
}

// RevenueBetween sums rental fees over rentals whose rentalDate falls in
// [start, end).
func (s *Service) RevenueBetween(ctx context.Context, start, end time.Time) (*RevenueSummary, error) {
	rentals, err := s.rentals.FindRentals(ctx, bson.M{
		"rental_date": bson.M{"$gte": start, "$lt": end},
	})
	if err != nil {
		return nil, err
	}

	summary := &RevenueSummary{Start: start, End: end}
	for _, r := range rentals {
		summary.Total += r.RentalFee
		summary.Count++
	}
	return summary, nil
}

// PeriodRange resolves a named period to a half-open [start, end) window
// containing the reference time. Supported periods: month, quarter, year.
func PeriodRange(period string, now time.Time) (time.Time, time.Time, error) {
	switch period {
	case "month":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0), nil
	case "quarter":
		quarterStart := time.Month((int(now.Month())-1)/3*3 + 1)
		start := time.Date(now.Year(), quarterStart, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 3, 0), nil
	case "year":
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, time.Time{}, models.NewValidationError("unknown period: " + period)
	}
}

// Summary is the dashboard rollup of fleet and activity counts.
type Summary struct {
	TotalCars      int64   `json:"total_cars"`
	RentedCars     int     `json:"rented_cars"`
	AvailableCars  int     `json:"available_cars"`
	TotalRentals   int64   `json:"total_rentals"`
	ActiveRentals  int64   `json:"active_rentals"`
	MonthlyRevenue float64 `json:"monthly_revenue"`
}

// Summarize computes the dashboard counters and the current month's
// revenue.
func (s *Service) Summarize(ctx context.Context, now time.Time) (*Summary, error) {
	totalCars, err := s.cars.CountCars(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	totalRentals, err := s.rentals.CountRentals(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	activeRentals, err := s.rentals.CountRentals(ctx, bson.M{"active": true})
	if err != nil {
		return nil, err
	}

	occupied, err := s.occupiedCarIDs(ctx)
	if err != nil {
		return nil, err
	}

	start, end, err := PeriodRange("month", now)
	if err != nil {
		return nil, err
	}
	revenue, err := s.RevenueBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalCars:      totalCars,
		RentedCars:     len(occupied),
		AvailableCars:  int(totalCars) - len(occupied),
		TotalRentals:   totalRentals,
		ActiveRentals:  activeRentals,
		MonthlyRevenue: revenue.Total,
	}, nil
}

// occupiedCarIDs returns the set of car IDs referenced by active rentals.
func (s *Service) occupiedCarIDs(ctx context.Context) (map[string]bool, error) {
	active, err := s.rentals.FindRentals(ctx, bson.M{"active": true})
	if err != nil {
		return nil, err
	}
	occupied := make(map[string]bool, len(active))
	for _, r := range active {
		occupied[r.CarID] = true
	}
	return occupied, nil
}

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
