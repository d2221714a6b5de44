package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RentalType distinguishes an active hire from a forward reservation. The
// two share the same record shape and lifecycle.
type RentalType string

const (
	RentalTypeRental      RentalType = "Rental"
	RentalTypeReservation RentalType = "Reservation"
)

// IsValidRentalType checks if a rental type is valid.
func IsValidRentalType(t RentalType) bool {
	return t == RentalTypeRental || t == RentalTypeReservation
}

// Note is a structured note entry on a rental. The notes list is ordered
// most recent first.
type Note struct {
	Content   string    `bson:"content" json:"content"`
	Author    string    `bson:"author" json:"author"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// DefaultNoteAuthor is used when a note is added without an author.
const DefaultNoteAuthor = "User"

// Rental represents a rental or reservation transaction against a car.
//
// Active and Returned are distinct: a rental can be inactive without being
// returned (e.g. cancelled). ClearedFromDashboard only hides the record
// from the live view. Version is the optimistic-concurrency counter bumped
// on every write.
type Rental struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CarID                string             `bson:"car_id" json:"car_id"`
	Car                  *Car               `bson:"-" json:"car,omitempty"`
	RentalDate           time.Time          `bson:"rental_date" json:"rental_date"`
	ReturnDate           time.Time          `bson:"return_date" json:"return_date"`
	RentalFee            float64            `bson:"rental_fee" json:"rental_fee"`
	CustomerName         string             `bson:"customer_name" json:"customer_name"`
	CustomerReg          string             `bson:"customer_reg" json:"customer_reg"`
	CustomerEmail        string             `bson:"customer_email" json:"customer_email"`
	CustomerNumber       string             `bson:"customer_number" json:"customer_number"`
	RentalType           RentalType         `bson:"rental_type" json:"rental_type"`
	Note                 string             `bson:"note" json:"note"`
	Notes                []Note             `bson:"notes" json:"notes"`
	Rating               string             `bson:"rating" json:"rating"`
	Comment              string             `bson:"comment" json:"comment"`
	Reason               string             `bson:"reason" json:"reason"`
	Active               bool               `bson:"active" json:"active"`
	Returned             bool               `bson:"returned" json:"returned"`
	ClearedFromDashboard bool               `bson:"cleared_from_dashboard" json:"cleared_from_dashboard"`
	Documents            []Document         `bson:"documents" json:"documents"`
	Version              int64              `bson:"version" json:"-"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at" json:"updated_at"`
}

// Overlaps reports whether the rental's half-open window [RentalDate,
// ReturnDate) intersects [start, end). Windows that merely touch do not
// overlap.
func (r *Rental) Overlaps(start, end time.Time) bool {
	return r.RentalDate.Before(end) && r.ReturnDate.After(start)
}
