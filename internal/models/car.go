package models

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Owner holds contact details for the registered owner of a car.
type Owner struct {
	Name    string `bson:"name" json:"name"`
	Contact string `bson:"contact" json:"contact"`
	Email   string `bson:"email" json:"email"`
}

// CustomReminder is a free-form reminder attached directly to a car.
type CustomReminder struct {
	Message string     `bson:"message" json:"message"`
	Date    *time.Time `bson:"date,omitempty" json:"date,omitempty"`
}

// CarReminderType identifies which maintenance date a car reminder tracks.
type CarReminderType string

const (
	CarReminderService      CarReminderType = "service"
	CarReminderTax          CarReminderType = "tax"
	CarReminderInsurance    CarReminderType = "insurance"
	CarReminderTireChange   CarReminderType = "tireChange"
	CarReminderRegistration CarReminderType = "registration"
	CarReminderCustom       CarReminderType = "custom"
)

// CarReminder is a maintenance reminder embedded in a car record. Entries
// for the standard types are kept in sync with the car's maintenance dates.
type CarReminder struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type      CarReminderType    `bson:"type" json:"type"`
	Date      time.Time          `bson:"date" json:"date"`
	Message   string             `bson:"message" json:"message"`
	Completed bool               `bson:"completed" json:"completed"`
}

// Car represents a vehicle in the rental fleet.
type Car struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Make             string             `bson:"make" json:"make"`
	Model            string             `bson:"model" json:"model"`
	Year             int                `bson:"year" json:"year"`
	Mileage          int                `bson:"mileage" json:"mileage"`
	Registration     string             `bson:"registration" json:"registration"`
	Owner            Owner              `bson:"owner" json:"owner"`
	Notes            string             `bson:"notes" json:"notes"`
	ServiceDue       *time.Time         `bson:"service_due,omitempty" json:"service_due,omitempty"`
	TaxDate          *time.Time         `bson:"tax_date,omitempty" json:"tax_date,omitempty"`
	InsuranceDate    *time.Time         `bson:"insurance_date,omitempty" json:"insurance_date,omitempty"`
	TireChangeDate   *time.Time         `bson:"tire_change_date,omitempty" json:"tire_change_date,omitempty"`
	RegistrationDate *time.Time         `bson:"registration_date,omitempty" json:"registration_date,omitempty"`
	CustomReminder   *CustomReminder    `bson:"custom_reminder,omitempty" json:"custom_reminder,omitempty"`
	IsRented         bool               `bson:"is_rented" json:"is_rented"`
	LastRented       *time.Time         `bson:"last_rented,omitempty" json:"last_rented,omitempty"`
	Documents        []Document         `bson:"documents" json:"documents"`
	Reminders        []CarReminder      `bson:"reminders" json:"reminders"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

// Label returns the human-readable identifier used in reminder messages,
// e.g. "Ford Focus (AB12 CDE)".
func (c *Car) Label() string {
	id := c.Registration
	if id == "" && c.Year != 0 {
		id = strconv.Itoa(c.Year)
	}
	if id == "" {
		return c.Make + " " + c.Model
	}
	return c.Make + " " + c.Model + " (" + id + ")"
}

// MaintenanceDates returns the car's typed maintenance dates keyed by
// reminder type. Nil dates are omitted.
func (c *Car) MaintenanceDates() map[CarReminderType]time.Time {
	dates := make(map[CarReminderType]time.Time)
	if c.ServiceDue != nil {
		dates[CarReminderService] = *c.ServiceDue
	}
	if c.TaxDate != nil {
		dates[CarReminderTax] = *c.TaxDate
	}
	if c.InsuranceDate != nil {
		dates[CarReminderInsurance] = *c.InsuranceDate
	}
	if c.TireChangeDate != nil {
		dates[CarReminderTireChange] = *c.TireChangeDate
	}
	if c.RegistrationDate != nil {
		dates[CarReminderRegistration] = *c.RegistrationDate
	}
	return dates
}
