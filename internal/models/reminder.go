package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReminderType classifies what a standalone reminder is about.
type ReminderType string

const (
	ReminderTypeCar      ReminderType = "car"
	ReminderTypeBusiness ReminderType = "business"
	ReminderTypeOther    ReminderType = "other"
)

// IsValidReminderType checks if a reminder type is valid.
func IsValidReminderType(t ReminderType) bool {
	switch t {
	case ReminderTypeCar, ReminderTypeBusiness, ReminderTypeOther:
		return true
	default:
		return false
	}
}

// ReminderCategory is the fine-grained reminder category.
type ReminderCategory string

const (
	CategoryService      ReminderCategory = "service"
	CategoryTax          ReminderCategory = "tax"
	CategoryInsurance    ReminderCategory = "insurance"
	CategoryTireChange   ReminderCategory = "tireChange"
	CategoryRegistration ReminderCategory = "registration"
	CategoryMeeting      ReminderCategory = "meeting"
	CategoryPayment      ReminderCategory = "payment"
	CategoryCustom       ReminderCategory = "custom"
)

// IsValidCategory checks if a reminder category is valid.
func IsValidCategory(c ReminderCategory) bool {
	switch c {
	case CategoryService, CategoryTax, CategoryInsurance, CategoryTireChange,
		CategoryRegistration, CategoryMeeting, CategoryPayment, CategoryCustom:
		return true
	default:
		return false
	}
}

// Priority is the reminder priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValidPriority checks if a priority is valid.
func IsValidPriority(p Priority) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// RelatedType identifies which entity a reminder references, if any. A
// reminder may reference a car or a rental, never both.
type RelatedType string

const (
	RelatedNone   RelatedType = ""
	RelatedCar    RelatedType = "car"
	RelatedRental RelatedType = "rental"
)

// DueStatus is the classification of a reminder relative to a point in time.
type DueStatus string

const (
	DueCompleted DueStatus = "Completed"
	DueOverdue   DueStatus = "Overdue"
	DueUrgent    DueStatus = "Urgent"
	DuePending   DueStatus = "Pending"
)

// CarSummary is the subset of car fields attached to car-linked reminders
// in API responses.
type CarSummary struct {
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Registration string `json:"registration"`
}

// Reminder is a standalone due-date item, optionally linked to a car or a
// rental.
type Reminder struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Date        time.Time          `bson:"date" json:"date"`
	Type        ReminderType       `bson:"type" json:"type"`
	Category    ReminderCategory   `bson:"category" json:"category"`
	Priority    Priority           `bson:"priority" json:"priority"`
	Completed   bool               `bson:"completed" json:"completed"`
	CompletedAt *time.Time         `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	RelatedType RelatedType        `bson:"related_type" json:"related_type"`
	RelatedTo   string             `bson:"related_to" json:"related_to"`
	Notes       string             `bson:"notes" json:"notes"`
	CreatedBy   string             `bson:"created_by" json:"created_by"`
	CarDetails  *CarSummary        `bson:"-" json:"car_details,omitempty"`
	DaysLeft    *int               `bson:"-" json:"days_remaining,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
