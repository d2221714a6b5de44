package reminder

import (
	"math"
	"time"

	"github.com/ukydev/car-rental-admin/internal/models"
)

// Urgency classification thresholds, in days. These drive the fleet-health
// indicator and must stay aligned with the dashboard's color coding.
const (
	dangerThresholdDays  = 7
	warningThresholdDays = 30
)

// Urgency levels for a car's nearest maintenance date.
const (
	UrgencyOK      = "ok"
	UrgencyWarning = "warning"
	UrgencyDanger  = "danger"
)

// DueStatus classifies a reminder relative to asOf: Completed, Overdue,
// Urgent (due within 7 days) or Pending.
func DueStatus(r *models.Reminder, asOf time.Time) models.DueStatus {
	if r.Completed {
		return models.DueCompleted
	}
	if asOf.After(r.Date) {
		return models.DueOverdue
	}
	if daysUntil(asOf, r.Date) <= dangerThresholdDays {
		return models.DueUrgent
	}
	return models.DuePending
}

// UrgencyColor classifies a car by its closest reminder-bearing date:
// the typed maintenance dates, the custom reminder, and any uncompleted
// embedded reminders. The minimum days-until-due wins. No dates at all is
// "ok"; overdue or within 7 days is "danger"; within 30 days is "warning".
func UrgencyColor(car *models.Car, asOf time.Time) string {
	earliest := 0
	found := false

	consider := func(date time.Time) {
		days := daysUntil(asOf, date)
		if !found || days < earliest {
			earliest = days
			found = true
		}
	}

	for _, date := range car.MaintenanceDates() {
		consider(date)
	}
	if car.CustomReminder != nil && car.CustomReminder.Date != nil {
		consider(*car.CustomReminder.Date)
	}
	for _, r := range car.Reminders {
		if !r.Completed {
			consider(r.Date)
		}
	}

	switch {
	case !found:
		return UrgencyOK
	case earliest <= dangerThresholdDays:
		return UrgencyDanger
	case earliest <= warningThresholdDays:
		return UrgencyWarning
	default:
		return UrgencyOK
	}
}

// daysUntil counts whole days from asOf to the date, rounding up so a date
// later today counts as due in 0 days and tomorrow as 1. Past dates come
// out negative.
func daysUntil(asOf, date time.Time) int {
	return int(math.Ceil(date.Sub(asOf).Hours() / 24))
}
