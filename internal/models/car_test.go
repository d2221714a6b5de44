package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCarLabel(t *testing.T) {
	tests := []struct {
		name string
		car  Car
		want string
	}{
		{
			"with registration",
			Car{Make: "Toyota", Model: "Corolla", Year: 2020, Registration: "ZG-100-AA"},
			"Toyota Corolla (ZG-100-AA)",
		},
		{
			"year fallback",
			Car{Make: "Toyota", Model: "Corolla", Year: 2020},
			"Toyota Corolla (2020)",
		},
		{
			"make and model only",
			Car{Make: "Toyota", Model: "Corolla"},
			"Toyota Corolla",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.car.Label())
		})
	}
}

func TestCarMaintenanceDates(t *testing.T) {
	service := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	tax := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

	car := Car{ServiceDue: &service, TaxDate: &tax}
	dates := car.MaintenanceDates()

	assert.Len(t, dates, 2)
	assert.Equal(t, service, dates[CarReminderService])
	assert.Equal(t, tax, dates[CarReminderTax])

	empty := Car{}
	assert.Empty(t, empty.MaintenanceDates())
}
