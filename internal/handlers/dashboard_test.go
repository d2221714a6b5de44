package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardActiveRentals(t *testing.T) {
	env := newAPIEnv(t)
	carID := env.addCar(t)
	otherID := env.addCar(t)

	// One ongoing, one past its return date.
	createRental(t, env, carID, -2, 5)
	overdueID := createRental(t, env, otherID, -10, -3)

	rec := env.request(t, http.MethodGet, "/api/rentals/active", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var active []map[string]interface{}
	require.NoError(t, jsonDecode(rec, &active))
	require.Len(t, active, 2)

	byID := map[string]map[string]interface{}{}
	for _, r := range active {
		byID[r["id"].(string)] = r
	}
	require.Contains(t, byID, overdueID)
	assert.Equal(t, true, byID[overdueID]["overdue"])

	for id, r := range byID {
		if id != overdueID {
			assert.Equal(t, false, r["overdue"])
		}
		// Cars come resolved for display.
		assert.NotNil(t, r["car"])
	}
}

func TestDashboardActiveRentals_ExcludesCleared(t *testing.T) {
	env := newAPIEnv(t)
	carID := env.addCar(t)
	rentalID := createRental(t, env, carID, -2, 5)

	rec := env.request(t, http.MethodPost, "/api/rentals/"+rentalID+"/clear", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/rentals/active", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var active []map[string]interface{}
	require.NoError(t, jsonDecode(rec, &active))
	assert.Empty(t, active)

	// Clearing hides the rental but the car stays occupied.
	rec = env.request(t, http.MethodGet, "/api/cars/available", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var available []map[string]interface{}
	require.NoError(t, jsonDecode(rec, &available))
	assert.Empty(t, available)
}

func TestDashboardSummary(t *testing.T) {
	env := newAPIEnv(t)
	rentedID := env.addCar(t)
	env.addCar(t)
	env.addCar(t)

	createRental(t, env, rentedID, 0, 3)

	rec := env.request(t, http.MethodGet, "/api/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	summary := decodeBody(t, rec)
	assert.Equal(t, 3.0, summary["total_cars"])
	assert.Equal(t, 1.0, summary["rented_cars"])
	assert.Equal(t, 2.0, summary["available_cars"])
	assert.Equal(t, 1.0, summary["total_rentals"])
	assert.Equal(t, 1.0, summary["active_rentals"])
	assert.Equal(t, 250.0, summary["monthly_revenue"])
}

func TestDashboardRevenue(t *testing.T) {
	env := newAPIEnv(t)
	carID := env.addCar(t)
	otherID := env.addCar(t)

	createRental(t, env, carID, 0, 2)
	createRental(t, env, otherID, 0, 4)

	rec := env.request(t, http.MethodGet, "/api/dashboard/revenue?period=year", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	revenue := decodeBody(t, rec)
	assert.Equal(t, 500.0, revenue["total"])
	assert.Equal(t, 2.0, revenue["rental_count"])

	rec = env.request(t, http.MethodGet, "/api/dashboard/revenue?period=decade", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "unknown period")
}
