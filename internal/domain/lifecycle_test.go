package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLifecycleState(t *testing.T) {
	assert.Equal(t, "no-trip", NoTrip.String())
	assert.Equal(t, "in-progress", InProgress.String())
	assert.Equal(t, "completed", Completed.String())
	assert.Equal(t, "unknown", LifecycleState(9).String())

	assert.True(t, NoTrip.CanStart())
	assert.True(t, Completed.CanStart())
	assert.False(t, InProgress.CanStart())
}

func TestLiveTrip_Elapsed(t *testing.T) {
	start := time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)
	trip := LiveTrip{StartedAt: start}

	assert.Equal(t, 90*time.Second, trip.Elapsed(start.Add(90*time.Second)))
	assert.Equal(t, time.Duration(0), trip.Elapsed(start.Add(-time.Minute)), "clock skew never yields negative time")

	end := start.Add(105 * time.Minute)
	trip.EndedAt = &end
	assert.Equal(t, 105*time.Minute, trip.Elapsed(start.Add(5*time.Hour)), "stopped trips report their fixed duration")
}

func TestManualTripInput_Clear(t *testing.T) {
	in := ManualTripInput{Date: "15-01-2024", Mode: "Car", Distance: "12 km", Purpose: "Work", Notes: "Office"}
	assert.False(t, in.IsEmpty())

	in.Clear()
	assert.True(t, in.IsEmpty())
	assert.Equal(t, ManualTripInput{}, in)
}

func TestAuthContext(t *testing.T) {
	var none *AuthContext
	assert.False(t, none.IsAuthenticated())
	assert.False(t, none.IsAdmin())

	user := &AuthContext{Role: RoleUser, Username: "Kerala User"}
	assert.True(t, user.IsAuthenticated())
	assert.False(t, user.IsAdmin())

	admin := &AuthContext{Role: RoleAdmin, Username: "Administrator"}
	assert.True(t, admin.IsAdmin())

	role, ok := ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, role)
	_, ok = ParseRole("guest")
	assert.False(t, ok)
}
