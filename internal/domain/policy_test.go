package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateDatesAdvanceNotice(t *testing.T) {
	policy := DefaultBookingPolicy()
	today := NewDate(2024, time.January, 15)

	// Same-day check-in is rejected, tomorrow is the first valid day.
	err := policy.ValidateDates(today, today, today.AddDays(2))
	assert.ErrorIs(t, err, ErrTooEarlyCheckIn)

	err = policy.ValidateDates(today, today.AddDays(-3), today.AddDays(2))
	assert.ErrorIs(t, err, ErrTooEarlyCheckIn)

	err = policy.ValidateDates(today, today.AddDays(1), today.AddDays(2))
	assert.NoError(t, err)
}

func TestValidateDatesRange(t *testing.T) {
	policy := DefaultBookingPolicy()
	today := NewDate(2024, time.January, 15)
	checkIn := today.AddDays(1)

	err := policy.ValidateDates(today, checkIn, checkIn)
	assert.ErrorIs(t, err, ErrInvalidRange)

	err = policy.ValidateDates(today, checkIn, checkIn.AddDays(-1))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestValidateDatesMaxStay(t *testing.T) {
	policy := DefaultBookingPolicy()
	today := NewDate(2024, time.January, 15)
	checkIn := today.AddDays(1)

	// Exactly seven nights is the longest allowed stay.
	assert.NoError(t, policy.ValidateDates(today, checkIn, checkIn.AddDays(7)))

	err := policy.ValidateDates(today, checkIn, checkIn.AddDays(8))
	assert.ErrorIs(t, err, ErrMaxStayExceeded)
}

func TestValidateDatesFirstFailureWins(t *testing.T) {
	policy := DefaultBookingPolicy()
	today := NewDate(2024, time.January, 15)

	// Too early and too long at once: the advance-notice rule reports first.
	err := policy.ValidateDates(today, today, today.AddDays(20))
	assert.ErrorIs(t, err, ErrTooEarlyCheckIn)
}

func TestPolicyWindowHelpers(t *testing.T) {
	policy := DefaultBookingPolicy()
	today := NewDate(2024, time.January, 15)

	assert.Equal(t, today.AddDays(1), policy.MinimumCheckInDate(today))

	checkIn := NewDate(2024, time.January, 20)
	assert.Equal(t, checkIn.AddDays(1), policy.EarliestCheckOutFor(checkIn))
	assert.Equal(t, checkIn.AddDays(7), policy.LatestCheckOutFor(checkIn))
}

func TestValidateDatesCustomPolicy(t *testing.T) {
	policy := BookingPolicy{MinAdvanceDays: 3, MaxStayNights: 2}
	today := NewDate(2024, time.January, 15)

	err := policy.ValidateDates(today, today.AddDays(2), today.AddDays(4))
	assert.ErrorIs(t, err, ErrTooEarlyCheckIn)

	assert.NoError(t, policy.ValidateDates(today, today.AddDays(3), today.AddDays(5)))

	err = policy.ValidateDates(today, today.AddDays(3), today.AddDays(6))
	assert.ErrorIs(t, err, ErrMaxStayExceeded)
}
