package domain

// Booking policy defaults. The observed rules are one day of advance
// notice and at most seven nights; deployments may override both.
const (
	DefaultMinAdvanceDays = 1
	DefaultMaxStayNights  = 7
)

// BookingPolicy is the single source of truth for date-range rules.
// Date pickers pre-constrain input with the helper methods, but
// ValidateDates is always re-run server-side.
type BookingPolicy struct {
	MinAdvanceDays int
	MaxStayNights  int
}

func DefaultBookingPolicy() BookingPolicy {
	return BookingPolicy{
		MinAdvanceDays: DefaultMinAdvanceDays,
		MaxStayNights:  DefaultMaxStayNights,
	}
}

// MinimumCheckInDate is the earliest bookable check-in relative to today.
func (p BookingPolicy) MinimumCheckInDate(today Date) Date {
	return today.AddDays(p.MinAdvanceDays)
}

// EarliestCheckOutFor is the first valid check-out for a given check-in.
func (p BookingPolicy) EarliestCheckOutFor(checkIn Date) Date {
	return checkIn.AddDays(1)
}

// LatestCheckOutFor is the last valid check-out for a given check-in.
func (p BookingPolicy) LatestCheckOutFor(checkIn Date) Date {
	return checkIn.AddDays(p.MaxStayNights)
}

// ValidateDates applies the booking-window rules in order; the first
// failure wins. Same-day check-in is rejected to leave operational lead
// time, and a stay of exactly MaxStayNights is the longest allowed.
func (p BookingPolicy) ValidateDates(today, checkIn, checkOut Date) error {
	if !checkIn.After(today.AddDays(p.MinAdvanceDays - 1)) {
		return ErrTooEarlyCheckIn
	}
	if !checkOut.After(checkIn) {
		return ErrInvalidRange
	}
	if checkIn.DaysUntil(checkOut) > p.MaxStayNights {
		return ErrMaxStayExceeded
	}
	return nil
}
