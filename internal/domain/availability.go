package domain

import "time"

// DayStatus is the display status of one calendar cell. It is derived
// fresh per render and never stored.
type DayStatus string

const (
	DayAvailable        DayStatus = "available"
	DayReserved         DayStatus = "reserved"
	DayBlocked          DayStatus = "blocked"
	DaySelectedEndpoint DayStatus = "selected-endpoint"
	DaySelectedRange    DayStatus = "selected-range"
	DayPast             DayStatus = "past"
	DayOtherMonth       DayStatus = "other-month"
)

// Selection is the user's in-progress date pick. Either endpoint may be
// zero while the user is still choosing.
type Selection struct {
	CheckIn  Date
	CheckOut Date
}

func (s Selection) isEndpoint(d Date) bool {
	return (!s.CheckIn.IsZero() && d == s.CheckIn) || (!s.CheckOut.IsZero() && d == s.CheckOut)
}

func (s Selection) contains(d Date) bool {
	if s.CheckIn.IsZero() || s.CheckOut.IsZero() {
		return false
	}
	return d.After(s.CheckIn) && d.Before(s.CheckOut)
}

// CalendarContext is everything one month grid needs to resolve a cell:
// the displayed month, today, the current selection, the nights covered
// by live reservations, and the explicitly blocked days.
type CalendarContext struct {
	Year      int
	Month     time.Month
	Today     Date
	Selection Selection
	Reserved  DateSet
	Blocked   DateSet
}

// DayStatusFor resolves one cell. The precedence is fixed — first match
// wins — so a date that is simultaneously past and blocked always renders
// the same way:
//
//	selected endpoint > selected range > reserved > blocked > past > other-month > available
func (c CalendarContext) DayStatusFor(d Date) DayStatus {
	switch {
	case c.Selection.isEndpoint(d):
		return DaySelectedEndpoint
	case c.Selection.contains(d):
		return DaySelectedRange
	case c.Reserved.Contains(d):
		return DayReserved
	case c.Blocked.Contains(d):
		return DayBlocked
	case d.Before(c.Today):
		return DayPast
	case d.Year != c.Year || d.Month != c.Month:
		return DayOtherMonth
	default:
		return DayAvailable
	}
}

// ReservedNights collects every night [checkIn, checkOut) of reservations
// that hold their dates (confirmed or checked-in). Pending quotes and
// finished or cancelled stays do not block the calendar.
func ReservedNights(reservations []Reservation) DateSet {
	set := NewDateSet()
	for i := range reservations {
		r := &reservations[i]
		if r.Status != StatusConfirmed && r.Status != StatusCheckedIn {
			continue
		}
		for night := r.CheckIn; night.Before(r.CheckOut); night = night.AddDays(1) {
			set.Add(night)
		}
	}
	return set
}
