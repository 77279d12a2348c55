package domain

// RateTable holds the per-night price of one accommodation for each tier.
// Owned by the accommodation-management service; amounts are whole
// currency units and must all be present and non-negative.
type RateTable struct {
	AccommodationID string `json:"accommodationId"`
	Weekday         int64  `json:"weekday"`
	Weekend         int64  `json:"weekend"`
	Holiday         int64  `json:"holiday"`
}

// Valid reports whether the table is usable for pricing. A zero-value
// table (no accommodation id) or any negative rate counts as missing,
// and pricing fails rather than guessing.
func (r RateTable) Valid() bool {
	return r.AccommodationID != "" && r.Weekday >= 0 && r.Weekend >= 0 && r.Holiday >= 0
}

// PriceBreakdown is the per-tier decomposition of a stay price.
// Invariants: the night counts sum to the stay length, each total is
// nights*rate, and TotalPrice is the sum of the three totals.
type PriceBreakdown struct {
	WeekdayNights int   `json:"weekdayDays"`
	WeekendNights int   `json:"weekendDays"`
	HolidayNights int   `json:"holidayDays"`
	WeekdayTotal  int64 `json:"weekdayTotal"`
	WeekendTotal  int64 `json:"weekendTotal"`
	HolidayTotal  int64 `json:"holidayTotal"`
	TotalPrice    int64 `json:"totalPrice"`
}

// Nights returns the number of billed nights in the breakdown.
func (p PriceBreakdown) Nights() int {
	return p.WeekdayNights + p.WeekendNights + p.HolidayNights
}

// CalculateStayPrice prices every night of the half-open interval
// [checkIn, checkOut); the check-out date itself is never billed.
// Returns ErrInvalidRange when the interval is empty or inverted and
// ErrRateNotFound when the rate table is missing or incomplete.
func CalculateStayPrice(checkIn, checkOut Date, rates RateTable, holidays HolidayCalendar) (PriceBreakdown, error) {
	if !checkOut.After(checkIn) {
		return PriceBreakdown{}, ErrInvalidRange
	}
	if !rates.Valid() {
		return PriceBreakdown{}, ErrRateNotFound
	}

	var b PriceBreakdown
	for night := checkIn; night.Before(checkOut); night = night.AddDays(1) {
		switch Classify(night, holidays) {
		case TierHoliday:
			b.HolidayNights++
		case TierWeekend:
			b.WeekendNights++
		default:
			b.WeekdayNights++
		}
	}

	b.WeekdayTotal = int64(b.WeekdayNights) * rates.Weekday
	b.WeekendTotal = int64(b.WeekendNights) * rates.Weekend
	b.HolidayTotal = int64(b.HolidayNights) * rates.Holiday
	b.TotalPrice = b.WeekdayTotal + b.WeekendTotal + b.HolidayTotal
	return b, nil
}
