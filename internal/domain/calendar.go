package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a civil calendar date with no time-of-day and no zone.
// All booking arithmetic runs on these components; converting through a
// zoned time.Time is what produces off-by-one night counts, so the zone
// is stripped at the boundary and never reintroduced.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf extracts the civil date from t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current civil date in local time.
func Today() Date {
	return DateOf(time.Now())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Time returns the date at midnight UTC. Used only for Gregorian
// arithmetic (weekday, day offsets), never exposed with a zone attached.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

// DaysUntil returns the number of days from d to other; negative when
// other precedes d.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time().Sub(d.Time()) / (24 * time.Hour))
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateSet is a membership set of civil dates.
type DateSet map[Date]struct{}

func NewDateSet(dates ...Date) DateSet {
	s := make(DateSet, len(dates))
	for _, d := range dates {
		s[d] = struct{}{}
	}
	return s
}

func (s DateSet) Add(d Date) {
	s[d] = struct{}{}
}

func (s DateSet) Contains(d Date) bool {
	_, ok := s[d]
	return ok
}

// Tier is the pricing category of a single night.
type Tier string

const (
	TierWeekday Tier = "weekday"
	TierWeekend Tier = "weekend"
	TierHoliday Tier = "holiday"
)

// HolidayCalendar lists the dates billed at the holiday rate. Maintained
// by the accommodation-management service; read-only here.
type HolidayCalendar struct {
	dates DateSet
}

func NewHolidayCalendar(dates ...Date) HolidayCalendar {
	return HolidayCalendar{dates: NewDateSet(dates...)}
}

func (h HolidayCalendar) Contains(d Date) bool {
	return h.dates.Contains(d)
}

func (h HolidayCalendar) Len() int {
	return len(h.dates)
}

// Union merges two calendars; used when a stay spans a year boundary.
func (h HolidayCalendar) Union(other HolidayCalendar) HolidayCalendar {
	merged := NewDateSet()
	for d := range h.dates {
		merged.Add(d)
	}
	for d := range other.dates {
		merged.Add(d)
	}
	return HolidayCalendar{dates: merged}
}

// Classify assigns the tariff tier for a single night. A listed holiday
// wins over the weekend rule, so a holiday Saturday bills as holiday.
// Pure function of the date and the calendar.
func Classify(d Date, holidays HolidayCalendar) Tier {
	if holidays.Contains(d) {
		return TierHoliday
	}
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return TierWeekend
	default:
		return TierWeekday
	}
}
