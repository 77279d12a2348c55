package rates

import (
	"context"
	"time"

	"github.com/vistamar/club-reservations/internal/domain"
)

// Fixture serves the bundled rate tables and the fixed-date Mexican
// public holidays. It doubles as the offline fallback for Client and as
// the primary source when DATA_SOURCE=fixture.
type Fixture struct {
	tables map[string]domain.RateTable
}

func NewFixture() *Fixture {
	f := &Fixture{tables: make(map[string]domain.RateTable)}
	for _, t := range []domain.RateTable{
		{AccommodationID: "1A", Weekday: 100, Weekend: 200, Holiday: 150},
		{AccommodationID: "1B", Weekday: 120, Weekend: 230, Holiday: 180},
		{AccommodationID: "2A", Weekday: 180, Weekend: 320, Holiday: 260},
	} {
		f.tables[t.AccommodationID] = t
	}
	return f
}

func (f *Fixture) Rates(_ context.Context, accommodationID string) (domain.RateTable, error) {
	table, ok := f.tables[accommodationID]
	if !ok {
		return domain.RateTable{}, domain.ErrRateNotFound
	}
	return table, nil
}

func (f *Fixture) Holidays(_ context.Context, year int) (domain.HolidayCalendar, error) {
	md := []struct {
		month time.Month
		day   int
	}{
		{time.January, 1},    // Año Nuevo
		{time.February, 5},   // Día de la Constitución
		{time.March, 21},     // Natalicio de Benito Juárez
		{time.May, 1},        // Día del Trabajo
		{time.September, 16}, // Día de la Independencia
		{time.November, 20},  // Revolución Mexicana
		{time.December, 25},  // Navidad
	}
	days := make([]domain.Date, 0, len(md))
	for _, h := range md {
		days = append(days, domain.NewDate(year, h.month, h.day))
	}
	return domain.NewHolidayCalendar(days...), nil
}
