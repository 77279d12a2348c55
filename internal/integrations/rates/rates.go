// Package rates talks to the accommodation-management service, which
// owns rate tables and the holiday calendar. This core only reads them.
package rates

import (
	"context"

	"github.com/vistamar/club-reservations/internal/domain"
)

type Source interface {
	// Rates returns domain.ErrRateNotFound when the accommodation has no
	// complete rate table. Callers surface that as "pricing unavailable";
	// a price is never guessed.
	Rates(ctx context.Context, accommodationID string) (domain.RateTable, error)
	Holidays(ctx context.Context, year int) (domain.HolidayCalendar, error)
}
