package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vistamar/club-reservations/internal/domain"
	"github.com/vistamar/club-reservations/internal/repo"
)

type calendarRepo struct {
	pool *pgxpool.Pool
}

func NewCalendarRepo(pool *pgxpool.Pool) repo.CalendarRepository {
	return &calendarRepo{pool: pool}
}

func (r *calendarRepo) BlockedDates(ctx context.Context, accommodationID string, year int, month time.Month) (domain.DateSet, error) {
	const q = `SELECT day FROM blocked_dates
		WHERE accommodation_id = $1 AND day >= $2 AND day < $3`

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, accommodationID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := domain.NewDateSet()
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		set.Add(domain.DateOf(day))
	}
	return set, rows.Err()
}
