package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vistamar/club-reservations/internal/domain"
	"github.com/vistamar/club-reservations/internal/repo"
)

type reservationsRepo struct {
	pool *pgxpool.Pool
}

func NewReservationsRepo(pool *pgxpool.Pool) repo.ReservationRepository {
	return &reservationsRepo{pool: pool}
}

const reservationCols = `id, accommodation_id, member_id,
check_in, check_out, guests, status, payment_status, payment_ref,
total_price, confirmation_code, cancel_reason, created_at, updated_at`

func (r *reservationsRepo) Create(ctx context.Context, res *domain.Reservation) error {
	const q = `INSERT INTO reservations (
		id, accommodation_id, member_id,
		check_in, check_out, guests, status, payment_status, payment_ref,
		total_price, confirmation_code, cancel_reason, created_at, updated_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q,
		res.ID, res.AccommodationID, res.MemberID,
		res.CheckIn.Time(), res.CheckOut.Time(), res.Guests,
		res.Status, res.PaymentStatus, nullable(res.PaymentRef),
		res.TotalPrice, res.ConfirmationCode, nullable(res.CancelReason),
		res.CreatedAt, res.UpdatedAt,
	)
	return err
}

func (r *reservationsRepo) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := scanReservation(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *reservationsRepo) ListByMember(ctx context.Context, memberID string, limit, offset int, status *domain.ReservationStatus) ([]domain.Reservation, error) {
	q := `SELECT ` + reservationCols + ` FROM reservations WHERE member_id = $1`
	args := []any{memberID}
	if status != nil {
		q += ` AND status = $2`
		args = append(args, *status)
	}
	q += ` ORDER BY check_in DESC LIMIT $` + itoa(len(args)+1) + ` OFFSET $` + itoa(len(args)+2)
	args = append(args, limit, offset)

	return r.queryMany(ctx, q, args...)
}

func (r *reservationsRepo) List(ctx context.Context, limit, offset int, status *domain.ReservationStatus) ([]domain.Reservation, error) {
	q := `SELECT ` + reservationCols + ` FROM reservations`
	args := []any{}
	if status != nil {
		q += ` WHERE status = $1`
		args = append(args, *status)
	}
	q += ` ORDER BY created_at DESC LIMIT $` + itoa(len(args)+1) + ` OFFSET $` + itoa(len(args)+2)
	args = append(args, limit, offset)

	return r.queryMany(ctx, q, args...)
}

func (r *reservationsRepo) ListForAccommodation(ctx context.Context, accommodationID string, from, to domain.Date) ([]domain.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations
		WHERE accommodation_id = $1 AND check_in < $2 AND check_out > $3
		ORDER BY check_in`

	return r.queryMany(ctx, q, accommodationID, to.Time(), from.Time())
}

func (r *reservationsRepo) Update(ctx context.Context, res *domain.Reservation) error {
	const q = `UPDATE reservations SET
		status = $2, payment_status = $3, payment_ref = $4,
		cancel_reason = $5, updated_at = $6
	WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, q,
		res.ID, res.Status, res.PaymentStatus, nullable(res.PaymentRef),
		nullable(res.CancelReason), res.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (r *reservationsRepo) queryMany(ctx context.Context, q string, args ...any) ([]domain.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var (
		res                      domain.Reservation
		checkIn, checkOut        time.Time
		paymentRef, cancelReason *string
	)
	err := row.Scan(
		&res.ID, &res.AccommodationID, &res.MemberID,
		&checkIn, &checkOut, &res.Guests, &res.Status, &res.PaymentStatus, &paymentRef,
		&res.TotalPrice, &res.ConfirmationCode, &cancelReason, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	res.CheckIn = domain.DateOf(checkIn)
	res.CheckOut = domain.DateOf(checkOut)
	if paymentRef != nil {
		res.PaymentRef = *paymentRef
	}
	if cancelReason != nil {
		res.CancelReason = *cancelReason
	}
	return &res, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
