package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vistamar/club-reservations/internal/domain"
	"github.com/vistamar/club-reservations/internal/repo"
)

type billingRepo struct {
	pool *pgxpool.Pool
}

func NewBillingRepo(pool *pgxpool.Pool) repo.BillingRepository {
	return &billingRepo{pool: pool}
}

const billingCols = `id, member_code, companions_count, items, total_amount,
status, gate_keeper_name, access_time, processed_by, processed_at,
notes, cancelled_by, cancel_reason`

func (r *billingRepo) Create(ctx context.Context, rec *domain.CompanionBillingRecord) error {
	const q = `INSERT INTO companion_billing (
		id, member_code, companions_count, items, total_amount,
		status, gate_keeper_name, access_time
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	items, err := json.Marshal(rec.Items)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err = r.pool.Exec(ctx, q,
		rec.ID, rec.MemberCode, rec.CompanionsCount, items, rec.TotalAmount,
		rec.Status, rec.GateKeeperName, rec.AccessTime,
	)
	return err
}

func (r *billingRepo) GetByID(ctx context.Context, id string) (*domain.CompanionBillingRecord, error) {
	const q = `SELECT ` + billingCols + ` FROM companion_billing WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rec, err := scanBillingRecord(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBillingRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *billingRepo) ListPending(ctx context.Context) ([]domain.CompanionBillingRecord, error) {
	const q = `SELECT ` + billingCols + ` FROM companion_billing
		WHERE status = 'pending' ORDER BY access_time`

	return r.queryMany(ctx, q)
}

func (r *billingRepo) ListFinalizedOn(ctx context.Context, day domain.Date) ([]domain.CompanionBillingRecord, error) {
	const q = `SELECT ` + billingCols + ` FROM companion_billing
		WHERE processed_at >= $1 AND processed_at < $2
		ORDER BY processed_at`

	start := day.Time()
	return r.queryMany(ctx, q, start, start.AddDate(0, 0, 1))
}

func (r *billingRepo) Update(ctx context.Context, rec *domain.CompanionBillingRecord) error {
	const q = `UPDATE companion_billing SET
		status = $2, processed_by = $3, processed_at = $4,
		notes = $5, cancelled_by = $6, cancel_reason = $7
	WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, q,
		rec.ID, rec.Status, nullable(rec.ProcessedBy), rec.ProcessedAt,
		nullable(rec.Notes), nullable(rec.CancelledBy), nullable(rec.CancelReason),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBillingRecordNotFound
	}
	return nil
}

func (r *billingRepo) queryMany(ctx context.Context, q string, args ...any) ([]domain.CompanionBillingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.CompanionBillingRecord
	for rows.Next() {
		rec, err := scanBillingRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func scanBillingRecord(row pgx.Row) (*domain.CompanionBillingRecord, error) {
	var (
		rec                       domain.CompanionBillingRecord
		items                     []byte
		processedBy, notes        *string
		cancelledBy, cancelReason *string
	)
	err := row.Scan(
		&rec.ID, &rec.MemberCode, &rec.CompanionsCount, &items, &rec.TotalAmount,
		&rec.Status, &rec.GateKeeperName, &rec.AccessTime, &processedBy, &rec.ProcessedAt,
		&notes, &cancelledBy, &cancelReason,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &rec.Items); err != nil {
		return nil, err
	}
	if processedBy != nil {
		rec.ProcessedBy = *processedBy
	}
	if notes != nil {
		rec.Notes = *notes
	}
	if cancelledBy != nil {
		rec.CancelledBy = *cancelledBy
	}
	if cancelReason != nil {
		rec.CancelReason = *cancelReason
	}
	return &rec, nil
}
