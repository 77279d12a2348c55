// Package repo defines the persistence contracts for the reservation
// core. Two implementations exist: postgres (the real store) and fixture
// (the bundled in-memory data set used when no backend is reachable).
// Which one runs is a configuration decision, not a per-call fallback.
package repo

import (
	"context"
	"time"

	"github.com/vistamar/club-reservations/internal/domain"
)

type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	// GetByID returns domain.ErrReservationNotFound when the id is unknown.
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	ListByMember(ctx context.Context, memberID string, limit, offset int, status *domain.ReservationStatus) ([]domain.Reservation, error)
	List(ctx context.Context, limit, offset int, status *domain.ReservationStatus) ([]domain.Reservation, error)
	// ListForAccommodation returns reservations overlapping [from, to).
	ListForAccommodation(ctx context.Context, accommodationID string, from, to domain.Date) ([]domain.Reservation, error)
	Update(ctx context.Context, r *domain.Reservation) error
}

type BillingRepository interface {
	Create(ctx context.Context, rec *domain.CompanionBillingRecord) error
	// GetByID returns domain.ErrBillingRecordNotFound when the id is unknown.
	GetByID(ctx context.Context, id string) (*domain.CompanionBillingRecord, error)
	ListPending(ctx context.Context) ([]domain.CompanionBillingRecord, error)
	// ListFinalizedOn returns records processed or cancelled on the given day.
	ListFinalizedOn(ctx context.Context, day domain.Date) ([]domain.CompanionBillingRecord, error)
	Update(ctx context.Context, rec *domain.CompanionBillingRecord) error
}

type CalendarRepository interface {
	// BlockedDates returns the explicitly blocked days of one month.
	BlockedDates(ctx context.Context, accommodationID string, year int, month time.Month) (domain.DateSet, error)
}
