// Package fixture is the in-memory implementation of the repository
// contracts. It backs the portal when DATA_SOURCE=fixture is configured
// (local development, demos, or a backend outage drill) and behaves like
// the real store: copies out on every read so callers never observe a
// half-applied write.
package fixture

import (
	"context"
	"sync"
	"time"

	"github.com/vistamar/club-reservations/internal/domain"
	"github.com/vistamar/club-reservations/internal/repo"
)

type Store struct {
	mu           sync.RWMutex
	reservations map[string]*domain.Reservation
	billing      map[string]*domain.CompanionBillingRecord
	blocked      map[string]domain.DateSet // accommodation id -> blocked days
}

func NewStore() *Store {
	return &Store{
		reservations: make(map[string]*domain.Reservation),
		billing:      make(map[string]*domain.CompanionBillingRecord),
		blocked:      make(map[string]domain.DateSet),
	}
}

func (s *Store) Reservations() repo.ReservationRepository { return reservationsView{s} }
func (s *Store) Billing() repo.BillingRepository          { return billingView{s} }
func (s *Store) Calendar() repo.CalendarRepository        { return calendarView{s} }

// BlockDate marks a day unavailable; used by the seed data.
func (s *Store) BlockDate(accommodationID string, d domain.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.blocked[accommodationID]
	if !ok {
		set = domain.NewDateSet()
		s.blocked[accommodationID] = set
	}
	set.Add(d)
}

// --- ReservationRepository ---

type reservationsView struct{ s *Store }

func (v reservationsView) Create(_ context.Context, r *domain.Reservation) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	cp := *r
	v.s.reservations[r.ID] = &cp
	return nil
}

func (v reservationsView) GetByID(_ context.Context, id string) (*domain.Reservation, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	r, ok := v.s.reservations[id]
	if !ok {
		return nil, domain.ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (v reservationsView) ListByMember(_ context.Context, memberID string, limit, offset int, status *domain.ReservationStatus) ([]domain.Reservation, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []domain.Reservation
	for _, r := range v.s.reservations {
		if r.MemberID != memberID {
			continue
		}
		if status != nil && r.Status != *status {
			continue
		}
		out = append(out, *r)
	}
	return page(out, limit, offset), nil
}

func (v reservationsView) List(_ context.Context, limit, offset int, status *domain.ReservationStatus) ([]domain.Reservation, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []domain.Reservation
	for _, r := range v.s.reservations {
		if status != nil && r.Status != *status {
			continue
		}
		out = append(out, *r)
	}
	return page(out, limit, offset), nil
}

func (v reservationsView) ListForAccommodation(_ context.Context, accommodationID string, from, to domain.Date) ([]domain.Reservation, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []domain.Reservation
	for _, r := range v.s.reservations {
		if r.AccommodationID != accommodationID {
			continue
		}
		if !r.CheckIn.Before(to) || !from.Before(r.CheckOut) {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (v reservationsView) Update(_ context.Context, r *domain.Reservation) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if _, ok := v.s.reservations[r.ID]; !ok {
		return domain.ErrReservationNotFound
	}
	cp := *r
	v.s.reservations[r.ID] = &cp
	return nil
}

// --- BillingRepository ---

type billingView struct{ s *Store }

func (v billingView) Create(_ context.Context, rec *domain.CompanionBillingRecord) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	cp := *rec
	v.s.billing[rec.ID] = &cp
	return nil
}

func (v billingView) GetByID(_ context.Context, id string) (*domain.CompanionBillingRecord, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	rec, ok := v.s.billing[id]
	if !ok {
		return nil, domain.ErrBillingRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (v billingView) ListPending(_ context.Context) ([]domain.CompanionBillingRecord, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []domain.CompanionBillingRecord
	for _, rec := range v.s.billing {
		if rec.Status == domain.BillingPending {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (v billingView) ListFinalizedOn(_ context.Context, day domain.Date) ([]domain.CompanionBillingRecord, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	var out []domain.CompanionBillingRecord
	for _, rec := range v.s.billing {
		if rec.ProcessedAt != nil && domain.DateOf(*rec.ProcessedAt) == day {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (v billingView) Update(_ context.Context, rec *domain.CompanionBillingRecord) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if _, ok := v.s.billing[rec.ID]; !ok {
		return domain.ErrBillingRecordNotFound
	}
	cp := *rec
	v.s.billing[rec.ID] = &cp
	return nil
}

// --- CalendarRepository ---

type calendarView struct{ s *Store }

func (v calendarView) BlockedDates(_ context.Context, accommodationID string, year int, month time.Month) (domain.DateSet, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	out := domain.NewDateSet()
	for d := range v.s.blocked[accommodationID] {
		if d.Year == year && d.Month == month {
			out.Add(d)
		}
	}
	return out, nil
}

func page(items []domain.Reservation, limit, offset int) []domain.Reservation {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
