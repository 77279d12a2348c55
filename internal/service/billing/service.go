package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vistamar/club-reservations/internal/domain"
	"github.com/vistamar/club-reservations/internal/repo"
	"github.com/vistamar/club-reservations/pkg/events"
	"github.com/vistamar/club-reservations/pkg/locks"
	"github.com/vistamar/club-reservations/pkg/logger"
)

type Service interface {
	RecordGateEntry(ctx context.Context, req GateEntryRequest) (*domain.CompanionBillingRecord, error)
	Process(ctx context.Context, id, processedBy, notes string) (*domain.CompanionBillingRecord, error)
	Cancel(ctx context.Context, id, cancelledBy, reason string) (*domain.CompanionBillingRecord, error)
	Pending(ctx context.Context) ([]domain.CompanionBillingRecord, error)
	Stats(ctx context.Context) (domain.BillingStats, error)
}

// GateEntryRequest is the gate event: a member entered with paying
// companions and the gatekeeper registered the charges.
type GateEntryRequest struct {
	MemberCode      string
	CompanionsCount int
	Items           []domain.BillingItem
	GateKeeperName  string
	AccessTime      time.Time
}

type service struct {
	records repo.BillingRepository
	bus     events.Publisher
	locks   *locks.KeyedMutex
	now     func() time.Time
}

func NewService(records repo.BillingRepository, bus events.Publisher) Service {
	return &service{
		records: records,
		bus:     bus,
		locks:   locks.NewKeyedMutex(),
		now:     time.Now,
	}
}

func (s *service) RecordGateEntry(ctx context.Context, req GateEntryRequest) (*domain.CompanionBillingRecord, error) {
	if req.MemberCode == "" {
		return nil, fmt.Errorf("member code is required")
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("at least one billing item is required")
	}

	accessTime := req.AccessTime
	if accessTime.IsZero() {
		accessTime = s.now()
	}

	rec := &domain.CompanionBillingRecord{
		ID:              uuid.NewString(),
		MemberCode:      req.MemberCode,
		CompanionsCount: req.CompanionsCount,
		Items:           req.Items,
		Status:          domain.BillingPending,
		GateKeeperName:  req.GateKeeperName,
		AccessTime:      accessTime,
	}
	rec.TotalAmount = rec.ItemsTotal()

	if err := s.records.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create billing record: %w", err)
	}

	event := events.BillingRecordedEvent{
		RecordID:        rec.ID,
		MemberCode:      rec.MemberCode,
		CompanionsCount: rec.CompanionsCount,
		TotalAmount:     rec.TotalAmount,
		GateKeeperName:  rec.GateKeeperName,
		AccessTime:      rec.AccessTime,
	}
	if err := s.bus.Publish(ctx, events.BillingRecorded, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish billing recorded event", "error", err, "record_id", rec.ID)
	}

	return rec, nil
}

// Process finalizes a pending record. The per-id lock plus the
// pending-only transition make a double submission fail cleanly on the
// second attempt instead of billing the gate event twice.
func (s *service) Process(ctx context.Context, id, processedBy, notes string) (*domain.CompanionBillingRecord, error) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rec.Process(processedBy, notes, s.now()); err != nil {
		return nil, err
	}
	if err := s.records.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to update billing record: %w", err)
	}

	event := events.BillingProcessedEvent{
		RecordID:    rec.ID,
		ProcessedBy: processedBy,
		TotalAmount: rec.TotalAmount,
		ProcessedAt: *rec.ProcessedAt,
	}
	if err := s.bus.Publish(ctx, events.BillingProcessed, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish billing processed event", "error", err, "record_id", rec.ID)
	}

	return rec, nil
}

func (s *service) Cancel(ctx context.Context, id, cancelledBy, reason string) (*domain.CompanionBillingRecord, error) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := rec.Cancel(cancelledBy, reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.records.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to update billing record: %w", err)
	}

	event := events.BillingCanceledEvent{
		RecordID:    rec.ID,
		CancelledBy: cancelledBy,
		Reason:      reason,
		CanceledAt:  s.now(),
	}
	if err := s.bus.Publish(ctx, events.BillingCanceled, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish billing canceled event", "error", err, "record_id", rec.ID)
	}

	return rec, nil
}

func (s *service) Pending(ctx context.Context) ([]domain.CompanionBillingRecord, error) {
	return s.records.ListPending(ctx)
}

// Stats recomputes the dashboard aggregates from the record set on
// every call; there are no stored counters to drift.
func (s *service) Stats(ctx context.Context) (domain.BillingStats, error) {
	today := domain.DateOf(s.now())

	pending, err := s.records.ListPending(ctx)
	if err != nil {
		return domain.BillingStats{}, err
	}
	finalized, err := s.records.ListFinalizedOn(ctx, today)
	if err != nil {
		return domain.BillingStats{}, err
	}

	return domain.ComputeBillingStats(append(pending, finalized...), today), nil
}
