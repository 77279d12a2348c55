package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vistamar/club-reservations/internal/cache"
	"github.com/vistamar/club-reservations/internal/domain"
	"github.com/vistamar/club-reservations/internal/integrations/rates"
	"github.com/vistamar/club-reservations/internal/repo/fixture"
)

// recorderBus captures published subjects instead of hitting NATS.
type recorderBus struct {
	subjects []string
}

func (b *recorderBus) Publish(_ context.Context, subject string, _ interface{}) error {
	b.subjects = append(b.subjects, subject)
	return nil
}

func (b *recorderBus) Close() error { return nil }

type refundCall struct {
	paymentRef string
	amount     int64
}

type recorderProcessor struct {
	refunds []refundCall
}

func (p *recorderProcessor) Refund(_ context.Context, paymentRef string, amount int64, _ string) error {
	p.refunds = append(p.refunds, refundCall{paymentRef: paymentRef, amount: amount})
	return nil
}

type recorderMailer struct {
	sent int
}

func (m *recorderMailer) SendReservationConfirmation(_, _, _, _ string) error {
	m.sent++
	return nil
}

type testEnv struct {
	svc       Service
	store     *fixture.Store
	bus       *recorderBus
	processor *recorderProcessor
	mail      *recorderMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		store:     fixture.NewStore(),
		bus:       &recorderBus{},
		processor: &recorderProcessor{},
		mail:      &recorderMailer{},
	}

	svc := NewService(
		env.store.Reservations(),
		env.store.Calendar(),
		rates.NewFixture(),
		cache.Passthrough{},
		env.bus,
		env.processor,
		env.mail,
		domain.DefaultBookingPolicy(),
		"MXN",
	).(*service)
	// Pin the clock: "today" is Monday 2024-01-15.
	svc.now = func() time.Time {
		return time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	}
	env.svc = svc

	return env
}

func validCreateRequest() CreateRequest {
	return CreateRequest{
		AccommodationID: "1A",
		MemberID:        "member-1",
		MemberEmail:     "socio@vistamar.local",
		CheckIn:         domain.NewDate(2024, time.January, 16),
		CheckOut:        domain.NewDate(2024, time.January, 18),
		Guests:          2,
	}
}

func TestCreateReservation(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, res.Status)
	assert.Equal(t, domain.PaymentPending, res.PaymentStatus)
	// Two weekday nights on accommodation 1A.
	assert.Equal(t, int64(200), res.TotalPrice)
	assert.Len(t, res.ConfirmationCode, 6)

	stored, err := env.svc.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, stored.ID)

	assert.Equal(t, 1, env.mail.sent)
	assert.Contains(t, env.bus.subjects, "reservation.created")
}

func TestCreateRejectsSameDayCheckIn(t *testing.T) {
	env := newTestEnv(t)

	req := validCreateRequest()
	req.CheckIn = domain.NewDate(2024, time.January, 15)

	_, err := env.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrTooEarlyCheckIn)
}

func TestCreateRejectsUnknownAccommodation(t *testing.T) {
	env := newTestEnv(t)

	req := validCreateRequest()
	req.AccommodationID = "9Z"

	_, err := env.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrRateNotFound)
}

func TestCreateRequiresGuests(t *testing.T) {
	env := newTestEnv(t)

	req := validCreateRequest()
	req.Guests = 0

	_, err := env.svc.Create(context.Background(), req)
	assert.Error(t, err)
}

func TestQuote(t *testing.T) {
	env := newTestEnv(t)

	quote, err := env.svc.Quote(context.Background(), "1A",
		domain.NewDate(2024, time.January, 19),
		domain.NewDate(2024, time.January, 21))
	require.NoError(t, err)

	// Friday night weekday, Saturday night weekend.
	assert.Equal(t, 2, quote.Nights)
	assert.Equal(t, int64(300), quote.Breakdown.TotalPrice)
}

func TestQuoteValidatesDates(t *testing.T) {
	env := newTestEnv(t)

	day := domain.NewDate(2024, time.January, 16)
	_, err := env.svc.Quote(context.Background(), "1A", day, day)
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestLifecycleTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	res, err = env.svc.Confirm(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, res.Status)

	// Confirming twice is an illegal move.
	_, err = env.svc.Confirm(ctx, res.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	res, err = env.svc.CheckIn(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCheckedIn, res.Status)

	res, err = env.svc.CheckOut(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCheckedOut, res.Status)

	assert.Contains(t, env.bus.subjects, "reservation.confirmed")
	assert.Contains(t, env.bus.subjects, "reservation.checked_in")
	assert.Contains(t, env.bus.subjects, "reservation.checked_out")
}

func TestCheckInSkippingConfirmFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	_, err = env.svc.CheckIn(ctx, res.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancelRefundsPaidReservation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	_, err = env.svc.Confirm(ctx, res.ID)
	require.NoError(t, err)
	_, err = env.svc.MarkPaid(ctx, res.ID, "pi_test_001")
	require.NoError(t, err)

	res, err = env.svc.Cancel(ctx, res.ID, "cambio de planes")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, res.Status)
	assert.Equal(t, domain.PaymentRefunded, res.PaymentStatus)
	require.Len(t, env.processor.refunds, 1)
	assert.Equal(t, "pi_test_001", env.processor.refunds[0].paymentRef)
	assert.Equal(t, int64(200), env.processor.refunds[0].amount)
}

func TestCancelUnpaidSkipsRefund(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	_, err = env.svc.Cancel(ctx, res.ID, "cambio de planes")
	require.NoError(t, err)
	assert.Empty(t, env.processor.refunds)
}

func TestCancelRequiresReason(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.svc.Create(ctx, validCreateRequest())
	require.NoError(t, err)

	_, err = env.svc.Cancel(ctx, res.ID, "")
	assert.ErrorIs(t, err, domain.ErrMissingReason)
}

func TestCancelUnknownReservation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Cancel(context.Background(), "missing", "reason")
	assert.ErrorIs(t, err, domain.ErrReservationNotFound)
}

func TestPolicyWindow(t *testing.T) {
	env := newTestEnv(t)

	w := env.svc.PolicyWindow(domain.Date{})
	assert.Equal(t, domain.NewDate(2024, time.January, 16), w.MinimumCheckIn)
	assert.True(t, w.EarliestCheckOut.IsZero())

	checkIn := domain.NewDate(2024, time.January, 20)
	w = env.svc.PolicyWindow(checkIn)
	assert.Equal(t, domain.NewDate(2024, time.January, 21), w.EarliestCheckOut)
	assert.Equal(t, domain.NewDate(2024, time.January, 27), w.LatestCheckOut)
}

func TestMonthView(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.store.BlockDate("1A", domain.NewDate(2024, time.January, 25))

	req := validCreateRequest()
	req.CheckIn = domain.NewDate(2024, time.January, 20)
	req.CheckOut = domain.NewDate(2024, time.January, 22)
	res, err := env.svc.Create(ctx, req)
	require.NoError(t, err)
	_, err = env.svc.Confirm(ctx, res.ID)
	require.NoError(t, err)

	view, err := env.svc.MonthView(ctx, "1A", 2024, time.January, domain.Selection{})
	require.NoError(t, err)

	require.Len(t, view.Days, 31)
	byDate := make(map[domain.Date]domain.DayStatus, len(view.Days))
	for _, cell := range view.Days {
		byDate[cell.Date] = cell.Status
	}

	assert.Equal(t, domain.DayReserved, byDate[domain.NewDate(2024, time.January, 20)])
	assert.Equal(t, domain.DayReserved, byDate[domain.NewDate(2024, time.January, 21)])
	assert.Equal(t, domain.DayAvailable, byDate[domain.NewDate(2024, time.January, 22)])
	assert.Equal(t, domain.DayBlocked, byDate[domain.NewDate(2024, time.January, 25)])
	assert.Equal(t, domain.DayPast, byDate[domain.NewDate(2024, time.January, 14)])
	assert.Equal(t, domain.DayAvailable, byDate[domain.NewDate(2024, time.January, 15)])
}

func TestMonthViewPendingDoesNotBlock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := validCreateRequest()
	req.CheckIn = domain.NewDate(2024, time.January, 20)
	req.CheckOut = domain.NewDate(2024, time.January, 22)
	_, err := env.svc.Create(ctx, req)
	require.NoError(t, err)

	view, err := env.svc.MonthView(ctx, "1A", 2024, time.January, domain.Selection{})
	require.NoError(t, err)

	for _, cell := range view.Days {
		if cell.Date == domain.NewDate(2024, time.January, 20) {
			assert.Equal(t, domain.DayAvailable, cell.Status)
		}
	}
}
