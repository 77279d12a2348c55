package reservations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vistamar/club-reservations/internal/cache"
	"github.com/vistamar/club-reservations/internal/domain"
	"github.com/vistamar/club-reservations/internal/integrations/rates"
	"github.com/vistamar/club-reservations/internal/mailer"
	"github.com/vistamar/club-reservations/internal/payments"
	"github.com/vistamar/club-reservations/internal/repo"
	"github.com/vistamar/club-reservations/pkg/events"
	"github.com/vistamar/club-reservations/pkg/format"
	"github.com/vistamar/club-reservations/pkg/locks"
	"github.com/vistamar/club-reservations/pkg/logger"
)

type Service interface {
	PolicyWindow(checkIn domain.Date) PolicyWindow
	ValidateDates(checkIn, checkOut domain.Date) error
	Quote(ctx context.Context, accommodationID string, checkIn, checkOut domain.Date) (*Quote, error)
	Create(ctx context.Context, req CreateRequest) (*domain.Reservation, error)
	Get(ctx context.Context, id string) (*domain.Reservation, error)
	ListByMember(ctx context.Context, memberID string, limit, offset int, status *domain.ReservationStatus) ([]domain.Reservation, error)
	List(ctx context.Context, limit, offset int, status *domain.ReservationStatus) ([]domain.Reservation, error)
	Confirm(ctx context.Context, id string) (*domain.Reservation, error)
	CheckIn(ctx context.Context, id string) (*domain.Reservation, error)
	CheckOut(ctx context.Context, id string) (*domain.Reservation, error)
	MarkPaid(ctx context.Context, id, paymentRef string) (*domain.Reservation, error)
	Cancel(ctx context.Context, id, reason string) (*domain.Reservation, error)
	MonthView(ctx context.Context, accommodationID string, year int, month time.Month, sel domain.Selection) (*MonthView, error)
}

// PolicyWindow pre-constrains the UI date pickers. The server-side
// validator remains the source of truth; these are a convenience.
type PolicyWindow struct {
	MinimumCheckIn   domain.Date `json:"minimumCheckIn"`
	EarliestCheckOut domain.Date `json:"earliestCheckOut,omitempty"`
	LatestCheckOut   domain.Date `json:"latestCheckOut,omitempty"`
}

type Quote struct {
	AccommodationID string                `json:"accommodationId"`
	CheckIn         domain.Date           `json:"checkIn"`
	CheckOut        domain.Date           `json:"checkOut"`
	Nights          int                   `json:"nights"`
	Breakdown       domain.PriceBreakdown `json:"breakdown"`
}

type CreateRequest struct {
	AccommodationID string
	MemberID        string
	MemberEmail     string
	CheckIn         domain.Date
	CheckOut        domain.Date
	Guests          int
}

type DayCell struct {
	Date   domain.Date      `json:"date"`
	Status domain.DayStatus `json:"status"`
}

type MonthView struct {
	AccommodationID string     `json:"accommodationId"`
	Year            int        `json:"year"`
	Month           time.Month `json:"month"`
	Days            []DayCell  `json:"days"`
}

type service struct {
	reservations repo.ReservationRepository
	calendar     repo.CalendarRepository
	rates        rates.Source
	quotes       cache.Quoter
	bus          events.Publisher
	processor    payments.Processor
	mail         mailer.Service
	locks        *locks.KeyedMutex
	policy       domain.BookingPolicy
	currency     string
	now          func() time.Time
}

func NewService(
	reservationRepo repo.ReservationRepository,
	calendarRepo repo.CalendarRepository,
	rateSource rates.Source,
	quotes cache.Quoter,
	bus events.Publisher,
	processor payments.Processor,
	mail mailer.Service,
	policy domain.BookingPolicy,
	currency string,
) Service {
	return &service{
		reservations: reservationRepo,
		calendar:     calendarRepo,
		rates:        rateSource,
		quotes:       quotes,
		bus:          bus,
		processor:    processor,
		mail:         mail,
		locks:        locks.NewKeyedMutex(),
		policy:       policy,
		currency:     currency,
		now:          time.Now,
	}
}

func (s *service) today() domain.Date {
	return domain.DateOf(s.now())
}

func (s *service) PolicyWindow(checkIn domain.Date) PolicyWindow {
	w := PolicyWindow{MinimumCheckIn: s.policy.MinimumCheckInDate(s.today())}
	if !checkIn.IsZero() {
		w.EarliestCheckOut = s.policy.EarliestCheckOutFor(checkIn)
		w.LatestCheckOut = s.policy.LatestCheckOutFor(checkIn)
	}
	return w
}

func (s *service) ValidateDates(checkIn, checkOut domain.Date) error {
	return s.policy.ValidateDates(s.today(), checkIn, checkOut)
}

// holidaysFor loads the holiday calendar for every year the stay touches.
func (s *service) holidaysFor(ctx context.Context, checkIn, checkOut domain.Date) (domain.HolidayCalendar, error) {
	cal, err := s.rates.Holidays(ctx, checkIn.Year)
	if err != nil {
		return domain.HolidayCalendar{}, fmt.Errorf("failed to load holidays: %w", err)
	}
	if checkOut.Year != checkIn.Year {
		next, err := s.rates.Holidays(ctx, checkOut.Year)
		if err != nil {
			return domain.HolidayCalendar{}, fmt.Errorf("failed to load holidays: %w", err)
		}
		cal = cal.Union(next)
	}
	return cal, nil
}

func (s *service) price(ctx context.Context, accommodationID string, checkIn, checkOut domain.Date) (domain.PriceBreakdown, error) {
	return s.quotes.Quote(ctx, accommodationID, checkIn, checkOut, func() (domain.PriceBreakdown, error) {
		table, err := s.rates.Rates(ctx, accommodationID)
		if err != nil {
			return domain.PriceBreakdown{}, err
		}
		holidays, err := s.holidaysFor(ctx, checkIn, checkOut)
		if err != nil {
			return domain.PriceBreakdown{}, err
		}
		return domain.CalculateStayPrice(checkIn, checkOut, table, holidays)
	})
}

func (s *service) Quote(ctx context.Context, accommodationID string, checkIn, checkOut domain.Date) (*Quote, error) {
	if err := s.ValidateDates(checkIn, checkOut); err != nil {
		return nil, err
	}

	breakdown, err := s.price(ctx, accommodationID, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	return &Quote{
		AccommodationID: accommodationID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Nights:          breakdown.Nights(),
		Breakdown:       breakdown,
	}, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*domain.Reservation, error) {
	if req.Guests < 1 {
		return nil, fmt.Errorf("at least one guest is required")
	}
	if err := s.ValidateDates(req.CheckIn, req.CheckOut); err != nil {
		return nil, err
	}

	breakdown, err := s.price(ctx, req.AccommodationID, req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	now := s.now()
	res := &domain.Reservation{
		ID:               uuid.NewString(),
		AccommodationID:  req.AccommodationID,
		MemberID:         req.MemberID,
		CheckIn:          req.CheckIn,
		CheckOut:         req.CheckOut,
		Guests:           req.Guests,
		Status:           domain.StatusPending,
		PaymentStatus:    domain.PaymentPending,
		TotalPrice:       breakdown.TotalPrice,
		ConfirmationCode: domain.NewConfirmationCode(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.reservations.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	event := events.ReservationCreatedEvent{
		ReservationID:    res.ID,
		AccommodationID:  res.AccommodationID,
		MemberID:         res.MemberID,
		CheckIn:          res.CheckIn.String(),
		CheckOut:         res.CheckOut.String(),
		Guests:           res.Guests,
		TotalPrice:       res.TotalPrice,
		ConfirmationCode: res.ConfirmationCode,
		CreatedAt:        res.CreatedAt,
	}
	if err := s.bus.Publish(ctx, events.ReservationCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish reservation created event", "error", err, "reservation_id", res.ID)
	}

	if req.MemberEmail != "" {
		stay := fmt.Sprintf("%s — %s",
			format.FormatDateSpanish(res.CheckIn.Time()),
			format.FormatDateSpanish(res.CheckOut.Time()))
		total := format.FormatPrice(res.TotalPrice, s.currency)
		if err := s.mail.SendReservationConfirmation(req.MemberEmail, res.ConfirmationCode, stay, total); err != nil {
			logger.ErrorContext(ctx, "Failed to send confirmation email", "error", err, "reservation_id", res.ID)
		}
	}

	return res, nil
}

func (s *service) Get(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.reservations.GetByID(ctx, id)
}

func (s *service) ListByMember(ctx context.Context, memberID string, limit, offset int, status *domain.ReservationStatus) ([]domain.Reservation, error) {
	return s.reservations.ListByMember(ctx, memberID, limit, offset, status)
}

func (s *service) List(ctx context.Context, limit, offset int, status *domain.ReservationStatus) ([]domain.Reservation, error) {
	return s.reservations.List(ctx, limit, offset, status)
}

func (s *service) Confirm(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.advance(ctx, id, domain.StatusConfirmed, events.ReservationConfirmed)
}

func (s *service) CheckIn(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.advance(ctx, id, domain.StatusCheckedIn, events.ReservationCheckedIn)
}

func (s *service) CheckOut(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.advance(ctx, id, domain.StatusCheckedOut, events.ReservationCheckedOut)
}

// advance serializes the transition per reservation id so the same
// record is never confirmed and cancelled concurrently.
func (s *service) advance(ctx context.Context, id string, next domain.ReservationStatus, subject string) (*domain.Reservation, error) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := res.Advance(next, s.now()); err != nil {
		return nil, err
	}
	if err := s.reservations.Update(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	s.publishStatus(ctx, subject, res)
	return res, nil
}

func (s *service) MarkPaid(ctx context.Context, id, paymentRef string) (*domain.Reservation, error) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := res.MarkPaid(paymentRef, s.now()); err != nil {
		return nil, err
	}
	if err := s.reservations.Update(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	s.publishStatus(ctx, events.ReservationPaid, res)
	return res, nil
}

func (s *service) Cancel(ctx context.Context, id, reason string) (*domain.Reservation, error) {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	wasPaid := res.PaymentStatus == domain.PaymentPaid
	if err := res.Cancel(reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.reservations.Update(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	refunded := res.PaymentStatus == domain.PaymentRefunded
	if wasPaid && refunded {
		if err := s.processor.Refund(ctx, res.PaymentRef, res.TotalPrice, s.currency); err != nil {
			logger.ErrorContext(ctx, "Refund request failed", "error", err, "reservation_id", res.ID)
		}
	}

	event := events.ReservationCanceledEvent{
		ReservationID: res.ID,
		Reason:        reason,
		Refunded:      refunded,
		CanceledAt:    res.UpdatedAt,
	}
	if err := s.bus.Publish(ctx, events.ReservationCanceled, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish reservation canceled event", "error", err, "reservation_id", res.ID)
	}

	return res, nil
}

func (s *service) MonthView(ctx context.Context, accommodationID string, year int, month time.Month, sel domain.Selection) (*MonthView, error) {
	first := domain.NewDate(year, month, 1)
	next := first.AddDays(31)
	next = domain.NewDate(next.Year, next.Month, 1)

	existing, err := s.reservations.ListForAccommodation(ctx, accommodationID, first, next)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations: %w", err)
	}
	blocked, err := s.calendar.BlockedDates(ctx, accommodationID, year, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load blocked dates: %w", err)
	}

	cctx := domain.CalendarContext{
		Year:      year,
		Month:     month,
		Today:     s.today(),
		Selection: sel,
		Reserved:  domain.ReservedNights(existing),
		Blocked:   blocked,
	}

	view := &MonthView{AccommodationID: accommodationID, Year: year, Month: month}
	for d := first; d.Before(next); d = d.AddDays(1) {
		view.Days = append(view.Days, DayCell{Date: d, Status: cctx.DayStatusFor(d)})
	}
	return view, nil
}

func (s *service) publishStatus(ctx context.Context, subject string, res *domain.Reservation) {
	event := events.ReservationStatusEvent{
		ReservationID: res.ID,
		Status:        string(res.Status),
		PaymentStatus: string(res.PaymentStatus),
		OccurredAt:    res.UpdatedAt,
	}
	if err := s.bus.Publish(ctx, subject, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish reservation event", "error", err, "subject", subject, "reservation_id", res.ID)
	}
}
