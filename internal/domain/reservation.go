package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	StatusPending    ReservationStatus = "pending"
	StatusConfirmed  ReservationStatus = "confirmed"
	StatusCheckedIn  ReservationStatus = "checked_in"
	StatusCheckedOut ReservationStatus = "checked_out"
	StatusCancelled  ReservationStatus = "cancelled"
)

func ParseReservationStatus(s string) (ReservationStatus, bool) {
	switch ReservationStatus(s) {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled:
		return ReservationStatus(s), true
	default:
		return "", false
	}
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// forwardTransitions is the one-step-forward table. Anything not listed
// here (other than cancellation) is an illegal move.
var forwardTransitions = map[ReservationStatus]ReservationStatus{
	StatusPending:   StatusConfirmed,
	StatusConfirmed: StatusCheckedIn,
	StatusCheckedIn: StatusCheckedOut,
}

// Reservation is the booking record. Created once on confirmation of a
// quote, mutated only through the transition methods, never deleted —
// cancellation is a terminal status, not removal.
type Reservation struct {
	ID               string            `json:"id"`
	AccommodationID  string            `json:"accommodationId"`
	MemberID         string            `json:"userId"`
	CheckIn          Date              `json:"checkIn"`
	CheckOut         Date              `json:"checkOut"`
	Guests           int               `json:"guests"`
	Status           ReservationStatus `json:"status"`
	PaymentStatus    PaymentStatus     `json:"paymentStatus"`
	PaymentRef       string            `json:"paymentRef,omitempty"`
	TotalPrice       int64             `json:"totalPrice"`
	ConfirmationCode string            `json:"confirmationCode"`
	CancelReason     string            `json:"cancelReason,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// Nights is the stay length; the check-out date is not a night.
func (r *Reservation) Nights() int {
	return r.CheckIn.DaysUntil(r.CheckOut)
}

func (r *Reservation) IsTerminal() bool {
	return r.Status == StatusCheckedOut || r.Status == StatusCancelled
}

func (r *Reservation) CanBeCancelled() bool {
	return !r.IsTerminal()
}

// Advance moves the reservation exactly one step forward. Skipping a
// step or moving from a terminal state fails with ErrInvalidTransition.
func (r *Reservation) Advance(next ReservationStatus, now time.Time) error {
	if forwardTransitions[r.Status] != next {
		return ErrInvalidTransition
	}
	r.Status = next
	r.UpdatedAt = now
	return nil
}

// Cancel terminates the reservation from any non-terminal state. A paid
// reservation flips its payment status to refunded; the actual transfer
// is the payment collaborator's job, this only records the outcome.
func (r *Reservation) Cancel(reason string, now time.Time) error {
	if strings.TrimSpace(reason) == "" {
		return ErrMissingReason
	}
	if !r.CanBeCancelled() {
		return ErrInvalidTransition
	}
	r.Status = StatusCancelled
	r.CancelReason = reason
	if r.PaymentStatus == PaymentPaid {
		r.PaymentStatus = PaymentRefunded
	}
	r.UpdatedAt = now
	return nil
}

// MarkPaid records a completed payment capture. Only a pending payment
// on a live reservation can become paid.
func (r *Reservation) MarkPaid(paymentRef string, now time.Time) error {
	if r.PaymentStatus != PaymentPending || r.IsTerminal() {
		return ErrInvalidTransition
	}
	r.PaymentStatus = PaymentPaid
	r.PaymentRef = paymentRef
	r.UpdatedAt = now
	return nil
}

const confirmationAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// NewConfirmationCode returns a 6-character human-presentable code.
// Ambiguous glyphs (I, L, O, 0, 1) are excluded from the alphabet.
func NewConfirmationCode() string {
	id := uuid.New()
	code := make([]byte, 6)
	for i := range code {
		code[i] = confirmationAlphabet[int(id[i])%len(confirmationAlphabet)]
	}
	return string(code)
}
