package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/vistamar/club-reservations/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
	ID        string
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// NopBus discards events; used when NATS is disabled in configuration.
type NopBus struct{}

func (NopBus) Publish(context.Context, string, interface{}) error { return nil }
func (NopBus) Close() error                                       { return nil }

// Event subjects
const (
	// Reservation lifecycle events
	ReservationCreated    = "reservation.created"
	ReservationConfirmed  = "reservation.confirmed"
	ReservationCheckedIn  = "reservation.checked_in"
	ReservationCheckedOut = "reservation.checked_out"
	ReservationCanceled   = "reservation.canceled"
	ReservationPaid       = "reservation.paid"

	// Companion billing events
	BillingRecorded  = "billing.recorded"
	BillingProcessed = "billing.processed"
	BillingCanceled  = "billing.canceled"

	// Notification events
	NotifySend = "notify.send"
)

// Event payloads
type ReservationCreatedEvent struct {
	ReservationID    string    `json:"reservation_id"`
	AccommodationID  string    `json:"accommodation_id"`
	MemberID         string    `json:"member_id"`
	CheckIn          string    `json:"check_in"`
	CheckOut         string    `json:"check_out"`
	Guests           int       `json:"guests"`
	TotalPrice       int64     `json:"total_price"`
	ConfirmationCode string    `json:"confirmation_code"`
	CreatedAt        time.Time `json:"created_at"`
}

type ReservationStatusEvent struct {
	ReservationID string    `json:"reservation_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type ReservationCanceledEvent struct {
	ReservationID string    `json:"reservation_id"`
	Reason        string    `json:"reason"`
	Refunded      bool      `json:"refunded"`
	CanceledAt    time.Time `json:"canceled_at"`
}

type BillingRecordedEvent struct {
	RecordID        string    `json:"record_id"`
	MemberCode      string    `json:"member_code"`
	CompanionsCount int       `json:"companions_count"`
	TotalAmount     int64     `json:"total_amount"`
	GateKeeperName  string    `json:"gate_keeper_name"`
	AccessTime      time.Time `json:"access_time"`
}

type BillingProcessedEvent struct {
	RecordID    string    `json:"record_id"`
	ProcessedBy string    `json:"processed_by"`
	TotalAmount int64     `json:"total_amount"`
	ProcessedAt time.Time `json:"processed_at"`
}

type BillingCanceledEvent struct {
	RecordID    string    `json:"record_id"`
	CancelledBy string    `json:"cancelled_by"`
	Reason      string    `json:"reason"`
	CanceledAt  time.Time `json:"canceled_at"`
}
