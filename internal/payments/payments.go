// Package payments is the adapter to the external payment collaborator.
// The reservation lifecycle only records payment status; any actual
// movement of money happens here, behind the Processor interface.
package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/refund"

	"github.com/vistamar/club-reservations/pkg/logger"
)

type Processor interface {
	// Refund returns the captured amount for a cancelled reservation.
	// paymentRef is the payment-intent reference recorded when the
	// reservation was marked paid.
	Refund(ctx context.Context, paymentRef string, amount int64, currency string) error
}

type StripeProcessor struct{}

func NewStripeProcessor(secretKey string) *StripeProcessor {
	stripe.Key = secretKey
	return &StripeProcessor{}
}

func (p *StripeProcessor) Refund(ctx context.Context, paymentRef string, amount int64, currency string) error {
	if paymentRef == "" {
		return fmt.Errorf("refund requires a payment reference")
	}

	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(paymentRef),
		// Stripe amounts are in minor units; prices here are whole units.
		Amount: stripe.Int64(amount * 100),
	}
	params.Context = ctx

	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("stripe refund failed: %w", err)
	}

	logger.InfoContext(ctx, "Refund issued", "payment_ref", paymentRef, "amount", amount, "currency", currency)
	return nil
}

// DevProcessor logs refunds instead of issuing them.
type DevProcessor struct{}

func NewDevProcessor() *DevProcessor {
	return &DevProcessor{}
}

func (p *DevProcessor) Refund(ctx context.Context, paymentRef string, amount int64, currency string) error {
	logger.InfoContext(ctx, "[DEV PAYMENTS] Refund recorded",
		"payment_ref", paymentRef, "amount", amount, "currency", currency)
	return nil
}
