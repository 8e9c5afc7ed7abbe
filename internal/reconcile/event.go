package reconcile

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v84"
)

// Kind is the tagged variant over the event types the reconciler knows.
// Everything else is KindUnhandled and acknowledged without mutation.
type Kind string

const (
	KindPaymentSucceeded Kind = "payment_succeeded"
	KindPaymentFailed    Kind = "payment_failed"
	KindUnhandled        Kind = "unhandled"
)

// PaymentEvent is the strictly-typed envelope extracted from a verified
// Stripe event. The reconciler never touches the raw payload.
type PaymentEvent struct {
	EventID       string
	EventType     string
	Kind          Kind
	IntentID      string
	Amount        int64
	Currency      string
	UserID        string
	ReferralCode  string
	CustomerEmail string
}

type paymentIntentData struct {
	ID           string            `json:"id"`
	Amount       int64             `json:"amount"`
	Currency     string            `json:"currency"`
	ReceiptEmail string            `json:"receipt_email"`
	Metadata     map[string]string `json:"metadata"`
}

func ParseEvent(event *stripe.Event) (*PaymentEvent, error) {
	pe := &PaymentEvent{
		EventID:   event.ID,
		EventType: string(event.Type),
		Kind:      KindUnhandled,
	}

	switch event.Type {
	case "payment_intent.succeeded":
		pe.Kind = KindPaymentSucceeded
	case "payment_intent.payment_failed":
		pe.Kind = KindPaymentFailed
	default:
		return pe, nil
	}

	intent, err := parseEventData[paymentIntentData](event)
	if err != nil {
		return nil, fmt.Errorf("failed to parse payment intent from event %s: %w", event.ID, err)
	}

	pe.IntentID = intent.ID
	pe.Amount = intent.Amount
	pe.Currency = intent.Currency
	pe.UserID = intent.Metadata["userId"]
	pe.ReferralCode = intent.Metadata["referralCode"]
	pe.CustomerEmail = intent.Metadata["customerEmail"]
	if pe.CustomerEmail == "" {
		pe.CustomerEmail = intent.ReceiptEmail
	}

	return pe, nil
}

func parseEventData[T any](event *stripe.Event) (*T, error) {
	var data T
	if err := json.Unmarshal(event.Data.Raw, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
