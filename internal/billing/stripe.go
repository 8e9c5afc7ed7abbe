package billing

import (
	"context"
	"fmt"

	"github.com/Collabnest-tech/CN-Project-sub000/internal/config"
	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"
)

type Billing struct {
	sc            *stripe.Client
	webhookSecret string
}

func NewBilling(cfg *config.Config) *Billing {
	sc := stripe.NewClient(cfg.StripeSecretKey)
	return &Billing{
		sc:            sc,
		webhookSecret: cfg.StripeWebhookSecret,
	}
}

func (b *Billing) RetrievePrice(ctx context.Context, priceID string) (*stripe.Price, error) {
	price, err := b.sc.V1Prices.Retrieve(ctx, priceID, &stripe.PriceRetrieveParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve price %s: %w", priceID, err)
	}
	return price, nil
}

// CreatePaymentIntent opens a charge for the given amount. Everything the
// webhook reconciler needs later rides along in the intent metadata, so the
// asynchronous confirmation is self-contained.
func (b *Billing) CreatePaymentIntent(ctx context.Context, params *stripe.PaymentIntentCreateParams) (*stripe.PaymentIntent, error) {
	intent, err := b.sc.V1PaymentIntents.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return intent, nil
}

func (b *Billing) VerifyWebhookSignature(payload []byte, signature string) (*stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, b.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}
	return &event, nil
}
