package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Collabnest-tech/CN-Project-sub000/internal/billing"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/cache"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/logger"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/models"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/referral"
	"github.com/stripe/stripe-go/v84"
)

var (
	ErrPriceRequired = errors.New("price reference is required")
	ErrPriceNotFound = errors.New("price not found")
	ErrPriceInactive = errors.New("price is not active")
	ErrProcessor     = errors.New("payment processor request failed")
)

type PaymentsAPI interface {
	RetrievePrice(ctx context.Context, priceID string) (*stripe.Price, error)
	CreatePaymentIntent(ctx context.Context, params *stripe.PaymentIntentCreateParams) (*stripe.PaymentIntent, error)
}

type ReferralValidator interface {
	Validate(ctx context.Context, code string) (*models.User, bool, error)
}

type TransactionStore interface {
	Create(ctx context.Context, txn *models.Transaction) error
}

type Request struct {
	UserID       string              `json:"userId"`
	PriceID      string              `json:"priceId"`
	ReferralCode string              `json:"referralCode"`
	Customer     models.CustomerInfo `json:"customerInfo"`
}

type Result struct {
	ClientSecret    string `json:"client_secret"`
	Amount          int64  `json:"amount"`
	OriginalAmount  int64  `json:"original_amount"`
	Currency        string `json:"currency"`
	DiscountApplied bool   `json:"discount_applied"`
}

// Service issues Stripe payment intents for course purchases. It resolves the
// price, applies a referral discount when the code checks out, and records a
// pending transaction keyed by the intent id.
type Service struct {
	payments  PaymentsAPI
	validator ReferralValidator
	txns      TransactionStore
	prices    cache.PriceCache
}

func NewService(payments PaymentsAPI, validator ReferralValidator, txns TransactionStore, prices cache.PriceCache) *Service {
	return &Service{
		payments:  payments,
		validator: validator,
		txns:      txns,
		prices:    prices,
	}
}

func (s *Service) CreateIntent(ctx context.Context, req *Request) (*Result, error) {
	if req.PriceID == "" {
		return nil, ErrPriceRequired
	}

	price, err := s.resolvePrice(ctx, req.PriceID)
	if err != nil {
		return nil, err
	}
	if !price.Active {
		return nil, ErrPriceInactive
	}

	referralCode := ""
	referrer, valid, err := s.validator.Validate(ctx, req.ReferralCode)
	if err != nil {
		return nil, err
	}
	if valid {
		referralCode = referral.NormalizeCode(req.ReferralCode)
	}

	originalAmount := price.UnitAmount
	finalAmount := billing.FinalAmount(originalAmount, valid)

	params := &stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(finalAmount),
		Currency: stripe.String(string(price.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"userId":          req.UserID,
			"referralCode":    referralCode,
			"customerEmail":   req.Customer.Email,
			"customerName":    req.Customer.FullName,
			"country":         req.Customer.Country,
			"originalPriceId": req.PriceID,
			"originalAmount":  strconv.FormatInt(originalAmount, 10),
			"finalAmount":     strconv.FormatInt(finalAmount, 10),
			"discountApplied": strconv.FormatBool(valid),
			"currency":        string(price.Currency),
		},
		ReceiptEmail: stripe.String(req.Customer.Email),
		Description:  stripe.String(fmt.Sprintf("Course purchase - %s", req.Customer.FullName)),
	}

	intent, err := s.payments.CreatePaymentIntent(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessor, err)
	}

	// Best-effort write: the webhook reconciler is the source of truth for
	// the paid-state transition, so a failed insert must not void the client
	// secret that Stripe has already issued.
	txn := &models.Transaction{
		StripePaymentIntentID: intent.ID,
		UserID:                req.UserID,
		StripePriceID:         req.PriceID,
		Amount:                finalAmount,
		OriginalAmount:        originalAmount,
		Currency:              string(price.Currency),
		Status:                models.TransactionPending,
		CustomerInfo:          &req.Customer,
	}
	if referralCode != "" {
		txn.ReferralCode = &referralCode
	}
	if err := s.txns.Create(ctx, txn); err != nil {
		logger.Log.Error("failed to store pending transaction",
			"intent_id", intent.ID,
			"user_id", req.UserID,
			"error", err)
	}

	if valid {
		logger.Log.Info("referral discount applied",
			"intent_id", intent.ID,
			"referral_code", referralCode,
			"referrer_id", referrer.ID)
	}

	return &Result{
		ClientSecret:    intent.ClientSecret,
		Amount:          finalAmount,
		OriginalAmount:  originalAmount,
		Currency:        string(price.Currency),
		DiscountApplied: valid,
	}, nil
}

func (s *Service) resolvePrice(ctx context.Context, priceID string) (*stripe.Price, error) {
	if price, ok := s.prices.Get(ctx, priceID); ok {
		return price, nil
	}

	price, err := s.payments.RetrievePrice(ctx, priceID)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
			return nil, ErrPriceNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrProcessor, err)
	}

	s.prices.Set(ctx, priceID, price)
	return price, nil
}
