package checkout_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Collabnest-tech/CN-Project-sub000/internal/cache"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/checkout"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/models"
	"github.com/stripe/stripe-go/v84"
)

type fakePayments struct {
	price         *stripe.Price
	priceErr      error
	intent        *stripe.PaymentIntent
	intentErr     error
	lastParams    *stripe.PaymentIntentCreateParams
	retrieveCalls int
}

func (f *fakePayments) RetrievePrice(ctx context.Context, priceID string) (*stripe.Price, error) {
	f.retrieveCalls++
	if f.priceErr != nil {
		return nil, f.priceErr
	}
	return f.price, nil
}

func (f *fakePayments) CreatePaymentIntent(ctx context.Context, params *stripe.PaymentIntentCreateParams) (*stripe.PaymentIntent, error) {
	f.lastParams = params
	if f.intentErr != nil {
		return nil, f.intentErr
	}
	return f.intent, nil
}

type fakeValidator struct {
	referrer *models.User
	valid    bool
}

func (f *fakeValidator) Validate(ctx context.Context, code string) (*models.User, bool, error) {
	return f.referrer, f.valid, nil
}

type fakeTxnStore struct {
	created []*models.Transaction
	err     error
}

func (f *fakeTxnStore) Create(ctx context.Context, txn *models.Transaction) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, txn)
	return nil
}

func activePrice() *stripe.Price {
	return &stripe.Price{ID: "price_1", UnitAmount: 2500, Currency: "gbp", Active: true}
}

func newService(payments *fakePayments, validator *fakeValidator, txns *fakeTxnStore) *checkout.Service {
	return checkout.NewService(payments, validator, txns, cache.NewInMemoryPriceCache(time.Minute))
}

func TestCreateIntentRequiresPrice(t *testing.T) {
	svc := newService(&fakePayments{}, &fakeValidator{}, &fakeTxnStore{})
	_, err := svc.CreateIntent(context.Background(), &checkout.Request{UserID: "u1"})
	if !errors.Is(err, checkout.ErrPriceRequired) {
		t.Errorf("CreateIntent() error = %v, want ErrPriceRequired", err)
	}
}

func TestCreateIntentRejectsInactivePrice(t *testing.T) {
	payments := &fakePayments{price: &stripe.Price{ID: "price_1", UnitAmount: 2500, Active: false}}
	svc := newService(payments, &fakeValidator{}, &fakeTxnStore{})
	_, err := svc.CreateIntent(context.Background(), &checkout.Request{UserID: "u1", PriceID: "price_1"})
	if !errors.Is(err, checkout.ErrPriceInactive) {
		t.Errorf("CreateIntent() error = %v, want ErrPriceInactive", err)
	}
}

func TestCreateIntentUnknownPrice(t *testing.T) {
	payments := &fakePayments{priceErr: &stripe.Error{HTTPStatusCode: http.StatusNotFound}}
	svc := newService(payments, &fakeValidator{}, &fakeTxnStore{})
	_, err := svc.CreateIntent(context.Background(), &checkout.Request{UserID: "u1", PriceID: "price_nope"})
	if !errors.Is(err, checkout.ErrPriceNotFound) {
		t.Errorf("CreateIntent() error = %v, want ErrPriceNotFound", err)
	}
}

func TestCreateIntentProcessorFailure(t *testing.T) {
	payments := &fakePayments{price: activePrice(), intentErr: errors.New("stripe is down")}
	svc := newService(payments, &fakeValidator{}, &fakeTxnStore{})
	_, err := svc.CreateIntent(context.Background(), &checkout.Request{UserID: "u1", PriceID: "price_1"})
	if !errors.Is(err, checkout.ErrProcessor) {
		t.Errorf("CreateIntent() error = %v, want ErrProcessor", err)
	}
}

func TestCreateIntentWithoutReferral(t *testing.T) {
	payments := &fakePayments{
		price:  activePrice(),
		intent: &stripe.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret"},
	}
	txns := &fakeTxnStore{}
	svc := newService(payments, &fakeValidator{}, txns)

	res, err := svc.CreateIntent(context.Background(), &checkout.Request{
		UserID:  "u1",
		PriceID: "price_1",
		Customer: models.CustomerInfo{
			Email:    "buyer@example.com",
			FullName: "Test Buyer",
			Country:  "GB",
		},
	})
	if err != nil {
		t.Fatalf("CreateIntent() error: %v", err)
	}
	if res.Amount != 2500 || res.DiscountApplied {
		t.Errorf("result = %+v, want full price", res)
	}
	if res.ClientSecret != "pi_1_secret" {
		t.Errorf("ClientSecret = %q", res.ClientSecret)
	}

	meta := payments.lastParams.Metadata
	if meta["userId"] != "u1" || meta["discountApplied"] != "false" || meta["finalAmount"] != "2500" {
		t.Errorf("intent metadata = %v", meta)
	}
	if len(txns.created) != 1 {
		t.Fatalf("transactions created = %d, want 1", len(txns.created))
	}
	if txns.created[0].Status != models.TransactionPending {
		t.Errorf("transaction status = %s, want pending", txns.created[0].Status)
	}
}

func TestCreateIntentAppliesReferralDiscount(t *testing.T) {
	payments := &fakePayments{
		price:  activePrice(),
		intent: &stripe.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret"},
	}
	validator := &fakeValidator{referrer: &models.User{ID: "referrer-1"}, valid: true}
	txns := &fakeTxnStore{}
	svc := newService(payments, validator, txns)

	res, err := svc.CreateIntent(context.Background(), &checkout.Request{
		UserID:       "u1",
		PriceID:      "price_1",
		ReferralCode: "abc123",
	})
	if err != nil {
		t.Fatalf("CreateIntent() error: %v", err)
	}
	if res.Amount != 2000 || res.OriginalAmount != 2500 || !res.DiscountApplied {
		t.Errorf("result = %+v, want discounted", res)
	}

	meta := payments.lastParams.Metadata
	if meta["referralCode"] != "ABC123" {
		t.Errorf("metadata referralCode = %q, want normalized ABC123", meta["referralCode"])
	}
	if meta["discountApplied"] != "true" || meta["finalAmount"] != "2000" || meta["originalAmount"] != "2500" {
		t.Errorf("intent metadata = %v", meta)
	}

	if len(txns.created) != 1 {
		t.Fatalf("transactions created = %d, want 1", len(txns.created))
	}
	if txns.created[0].ReferralCode == nil || *txns.created[0].ReferralCode != "ABC123" {
		t.Errorf("transaction referral code = %v", txns.created[0].ReferralCode)
	}
}

func TestCreateIntentSurvivesTransactionStoreFailure(t *testing.T) {
	payments := &fakePayments{
		price:  activePrice(),
		intent: &stripe.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret"},
	}
	txns := &fakeTxnStore{err: errors.New("insert failed")}
	svc := newService(payments, &fakeValidator{}, txns)

	res, err := svc.CreateIntent(context.Background(), &checkout.Request{UserID: "u1", PriceID: "price_1"})
	if err != nil {
		t.Fatalf("CreateIntent() error: %v", err)
	}
	if res.ClientSecret != "pi_1_secret" {
		t.Errorf("ClientSecret = %q, want secret despite store failure", res.ClientSecret)
	}
}

func TestCreateIntentUsesPriceCache(t *testing.T) {
	payments := &fakePayments{
		price:  activePrice(),
		intent: &stripe.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret"},
	}
	svc := newService(payments, &fakeValidator{}, &fakeTxnStore{})

	req := &checkout.Request{UserID: "u1", PriceID: "price_1"}
	for i := 0; i < 2; i++ {
		if _, err := svc.CreateIntent(context.Background(), req); err != nil {
			t.Fatalf("CreateIntent() error: %v", err)
		}
	}
	if payments.retrieveCalls != 1 {
		t.Errorf("RetrievePrice calls = %d, want 1", payments.retrieveCalls)
	}
}
