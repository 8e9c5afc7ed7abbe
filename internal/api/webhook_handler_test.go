package api_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Collabnest-tech/CN-Project-sub000/internal/api"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/billing"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/config"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/reconcile"
	"github.com/stripe/stripe-go/v84"
)

const testWebhookSecret = "whsec_test_secret"

type fakeProcessor struct {
	outcome reconcile.Outcome
	err     error
	events  []*reconcile.PaymentEvent
}

func (f *fakeProcessor) Process(ctx context.Context, ev *reconcile.PaymentEvent) (reconcile.Outcome, error) {
	f.events = append(f.events, ev)
	if f.err != nil {
		return "", f.err
	}
	return f.outcome, nil
}

func succeededPayload(t *testing.T) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"id":          "evt_1",
		"object":      "event",
		"type":        "payment_intent.succeeded",
		"api_version": stripe.APIVersion,
		"data": map[string]any{
			"object": map[string]any{
				"id":       "pi_1",
				"amount":   2000,
				"currency": "gbp",
				"metadata": map[string]string{
					"userId":       "u1",
					"referralCode": "ABC123",
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return payload
}

func signPayload(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func webhookRequest(payload []byte, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/stripe/webhook", bytes.NewReader(payload))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	return req
}

func newWebhookHandler(processor *fakeProcessor) *api.WebhookHandler {
	verifier := billing.NewBilling(&config.Config{StripeWebhookSecret: testWebhookSecret})
	return api.NewWebhookHandler(verifier, processor)
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	processor := &fakeProcessor{outcome: reconcile.OutcomeApplied}
	handler := newWebhookHandler(processor)

	payload := succeededPayload(t)

	for name, sig := range map[string]string{
		"missing header": "",
		"wrong secret":   signPayload(payload, "whsec_other"),
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.HandleWebhook(rec, webhookRequest(payload, sig))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
	if len(processor.events) != 0 {
		t.Errorf("processor ran %d times on unverified payloads", len(processor.events))
	}
}

func TestHandleWebhookProcessesVerifiedEvent(t *testing.T) {
	processor := &fakeProcessor{outcome: reconcile.OutcomeApplied}
	handler := newWebhookHandler(processor)

	payload := succeededPayload(t)
	rec := httptest.NewRecorder()
	handler.HandleWebhook(rec, webhookRequest(payload, signPayload(payload, testWebhookSecret)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	if len(processor.events) != 1 {
		t.Fatalf("processor ran %d times, want 1", len(processor.events))
	}
	ev := processor.events[0]
	if ev.UserID != "u1" || ev.IntentID != "pi_1" || ev.ReferralCode != "ABC123" {
		t.Errorf("processed event = %+v", ev)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body["outcome"] != string(reconcile.OutcomeApplied) {
		t.Errorf("outcome = %v, want %s", body["outcome"], reconcile.OutcomeApplied)
	}
}

func TestHandleWebhookMapsProcessingErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "missing userId never retries", err: reconcile.ErrMissingUserID, wantStatus: http.StatusBadRequest},
		{name: "unknown user asks for retry", err: reconcile.ErrUserNotFound, wantStatus: http.StatusInternalServerError},
		{name: "storage failure asks for retry", err: fmt.Errorf("db offline"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newWebhookHandler(&fakeProcessor{err: tt.err})

			payload := succeededPayload(t)
			rec := httptest.NewRecorder()
			handler.HandleWebhook(rec, webhookRequest(payload, signPayload(payload, testWebhookSecret)))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
