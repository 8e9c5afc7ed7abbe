package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/Collabnest-tech/CN-Project-sub000/internal/logger"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/logging"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/reconcile"
	"github.com/stripe/stripe-go/v84"
)

type WebhookVerifier interface {
	VerifyWebhookSignature(payload []byte, signature string) (*stripe.Event, error)
}

type EventProcessor interface {
	Process(ctx context.Context, ev *reconcile.PaymentEvent) (reconcile.Outcome, error)
}

type WebhookHandler struct {
	verifier  WebhookVerifier
	processor EventProcessor
}

func NewWebhookHandler(verifier WebhookVerifier, processor EventProcessor) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, processor: processor}
}

// HandleWebhook is the inbound edge of reconciliation. Nothing in the body
// is trusted until the signature over the raw payload checks out; only then
// is the event parsed and applied. Stripe redelivers on any non-2xx response
// for days, so database trouble is surfaced as 500 to invite that retry. An
// event with no userId is answered 400 as an error signal; Stripe retries
// that too, but every re-run fails the same validation before any write.
func (h *WebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	event, err := h.verifier.VerifyWebhookSignature(payload, signature)
	if err != nil {
		logger.Log.Warn("webhook signature verification failed",
			"remote_addr", r.RemoteAddr,
			"error", err)
		logging.EnrichError(r.Context(), err)
		writeError(w, http.StatusBadRequest, "Invalid signature")
		return
	}

	paymentEvent, err := reconcile.ParseEvent(event)
	if err != nil {
		logging.EnrichError(r.Context(), err)
		writeError(w, http.StatusBadRequest, "Malformed event payload")
		return
	}

	logging.EnrichDelivery(r.Context(), paymentEvent.EventID, paymentEvent.EventType, paymentEvent.IntentID)
	logging.EnrichUser(r.Context(), paymentEvent.UserID)

	outcome, err := h.processor.Process(r.Context(), paymentEvent)
	if err != nil {
		logging.EnrichError(r.Context(), err)
		switch {
		case errors.Is(err, reconcile.ErrMissingUserID):
			logger.Log.Error("webhook event has no userId, dropping",
				"event_id", paymentEvent.EventID)
			writeError(w, http.StatusBadRequest, "Event metadata has no userId")
		case errors.Is(err, reconcile.ErrUserNotFound):
			logger.Log.Error("webhook references unknown user",
				"event_id", paymentEvent.EventID,
				"user_id", paymentEvent.UserID)
			writeError(w, http.StatusInternalServerError, "Purchaser not found")
		default:
			logger.Log.Error("webhook processing failed",
				"event_id", paymentEvent.EventID,
				"error", err)
			writeError(w, http.StatusInternalServerError, "Webhook handling failed")
		}
		return
	}

	logging.EnrichOutcome(r.Context(), string(outcome))

	writeJSON(w, map[string]any{
		"received": true,
		"outcome":  string(outcome),
		"event_id": paymentEvent.EventID,
	})
}
