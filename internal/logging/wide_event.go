package logging

import (
	"context"
	"time"

	"github.com/Collabnest-tech/CN-Project-sub000/internal/logger"
	"github.com/google/uuid"
)

// contextKey is a private type for context keys to avoid collisions
type contextKey string

const contextKeyWideEvent contextKey = "wide_event"

// WideEvent is a single structured log entry capturing the full lifecycle of
// a request. It is incrementally populated as the request flows through the
// handler stack and emitted once at the end, so one line tells the whole
// story of a checkout or a webhook delivery.
type WideEvent struct {
	TraceID   string    `json:"trace_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`

	HTTPMethod     string `json:"http_method,omitempty"`
	HTTPPath       string `json:"http_path,omitempty"`
	HTTPStatusCode int    `json:"http_status_code,omitempty"`
	HTTPDurationMs int64  `json:"http_duration_ms,omitempty"`

	UserID string `json:"user_id,omitempty"`

	// Webhook delivery context
	StripeEventID   string `json:"stripe_event_id,omitempty"`
	StripeEventType string `json:"stripe_event_type,omitempty"`
	IntentID        string `json:"intent_id,omitempty"`
	DeliveryOutcome string `json:"delivery_outcome,omitempty"`

	Error          string `json:"error,omitempty"`
	PanicRecovered bool   `json:"panic_recovered,omitempty"`
}

func NewWideEvent(eventType string) *WideEvent {
	return &WideEvent{
		TraceID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

func WithContext(ctx context.Context, event *WideEvent) context.Context {
	return context.WithValue(ctx, contextKeyWideEvent, event)
}

func FromContext(ctx context.Context) *WideEvent {
	if event, ok := ctx.Value(contextKeyWideEvent).(*WideEvent); ok {
		return event
	}
	return nil
}

func EnrichHTTP(ctx context.Context, method, path string) {
	if event := FromContext(ctx); event != nil {
		event.HTTPMethod = method
		event.HTTPPath = path
	}
}

func EnrichHTTPStatus(ctx context.Context, statusCode int) {
	if event := FromContext(ctx); event != nil {
		event.HTTPStatusCode = statusCode
	}
}

func EnrichHTTPDuration(ctx context.Context, duration time.Duration) {
	if event := FromContext(ctx); event != nil {
		event.HTTPDurationMs = duration.Milliseconds()
	}
}

func EnrichUser(ctx context.Context, userID string) {
	if event := FromContext(ctx); event != nil {
		event.UserID = userID
	}
}

func EnrichDelivery(ctx context.Context, eventID, eventType, intentID string) {
	if event := FromContext(ctx); event != nil {
		event.StripeEventID = eventID
		event.StripeEventType = eventType
		event.IntentID = intentID
	}
}

func EnrichOutcome(ctx context.Context, outcome string) {
	if event := FromContext(ctx); event != nil {
		event.DeliveryOutcome = outcome
	}
}

func EnrichError(ctx context.Context, err error) {
	if event := FromContext(ctx); event != nil && err != nil {
		event.Error = err.Error()
	}
}

func EnrichPanic(ctx context.Context) {
	if event := FromContext(ctx); event != nil {
		event.PanicRecovered = true
	}
}

// Emit writes the event as one structured log line.
func Emit(event *WideEvent) {
	logger.Log.Info("request",
		"trace_id", event.TraceID,
		"event_type", event.EventType,
		"http_method", event.HTTPMethod,
		"http_path", event.HTTPPath,
		"http_status_code", event.HTTPStatusCode,
		"http_duration_ms", event.HTTPDurationMs,
		"user_id", event.UserID,
		"stripe_event_id", event.StripeEventID,
		"stripe_event_type", event.StripeEventType,
		"intent_id", event.IntentID,
		"delivery_outcome", event.DeliveryOutcome,
		"error", event.Error,
		"panic_recovered", event.PanicRecovered,
	)
}
