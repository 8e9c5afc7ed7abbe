package reconcile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Collabnest-tech/CN-Project-sub000/internal/billing"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/logger"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/models"
)

// Outcome classifies what a delivery did, so duplicate processing shows up in
// logs as something other than a fresh success.
type Outcome string

const (
	OutcomeApplied        Outcome = "applied"
	OutcomeDuplicate      Outcome = "duplicate"
	OutcomeIgnored        Outcome = "ignored"
	OutcomeFailedRecorded Outcome = "failure_recorded"
)

var (
	// ErrMissingUserID marks a corrupted or foreign event; the reconciler
	// never guesses a purchaser.
	ErrMissingUserID = errors.New("event metadata has no userId")

	// ErrUserNotFound is a consistency failure: Stripe confirmed a payment
	// for a user this database does not know. Surfaced so Stripe's retry
	// gets another chance after the inconsistency is repaired.
	ErrUserNotFound = errors.New("purchaser not found")
)

type UserStore interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	MarkPaid(ctx context.Context, userID string) error
}

type CodeMinter interface {
	Mint(ctx context.Context, userID string) (string, bool, error)
}

type Validator interface {
	Validate(ctx context.Context, code string) (*models.User, bool, error)
}

type Ledger interface {
	Credit(ctx context.Context, referral *models.Referral) (bool, error)
}

type TransactionStore interface {
	MarkSucceeded(ctx context.Context, intentID string) (bool, error)
	MarkFailed(ctx context.Context, intentID string) (bool, error)
}

// Reconciler applies a verified payment event to the database. It holds no
// state of its own: every invocation is a pure function of the event and the
// current rows, and re-running it converges on the same final state. All
// idempotency rests on database constraints, not in-memory locks, because
// Stripe may deliver the same event more than once and concurrently.
type Reconciler struct {
	users     UserStore
	minter    CodeMinter
	validator Validator
	ledger    Ledger
	txns      TransactionStore
}

func NewReconciler(users UserStore, minter CodeMinter, validator Validator, ledger Ledger, txns TransactionStore) *Reconciler {
	return &Reconciler{
		users:     users,
		minter:    minter,
		validator: validator,
		ledger:    ledger,
		txns:      txns,
	}
}

func (r *Reconciler) Process(ctx context.Context, ev *PaymentEvent) (Outcome, error) {
	switch ev.Kind {
	case KindUnhandled:
		logger.Log.Info("ignoring webhook event",
			"event_id", ev.EventID,
			"event_type", ev.EventType)
		return OutcomeIgnored, nil

	case KindPaymentFailed:
		recorded, err := r.txns.MarkFailed(ctx, ev.IntentID)
		if err != nil {
			return "", fmt.Errorf("failed to record failed payment %s: %w", ev.IntentID, err)
		}
		if !recorded {
			logger.Log.Warn("no pending transaction for failed payment",
				"event_id", ev.EventID,
				"intent_id", ev.IntentID)
		}
		return OutcomeFailedRecorded, nil
	}

	if ev.UserID == "" {
		return "", ErrMissingUserID
	}

	usr, err := r.users.GetByID(ctx, ev.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", ErrUserNotFound, ev.UserID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up purchaser %s: %w", ev.UserID, err)
	}

	firstApplication := !usr.HasPaid || usr.ReferralCode == nil

	if err := r.users.MarkPaid(ctx, usr.ID); err != nil {
		return "", fmt.Errorf("failed to mark user %s paid: %w", usr.ID, err)
	}

	if usr.ReferralCode == nil {
		code, assigned, err := r.minter.Mint(ctx, usr.ID)
		if err != nil {
			return "", fmt.Errorf("failed to mint referral code for %s: %w", usr.ID, err)
		}
		if assigned {
			logger.Log.Info("referral code assigned",
				"user_id", usr.ID,
				"referral_code", code)
		}
	}

	credited, err := r.creditReferral(ctx, ev, usr)
	if err != nil {
		return "", err
	}

	recorded, err := r.txns.MarkSucceeded(ctx, ev.IntentID)
	if err != nil {
		return "", fmt.Errorf("failed to record succeeded payment %s: %w", ev.IntentID, err)
	}
	if !recorded {
		// The pending row is advisory; its absence never blocks the paid
		// transition, and a redelivered event will have resolved it already.
		logger.Log.Warn("no pending transaction for succeeded payment",
			"event_id", ev.EventID,
			"intent_id", ev.IntentID)
	}

	if firstApplication || credited {
		return OutcomeApplied, nil
	}
	return OutcomeDuplicate, nil
}

// creditReferral re-validates the referral code at reconciliation time: a
// code accepted at intent creation is worthless if the referrer has since
// lost paid status. The ledger insert is the idempotency boundary, so a
// conflict is a quiet no-op rather than a double credit.
func (r *Reconciler) creditReferral(ctx context.Context, ev *PaymentEvent, purchaser *models.User) (bool, error) {
	if ev.ReferralCode == "" {
		return false, nil
	}

	referrer, valid, err := r.validator.Validate(ctx, ev.ReferralCode)
	if err != nil {
		return false, fmt.Errorf("failed to re-validate referral code: %w", err)
	}
	if !valid {
		logger.Log.Warn("referral code no longer valid at reconciliation",
			"event_id", ev.EventID,
			"referral_code", ev.ReferralCode)
		return false, nil
	}
	if referrer.ID == purchaser.ID {
		logger.Log.Warn("self-referral skipped",
			"event_id", ev.EventID,
			"user_id", purchaser.ID)
		return false, nil
	}

	credited, err := r.ledger.Credit(ctx, &models.Referral{
		ReferrerID:       referrer.ID,
		ReferredUserID:   purchaser.ID,
		CommissionEarned: billing.ReferralCommission,
		PurchaseAmount:   ev.Amount,
	})
	if err != nil {
		return false, fmt.Errorf("failed to credit referral: %w", err)
	}

	if credited {
		logger.Log.Info("referral commission credited",
			"event_id", ev.EventID,
			"referrer_id", referrer.ID,
			"referred_user_id", purchaser.ID,
			"commission", billing.ReferralCommission)
	} else {
		logger.Log.Info("referral already credited, skipping",
			"event_id", ev.EventID,
			"referrer_id", referrer.ID,
			"referred_user_id", purchaser.ID)
	}
	return credited, nil
}
