package transaction

import (
	"context"
	"time"

	"github.com/Collabnest-tech/CN-Project-sub000/internal/models"
	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	GetByIntentID(ctx context.Context, intentID string) (*models.Transaction, error)
	MarkSucceeded(ctx context.Context, intentID string) (bool, error)
	MarkFailed(ctx context.Context, intentID string) (bool, error)
}

type TransactionRepository struct {
	db *bun.DB
}

func NewTransactionRepository(db *bun.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts a pending transaction keyed by the Stripe payment intent id.
// The intent id is the idempotency key: a conflicting insert for the same
// intent is dropped rather than duplicated.
func (r *TransactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	txnDB := models.TransactionFromDomain(txn)
	txnDB.CreatedAt = time.Now()
	_, err := r.db.NewInsert().
		Model(txnDB).
		On("CONFLICT (stripe_payment_intent_id) DO NOTHING").
		Exec(ctx)
	return err
}

func (r *TransactionRepository) GetByIntentID(ctx context.Context, intentID string) (*models.Transaction, error) {
	txnDB := new(models.TransactionDB)
	err := r.db.NewSelect().
		Model(txnDB).
		Where("stripe_payment_intent_id = ?", intentID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return txnDB.ToTransaction(), nil
}

func (r *TransactionRepository) MarkSucceeded(ctx context.Context, intentID string) (bool, error) {
	return r.setStatus(ctx, intentID, models.TransactionSucceeded)
}

func (r *TransactionRepository) MarkFailed(ctx context.Context, intentID string) (bool, error) {
	return r.setStatus(ctx, intentID, models.TransactionFailed)
}

// setStatus returns false when no pending row exists for the intent. The
// pending row is advisory: the paid-state transition does not depend on it,
// so a missing row is reported to the caller for logging, not as an error.
func (r *TransactionRepository) setStatus(ctx context.Context, intentID string, status models.TransactionStatus) (bool, error) {
	res, err := r.db.NewUpdate().
		Model((*models.TransactionDB)(nil)).
		Set("status = ?", status).
		Where("stripe_payment_intent_id = ?", intentID).
		Where("status = ?", models.TransactionPending).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
