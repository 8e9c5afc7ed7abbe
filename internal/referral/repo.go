package referral

import (
	"context"
	"database/sql"
	"time"

	"github.com/Collabnest-tech/CN-Project-sub000/internal/models"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Repository interface {
	Credit(ctx context.Context, referral *models.Referral) (bool, error)
	ListByReferrer(ctx context.Context, referrerID string) ([]*models.Referral, error)
}

type ReferralRepository struct {
	db *bun.DB
}

func NewReferralRepository(db *bun.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// Credit inserts the commission ledger entry and bumps the referrer's
// accumulated earnings in one database transaction. The UNIQUE constraint on
// (referrer_id, referred_user_id) is the idempotency boundary: a conflicting
// insert means this purchase was already credited, so the earnings update is
// skipped and Credit returns false without error.
func (r *ReferralRepository) Credit(ctx context.Context, referral *models.Referral) (bool, error) {
	credited := false

	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		recDB := &models.ReferralDB{
			ID:               uuid.New(),
			ReferrerID:       referral.ReferrerID,
			ReferredUserID:   referral.ReferredUserID,
			CommissionEarned: referral.CommissionEarned,
			PurchaseAmount:   referral.PurchaseAmount,
			CreatedAt:        time.Now(),
		}

		res, err := tx.NewInsert().
			Model(recDB).
			On("CONFLICT (referrer_id, referred_user_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		credited = true

		_, err = tx.NewUpdate().
			Model((*models.UserDB)(nil)).
			Set("referral_earnings = referral_earnings + ?", referral.CommissionEarned).
			Set("referral_count = referral_count + 1").
			Set("updated_at = ?", time.Now()).
			Where("id = ?", referral.ReferrerID).
			Exec(ctx)
		return err
	})
	if err != nil {
		return false, err
	}
	return credited, nil
}

func (r *ReferralRepository) ListByReferrer(ctx context.Context, referrerID string) ([]*models.Referral, error) {
	var rows []*models.ReferralDB
	err := r.db.NewSelect().
		Model(&rows).
		Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	referrals := make([]*models.Referral, len(rows))
	for i, row := range rows {
		referrals[i] = row.ToReferral()
	}
	return referrals, nil
}
