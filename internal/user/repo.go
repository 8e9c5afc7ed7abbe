package user

import (
	"context"
	"time"

	"github.com/Collabnest-tech/CN-Project-sub000/internal/models"
	"github.com/uptrace/bun"
)

type Repository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetPaidByReferralCode(ctx context.Context, code string) (*models.User, error)
	MarkPaid(ctx context.Context, userID string) error
	AssignReferralCode(ctx context.Context, userID, code string) (bool, error)
}

type UserRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	userDB := new(models.UserDB)
	err := r.db.NewSelect().
		Model(userDB).
		Where("id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return userDB.ToUser(), nil
}

// GetPaidByReferralCode resolves a referral code to its owner, but only if
// that owner has completed a purchase. Unpaid users are never valid referral
// sources.
func (r *UserRepository) GetPaidByReferralCode(ctx context.Context, code string) (*models.User, error) {
	userDB := new(models.UserDB)
	err := r.db.NewSelect().
		Model(userDB).
		Where("referral_code = ?", code).
		Where("has_paid = TRUE").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return userDB.ToUser(), nil
}

func (r *UserRepository) MarkPaid(ctx context.Context, userID string) error {
	_, err := r.db.NewUpdate().
		Model((*models.UserDB)(nil)).
		Set("has_paid = TRUE").
		Set("payment_date = COALESCE(payment_date, ?)", time.Now()).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	return err
}

// AssignReferralCode sets the user's referral code only if none has been
// assigned yet. It returns false when the user already holds a code, so a
// redelivered webhook never overwrites an earlier assignment. A unique index
// on referral_code guards against two users receiving the same code; callers
// should retry with a fresh code on that violation.
func (r *UserRepository) AssignReferralCode(ctx context.Context, userID, code string) (bool, error) {
	res, err := r.db.NewUpdate().
		Model((*models.UserDB)(nil)).
		Set("referral_code = ?", code).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Where("referral_code IS NULL").
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
