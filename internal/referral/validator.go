package referral

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Collabnest-tech/CN-Project-sub000/internal/models"
)

// Lookup is the slice of the user repository the validator needs.
type Lookup interface {
	GetPaidByReferralCode(ctx context.Context, code string) (*models.User, error)
}

// Validator checks whether a referral code belongs to a paid user. It has no
// side effects; "not found" is a valid:false result, not an error. Only a
// failed lookup (connection trouble) surfaces as an error.
type Validator struct {
	users Lookup
}

func NewValidator(users Lookup) *Validator {
	return &Validator{users: users}
}

// NormalizeCode uppercases and trims a raw referral code. Codes are stored
// uppercase, so normalization happens before every lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (v *Validator) Validate(ctx context.Context, code string) (*models.User, bool, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, false, nil
	}

	referrer, err := v.users.GetPaidByReferralCode(ctx, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("referral code lookup: %w", err)
	}
	return referrer, true, nil
}
