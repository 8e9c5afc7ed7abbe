package access

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Collabnest-tech/CN-Project-sub000/internal/models"
)

// UserLookup is the slice of the user repository the gate needs.
type UserLookup interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

// Gate decides whether a user may view gated course content. An unknown user
// and an unpaid user produce the same denial, so the answer never leaks
// whether an account exists.
type Gate struct {
	users UserLookup
}

func NewGate(users UserLookup) *Gate {
	return &Gate{users: users}
}

func (g *Gate) Unlocked(ctx context.Context, userID string) (bool, error) {
	usr, err := g.users.GetByID(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return usr.HasPaid, nil
}
