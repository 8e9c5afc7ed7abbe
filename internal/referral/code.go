package referral

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/Collabnest-tech/CN-Project-sub000/internal/db"
)

const (
	codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	codeLength     = 6
	longCodeLength = 10

	// Attempts at the short length before falling back to a longer code,
	// and attempts at the longer length before giving up entirely.
	shortAttempts = 5
	longAttempts  = 3
)

var ErrCodeExhausted = errors.New("could not generate a unique referral code")

// GenerateCode returns a random uppercase referral code of n characters.
func GenerateCode(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeCharset[int(b)%len(codeCharset)]
	}
	return string(buf), nil
}

// CodeStore is the slice of the user repository the minter needs.
type CodeStore interface {
	AssignReferralCode(ctx context.Context, userID, code string) (bool, error)
}

// Minter assigns a fresh referral code to a user who has none. Collisions
// with existing codes are resolved by regenerating; a user who already holds
// a code keeps it untouched.
type Minter struct {
	users CodeStore
}

func NewMinter(users CodeStore) *Minter {
	return &Minter{users: users}
}

// Mint returns the code it assigned and true, or "" and false when the user
// already had a code (the assignment is a conditional update, so a concurrent
// or redelivered webhook can win the race without harm).
func (m *Minter) Mint(ctx context.Context, userID string) (string, bool, error) {
	attempt := func(length int) (string, bool, bool, error) {
		code, err := GenerateCode(length)
		if err != nil {
			return "", false, false, err
		}
		assigned, err := m.users.AssignReferralCode(ctx, userID, code)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return "", false, true, nil
			}
			return "", false, false, err
		}
		return code, assigned, false, nil
	}

	for i := 0; i < shortAttempts; i++ {
		code, assigned, collided, err := attempt(codeLength)
		if err != nil {
			return "", false, err
		}
		if collided {
			continue
		}
		return code, assigned, nil
	}

	for i := 0; i < longAttempts; i++ {
		code, assigned, collided, err := attempt(longCodeLength)
		if err != nil {
			return "", false, err
		}
		if collided {
			continue
		}
		return code, assigned, nil
	}

	return "", false, ErrCodeExhausted
}
