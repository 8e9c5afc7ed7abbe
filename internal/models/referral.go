package models

import (
	"time"

	"github.com/google/uuid"
)

// Referral is an immutable commission ledger entry. At most one row can exist
// per (referrer, referred user) pair; that uniqueness constraint is what makes
// webhook redelivery safe.
type Referral struct {
	ID               uuid.UUID `json:"id"`
	ReferrerID       string    `json:"referrer_id"`
	ReferredUserID   string    `json:"referred_user_id"`
	CommissionEarned int64     `json:"commission_earned"`
	PurchaseAmount   int64     `json:"purchase_amount"`
	CreatedAt        time.Time `json:"created_at"`
}
