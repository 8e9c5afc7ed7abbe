package models

import "time"

type User struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	FullName         string     `json:"full_name"`
	HasPaid          bool       `json:"has_paid"`
	ReferralCode     *string    `json:"referral_code,omitempty"`
	ReferredBy       *string    `json:"referred_by,omitempty"`
	ReferralEarnings int64      `json:"referral_earnings"`
	ReferralCount    int64      `json:"referral_count"`
	PaymentDate      *time.Time `json:"payment_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
