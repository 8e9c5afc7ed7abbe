package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type UserDB struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID               string     `bun:"id,pk" json:"id"`
	Email            string     `bun:"email,notnull,unique" json:"email"`
	FullName         string     `bun:"full_name" json:"full_name"`
	HasPaid          bool       `bun:"has_paid,notnull,default:false" json:"has_paid"`
	ReferralCode     *string    `bun:"referral_code,unique" json:"referral_code"`
	ReferredBy       *string    `bun:"referred_by" json:"referred_by"`
	ReferralEarnings int64      `bun:"referral_earnings,notnull,default:0" json:"referral_earnings"`
	ReferralCount    int64      `bun:"referral_count,notnull,default:0" json:"referral_count"`
	PaymentDate      *time.Time `bun:"payment_date" json:"payment_date"`
	CreatedAt        time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

func (u *UserDB) ToUser() *User {
	return &User{
		ID:               u.ID,
		Email:            u.Email,
		FullName:         u.FullName,
		HasPaid:          u.HasPaid,
		ReferralCode:     u.ReferralCode,
		ReferredBy:       u.ReferredBy,
		ReferralEarnings: u.ReferralEarnings,
		ReferralCount:    u.ReferralCount,
		PaymentDate:      u.PaymentDate,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

type TransactionDB struct {
	bun.BaseModel `bun:"table:transactions,alias:t"`

	StripePaymentIntentID string            `bun:"stripe_payment_intent_id,pk" json:"stripe_payment_intent_id"`
	UserID                string            `bun:"user_id,notnull" json:"user_id"`
	StripePriceID         string            `bun:"stripe_price_id,notnull" json:"stripe_price_id"`
	Amount                int64             `bun:"amount,notnull" json:"amount"`
	OriginalAmount        int64             `bun:"original_amount,notnull" json:"original_amount"`
	Currency              string            `bun:"currency,notnull" json:"currency"`
	ReferralCode          *string           `bun:"referral_code" json:"referral_code"`
	Status                TransactionStatus `bun:"status,notnull,default:'pending'" json:"status"`
	CustomerInfo          *CustomerInfo     `bun:"customer_info,type:jsonb" json:"customer_info"`
	CreatedAt             time.Time         `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

func (t *TransactionDB) ToTransaction() *Transaction {
	return &Transaction{
		StripePaymentIntentID: t.StripePaymentIntentID,
		UserID:                t.UserID,
		StripePriceID:         t.StripePriceID,
		Amount:                t.Amount,
		OriginalAmount:        t.OriginalAmount,
		Currency:              t.Currency,
		ReferralCode:          t.ReferralCode,
		Status:                t.Status,
		CustomerInfo:          t.CustomerInfo,
		CreatedAt:             t.CreatedAt,
	}
}

func TransactionFromDomain(t *Transaction) *TransactionDB {
	return &TransactionDB{
		StripePaymentIntentID: t.StripePaymentIntentID,
		UserID:                t.UserID,
		StripePriceID:         t.StripePriceID,
		Amount:                t.Amount,
		OriginalAmount:        t.OriginalAmount,
		Currency:              t.Currency,
		ReferralCode:          t.ReferralCode,
		Status:                t.Status,
		CustomerInfo:          t.CustomerInfo,
		CreatedAt:             t.CreatedAt,
	}
}

type ReferralDB struct {
	bun.BaseModel `bun:"table:referrals,alias:r"`

	ID               uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	ReferrerID       string    `bun:"referrer_id,notnull,unique:referrer_referred" json:"referrer_id"`
	ReferredUserID   string    `bun:"referred_user_id,notnull,unique:referrer_referred" json:"referred_user_id"`
	CommissionEarned int64     `bun:"commission_earned,notnull" json:"commission_earned"`
	PurchaseAmount   int64     `bun:"purchase_amount,notnull" json:"purchase_amount"`
	CreatedAt        time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

func (r *ReferralDB) ToReferral() *Referral {
	return &Referral{
		ID:               r.ID,
		ReferrerID:       r.ReferrerID,
		ReferredUserID:   r.ReferredUserID,
		CommissionEarned: r.CommissionEarned,
		PurchaseAmount:   r.PurchaseAmount,
		CreatedAt:        r.CreatedAt,
	}
}
