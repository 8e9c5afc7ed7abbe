package models

import "time"

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionSucceeded TransactionStatus = "succeeded"
	TransactionFailed    TransactionStatus = "failed"
)

// CustomerInfo is the customer snapshot captured at checkout time. It is
// stored verbatim on the transaction row for audit purposes.
type CustomerInfo struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Country  string `json:"country,omitempty"`
}

// Transaction records a checkout attempt. Rows are created when a payment
// intent is issued and their status is only ever mutated by webhook
// reconciliation. Amounts are in minor units (pence/cents).
type Transaction struct {
	StripePaymentIntentID string            `json:"stripe_payment_intent_id"`
	UserID                string            `json:"user_id"`
	StripePriceID         string            `json:"stripe_price_id"`
	Amount                int64             `json:"amount"`
	OriginalAmount        int64             `json:"original_amount"`
	Currency              string            `json:"currency"`
	ReferralCode          *string           `json:"referral_code,omitempty"`
	Status                TransactionStatus `json:"status"`
	CustomerInfo          *CustomerInfo     `json:"customer_info,omitempty"`
	CreatedAt             time.Time         `json:"created_at"`
}
