package billing

// Amounts are minor units (pence for GBP, cents for USD).
const (
	// ReferralDiscount is subtracted from the base price when a valid
	// referral code is presented.
	ReferralDiscount int64 = 500

	// MinimumCharge floors the discounted price so a discount can never
	// produce an implausibly low charge.
	MinimumCharge int64 = 500

	// ReferralCommission is credited to the referrer once the referred
	// purchase settles.
	ReferralCommission int64 = 500
)

// FinalAmount computes the charge for a checkout. The result is independent
// of currency formatting; display concerns live with the caller.
func FinalAmount(baseAmount int64, discounted bool) int64 {
	if !discounted {
		return baseAmount
	}
	final := baseAmount - ReferralDiscount
	if final < MinimumCharge {
		final = MinimumCharge
	}
	return final
}
