package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Collabnest-tech/CN-Project-sub000/internal/auth"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/billing"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/logging"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/models"
)

type CodeValidator interface {
	Validate(ctx context.Context, code string) (*models.User, bool, error)
}

type UserGetter interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

type ReferralLister interface {
	ListByReferrer(ctx context.Context, referrerID string) ([]*models.Referral, error)
}

type ReferralHandler struct {
	validator CodeValidator
	users     UserGetter
	referrals ReferralLister
}

func NewReferralHandler(validator CodeValidator, users UserGetter, referrals ReferralLister) *ReferralHandler {
	return &ReferralHandler{validator: validator, users: users, referrals: referrals}
}

type ValidateCodeRequest struct {
	ReferralCode string `json:"referralCode"`
}

type ValidateCodeResponse struct {
	Valid    bool  `json:"valid"`
	Discount int64 `json:"discount"`
}

// ValidateCode lets the checkout page preview the discount. The code is
// re-validated server-side again at intent creation and at reconciliation;
// this endpoint is purely advisory.
func (h *ReferralHandler) ValidateCode(w http.ResponseWriter, r *http.Request) {
	var req ValidateCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	_, valid, err := h.validator.Validate(r.Context(), req.ReferralCode)
	if err != nil {
		logging.EnrichError(r.Context(), err)
		writeError(w, http.StatusInternalServerError, "Failed to validate referral code")
		return
	}

	resp := ValidateCodeResponse{Valid: valid}
	if valid {
		resp.Discount = billing.ReferralDiscount
	}
	writeJSON(w, resp)
}

type ReferralEntry struct {
	ReferredUserID   string    `json:"referred_user_id"`
	CommissionEarned int64     `json:"commission_earned"`
	PurchaseAmount   int64     `json:"purchase_amount"`
	CreatedAt        time.Time `json:"created_at"`
}

type ReferralSummaryResponse struct {
	ReferralCode     *string         `json:"referral_code"`
	ReferralEarnings int64           `json:"referral_earnings"`
	ReferralCount    int64           `json:"referral_count"`
	Referrals        []ReferralEntry `json:"referrals"`
}

func (h *ReferralHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	logging.EnrichUser(r.Context(), user.ID)

	dbUser, err := h.users.GetByID(r.Context(), user.ID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		logging.EnrichError(r.Context(), err)
		writeError(w, http.StatusInternalServerError, "Failed to load referral summary")
		return
	}

	rows, err := h.referrals.ListByReferrer(r.Context(), user.ID)
	if err != nil {
		logging.EnrichError(r.Context(), err)
		writeError(w, http.StatusInternalServerError, "Failed to load referral summary")
		return
	}

	entries := make([]ReferralEntry, len(rows))
	for i, row := range rows {
		entries[i] = ReferralEntry{
			ReferredUserID:   row.ReferredUserID,
			CommissionEarned: row.CommissionEarned,
			PurchaseAmount:   row.PurchaseAmount,
			CreatedAt:        row.CreatedAt,
		}
	}

	writeJSON(w, ReferralSummaryResponse{
		ReferralCode:     dbUser.ReferralCode,
		ReferralEarnings: dbUser.ReferralEarnings,
		ReferralCount:    dbUser.ReferralCount,
		Referrals:        entries,
	})
}
