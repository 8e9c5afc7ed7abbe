package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/Collabnest-tech/CN-Project-sub000/internal/auth"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/logging"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/models"
	"github.com/gorilla/mux"
)

type TransactionGetter interface {
	GetByIntentID(ctx context.Context, intentID string) (*models.Transaction, error)
}

type PaymentHandler struct {
	txns TransactionGetter
}

func NewPaymentHandler(txns TransactionGetter) *PaymentHandler {
	return &PaymentHandler{txns: txns}
}

type PaymentStatusResponse struct {
	IntentID  string    `json:"intent_id"`
	Status    string    `json:"status"`
	Amount    int64     `json:"amount"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

// Status reports the recorded state of the caller's own checkout attempt.
// Transactions belonging to other users answer 404, the same as an unknown
// intent id.
func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	logging.EnrichUser(r.Context(), user.ID)

	intentID := mux.Vars(r)["intentID"]

	txn, err := h.txns.GetByIntentID(r.Context(), intentID)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, "Transaction not found")
		return
	}
	if err != nil {
		logging.EnrichError(r.Context(), err)
		writeError(w, http.StatusInternalServerError, "Failed to load transaction")
		return
	}

	if txn.UserID != user.ID {
		writeError(w, http.StatusNotFound, "Transaction not found")
		return
	}

	writeJSON(w, PaymentStatusResponse{
		IntentID:  txn.StripePaymentIntentID,
		Status:    string(txn.Status),
		Amount:    txn.Amount,
		Currency:  txn.Currency,
		CreatedAt: txn.CreatedAt,
	})
}
