package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Collabnest-tech/CN-Project-sub000/internal/checkout"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/logging"
	"github.com/gorilla/mux"
	"github.com/stripe/stripe-go/v84"
)

type IntentCreator interface {
	CreateIntent(ctx context.Context, req *checkout.Request) (*checkout.Result, error)
}

type PriceRetriever interface {
	RetrievePrice(ctx context.Context, priceID string) (*stripe.Price, error)
}

type CheckoutHandler struct {
	service IntentCreator
	prices  PriceRetriever
}

func NewCheckoutHandler(service IntentCreator, prices PriceRetriever) *CheckoutHandler {
	return &CheckoutHandler{service: service, prices: prices}
}

func (h *CheckoutHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req checkout.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	logging.EnrichUser(r.Context(), req.UserID)

	result, err := h.service.CreateIntent(r.Context(), &req)
	if err != nil {
		logging.EnrichError(r.Context(), err)
		switch {
		case errors.Is(err, checkout.ErrPriceRequired),
			errors.Is(err, checkout.ErrPriceNotFound),
			errors.Is(err, checkout.ErrPriceInactive):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, checkout.ErrProcessor):
			writeError(w, http.StatusBadGateway, "Failed to create payment intent")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to create payment intent")
		}
		return
	}

	writeJSON(w, result)
}

type PriceResponse struct {
	ID         string `json:"id"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
	Active     bool   `json:"active"`
}

func (h *CheckoutHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	priceID := mux.Vars(r)["priceID"]

	price, err := h.prices.RetrievePrice(r.Context(), priceID)
	if err != nil {
		logging.EnrichError(r.Context(), err)
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
			writeError(w, http.StatusNotFound, "Price not found")
			return
		}
		writeError(w, http.StatusBadGateway, "Failed to fetch price details")
		return
	}

	writeJSON(w, PriceResponse{
		ID:         price.ID,
		UnitAmount: price.UnitAmount,
		Currency:   string(price.Currency),
		Active:     price.Active,
	})
}
