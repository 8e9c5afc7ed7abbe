package api

import (
	"github.com/Collabnest-tech/CN-Project-sub000/internal/auth"
	"github.com/gorilla/mux"
)

func SetupRoutes(
	checkoutHandler *CheckoutHandler,
	webhookHandler *WebhookHandler,
	contentHandler *ContentHandler,
	referralHandler *ReferralHandler,
	paymentHandler *PaymentHandler,
	authMiddleware *auth.Middleware,
	allowedOrigin string,
) *mux.Router {
	r := mux.NewRouter()

	r.Use(CORSMiddleware(allowedOrigin))
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	r.HandleFunc("/healthz", HealthHandler).Methods("GET")

	r.HandleFunc("/api/v1/checkout/payment-intent", checkoutHandler.CreatePaymentIntent).Methods("POST")
	r.HandleFunc("/api/v1/stripe/webhook", webhookHandler.HandleWebhook).Methods("POST")
	r.HandleFunc("/api/v1/prices/{priceID}", checkoutHandler.GetPrice).Methods("GET")
	r.HandleFunc("/api/v1/referrals/validate", referralHandler.ValidateCode).Methods("POST")

	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(authMiddleware.RequireAuth)
	protected.HandleFunc("/modules/{moduleID}/access", contentHandler.ModuleAccess).Methods("GET")
	protected.HandleFunc("/referrals/summary", referralHandler.Summary).Methods("GET")
	protected.HandleFunc("/payments/{intentID}/status", paymentHandler.Status).Methods("GET")

	return r
}
