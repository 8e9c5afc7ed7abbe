package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Collabnest-tech/CN-Project-sub000/internal/access"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/api"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/auth"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/billing"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/cache"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/checkout"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/config"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/db"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/reconcile"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/referral"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/transaction"
	"github.com/Collabnest-tech/CN-Project-sub000/internal/user"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	bunDB := db.NewBunPostgresClient(cfg.DatabaseURL)
	defer bunDB.Close()

	users := user.NewUserRepository(bunDB)
	txns := transaction.NewTransactionRepository(bunDB)
	ledger := referral.NewReferralRepository(bunDB)

	stripeBilling := billing.NewBilling(cfg)
	priceCache := cache.NewInMemoryPriceCache(time.Duration(cfg.PriceCacheTTLSec) * time.Second)

	validator := referral.NewValidator(users)
	minter := referral.NewMinter(users)

	checkoutService := checkout.NewService(stripeBilling, validator, txns, priceCache)
	reconciler := reconcile.NewReconciler(users, minter, validator, ledger, txns)
	gate := access.NewGate(users)

	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()
	authMiddleware := auth.NewMiddleware(jwtVerifier)

	checkoutHandler := api.NewCheckoutHandler(checkoutService, stripeBilling)
	webhookHandler := api.NewWebhookHandler(stripeBilling, reconciler)
	contentHandler := api.NewContentHandler(gate)
	referralHandler := api.NewReferralHandler(validator, users, ledger)
	paymentHandler := api.NewPaymentHandler(txns)

	router := api.SetupRoutes(
		checkoutHandler,
		webhookHandler,
		contentHandler,
		referralHandler,
		paymentHandler,
		authMiddleware,
		cfg.FEBaseURL,
	)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}

	log.Println("Server stopped")
}
