package main

import (
	"net/http"

	httphandlers "github.com/TronCM143/ISTAK/internal/interfaces/http"
	"github.com/TronCM143/ISTAK/internal/shared/config"
	"github.com/TronCM143/ISTAK/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Public auth routes
	mux.HandleFunc("/api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("/api/auth/managers", deps.AuthHandler.HandleListManagers)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)

	mux.Handle("/api/auth/fcm-token", authMiddleware(http.HandlerFunc(deps.AuthHandler.HandleUpdateFCMToken)))
	mux.Handle("/api/items/", authMiddleware(http.HandlerFunc(deps.ItemHandler.HandleItems)))
	mux.Handle("/api/items/{id}", authMiddleware(http.HandlerFunc(deps.ItemHandler.HandleItemByID)))
	mux.Handle("/api/items/{id}/borrow", authMiddleware(http.HandlerFunc(deps.BorrowHandler.HandleBorrow)))
	mux.Handle("/api/items/{id}/return", authMiddleware(http.HandlerFunc(deps.BorrowHandler.HandleReturn)))
	mux.Handle("/api/transactions/", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleListTransactions)))
	mux.Handle("/api/transactions/{id}", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleTransactionByID)))

	// Global middleware; tracing only when telemetry is exporting
	handler := middleware.Logging(middleware.CORS(mux))
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(handler)
	}

	return handler
}
