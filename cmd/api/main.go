package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skurenkov/topup-ledger/internal/config"
	"github.com/skurenkov/topup-ledger/internal/handler"
	"github.com/skurenkov/topup-ledger/internal/logging"
	"github.com/skurenkov/topup-ledger/internal/middleware"
	"github.com/skurenkov/topup-ledger/internal/repository"
	"github.com/skurenkov/topup-ledger/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("topup-ledger", cfg.LogLevel, cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	users := repository.NewUserRepository(db)
	admins := repository.NewAdminRepository(db)
	accounts := repository.NewAccountRepository(db)
	payments := repository.NewPaymentRepository(db)

	userSvc := service.NewUserService(users, accounts)
	adminSvc := service.NewAdminService(admins, accounts)
	paymentSvc := service.NewPaymentService(payments, accounts, users, db, cfg.WebhookSecret)

	jwtExpiry := time.Duration(cfg.JWTExpiryMinutes) * time.Minute
	authHandler := handler.NewAuthHandler(users, admins, cfg.JWTSecret, jwtExpiry)
	webhookHandler := handler.NewWebhookHandler(paymentSvc)
	userHandler := handler.NewUserHandler(userSvc, paymentSvc)
	adminHandler := handler.NewAdminHandler(userSvc, adminSvc)
	healthHandler := handler.NewHealthHandler(db)

	requireUser := middleware.RequireUser(cfg.JWTSecret, users)
	requireAdmin := middleware.RequireAdmin(cfg.JWTSecret, admins)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandler.Readiness)

	mux.HandleFunc("POST /api/v1/auth/login/access-token", authHandler.Login)
	mux.HandleFunc("POST /api/v1/webhook", webhookHandler.ProcessPaymentWebhook)

	mux.Handle("GET /api/v1/users/me", requireUser(http.HandlerFunc(userHandler.Me)))
	mux.Handle("GET /api/v1/users/accounts", requireUser(http.HandlerFunc(userHandler.MyAccounts)))
	mux.Handle("GET /api/v1/users/payments", requireUser(http.HandlerFunc(userHandler.MyPayments)))

	mux.Handle("GET /api/v1/admin/me", requireAdmin(http.HandlerFunc(adminHandler.Me)))
	mux.Handle("POST /api/v1/admin/users", requireAdmin(http.HandlerFunc(adminHandler.CreateUser)))
	mux.Handle("GET /api/v1/admin/users", requireAdmin(http.HandlerFunc(adminHandler.ListUsers)))
	mux.Handle("GET /api/v1/admin/users/{id}", requireAdmin(http.HandlerFunc(adminHandler.GetUser)))
	mux.Handle("PUT /api/v1/admin/users/{id}", requireAdmin(http.HandlerFunc(adminHandler.UpdateUser)))
	mux.Handle("DELETE /api/v1/admin/users/{id}", requireAdmin(http.HandlerFunc(adminHandler.DeleteUser)))
	mux.Handle("GET /api/v1/admin/users/{id}/accounts", requireAdmin(http.HandlerFunc(adminHandler.GetUserAccounts)))

	chain := middleware.Tracing(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           chain,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
