package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/corebank/backoffice/internal/config"
	"github.com/corebank/backoffice/internal/handler"
	"github.com/corebank/backoffice/internal/logging"
	"github.com/corebank/backoffice/internal/middleware"
	"github.com/corebank/backoffice/internal/repository"
	"github.com/corebank/backoffice/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("backoffice-api", cfg.LogLevel, cfg.AppEnv)

	db, err := connectDB(cfg)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store := repository.NewStore(db)
	loans := service.NewLoanService(store)
	deposits := service.NewFixedDepositService(store)

	loanHandler := handler.NewLoanHandler(loans, store)
	fdHandler := handler.NewFixedDepositHandler(deposits)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)

	mux.HandleFunc("POST /api/v1/loans", loanHandler.Open)
	mux.HandleFunc("GET /api/v1/loans/{id}", loanHandler.Get)
	mux.HandleFunc("GET /api/v1/loans/{id}/transactions", loanHandler.Transactions)
	mux.HandleFunc("POST /api/v1/loans/{id}/emi", loanHandler.PayEMI)
	mux.HandleFunc("POST /api/v1/loans/{id}/emi-payment", loanHandler.MakeEMIPayment)
	mux.HandleFunc("POST /api/v1/loans/{id}/part-payment", loanHandler.PayPartEMI)
	mux.HandleFunc("POST /api/v1/loans/{id}/foreclose", loanHandler.Foreclose)
	mux.HandleFunc("POST /api/v1/loans/{id}/close", loanHandler.Close)

	mux.HandleFunc("POST /api/v1/fixed-deposits", fdHandler.Create)
	mux.HandleFunc("GET /api/v1/fixed-deposits/{id}", fdHandler.Get)
	mux.HandleFunc("POST /api/v1/fixed-deposits/{id}/close", fdHandler.Close)
	mux.HandleFunc("POST /api/v1/fixed-deposits/{id}/withdraw", fdHandler.Withdraw)

	var root http.Handler = mux
	root = middleware.Recovery(root)
	root = middleware.Logging(root)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
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
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func connectDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connectDB: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeS) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTimeS) * time.Second)

	for i := range 30 {
		if err = db.Ping(); err == nil {
			return db, nil
		}
		slog.Info("waiting for database", "attempt", i+1)
		time.Sleep(time.Second)
	}

	db.Close()
	return nil, fmt.Errorf("connectDB: gave up after 30 attempts: %w", err)
}
