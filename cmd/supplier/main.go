package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/99minutos/identity-system/internal/infrastructure/accountsvc"
	"github.com/99minutos/identity-system/internal/infrastructure/config"
	httpserver "github.com/99minutos/identity-system/internal/infrastructure/http"
	"github.com/99minutos/identity-system/internal/infrastructure/security"
	"github.com/99minutos/identity-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg, err := config.LoadSupplier(ctx)
	if err != nil {
		panic(err)
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "supplier",
	})

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("supplier service stopped")
	}
}

func run(ctx context.Context, cfg *config.SupplierConfig) error {
	log := logger.Get()

	tokens, err := security.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		return err
	}

	e := httpserver.NewSupplierRouter(httpserver.SupplierDeps{
		Verifier: tokens,
		Accounts: accountsvc.NewClient(cfg.AccountServiceURL, cfg.AccountServiceTimeout, logger.Component("accountsvc")),
		Log:      log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("account_service", cfg.AccountServiceURL).Msg("supplier service listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
