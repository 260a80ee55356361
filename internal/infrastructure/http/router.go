package http

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/99minutos/identity-system/internal/api"
	"github.com/99minutos/identity-system/internal/api/handler"
	apimw "github.com/99minutos/identity-system/internal/api/middleware"
	"github.com/99minutos/identity-system/internal/core/ports"
	"github.com/99minutos/identity-system/internal/infrastructure/accountsvc"
	"github.com/99minutos/identity-system/internal/infrastructure/http/handlers"
)

// SupplierDeps are the collaborators of the dependent service.
type SupplierDeps struct {
	Verifier ports.TokenVerifier
	Accounts *accountsvc.Client
	Log      zerolog.Logger

	// Registry receives the HTTP request metrics and backs /metrics.
	// Nil uses the process-wide default registry.
	Registry *prometheus.Registry
}

// NewSupplierRouter builds the dependent service. Every business route is
// gated on the owning service confirming the caller's account is active.
func NewSupplierRouter(deps SupplierDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(deps.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(apimw.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(api.MetricsMiddlewareConfig("supplier", deps.Registry)))

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	readyHandler := handlers.NewReadinessHandler(
		handlers.Probe{Name: "account_service", Check: deps.Accounts.Ping},
	)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readyHandler.Readiness) // owning service reachable?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(api.MetricsHandlerConfig(deps.Registry)))

	// --- Gated routes ---
	v1 := e.Group("/v1",
		apimw.Auth(deps.Verifier),
		apimw.RemoteActiveAccount(deps.Accounts),
	)
	v1.GET("/session", handlers.NewSessionHandler().Current)

	return e
}
