package api

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/user-directory/docs"
	"github.com/99minutos/user-directory/internal/api/handler"
	"github.com/99minutos/user-directory/internal/api/middleware"
	"github.com/99minutos/user-directory/internal/core/ports"
)

const DefaultBasePath = "/api/v1"

// Dependencies is everything the router needs from the composition root.
type Dependencies struct {
	AuthService ports.AuthService
	UserService ports.UserService
	Logger      zerolog.Logger

	// BasePath prefixes every directory route. Defaults to DefaultBasePath.
	BasePath string
	// Pingers are probed by GET /health/ready, keyed by dependency name.
	Pingers map[string]handler.Pinger
	// Registerer and Gatherer back the HTTP metrics. Nil means the
	// Prometheus defaults.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	base := strings.TrimRight(deps.BasePath, "/")
	if base == "" {
		base = DefaultBasePath
	}
	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "user_directory",
		Registerer: registerer,
	}))
	// The logger hands errors to the error handler, so metrics above it see
	// the final status.
	e.Use(middleware.RequestLogger(deps.Logger))

	// --- Health, metrics and docs (no auth required) ---
	health := handler.NewHealthHandler(deps.Pingers)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Login: Basic only ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	e.POST(base+"/users/login", authHandler.Login, middleware.Authenticate(deps.AuthService, middleware.SchemeBasic))

	// --- Directory: Bearer only, then the access policy ---
	policy := middleware.NewPolicy(base, middleware.DirectoryRules()...)
	directory := e.Group(base,
		middleware.Authenticate(deps.AuthService, middleware.SchemeBearer),
		middleware.Authorize(policy),
	)

	users := handler.NewUserHandler(deps.UserService)
	directory.GET("/users", users.FindAll)
	directory.GET("/users/:id", users.FindByID)
	directory.POST("/users", users.Create)
	directory.PUT("/users/:id", users.Update)
	directory.POST("/users/reset", users.ChangePassword)
	directory.DELETE("/users/:id", users.Delete)

	return e
}
