package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/a2tp3/library-api/docs" // swagger spec registration
	"github.com/a2tp3/library-api/internal/api/handler"
	"github.com/a2tp3/library-api/internal/api/metrics"
	"github.com/a2tp3/library-api/internal/api/middleware"
	"github.com/a2tp3/library-api/internal/core/ports"
	"github.com/a2tp3/library-api/internal/core/service"
	"github.com/a2tp3/library-api/internal/infrastructure/http/handlers"
)

// Repositories is the storage backend the API runs on.
type Repositories struct {
	Users      ports.UserRepository
	Categories ports.CategoryRepository
	Books      ports.BookRepository
	Loans      ports.LoanRepository
	// Idempotency is optional; nil disables Idempotency-Key replay.
	Idempotency ports.IdempotencyStore
}

type Options struct {
	Repos  Repositories
	Tokens *service.TokenIssuer
	// Health pings the backing services on /health/ready. Optional.
	Health *handlers.HealthDependenciesHandler
	Log    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(requestLogger(opts.Log))
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit("1M"))

	// --- Dependencies ---
	repos := opts.Repos
	authService := service.NewAuthService(repos.Users, opts.Tokens, opts.Log.With().Str("component", "auth_service").Logger())
	userService := service.NewUserService(repos.Users, opts.Log.With().Str("component", "user_service").Logger())
	categoryService := service.NewCategoryService(repos.Categories, opts.Log.With().Str("component", "category_service").Logger())
	bookService := service.NewBookService(repos.Books, repos.Categories, opts.Log.With().Str("component", "book_service").Logger())
	loanService := service.NewLoanService(repos.Loans, repos.Books, repos.Idempotency, opts.Log.With().Str("component", "loan_service").Logger())

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	bookHandler := handler.NewBookHandler(bookService)
	loanHandler := handler.NewLoanHandler(loanService)
	auth := middleware.Auth(opts.Tokens)

	api := e.Group("/api")

	// --- Public routes ---
	api.POST("/auth/login", authHandler.Login)
	api.POST("/usuarios", userHandler.Register)
	api.GET("/categorias", categoryHandler.List)
	api.GET("/categorias/:id", categoryHandler.Get)
	api.GET("/livros", bookHandler.List)
	api.GET("/livros/:id", bookHandler.Get)

	// --- Protected routes ---
	api.GET("/usuarios", userHandler.List, auth)
	api.GET("/usuarios/:id", userHandler.Get, auth)
	api.PUT("/usuarios/:id", userHandler.Replace, auth)
	api.DELETE("/usuarios/:id", userHandler.Delete, auth)

	api.POST("/categorias", categoryHandler.Create, auth)
	api.PUT("/categorias/:id", categoryHandler.Replace, auth)
	api.DELETE("/categorias/:id", categoryHandler.Delete, auth)

	api.POST("/livros", bookHandler.Create, auth)
	api.PUT("/livros/:id", bookHandler.Replace, auth)
	api.DELETE("/livros/:id", bookHandler.Delete, auth)

	api.GET("/emprestimos", loanHandler.List, auth)
	api.POST("/emprestimos", loanHandler.Create, auth)
	api.GET("/emprestimos/:id", loanHandler.Get, auth)
	api.PUT("/emprestimos/:id", loanHandler.Replace, auth)
	api.DELETE("/emprestimos/:id", loanHandler.Delete, auth)

	// --- Health probes (no auth required) ---
	healthDeps := opts.Health
	if healthDeps == nil {
		healthDeps = handlers.NewHealthDependenciesHandler()
	}
	e.GET("/health", handlers.NewHealthHandler().Liveness) // liveness  – is the process alive?
	e.GET("/health/ready", healthDeps.Readiness)           // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one zerolog access-log line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error()
			}
			if v.Error != nil {
				evt = evt.Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
