package rest

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"expense-tracker/app/rest/handlers"
	"expense-tracker/app/rest/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Upload  *handlers.UploadHandler
	Expense *handlers.ExpenseHandler
	Health  *handlers.HealthHandler
	Guard   *middleware.AuthMiddleware
}

// NewRouter assembles the Echo instance with the full middleware chain
// and route table.
func NewRouter(h Handlers, frontendURL string, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(requestLogger(logger))
	e.Use(responseTiming())
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.CORS(frontendURL))
	e.Use(middleware.NewRateLimiter().RateLimit())

	e.GET("/health", h.Health.Live)
	e.GET("/health/live", h.Health.Live)
	e.GET("/health/ready", h.Health.Ready)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.GET("/login", h.Auth.Login)
	auth.GET("/callback", h.Auth.Callback)
	auth.GET("/logout", h.Auth.Logout)
	auth.GET("/me", h.Auth.Me)

	upload := api.Group("/upload", h.Guard.RequireAuth())
	upload.POST("/sign", h.Upload.Sign)
	upload.GET("/signedUrl/*", h.Upload.SignedURL)

	expenses := api.Group("/expenses", h.Guard.RequireAuth())
	expenses.GET("", h.Expense.List)
	expenses.POST("", h.Expense.Create)
	expenses.GET("/:id", h.Expense.Get)
	expenses.PUT("/:id", h.Expense.Update)
	expenses.DELETE("/:id", h.Expense.Delete)

	return e
}

func responseTiming() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			c.Response().Before(func() {
				c.Response().Header().Set("X-Response-Time", time.Since(start).String())
			})
			return next(c)
		}
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID,
			)
			return nil
		},
	})
}
