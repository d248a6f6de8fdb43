package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"

	"expense-tracker/app/config"
	"expense-tracker/app/driver/cookie"
	"expense-tracker/app/driver/oidc"
	"expense-tracker/app/driver/postgres"
	"expense-tracker/app/driver/s3"
	"expense-tracker/app/gateway"
	"expense-tracker/app/port"
	"expense-tracker/app/rest"
	"expense-tracker/app/rest/handlers"
	"expense-tracker/app/rest/middleware"
	"expense-tracker/app/usecase"
	"expense-tracker/app/utils/logger"
	"expense-tracker/app/utils/validator"
)

// Container wires the whole dependency graph and owns its lifecycle.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Echo   *echo.Echo

	db *postgres.DB
}

// New builds the container in dependency order: config, logger, drivers,
// gateway, usecases, handlers, router.
func New(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := postgres.NewConnection(cfg, logger.WithComponent(log, "postgres"))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	providerClient, err := oidc.NewClient(ctx, cfg, logger.WithComponent(log, "oidc"))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init identity provider client: %w", err)
	}

	presigner, err := s3.NewPresigner(ctx, cfg, logger.WithComponent(log, "s3"))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init object store presigner: %w", err)
	}

	sessions := func(c echo.Context) port.SessionStore {
		return cookie.New(c, cfg.SecureCookies)
	}

	authGateway := gateway.NewAuthGateway(providerClient, cfg.FrontendURL, logger.WithComponent(log, "auth"))

	expenseRepo := postgres.NewExpenseRepository(db.Pool(), logger.WithComponent(log, "expense_repo"))

	uploadUsecase := usecase.NewUploadUseCase(presigner, logger.WithComponent(log, "upload"))
	expenseUsecase := usecase.NewExpenseUseCase(expenseRepo, presigner, logger.WithComponent(log, "expense"))

	v := validator.New()

	h := rest.Handlers{
		Auth:    handlers.NewAuthHandler(authGateway, sessions, cfg.FrontendURL, log),
		Upload:  handlers.NewUploadHandler(uploadUsecase, v, log),
		Expense: handlers.NewExpenseHandler(expenseUsecase, v, log),
		Health:  handlers.NewHealthHandler(db),
		Guard:   middleware.NewAuthMiddleware(authGateway, sessions, log),
	}

	return &Container{
		Config: cfg,
		Logger: log,
		Echo:   rest.NewRouter(h, cfg.FrontendURL, log),
		db:     db,
	}, nil
}

// Close releases the container's resources.
func (c *Container) Close() {
	if c.db != nil {
		c.db.Close()
	}
}
