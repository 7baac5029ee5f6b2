package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/retail-backoffice/internal/application/auth"
	appstock "github.com/jhoicas/retail-backoffice/internal/application/stock"
	"github.com/jhoicas/retail-backoffice/internal/application/usecase"
	"github.com/jhoicas/retail-backoffice/internal/domain"
	"github.com/jhoicas/retail-backoffice/internal/domain/stock"
	"github.com/jhoicas/retail-backoffice/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/retail-backoffice/internal/interfaces/http"
	"github.com/jhoicas/retail-backoffice/pkg/config"
	"github.com/jhoicas/retail-backoffice/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("ordering_policy", cfg.Stock.OrderingPolicy).
		Msg("iniciando aplicación")

	policy, err := stock.ParseOrderingPolicy(cfg.Stock.OrderingPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("STOCK_ORDERING_POLICY inválida")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	organizationRepo := postgres.NewOrganizationRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	unitRepo := postgres.NewSellableUnitRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	organizationUC := usecase.NewOrganizationUseCase(organizationRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo)
	unitUC := usecase.NewSellableUnitUseCase(unitRepo)
	coordinator := appstock.NewCoordinator(
		txRunner, stockRepo, movementRepo, unitRepo,
		policy, domain.SystemClock{}, log,
	)
	authUC := auth.NewAuthUseCase(userRepo, organizationRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Retail Backoffice API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		OrganizationUC:   organizationUC,
		LocationUC:       locationUC,
		SellableUnitUC:   unitUC,
		StockCoordinator: coordinator,
		AuthUC:           authUC,
		JWTSecret:        cfg.JWT.Secret,
		ExpiringSoonDays: cfg.Stock.ExpiringSoonDays,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
