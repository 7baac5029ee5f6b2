package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/retail-backoffice/internal/application/auth"
	appstock "github.com/jhoicas/retail-backoffice/internal/application/stock"
	"github.com/jhoicas/retail-backoffice/internal/application/usecase"
	"github.com/jhoicas/retail-backoffice/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	OrganizationUC   *usecase.OrganizationUseCase
	LocationUC       *usecase.LocationUseCase
	SellableUnitUC   *usecase.SellableUnitUseCase
	StockCoordinator *appstock.Coordinator
	AuthUC           *auth.AuthUseCase
	JWTSecret        string
	ExpiringSoonDays int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Organizations (público por ahora: el alta del tenant precede a cualquier token)
	organizations := api.Group("/organizations")
	organizationHandler := NewOrganizationHandler(deps.OrganizationUC)
	organizations.Get("/", organizationHandler.List)
	organizations.Post("/", organizationHandler.Create)
	organizations.Get("/:id", organizationHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	manageStock := RequireRole(entity.RoleAdmin, entity.RoleAlmacenista)

	// Locations (protegido; escritura solo admin)
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", RequireRole(entity.RoleAdmin), locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", RequireRole(entity.RoleAdmin), locationHandler.Update)
	locations.Delete("/:id", RequireRole(entity.RoleAdmin), locationHandler.Delete)

	// Sellable units (protegido; escritura admin/almacenista)
	units := protected.Group("/sellable-units")
	unitHandler := NewSellableUnitHandler(deps.SellableUnitUC)
	units.Post("/", manageStock, unitHandler.Create)
	units.Get("/", unitHandler.List)
	units.Get("/:id", unitHandler.GetByID)
	units.Put("/:id", manageStock, unitHandler.Update)
	units.Delete("/:id", RequireRole(entity.RoleAdmin), unitHandler.Delete)

	// Stocks (protegido). Reservas/consumos los hace cualquier rol autenticado
	// (el vendedor en caja); recepciones, ajustes y condición son de bodega.
	stocks := protected.Group("/stocks")
	stockHandler := NewStockHandler(deps.StockCoordinator, deps.ExpiringSoonDays)
	stocks.Post("/receipts", manageStock, stockHandler.AddBatch)
	stocks.Get("/low-stock", stockHandler.LowStock)
	stocks.Get("/:id", stockHandler.Snapshot)
	stocks.Get("/:id/expiring", stockHandler.ExpiringBatches)
	stocks.Post("/:id/reserve", stockHandler.Reserve)
	stocks.Post("/:id/release", stockHandler.Release)
	stocks.Post("/:id/consume", stockHandler.Consume)
	stocks.Post("/:id/stocktake", manageStock, stockHandler.Stocktake)
	stocks.Post("/:id/batches/:batchID/adjust", manageStock, stockHandler.AdjustBatch)
	stocks.Post("/:id/batches/:batchID/condition", manageStock, stockHandler.MoveBatchCondition)

	// Movements (protegido, solo lectura)
	protected.Get("/movements", stockHandler.ListMovements)
}
