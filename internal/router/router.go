package router

import (
	"time"

	"github.com/danieln3m0/POSLas4as/internal/config"
	"github.com/danieln3m0/POSLas4as/internal/handler"
	"github.com/danieln3m0/POSLas4as/internal/infra"
	"github.com/danieln3m0/POSLas4as/internal/middleware"
	"github.com/danieln3m0/POSLas4as/internal/repository"
	"github.com/danieln3m0/POSLas4as/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the long-lived collaborators built by main.
type Deps struct {
	DB        *gorm.DB
	RDB       *redis.Client
	Publisher service.EventPublisher
	Locker    service.Locker
	Kafka     *infra.KafkaPublisher // optional
}

// Services exposes what the background workers need from the HTTP graph.
type Services struct {
	Products  service.ProductService
	Inventory service.InventoryService
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, deps Deps) (*gin.Engine, Services) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.IsProduction(), cfg.CORSAllowedOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(deps.RDB, cfg.RateLimitPerMinute, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(deps.DB)
	locationRepo := repository.NewLocationRepository(deps.DB)
	movementRepo := repository.NewStockMovementRepository(deps.DB)
	saleRepo := repository.NewSaleRepository(deps.DB)
	userRepo := repository.NewUserRepository(deps.DB)
	customerRepo := repository.NewCustomerRepository(deps.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	productSvc := service.NewProductService(productRepo, deps.RDB, deps.Publisher)
	inventorySvc := service.NewInventoryService(productRepo, locationRepo, movementRepo, deps.Locker, deps.Publisher, deps.RDB)
	locationSvc := service.NewLocationService(locationRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, userRepo, customerRepo, deps.Publisher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	salesH := handler.NewSalesHandler(saleSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc, cfg.ExpiryWarningDays)
	productsH := handler.NewProductsHandler(productSvc, inventorySvc)
	locationsH := handler.NewLocationsHandler(locationSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(deps.DB, deps.RDB, deps.Kafka))

	// Protected routes
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		sales := v1.Group("/sales")
		{
			sales.POST("", salesH.Create)
			sales.GET("", salesH.List)
			sales.GET("/number/:number", salesH.GetByNumber)
			sales.GET("/:id", salesH.Get)
			sales.POST("/:id/items", salesH.AddItem)
			sales.PATCH("/:id/items/:itemId", salesH.UpdateItem)
			sales.DELETE("/:id/items/:itemId", salesH.RemoveItem)
			sales.POST("/:id/payments", salesH.AddPayment)
			sales.POST("/:id/cancel", salesH.Cancel)
			sales.POST("/:id/refund", salesH.Refund)
		}

		products := v1.Group("/products")
		{
			products.POST("", productsH.Create)
			products.GET("/:id", productsH.Get)
			products.GET("/sku/:sku", productsH.GetBySKU)
			products.GET("/:id/reorder", productsH.Reorder)
		}

		inv := v1.Group("/inventory")
		{
			inv.POST("/stock", inventoryH.UpdateStock)
			inv.GET("/stock", inventoryH.StockAtLocation)
			inv.POST("/transfer", inventoryH.Transfer)
			inv.GET("/low-stock", inventoryH.LowStock)
			inv.GET("/reorder", inventoryH.NeedingReorder)
			inv.GET("/expiring", inventoryH.Expiring)
			inv.GET("/movements", inventoryH.Movements)
			inv.GET("/alerts", inventoryH.Alerts)
		}

		locations := v1.Group("/locations")
		{
			locations.POST("", locationsH.Create)
			locations.GET("", locationsH.List)
		}
	}

	return r, Services{Products: productSvc, Inventory: inventorySvc}
}
