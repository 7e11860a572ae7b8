package injector

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/wire"
	"github.com/happyhourhq/happyhour-core/internal/app/deliveries"
	"github.com/happyhourhq/happyhour-core/internal/app/middlewares"
	"github.com/happyhourhq/happyhour-core/internal/app/services"
	"github.com/happyhourhq/happyhour-core/internal/infrastructures"
)

// Application represents the main application container for happyhour-core
type Application struct {
	HealthHandler       *deliveries.HealthHandler
	DealHandler         *deliveries.DealHandler
	VoucherHandler      *deliveries.VoucherHandler
	MerchantHandler     *deliveries.MerchantHandler
	VenueHandler        *deliveries.VenueHandler
	StatsHandler        *deliveries.StatsHandler
	RateLimitMiddleware *middlewares.RateLimitMiddleware
	Sweeper             *services.SweeperService
	Audit               *services.AuditService
}

// RegisterRoutes registers all application routes using a Fiber router
func (app *Application) RegisterRoutes(router fiber.Router) {
	// Apply global rate limit for public API
	router.Use(app.RateLimitMiddleware.LimitByIP(middlewares.PublicAPILimit))

	// Authenticated endpoints get a user-based rate limit on top
	protectedGroup := router.Group("")
	protectedGroup.Use(app.RateLimitMiddleware.LimitByUser(middlewares.AuthenticatedAPILimit))

	// Register all handlers
	app.HealthHandler.RegisterRoutes(router)
	app.DealHandler.RegisterRoutes(router)
	app.VoucherHandler.RegisterRoutes(router)
	app.MerchantHandler.RegisterRoutes(router)
	app.VenueHandler.RegisterRoutes(router)
	app.StatsHandler.RegisterRoutes(router)
}

// Infrastructure providers
var infrastructureSet = wire.NewSet(
	infrastructures.NewDatabase,
	infrastructures.NewRedisClient,
	infrastructures.NewValidator,
	infrastructures.NewMailer,
	infrastructures.NewGeocoder,
	wire.Value("happyhour"),
	wire.Bind(new(middlewares.RateLimiter), new(*middlewares.RedisRateLimiter)),
	middlewares.NewRedisRateLimiter,
)

// Service providers
var serviceSet = wire.NewSet(
	services.NewSessionService,
	wire.Bind(new(services.IdentityProvider), new(*services.SessionService)),
	services.NewUserService,
	services.NewAuditService,
	services.NewMerchantService,
	services.NewVenueService,
	services.NewDealService,
	services.NewVoucherService,
	services.NewStatsService,
	services.NewSweeperService,
)

// Middleware providers
var middlewareSet = wire.NewSet(
	middlewares.NewAuthMiddleware,
	middlewares.NewRateLimitMiddleware,
)

// Handler providers
var handlerSet = wire.NewSet(
	deliveries.NewHealthHandler,
	deliveries.NewDealHandler,
	deliveries.NewVoucherHandler,
	deliveries.NewMerchantHandler,
	deliveries.NewVenueHandler,
	deliveries.NewStatsHandler,
	wire.Struct(new(Application), "*"), // This tells Wire to build the Application struct
)
