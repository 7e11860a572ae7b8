package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/happyhourhq/happyhour-core/internal/app/middlewares"
	"github.com/happyhourhq/happyhour-core/internal/app/models"
	"github.com/happyhourhq/happyhour-core/internal/app/pkg"
	"github.com/happyhourhq/happyhour-core/internal/app/services"
)

type StatsHandler struct {
	statsService    *services.StatsService
	merchantService *services.MerchantService
	authMiddleware  *middlewares.AuthMiddleware
}

func NewStatsHandler(statsService *services.StatsService, merchantService *services.MerchantService, authMiddleware *middlewares.AuthMiddleware) *StatsHandler {
	return &StatsHandler{
		statsService:    statsService,
		merchantService: merchantService,
		authMiddleware:  authMiddleware,
	}
}

func (h *StatsHandler) RegisterRoutes(router fiber.Router) {
	statsGroup := router.Group("/stats")
	statsGroup.Use(h.authMiddleware.AuthSession)

	statsGroup.Get("/platform", h.authMiddleware.RequireRole(models.UserRoleAdmin), h.GetPlatformStats)
	statsGroup.Get("/merchant", h.GetMerchantStats)
	statsGroup.Get("/me", h.GetUserStats)
}

func (h *StatsHandler) GetPlatformStats(c *fiber.Ctx) error {
	stats, err := h.statsService.PlatformStats(c.Context())
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, stats)
}

func (h *StatsHandler) GetMerchantStats(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)
	merchant, err := h.merchantService.GetByOwner(user.ID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	stats, err := h.statsService.MerchantStats(merchant)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, stats)
}

func (h *StatsHandler) GetUserStats(c *fiber.Ctx) error {
	stats, err := h.statsService.UserStats(middlewares.CurrentUser(c))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, stats)
}
