package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/happyhourhq/happyhour-core/internal/app/middlewares"
	"github.com/happyhourhq/happyhour-core/internal/app/models"
	"github.com/happyhourhq/happyhour-core/internal/app/pkg"
	"github.com/happyhourhq/happyhour-core/internal/app/services"
)

type MerchantHandler struct {
	merchantService *services.MerchantService
	authMiddleware  *middlewares.AuthMiddleware
}

func NewMerchantHandler(merchantService *services.MerchantService, authMiddleware *middlewares.AuthMiddleware) *MerchantHandler {
	return &MerchantHandler{
		merchantService: merchantService,
		authMiddleware:  authMiddleware,
	}
}

func (h *MerchantHandler) RegisterRoutes(router fiber.Router) {
	merchantGroup := router.Group("/merchants")

	merchantGroup.Get("/:id", h.GetMerchant)
	merchantGroup.Post("/", h.authMiddleware.AuthSession, h.Register)

	adminOnly := h.authMiddleware.RequireRole(models.UserRoleAdmin)
	merchantGroup.Post("/:id/approve", h.authMiddleware.AuthSession, adminOnly, h.ApproveMerchant)
	merchantGroup.Post("/:id/reject", h.authMiddleware.AuthSession, adminOnly, h.RejectMerchant)
}

func (h *MerchantHandler) Register(c *fiber.Ctx) error {
	var req models.MerchantRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	merchant, err := h.merchantService.Register(middlewares.CurrentUser(c), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.CreatedResponse(c, merchant)
}

func (h *MerchantHandler) GetMerchant(c *fiber.Ctx) error {
	merchant, err := h.merchantService.GetMerchant(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, merchant)
}

func (h *MerchantHandler) ApproveMerchant(c *fiber.Ctx) error {
	merchant, err := h.merchantService.Approve(c.Params("id"), middlewares.CurrentUser(c))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, merchant)
}

func (h *MerchantHandler) RejectMerchant(c *fiber.Ctx) error {
	var req models.MerchantRejectRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	merchant, err := h.merchantService.Reject(c.Params("id"), middlewares.CurrentUser(c), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, merchant)
}
