package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/happyhourhq/happyhour-core/internal/app/middlewares"
	"github.com/happyhourhq/happyhour-core/internal/app/models"
	"github.com/happyhourhq/happyhour-core/internal/app/pkg"
	"github.com/happyhourhq/happyhour-core/internal/app/services"
)

type DealHandler struct {
	dealService     *services.DealService
	merchantService *services.MerchantService
	authMiddleware  *middlewares.AuthMiddleware
}

func NewDealHandler(dealService *services.DealService, merchantService *services.MerchantService, authMiddleware *middlewares.AuthMiddleware) *DealHandler {
	return &DealHandler{
		dealService:     dealService,
		merchantService: merchantService,
		authMiddleware:  authMiddleware,
	}
}

func (h *DealHandler) RegisterRoutes(router fiber.Router) {
	dealGroup := router.Group("/deals")

	// Public endpoints
	dealGroup.Get("/", h.GetDeals)
	dealGroup.Get("/:id", h.GetDeal)

	// Merchant endpoints
	dealGroup.Post("/", h.authMiddleware.AuthSession, h.CreateDeal)
	dealGroup.Post("/:id/pause", h.authMiddleware.AuthSession, h.PauseDeal)
	dealGroup.Post("/:id/resume", h.authMiddleware.AuthSession, h.ResumeDeal)
	dealGroup.Post("/:id/extend", h.authMiddleware.AuthSession, h.ExtendDeal)

	// Admin endpoints
	adminOnly := h.authMiddleware.RequireRole(models.UserRoleAdmin)
	dealGroup.Post("/:id/approve", h.authMiddleware.AuthSession, adminOnly, h.ApproveDeal)
	dealGroup.Post("/:id/reject", h.authMiddleware.AuthSession, adminOnly, h.RejectDeal)
}

func (h *DealHandler) CreateDeal(c *fiber.Ctx) error {
	var req models.DealCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	user := middlewares.CurrentUser(c)
	merchant, err := h.merchantService.GetByOwner(user.ID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	deal, err := h.dealService.CreateDeal(merchant, user, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.CreatedResponse(c, deal)
}

func (h *DealHandler) GetDeal(c *fiber.Ctx) error {
	deal, err := h.dealService.GetDeal(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, deal)
}

func (h *DealHandler) GetDeals(c *fiber.Ctx) error {
	pagination := models.PaginationRequest{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 10),
	}

	var status *models.DealStatus
	if statusStr := c.Query("status"); statusStr != "" {
		dealStatus := models.DealStatus(statusStr)
		status = &dealStatus
	}

	deals, err := h.dealService.GetDeals(&pagination, status, c.Query("tag"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, deals)
}

func (h *DealHandler) ApproveDeal(c *fiber.Ctx) error {
	deal, err := h.dealService.ApproveDeal(c.Params("id"), middlewares.CurrentUser(c))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, deal)
}

func (h *DealHandler) RejectDeal(c *fiber.Ctx) error {
	var req models.DealRejectRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	deal, err := h.dealService.RejectDeal(c.Params("id"), middlewares.CurrentUser(c), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, deal)
}

func (h *DealHandler) PauseDeal(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)
	merchant, err := h.merchantService.GetByOwner(user.ID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	deal, err := h.dealService.PauseDeal(c.Params("id"), merchant, user)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, deal)
}

func (h *DealHandler) ResumeDeal(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)
	merchant, err := h.merchantService.GetByOwner(user.ID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	deal, err := h.dealService.ResumeDeal(c.Params("id"), merchant, user)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, deal)
}

func (h *DealHandler) ExtendDeal(c *fiber.Ctx) error {
	var req models.DealExtendRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	user := middlewares.CurrentUser(c)
	merchant, err := h.merchantService.GetByOwner(user.ID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	deal, err := h.dealService.ExtendDeal(c.Params("id"), merchant, user, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, deal)
}
