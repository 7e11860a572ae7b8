package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/happyhourhq/happyhour-core/internal/app/middlewares"
	"github.com/happyhourhq/happyhour-core/internal/app/models"
	"github.com/happyhourhq/happyhour-core/internal/app/pkg"
	"github.com/happyhourhq/happyhour-core/internal/app/services"
)

type VoucherHandler struct {
	voucherService *services.VoucherService
	authMiddleware *middlewares.AuthMiddleware
	rateLimit      *middlewares.RateLimitMiddleware
}

func NewVoucherHandler(voucherService *services.VoucherService, authMiddleware *middlewares.AuthMiddleware, rateLimit *middlewares.RateLimitMiddleware) *VoucherHandler {
	return &VoucherHandler{
		voucherService: voucherService,
		authMiddleware: authMiddleware,
		rateLimit:      rateLimit,
	}
}

func (h *VoucherHandler) RegisterRoutes(router fiber.Router) {
	voucherGroup := router.Group("/vouchers")
	voucherGroup.Use(h.authMiddleware.AuthSession)

	voucherGroup.Get("/", h.GetMyVouchers)
	voucherGroup.Post("/claim", h.ClaimDeal)
	voucherGroup.Get("/:code/scan", h.GetScanPayload)

	// Redemption happens at the counter, so it is gated to staff roles
	// and kept under a tighter limit to slow brute-force code guessing.
	voucherGroup.Post("/redeem",
		h.authMiddleware.RequireRole(models.UserRoleMerchant, models.UserRoleAdmin),
		h.rateLimit.LimitByUser(middlewares.RedeemLimit),
		h.RedeemVoucher)
}

func (h *VoucherHandler) ClaimDeal(c *fiber.Ctx) error {
	var req models.VoucherClaimRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	voucher, err := h.voucherService.Claim(middlewares.CurrentUser(c), &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.CreatedResponse(c, models.VoucherClaimResponse{
		VoucherID: voucher.ID,
		Code:      voucher.Code,
		ExpiresAt: voucher.ExpiresAt,
	})
}

func (h *VoucherHandler) RedeemVoucher(c *fiber.Ctx) error {
	var req models.VoucherRedeemRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	result, err := h.voucherService.Redeem(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, result)
}

func (h *VoucherHandler) GetScanPayload(c *fiber.Ctx) error {
	payload, err := h.voucherService.ScanPayload(middlewares.CurrentUser(c), c.Params("code"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, payload)
}

func (h *VoucherHandler) GetMyVouchers(c *fiber.Ctx) error {
	pagination := models.PaginationRequest{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 10),
	}

	vouchers, err := h.voucherService.ListUserVouchers(middlewares.CurrentUser(c), &pagination)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, vouchers)
}
