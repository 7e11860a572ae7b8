package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/happyhourhq/happyhour-core/internal/app/errors"
	"github.com/happyhourhq/happyhour-core/internal/app/middlewares"
	"github.com/happyhourhq/happyhour-core/internal/app/models"
	"github.com/happyhourhq/happyhour-core/internal/app/pkg"
	"github.com/happyhourhq/happyhour-core/internal/app/services"
)

type VenueHandler struct {
	venueService    *services.VenueService
	merchantService *services.MerchantService
	authMiddleware  *middlewares.AuthMiddleware
}

func NewVenueHandler(venueService *services.VenueService, merchantService *services.MerchantService, authMiddleware *middlewares.AuthMiddleware) *VenueHandler {
	return &VenueHandler{
		venueService:    venueService,
		merchantService: merchantService,
		authMiddleware:  authMiddleware,
	}
}

func (h *VenueHandler) RegisterRoutes(router fiber.Router) {
	venueGroup := router.Group("/venues")

	venueGroup.Get("/", h.GetVenues)
	venueGroup.Get("/:id", h.GetVenue)
	venueGroup.Post("/", h.authMiddleware.AuthSession, h.CreateVenue)
}

func (h *VenueHandler) CreateVenue(c *fiber.Ctx) error {
	var req models.VenueCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	user := middlewares.CurrentUser(c)
	merchant, err := h.merchantService.GetByOwner(user.ID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	venue, err := h.venueService.CreateVenue(merchant, user, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.CreatedResponse(c, venue)
}

func (h *VenueHandler) GetVenue(c *fiber.Ctx) error {
	venue, err := h.venueService.GetVenue(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, venue)
}

func (h *VenueHandler) GetVenues(c *fiber.Ctx) error {
	merchantID, err := uuid.Parse(c.Query("merchant_id"))
	if err != nil {
		return pkg.ErrorResponse(c, errors.NewValidationError("merchant_id query parameter is required"))
	}

	venues, err := h.venueService.ListByMerchant(merchantID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, venues)
}
