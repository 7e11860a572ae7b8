package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/happyhourhq/happyhour-core/internal/app/pkg"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.GetHealth)
}

// GetHealth pings the real dependencies; no component is ever mocked
// into the health report.
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	status := map[string]string{
		"service":  "happyhour-core",
		"database": "ok",
		"redis":    "ok",
	}

	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(c.Context()) != nil {
		status["database"] = "unreachable"
	}
	if err := h.redis.Ping(c.Context()).Err(); err != nil {
		status["redis"] = "unreachable"
	}

	if status["database"] != "ok" || status["redis"] != "ok" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}
	return pkg.SuccessResponse(c, status)
}
