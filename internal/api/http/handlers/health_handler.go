package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/vhu-platform/complaint-service/internal/persistence"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	postgres *persistence.Postgres
	redis    *persistence.Redis
}

func NewHealthHandler(postgres *persistence.Postgres, redis *persistence.Redis) *HealthHandler {
	return &HealthHandler{postgres: postgres, redis: redis}
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Ready GET /health/ready. Postgres is required; Redis is reported but
// does not fail readiness because the cache is best effort.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	checks := fiber.Map{
		"postgres": "ok",
		"redis":    "ok",
	}
	status := http.StatusOK

	if err := h.postgres.Ping(c.Context()); err != nil {
		checks["postgres"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if err := h.redis.Ping(c.Context()); err != nil {
		checks["redis"] = err.Error()
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": checks,
	})
}
