package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler serves the service metadata and liveness endpoints.
type HealthHandler struct {
	started     time.Time
	storeDriver string
}

// NewHealthHandler creates a HealthHandler. Uptime is measured from started.
func NewHealthHandler(started time.Time, storeDriver string) *HealthHandler {
	return &HealthHandler{started: started, storeDriver: storeDriver}
}

// RegisterRoutes registers GET / and GET /health.
func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleIndex)
	router.Get("/health", h.HandleHealth)
}

// HandleIndex describes the service and its entry points.
func (h *HealthHandler) HandleIndex(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":   "Products microservice",
		"status":    "active",
		"store":     h.storeDriver,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"endpoints": fiber.Map{
			"productos": "/productos",
			"products":  "/products",
			"health":    "/health",
		},
	})
}

// HandleHealth reports liveness and uptime in seconds.
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "OK",
		"uptime":    time.Since(h.started).Seconds(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
