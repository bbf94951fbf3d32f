package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/recupera/collections-service/internal/service"
)

// DashboardHandler serves the aggregated landing-screen numbers.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: dashboard}
}

// Summary GET /dashboard/summary.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}
