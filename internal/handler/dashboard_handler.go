package handler

import (
	"github.com/gofiber/fiber/v2"

	"gharbazaar/internal/service/dashboard"
)

type DashboardHandler struct {
	dashboardService dashboard.Service
}

func NewDashboardHandler(dashboardService dashboard.Service) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats returns the admin counters. Results come from a short-lived
// cache, so they can lag the database by a few minutes.
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetStats(c.Context())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}
