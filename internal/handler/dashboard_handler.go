package handler

import (
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	service service.DashboardService
	log     *zap.Logger
}

func NewDashboardHandler(s service.DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{service: s, log: log}
}

// GetSales returns revenue per day for charts
// Query params: days (default 7)
func (h *DashboardHandler) GetSales(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)

	data, err := h.service.GetDailySales(c.UserContext(), days)
	if err != nil {
		return respondError(c, h.log, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"period":  days,
		"data":    data,
	})
}

// GetOverview returns inventory overview statistics
func (h *DashboardHandler) GetOverview(c *fiber.Ctx) error {
	stats, err := h.service.GetOverview(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return success(c, 200, "Dashboard overview", stats)
}
