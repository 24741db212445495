package dashboard

import (
	"github.com/campusfund/fee-api/services"
	"github.com/campusfund/fee-api/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DashboardHandler handles the aggregate dashboard endpoint
type DashboardHandler struct {
	db      *gorm.DB
	service *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(db *gorm.DB, service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		db:      db,
		service: service,
	}
}

// GetDashboard returns the full collection snapshot: totals, top
// contributors, seven-day daily stats, department rollups and recently
// updated students
// GET /dashboard
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	data, err := h.service.ComputeDashboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute dashboard")
	}

	return response.Success(c, data)
}
