package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vhu-platform/complaint-service/internal/auth"
	"github.com/vhu-platform/complaint-service/internal/service"
	"github.com/vhu-platform/complaint-service/pkg/util/errorutil"
)

// DashboardHandler serves the role-scoped overview numbers.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Stats GET /api/dashboard/stats.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("Not authorized to access this route.")
	}
	stats, err := h.dashboard.Stats(c.Context(), principal.User)
	if err != nil {
		return err
	}

	recent := make([]fiber.Map, 0, len(stats.Recent))
	for _, complaint := range stats.Recent {
		recent = append(recent, fiber.Map{
			"id":        complaint.ID,
			"ticketId":  complaint.TicketID,
			"title":     complaint.Title,
			"status":    complaint.Status,
			"priority":  complaint.Priority,
			"createdAt": complaint.CreatedAt,
		})
	}

	payload := fiber.Map{
		"total":            stats.Total,
		"byStatus":         stats.ByStatus,
		"byPriority":       stats.ByPriority,
		"recentComplaints": recent,
	}
	if stats.AdminStats != nil {
		payload["adminStats"] = fiber.Map{
			"totalUsers":        stats.AdminStats.TotalUsers,
			"totalStudents":     stats.AdminStats.TotalStudents,
			"totalStaff":        stats.AdminStats.TotalStaff,
			"activeCategories":  stats.AdminStats.ActiveCategories,
			"avgResolutionDays": stats.AdminStats.AvgResolutionDays,
			"avgSatisfaction":   stats.AdminStats.AvgSatisfaction,
			"ratedComplaints":   stats.AdminStats.RatedComplaints,
		}
	}
	return c.JSON(fiber.Map{
		"success": true,
		"stats":   payload,
	})
}
