package service

import (
	"context"
	"math"

	"github.com/vhu-platform/complaint-service/internal/access"
	"github.com/vhu-platform/complaint-service/internal/domain"
	"github.com/vhu-platform/complaint-service/internal/repository"
	"github.com/vhu-platform/complaint-service/pkg/util/errorutil"
)

// DashboardStats aggregates the role-scoped overview numbers.
type DashboardStats struct {
	Total      int
	ByStatus   map[domain.ComplaintStatus]int
	ByPriority map[domain.ComplaintPriority]int
	Recent     []domain.Complaint
	AdminStats *AdminStats
}

// AdminStats carries the extra numbers shown only to admins.
type AdminStats struct {
	TotalUsers        int
	TotalStudents     int
	TotalStaff        int
	ActiveCategories  int
	AvgResolutionDays float64
	AvgSatisfaction   float64
	RatedComplaints   int
}

// DashboardService computes overview statistics scoped by caller role.
type DashboardService struct {
	complaints repository.ComplaintRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
}

// NewDashboardService constructs the service.
func NewDashboardService(complaints repository.ComplaintRepository, users repository.UserRepository, categories repository.CategoryRepository) *DashboardService {
	return &DashboardService{complaints: complaints, users: users, categories: categories}
}

// Stats returns dashboard numbers visible to the caller. Students see only
// their own complaints, staff their queue, admins everything.
func (s *DashboardService) Stats(ctx context.Context, caller *domain.User) (*DashboardStats, error) {
	scope := access.BuildFilter(caller.Role, caller.ID, access.ListQuery{})

	byStatus, err := s.complaints.StatusCounts(ctx, scope)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	byPriority, err := s.complaints.PriorityCounts(ctx, scope)
	if err != nil {
		return nil, errorutil.MapError(err)
	}

	total := 0
	for _, count := range byStatus {
		total += count
	}

	recentScope := scope
	recentScope.SortBy = "createdAt"
	recentScope.SortOrder = "desc"
	recentScope.Limit = 5
	recentScope.Offset = 0
	recent, _, err := s.complaints.List(ctx, recentScope)
	if err != nil {
		return nil, errorutil.MapError(err)
	}

	stats := &DashboardStats{
		Total:      total,
		ByStatus:   byStatus,
		ByPriority: byPriority,
		Recent:     recent,
	}

	if caller.Role == domain.RoleAdmin {
		adminStats, err := s.adminStats(ctx)
		if err != nil {
			return nil, err
		}
		stats.AdminStats = adminStats
	}
	return stats, nil
}

func (s *DashboardService) adminStats(ctx context.Context) (*AdminStats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	students, err := s.users.CountByRole(ctx, domain.RoleStudent)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	staff, err := s.users.CountByRole(ctx, domain.RoleStaff)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	activeCategories, err := s.categories.CountActive(ctx)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	avgDays, avgRating, rated, err := s.complaints.ResolutionStats(ctx)
	if err != nil {
		return nil, errorutil.MapError(err)
	}

	return &AdminStats{
		TotalUsers:        totalUsers,
		TotalStudents:     students,
		TotalStaff:        staff,
		ActiveCategories:  activeCategories,
		AvgResolutionDays: math.Round(avgDays*10) / 10,
		AvgSatisfaction:   math.Round(avgRating*10) / 10,
		RatedComplaints:   rated,
	}, nil
}
