package access

import (
	"github.com/vhu-platform/complaint-service/internal/domain"
	"github.com/vhu-platform/complaint-service/internal/repository"
)

// ListQuery carries the caller-supplied listing parameters before role
// scoping is applied.
type ListQuery struct {
	Status      string
	Priority    string
	CategoryID  string
	AssignedTo  string
	SubmittedBy string
	Search      string
	SortBy      string
	SortOrder   string
	Page        int
	Limit       int
}

// BuildFilter turns (role, caller, query) into a repository filter. The role
// scope is applied after every caller-supplied clause is merged, so a search
// term can never widen what a caller is allowed to see:
//   - students see only their own complaints,
//   - staff see their queue (assigned to them or unassigned),
//   - admins are unrestricted.
func BuildFilter(role domain.Role, callerID string, q ListQuery) repository.ComplaintFilter {
	filter := repository.ComplaintFilter{
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	}

	if q.Status != "" {
		status := domain.ComplaintStatus(q.Status)
		filter.Status = &status
	}
	if q.Priority != "" {
		priority := domain.ComplaintPriority(q.Priority)
		filter.Priority = &priority
	}
	if q.CategoryID != "" {
		categoryID := q.CategoryID
		filter.CategoryID = &categoryID
	}
	if q.AssignedTo != "" {
		assignedTo := q.AssignedTo
		filter.AssignedTo = &assignedTo
	}
	if q.SubmittedBy != "" && role != domain.RoleStudent {
		submittedBy := q.SubmittedBy
		filter.SubmittedBy = &submittedBy
	}
	if q.Search != "" {
		search := q.Search
		filter.Search = &search
	}

	// Role scope last, so nothing above can overwrite it.
	switch role {
	case domain.RoleStudent:
		caller := callerID
		filter.SubmittedBy = &caller
	case domain.RoleStaff:
		caller := callerID
		filter.AssigneeQueue = &caller
	}

	page := q.Page
	if page <= 0 {
		page = 1
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	return filter
}

// CanView reports whether the caller may read the given complaint.
func CanView(role domain.Role, callerID string, complaint *domain.Complaint) bool {
	if role != domain.RoleStudent {
		return true
	}
	return complaint.SubmittedBy == callerID
}

// VisibleResponses filters internal notes out for callers who are not staff
// or admin.
func VisibleResponses(role domain.Role, responses []domain.Response) []domain.Response {
	if role.IsStaffOrAdmin() {
		return responses
	}
	visible := make([]domain.Response, 0, len(responses))
	for _, response := range responses {
		if response.IsInternal {
			continue
		}
		visible = append(visible, response)
	}
	return visible
}
