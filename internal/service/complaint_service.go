package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/vhu-platform/complaint-service/internal/access"
	"github.com/vhu-platform/complaint-service/internal/domain"
	"github.com/vhu-platform/complaint-service/internal/events"
	"github.com/vhu-platform/complaint-service/internal/repository"
	"github.com/vhu-platform/complaint-service/internal/ticketid"
	"github.com/vhu-platform/complaint-service/pkg/util/errorutil"
)

// ComplaintService owns complaint creation and all lifecycle transitions.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
	ticketIDs  *ticketid.Generator
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// ComplaintDependencies bundles collaborators for the service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	CategoryRepo  repository.CategoryRepository
	UserRepo      repository.UserRepository
	TicketIDs     *ticketid.Generator
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	Now           func() time.Time
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		categories: deps.CategoryRepo,
		users:      deps.UserRepo,
		ticketIDs:  deps.TicketIDs,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        now,
	}
}

// CreateComplaintInput describes the creation payload.
type CreateComplaintInput struct {
	Title       string
	Description string
	CategoryID  string
	Priority    domain.ComplaintPriority
	IsAnonymous bool
	Attachments []domain.Attachment
}

// CreateComplaint validates input, allocates a ticket code and persists the
// complaint, then notifies staff and admins.
func (s *ComplaintService) CreateComplaint(ctx context.Context, submitterID string, input CreateComplaintInput) (*domain.Complaint, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" || input.CategoryID == "" {
		return nil, errorutil.NewValidationError("Please provide title, description, and category.", nil)
	}
	if len(title) > domain.MaxTitleLength {
		return nil, errorutil.NewValidationError("Title cannot exceed 200 characters.", nil)
	}
	if len(description) > domain.MaxDescriptionLength {
		return nil, errorutil.NewValidationError("Description cannot exceed 5000 characters.", nil)
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, errorutil.NewValidationError("Invalid priority value.", nil)
	}

	category, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewValidationError("Invalid or inactive category.", nil)
		}
		return nil, errorutil.MapError(err)
	}
	if !category.IsActive {
		return nil, errorutil.NewValidationError("Invalid or inactive category.", nil)
	}

	ticketCode, err := s.ticketIDs.Next(ctx, s.now())
	if err != nil {
		return nil, errorutil.MapError(err)
	}

	complaint := &domain.Complaint{
		TicketID:    ticketCode,
		Title:       title,
		Description: description,
		CategoryID:  category.ID,
		Priority:    priority,
		Status:      domain.StatusPending,
		SubmittedBy: submitterID,
		IsAnonymous: input.IsAnonymous,
		Attachments: input.Attachments,
		Responses:   []domain.Response{},
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, errorutil.MapError(err)
	}

	if err := s.categories.AdjustComplaintCount(ctx, category.ID, 1); err != nil {
		s.logger.Warn("failed to increment category counter",
			zap.String("category_id", category.ID), zap.Error(err))
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintSubmitted,
		ComplaintID: complaint.ID,
		ActorID:     submitterID,
		Payload: events.ComplaintSubmittedPayload{
			TicketID:    complaint.TicketID,
			Title:       complaint.Title,
			SubmittedBy: complaint.SubmittedBy,
		},
	})
	return complaint, nil
}

// ListComplaints returns the complaints visible to the caller plus the total
// matching count for pagination.
func (s *ComplaintService) ListComplaints(ctx context.Context, caller *domain.User, query access.ListQuery) ([]domain.Complaint, int, error) {
	filter := access.BuildFilter(caller.Role, caller.ID, query)
	complaints, total, err := s.complaints.List(ctx, filter)
	if err != nil {
		return nil, 0, errorutil.MapError(err)
	}
	for i := range complaints {
		complaints[i].Responses = access.VisibleResponses(caller.Role, complaints[i].Responses)
	}
	return complaints, total, nil
}

// GetComplaint fetches a single complaint, enforcing the student ownership
// rule and hiding internal responses from non-staff callers.
func (s *ComplaintService) GetComplaint(ctx context.Context, caller *domain.User, id string) (*domain.Complaint, error) {
	complaint, err := s.getComplaint(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanView(caller.Role, caller.ID, complaint) {
		return nil, errorutil.NewForbidden("Not authorized to view this complaint.")
	}
	complaint.Responses = access.VisibleResponses(caller.Role, complaint.Responses)
	return complaint, nil
}

// UpdateStatus moves a complaint to any recognized status. Restricted to
// staff and admins; rejection requires a reason; the first transition to
// resolved stamps ResolvedAt, which is never cleared afterwards.
func (s *ComplaintService) UpdateStatus(ctx context.Context, caller *domain.User, id string, newStatus domain.ComplaintStatus, rejectionReason string) (*domain.Complaint, error) {
	if !caller.Role.IsStaffOrAdmin() {
		return nil, errorutil.NewForbidden("Only staff or admins can update complaint status.")
	}
	if !domain.ValidStatus(newStatus) {
		return nil, errorutil.NewValidationError("Invalid status value.", nil)
	}
	if newStatus == domain.StatusRejected && strings.TrimSpace(rejectionReason) == "" {
		return nil, errorutil.NewValidationError("Please provide a reason for rejection.", nil)
	}

	complaint, err := s.getComplaint(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := complaint.Status
	complaint.Status = newStatus
	if newStatus == domain.StatusRejected {
		complaint.RejectionReason = strings.TrimSpace(rejectionReason)
	}
	if newStatus == domain.StatusResolved && complaint.ResolvedAt == nil {
		resolvedAt := s.now()
		complaint.ResolvedAt = &resolvedAt
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, errorutil.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaint.ID,
		ActorID:     caller.ID,
		Payload: events.ComplaintStatusChangedPayload{
			TicketID:        complaint.TicketID,
			Title:           complaint.Title,
			SubmittedBy:     complaint.SubmittedBy,
			OldStatus:       oldStatus,
			NewStatus:       newStatus,
			RejectionReason: complaint.RejectionReason,
		},
	})
	return complaint, nil
}

// AssignComplaint assigns a complaint to a staff or admin user and forces the
// status to in-review. Admin only.
func (s *ComplaintService) AssignComplaint(ctx context.Context, caller *domain.User, id, assigneeID string) (*domain.Complaint, error) {
	if caller.Role != domain.RoleAdmin {
		return nil, errorutil.NewForbidden("Only admins can assign complaints.")
	}
	if assigneeID == "" {
		return nil, errorutil.NewValidationError("Please specify a staff member to assign.", nil)
	}

	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewValidationError("Invalid staff member.", nil)
		}
		return nil, errorutil.MapError(err)
	}
	if !assignee.Role.IsStaffOrAdmin() || !assignee.IsActive {
		return nil, errorutil.NewValidationError("Invalid staff member.", nil)
	}

	complaint, err := s.getComplaint(ctx, id)
	if err != nil {
		return nil, err
	}

	complaint.AssignedTo = &assignee.ID
	complaint.Status = domain.StatusInReview
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, errorutil.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintAssigned,
		ComplaintID: complaint.ID,
		ActorID:     caller.ID,
		Payload: events.ComplaintAssignedPayload{
			TicketID:     complaint.TicketID,
			Title:        complaint.Title,
			SubmittedBy:  complaint.SubmittedBy,
			AssigneeID:   assignee.ID,
			AssigneeName: assignee.Name,
		},
	})
	return complaint, nil
}

// AddResponse appends an entry to the complaint thread. Students may only
// respond to their own complaints, and never as internal notes.
func (s *ComplaintService) AddResponse(ctx context.Context, caller *domain.User, id, message string, isInternal bool) (*domain.Complaint, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errorutil.NewValidationError("Please provide a response message.", nil)
	}

	complaint, err := s.getComplaint(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.Role == domain.RoleStudent {
		if complaint.SubmittedBy != caller.ID {
			return nil, errorutil.NewForbidden("Not authorized to respond to this complaint.")
		}
		isInternal = false
	}

	complaint.Responses = append(complaint.Responses, domain.Response{
		ID:         uuid.NewString(),
		UserID:     caller.ID,
		Message:    message,
		IsInternal: isInternal,
		CreatedAt:  s.now(),
	})

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, errorutil.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventResponseAdded,
		ComplaintID: complaint.ID,
		ActorID:     caller.ID,
		Payload: events.ResponseAddedPayload{
			TicketID:    complaint.TicketID,
			Title:       complaint.Title,
			SubmittedBy: complaint.SubmittedBy,
			AssignedTo:  complaint.AssignedTo,
			AuthorRole:  caller.Role,
			IsInternal:  isInternal,
		},
	})
	complaint.Responses = access.VisibleResponses(caller.Role, complaint.Responses)
	return complaint, nil
}

// DeleteComplaint removes a complaint. Admins may delete any; the owning
// student may delete only while the complaint is still pending.
func (s *ComplaintService) DeleteComplaint(ctx context.Context, caller *domain.User, id string) error {
	complaint, err := s.getComplaint(ctx, id)
	if err != nil {
		return err
	}

	switch caller.Role {
	case domain.RoleAdmin:
		// unrestricted
	case domain.RoleStudent:
		if complaint.SubmittedBy != caller.ID {
			return errorutil.NewForbidden("Not authorized to delete this complaint.")
		}
		if complaint.Status != domain.StatusPending {
			return errorutil.NewStateError("You can only delete pending complaints.")
		}
	default:
		return errorutil.NewForbidden("Not authorized to delete this complaint.")
	}

	if err := s.complaints.Delete(ctx, id); err != nil {
		return errorutil.MapError(err)
	}
	if err := s.categories.AdjustComplaintCount(ctx, complaint.CategoryID, -1); err != nil {
		s.logger.Warn("failed to decrement category counter",
			zap.String("category_id", complaint.CategoryID), zap.Error(err))
	}
	return nil
}

func (s *ComplaintService) getComplaint(ctx context.Context, id string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("Complaint", map[string]any{"complaint_id": id})
		}
		return nil, errorutil.MapError(err)
	}
	return complaint, nil
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
