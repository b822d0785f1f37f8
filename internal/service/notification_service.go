package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/vhu-platform/complaint-service/internal/domain"
	"github.com/vhu-platform/complaint-service/internal/events"
	"github.com/vhu-platform/complaint-service/internal/observability"
	"github.com/vhu-platform/complaint-service/internal/repository"
	"github.com/vhu-platform/complaint-service/pkg/util/errorutil"
)

// NotificationService fans lifecycle events out into per-recipient
// notification records and serves the recipient-facing feed. Fan-out is
// best-effort: failures are logged, never retried, and never roll back the
// mutation that triggered them.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	dispatcher    events.Dispatcher
	cache         *UnreadCache
	logger        *zap.Logger
	metrics       *observability.Metrics
}

// NotificationDependencies bundles collaborators for the service.
type NotificationDependencies struct {
	NotificationRepo repository.NotificationRepository
	UserRepo         repository.UserRepository
	Dispatcher       events.Dispatcher
	Cache            *UnreadCache
	Logger           *zap.Logger
	Metrics          *observability.Metrics
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		notifications: deps.NotificationRepo,
		users:         deps.UserRepo,
		dispatcher:    deps.Dispatcher,
		cache:         deps.Cache,
		logger:        logger,
		metrics:       deps.Metrics,
	}
}

// RegisterHandlers subscribes to lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventComplaintSubmitted, n.handleComplaintSubmitted)
	n.dispatcher.Subscribe(events.EventComplaintStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventComplaintAssigned, n.handleAssigned)
	n.dispatcher.Subscribe(events.EventResponseAdded, n.handleResponseAdded)
}

func (n *NotificationService) handleComplaintSubmitted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintSubmittedPayload)
	if !ok {
		return nil
	}
	recipients, err := n.users.ListByRoles(ctx, domain.RoleStaff, domain.RoleAdmin)
	if err != nil {
		n.logger.Error("failed to list fan-out recipients", zap.Error(err))
		return err
	}
	for _, recipient := range recipients {
		n.deliver(ctx, &domain.Notification{
			UserID:           recipient.ID,
			Title:            "New Complaint Submitted",
			Message:          fmt.Sprintf("A new complaint %q has been submitted (%s).", payload.Title, payload.TicketID),
			Type:             domain.NotifComplaintSubmitted,
			RelatedComplaint: &event.ComplaintID,
		})
	}
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintStatusChangedPayload)
	if !ok {
		return nil
	}
	notifType := domain.NotifComplaintUpdated
	switch payload.NewStatus {
	case domain.StatusResolved:
		notifType = domain.NotifComplaintResolved
	case domain.StatusRejected:
		notifType = domain.NotifComplaintRejected
	}
	status := string(payload.NewStatus)
	n.deliver(ctx, &domain.Notification{
		UserID:           payload.SubmittedBy,
		Title:            "Complaint " + titleCase(status),
		Message:          fmt.Sprintf("Your complaint %q (%s) has been %s.", payload.Title, payload.TicketID, status),
		Type:             notifType,
		RelatedComplaint: &event.ComplaintID,
	})
	return nil
}

func (n *NotificationService) handleAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintAssignedPayload)
	if !ok {
		return nil
	}
	n.deliver(ctx, &domain.Notification{
		UserID:           payload.AssigneeID,
		Title:            "Complaint Assigned to You",
		Message:          fmt.Sprintf("Complaint %q (%s) has been assigned to you.", payload.Title, payload.TicketID),
		Type:             domain.NotifComplaintAssigned,
		RelatedComplaint: &event.ComplaintID,
	})
	n.deliver(ctx, &domain.Notification{
		UserID:           payload.SubmittedBy,
		Title:            "Complaint Assigned",
		Message:          fmt.Sprintf("Your complaint %q has been assigned to %s for review.", payload.Title, payload.AssigneeName),
		Type:             domain.NotifComplaintUpdated,
		RelatedComplaint: &event.ComplaintID,
	})
	return nil
}

func (n *NotificationService) handleResponseAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ResponseAddedPayload)
	if !ok {
		return nil
	}
	if payload.AuthorRole.IsStaffOrAdmin() && !payload.IsInternal {
		n.deliver(ctx, &domain.Notification{
			UserID:           payload.SubmittedBy,
			Title:            "New Response on Your Complaint",
			Message:          fmt.Sprintf("A new response has been added to your complaint %q (%s).", payload.Title, payload.TicketID),
			Type:             domain.NotifNewResponse,
			RelatedComplaint: &event.ComplaintID,
		})
	} else if payload.AuthorRole == domain.RoleStudent && payload.AssignedTo != nil {
		n.deliver(ctx, &domain.Notification{
			UserID:           *payload.AssignedTo,
			Title:            "Student Replied",
			Message:          fmt.Sprintf("Student replied to complaint %q (%s).", payload.Title, payload.TicketID),
			Type:             domain.NotifNewResponse,
			RelatedComplaint: &event.ComplaintID,
		})
	}
	return nil
}

func (n *NotificationService) deliver(ctx context.Context, notification *domain.Notification) {
	err := n.notifications.Create(ctx, notification)
	n.metrics.RecordNotification(string(notification.Type), err == nil)
	if err != nil {
		n.logger.Error("failed to deliver notification",
			zap.String("recipient", notification.UserID),
			zap.String("type", string(notification.Type)),
			zap.Error(err))
		return
	}
	n.cache.Invalidate(ctx, notification.UserID)
}

// ListNotifications returns the caller's notifications plus the total and
// unread counts.
func (n *NotificationService) ListNotifications(ctx context.Context, userID string, unreadOnly bool, page, limit int) ([]domain.Notification, int, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	items, total, err := n.notifications.ListByUser(ctx, userID, unreadOnly, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, 0, errorutil.MapError(err)
	}

	unread, cached := n.cache.Get(ctx, userID)
	if !cached {
		unread, err = n.notifications.CountUnread(ctx, userID)
		if err != nil {
			return nil, 0, 0, errorutil.MapError(err)
		}
		n.cache.Set(ctx, userID, unread)
	}
	return items, total, unread, nil
}

// MarkRead marks one of the caller's notifications as read.
func (n *NotificationService) MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error) {
	notification, err := n.notifications.MarkRead(ctx, id, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("Notification", nil)
		}
		return nil, errorutil.MapError(err)
	}
	n.cache.Invalidate(ctx, userID)
	return notification, nil
}

// MarkAllRead marks the caller's entire feed as read.
func (n *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := n.notifications.MarkAllRead(ctx, userID); err != nil {
		return errorutil.MapError(err)
	}
	n.cache.Invalidate(ctx, userID)
	return nil
}

// DeleteNotification removes one of the caller's notifications.
func (n *NotificationService) DeleteNotification(ctx context.Context, userID, id string) error {
	if err := n.notifications.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errorutil.NewNotFound("Notification", nil)
		}
		return errorutil.MapError(err)
	}
	n.cache.Invalidate(ctx, userID)
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
