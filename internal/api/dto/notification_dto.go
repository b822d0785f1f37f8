package dto

import (
	"time"

	"github.com/vhu-platform/complaint-service/internal/domain"
)

// NotificationResponse is a single feed entry.
type NotificationResponse struct {
	ID               string                  `json:"id"`
	Title            string                  `json:"title"`
	Message          string                  `json:"message"`
	Type             domain.NotificationType `json:"type"`
	RelatedComplaint *string                 `json:"relatedComplaint,omitempty"`
	IsRead           bool                    `json:"isRead"`
	CreatedAt        time.Time               `json:"createdAt"`
}

// NotificationFromDomain maps a domain notification.
func NotificationFromDomain(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:               n.ID,
		Title:            n.Title,
		Message:          n.Message,
		Type:             n.Type,
		RelatedComplaint: n.RelatedComplaint,
		IsRead:           n.IsRead,
		CreatedAt:        n.CreatedAt,
	}
}
