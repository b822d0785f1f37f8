package domain

import "time"

// NotificationType enumerates notification kinds.
type NotificationType string

const (
	NotifComplaintSubmitted NotificationType = "complaint_submitted"
	NotifComplaintAssigned  NotificationType = "complaint_assigned"
	NotifComplaintUpdated   NotificationType = "complaint_updated"
	NotifComplaintResolved  NotificationType = "complaint_resolved"
	NotifComplaintRejected  NotificationType = "complaint_rejected"
	NotifNewResponse        NotificationType = "new_response"
	NotifSystem             NotificationType = "system"
)

// Notification is an advisory record delivered to a single user. Delivery is
// pull-based; read state is mutated only by the recipient.
type Notification struct {
	ID               string
	UserID           string
	Title            string
	Message          string
	Type             NotificationType
	RelatedComplaint *string
	IsRead           bool
	CreatedAt        time.Time
}
