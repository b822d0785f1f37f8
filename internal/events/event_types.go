package events

import (
	"time"

	"github.com/vhu-platform/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintSubmitted     EventType = "complaint_submitted"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintAssigned      EventType = "complaint_assigned"
	EventResponseAdded          EventType = "complaint_response_added"
)

// Event represents a domain event emitted by lifecycle operations.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	ActorID     string      `json:"actor_id"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintSubmittedPayload payload.
type ComplaintSubmittedPayload struct {
	TicketID    string `json:"ticket_id"`
	Title       string `json:"title"`
	SubmittedBy string `json:"submitted_by"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	TicketID        string                 `json:"ticket_id"`
	Title           string                 `json:"title"`
	SubmittedBy     string                 `json:"submitted_by"`
	OldStatus       domain.ComplaintStatus `json:"old_status"`
	NewStatus       domain.ComplaintStatus `json:"new_status"`
	RejectionReason string                 `json:"rejection_reason,omitempty"`
}

// ComplaintAssignedPayload payload.
type ComplaintAssignedPayload struct {
	TicketID     string `json:"ticket_id"`
	Title        string `json:"title"`
	SubmittedBy  string `json:"submitted_by"`
	AssigneeID   string `json:"assignee_id"`
	AssigneeName string `json:"assignee_name"`
}

// ResponseAddedPayload payload.
type ResponseAddedPayload struct {
	TicketID    string      `json:"ticket_id"`
	Title       string      `json:"title"`
	SubmittedBy string      `json:"submitted_by"`
	AssignedTo  *string     `json:"assigned_to,omitempty"`
	AuthorRole  domain.Role `json:"author_role"`
	IsInternal  bool        `json:"is_internal"`
}
