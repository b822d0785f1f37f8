package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "pending"
	StatusInReview   ComplaintStatus = "in-review"
	StatusInProgress ComplaintStatus = "in-progress"
	StatusResolved   ComplaintStatus = "resolved"
	StatusRejected   ComplaintStatus = "rejected"
	StatusClosed     ComplaintStatus = "closed"
)

// ValidStatus reports whether s is a recognized complaint status.
func ValidStatus(s ComplaintStatus) bool {
	switch s {
	case StatusPending, StatusInReview, StatusInProgress, StatusResolved, StatusRejected, StatusClosed:
		return true
	}
	return false
}

// ComplaintPriority enumerates urgency levels.
type ComplaintPriority string

const (
	PriorityLow    ComplaintPriority = "low"
	PriorityMedium ComplaintPriority = "medium"
	PriorityHigh   ComplaintPriority = "high"
	PriorityUrgent ComplaintPriority = "urgent"
)

// ValidPriority reports whether p is a recognized priority.
func ValidPriority(p ComplaintPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Attachment stores file metadata recorded on a complaint. The bytes live in
// the attachment store; only references are kept here.
type Attachment struct {
	FileName     string `json:"fileName"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	SizeBytes    int64  `json:"sizeBytes"`
	StoragePath  string `json:"storagePath"`
}

// Response is one entry in a complaint's discussion thread. Internal entries
// are visible to staff and admins only.
type Response struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Message    string    `json:"message"`
	IsInternal bool      `json:"isInternal"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Satisfaction is the submitter's post-resolution rating.
type Satisfaction struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

// Complaint is the aggregate root for the complaint lifecycle.
type Complaint struct {
	ID              string
	TicketID        string
	Title           string
	Description     string
	CategoryID      string
	Priority        ComplaintPriority
	Status          ComplaintStatus
	SubmittedBy     string
	AssignedTo      *string
	IsAnonymous     bool
	Attachments     []Attachment
	Responses       []Response
	ResolvedAt      *time.Time
	RejectionReason string
	Satisfaction    *Satisfaction
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	MaxAttachments       = 3
	MaxAttachmentBytes   = 5 * 1024 * 1024
)
