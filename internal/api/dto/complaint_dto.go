package dto

import (
	"time"

	"github.com/vhu-platform/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Category    string                   `json:"category"`
	Priority    domain.ComplaintPriority `json:"priority"`
	IsAnonymous bool                     `json:"isAnonymous"`
	Attachments []AttachmentRequest      `json:"attachments"`
}

// AttachmentRequest describes attachment metadata recorded on creation. The
// bytes themselves are handled by the attachment store.
type AttachmentRequest struct {
	FileName     string `json:"fileName"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	SizeBytes    int64  `json:"sizeBytes"`
	StoragePath  string `json:"storagePath"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status          domain.ComplaintStatus `json:"status"`
	RejectionReason string                 `json:"rejectionReason"`
}

// AssignRequest payload.
type AssignRequest struct {
	AssignedTo string `json:"assignedTo"`
}

// AddResponseRequest payload.
type AddResponseRequest struct {
	Message    string `json:"message"`
	IsInternal bool   `json:"isInternal"`
}

// RateRequest payload.
type RateRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

// UserRef is the submitter/assignee summary embedded in complaint responses.
type UserRef struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
	StudentID  string `json:"studentId,omitempty"`
}

// CategoryRef is the category summary embedded in complaint responses.
type CategoryRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// ResponseEntry is one thread entry in a complaint response.
type ResponseEntry struct {
	ID         string    `json:"id"`
	User       *UserRef  `json:"user,omitempty"`
	Message    string    `json:"message"`
	IsInternal bool      `json:"isInternal"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AttachmentEntry is attachment metadata in a complaint response.
type AttachmentEntry struct {
	FileName     string `json:"fileName"`
	OriginalName string `json:"originalName"`
	MimeType     string `json:"mimeType"`
	SizeBytes    int64  `json:"sizeBytes"`
}

// SatisfactionEntry is the recorded rating in a complaint response.
type SatisfactionEntry struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

// ComplaintResponse is the full complaint representation.
type ComplaintResponse struct {
	ID              string                   `json:"id"`
	TicketID        string                   `json:"ticketId"`
	Title           string                   `json:"title"`
	Description     string                   `json:"description"`
	Category        *CategoryRef             `json:"category,omitempty"`
	Priority        domain.ComplaintPriority `json:"priority"`
	Status          domain.ComplaintStatus   `json:"status"`
	SubmittedBy     *UserRef                 `json:"submittedBy,omitempty"`
	AssignedTo      *UserRef                 `json:"assignedTo,omitempty"`
	IsAnonymous     bool                     `json:"isAnonymous"`
	Attachments     []AttachmentEntry        `json:"attachments"`
	Responses       []ResponseEntry          `json:"responses"`
	ResolvedAt      *time.Time               `json:"resolvedAt,omitempty"`
	RejectionReason string                   `json:"rejectionReason,omitempty"`
	Satisfaction    *SatisfactionEntry       `json:"satisfaction,omitempty"`
	CreatedAt       time.Time                `json:"createdAt"`
	UpdatedAt       time.Time                `json:"updatedAt"`
}

// Pagination is the standard list envelope section.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

// NewPagination computes page counts.
func NewPagination(total, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Total: total, Page: page, Pages: pages, Limit: limit}
}
