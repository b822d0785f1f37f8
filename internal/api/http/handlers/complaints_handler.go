package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/vhu-platform/complaint-service/internal/access"
	"github.com/vhu-platform/complaint-service/internal/api/dto"
	"github.com/vhu-platform/complaint-service/internal/auth"
	"github.com/vhu-platform/complaint-service/internal/domain"
	"github.com/vhu-platform/complaint-service/internal/service"
	"github.com/vhu-platform/complaint-service/pkg/util/errorutil"
)

// ComplaintsHandler exposes the complaint lifecycle endpoints.
type ComplaintsHandler struct {
	complaints   *service.ComplaintService
	satisfaction *service.SatisfactionService
	categories   *service.CategoryService
	users        *service.UserService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaints *service.ComplaintService, satisfaction *service.SatisfactionService, categories *service.CategoryService, users *service.UserService) *ComplaintsHandler {
	return &ComplaintsHandler{
		complaints:   complaints,
		satisfaction: satisfaction,
		categories:   categories,
		users:        users,
	}
}

// Create POST /api/complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("Not authorized to access this route.")
	}
	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("Invalid request payload.", nil)
	}

	// Attachment policy belongs to the upload collaborator; what arrives here
	// is metadata, re-checked at the boundary.
	if len(req.Attachments) > domain.MaxAttachments {
		return errorutil.NewValidationError("Too many files. Maximum is 3 files.", nil)
	}
	attachments := make([]domain.Attachment, 0, len(req.Attachments))
	for _, att := range req.Attachments {
		if att.SizeBytes > domain.MaxAttachmentBytes {
			return errorutil.NewValidationError("File too large. Maximum size is 5MB.", nil)
		}
		attachments = append(attachments, domain.Attachment{
			FileName:     att.FileName,
			OriginalName: att.OriginalName,
			MimeType:     att.MimeType,
			SizeBytes:    att.SizeBytes,
			StoragePath:  att.StoragePath,
		})
	}

	complaint, err := h.complaints.CreateComplaint(c.Context(), principal.User.ID, service.CreateComplaintInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.Category,
		Priority:    req.Priority,
		IsAnonymous: req.IsAnonymous,
		Attachments: attachments,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"message":   "Complaint submitted successfully!",
		"complaint": h.complaintResponse(c.Context(), complaint, principal),
	})
}

// List GET /api/complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("Not authorized to access this route.")
	}

	query := access.ListQuery{
		Status:      c.Query("status"),
		Priority:    c.Query("priority"),
		CategoryID:  c.Query("category"),
		AssignedTo:  c.Query("assignedTo"),
		SubmittedBy: c.Query("submittedBy"),
		Search:      c.Query("search"),
		SortBy:      c.Query("sortBy", "createdAt"),
		SortOrder:   c.Query("sortOrder", "desc"),
		Page:        c.QueryInt("page", 1),
		Limit:       c.QueryInt("limit", 10),
	}

	complaints, total, err := h.complaints.ListComplaints(c.Context(), principal.User, query)
	if err != nil {
		return err
	}

	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, h.complaintResponse(c.Context(), &complaints[i], principal))
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"complaints": items,
		"pagination": dto.NewPagination(total, query.Page, query.Limit),
	})
}

// Get GET /api/complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("Not authorized to access this route.")
	}
	complaint, err := h.complaints.GetComplaint(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"complaint": h.complaintResponse(c.Context(), complaint, principal),
	})
}

// UpdateStatus PUT /api/complaints/:id/status.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("Not authorized to access this route.")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("Invalid request payload.", nil)
	}
	complaint, err := h.complaints.UpdateStatus(c.Context(), principal.User, c.Params("id"), req.Status, req.RejectionReason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Complaint status updated to " + string(complaint.Status) + ".",
		"complaint": h.complaintResponse(c.Context(), complaint, principal),
	})
}

// Assign PUT /api/complaints/:id/assign.
func (h *ComplaintsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("Not authorized to access this route.")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("Invalid request payload.", nil)
	}
	complaint, err := h.complaints.AssignComplaint(c.Context(), principal.User, c.Params("id"), req.AssignedTo)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Complaint assigned.",
		"complaint": h.complaintResponse(c.Context(), complaint, principal),
	})
}

// AddResponse POST /api/complaints/:id/respond.
func (h *ComplaintsHandler) AddResponse(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("Not authorized to access this route.")
	}
	var req dto.AddResponseRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("Invalid request payload.", nil)
	}
	complaint, err := h.complaints.AddResponse(c.Context(), principal.User, c.Params("id"), req.Message, req.IsInternal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Response added successfully.",
		"complaint": h.complaintResponse(c.Context(), complaint, principal),
	})
}

// Rate PUT /api/complaints/:id/rate.
func (h *ComplaintsHandler) Rate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("Not authorized to access this route.")
	}
	var req dto.RateRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("Invalid request payload.", nil)
	}
	complaint, err := h.satisfaction.Rate(c.Context(), principal.User, c.Params("id"), req.Rating, req.Feedback)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Thank you for your feedback!",
		"complaint": h.complaintResponse(c.Context(), complaint, principal),
	})
}

// Delete DELETE /api/complaints/:id.
func (h *ComplaintsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("Not authorized to access this route.")
	}
	if err := h.complaints.DeleteComplaint(c.Context(), principal.User, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Complaint deleted successfully.",
	})
}

func (h *ComplaintsHandler) complaintResponse(ctx context.Context, complaint *domain.Complaint, viewer *auth.Principal) dto.ComplaintResponse {
	resp := dto.ComplaintResponse{
		ID:              complaint.ID,
		TicketID:        complaint.TicketID,
		Title:           complaint.Title,
		Description:     complaint.Description,
		Priority:        complaint.Priority,
		Status:          complaint.Status,
		IsAnonymous:     complaint.IsAnonymous,
		ResolvedAt:      complaint.ResolvedAt,
		RejectionReason: complaint.RejectionReason,
		CreatedAt:       complaint.CreatedAt,
		UpdatedAt:       complaint.UpdatedAt,
	}

	if category, err := h.categories.GetCategory(ctx, complaint.CategoryID); err == nil {
		resp.Category = &dto.CategoryRef{
			ID:    category.ID,
			Name:  category.Name,
			Icon:  category.Icon,
			Color: category.Color,
		}
	}

	userCache := map[string]*dto.UserRef{}
	lookup := func(id string) *dto.UserRef {
		if ref, ok := userCache[id]; ok {
			return ref
		}
		user, err := h.users.GetUser(ctx, id)
		if err != nil {
			userCache[id] = nil
			return nil
		}
		ref := &dto.UserRef{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			Department: user.Department,
			StudentID:  user.StudentID,
		}
		userCache[id] = ref
		return ref
	}

	// The submitter reference is retained for routing; anonymity is a display
	// concern for everyone except the submitter themselves.
	if complaint.IsAnonymous && viewer.User.ID != complaint.SubmittedBy {
		resp.SubmittedBy = &dto.UserRef{Name: "Anonymous"}
	} else {
		resp.SubmittedBy = lookup(complaint.SubmittedBy)
	}
	if complaint.AssignedTo != nil {
		resp.AssignedTo = lookup(*complaint.AssignedTo)
	}

	resp.Attachments = make([]dto.AttachmentEntry, 0, len(complaint.Attachments))
	for _, att := range complaint.Attachments {
		resp.Attachments = append(resp.Attachments, dto.AttachmentEntry{
			FileName:     att.FileName,
			OriginalName: att.OriginalName,
			MimeType:     att.MimeType,
			SizeBytes:    att.SizeBytes,
		})
	}

	resp.Responses = make([]dto.ResponseEntry, 0, len(complaint.Responses))
	for _, entry := range complaint.Responses {
		resp.Responses = append(resp.Responses, dto.ResponseEntry{
			ID:         entry.ID,
			User:       lookup(entry.UserID),
			Message:    entry.Message,
			IsInternal: entry.IsInternal,
			CreatedAt:  entry.CreatedAt,
		})
	}

	if complaint.Satisfaction != nil {
		resp.Satisfaction = &dto.SatisfactionEntry{
			Rating:   complaint.Satisfaction.Rating,
			Feedback: complaint.Satisfaction.Feedback,
		}
	}
	return resp
}
