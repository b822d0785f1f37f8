package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/vhu-platform/complaint-service/internal/domain"
	"github.com/vhu-platform/complaint-service/internal/repository"
	"github.com/vhu-platform/complaint-service/pkg/util/errorutil"
)

// SatisfactionService records post-resolution feedback from submitters.
type SatisfactionService struct {
	complaints repository.ComplaintRepository
}

// NewSatisfactionService constructs the service.
func NewSatisfactionService(complaints repository.ComplaintRepository) *SatisfactionService {
	return &SatisfactionService{complaints: complaints}
}

// Rate stores a satisfaction rating on a resolved complaint. Only the
// submitter may rate, only while resolved. Rating again overwrites the prior
// record.
func (s *SatisfactionService) Rate(ctx context.Context, caller *domain.User, complaintID string, rating int, feedback string) (*domain.Complaint, error) {
	if rating < 1 || rating > 5 {
		return nil, errorutil.NewValidationError("Please provide a rating between 1 and 5.", nil)
	}

	complaint, err := s.complaints.GetByID(ctx, complaintID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("Complaint", map[string]any{"complaint_id": complaintID})
		}
		return nil, errorutil.MapError(err)
	}

	if complaint.SubmittedBy != caller.ID {
		return nil, errorutil.NewForbidden("Only the complaint submitter can rate.")
	}
	if complaint.Status != domain.StatusResolved {
		return nil, errorutil.NewStateError("You can only rate resolved complaints.")
	}

	complaint.Satisfaction = &domain.Satisfaction{
		Rating:   rating,
		Feedback: strings.TrimSpace(feedback),
	}
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, errorutil.MapError(err)
	}
	return complaint, nil
}
