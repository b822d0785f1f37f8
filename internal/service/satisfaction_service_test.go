package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhu-platform/complaint-service/internal/domain"
)

func TestRateRequiresResolvedStatus(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	complaint := f.submit(t)
	rater := NewSatisfactionService(f.complaints)

	_, err := rater.Rate(ctx, f.student, complaint.ID, 4, "")
	assertDomainError(t, err, "STATE_INVALID")

	_, err = f.service.UpdateStatus(ctx, f.staff, complaint.ID, domain.StatusResolved, "")
	require.NoError(t, err)

	rated, err := rater.Rate(ctx, f.student, complaint.ID, 4, "Fixed quickly, thanks.")
	require.NoError(t, err)
	require.NotNil(t, rated.Satisfaction)
	assert.Equal(t, 4, rated.Satisfaction.Rating)
	assert.Equal(t, "Fixed quickly, thanks.", rated.Satisfaction.Feedback)
}

func TestRateBounds(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	complaint := f.submit(t)
	rater := NewSatisfactionService(f.complaints)

	_, err := rater.Rate(ctx, f.student, complaint.ID, 0, "")
	assertDomainError(t, err, "VALIDATION_FAILED")

	_, err = rater.Rate(ctx, f.student, complaint.ID, 6, "")
	assertDomainError(t, err, "VALIDATION_FAILED")
}

func TestRateOnlySubmitter(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	complaint := f.submit(t)
	rater := NewSatisfactionService(f.complaints)

	_, err := f.service.UpdateStatus(ctx, f.staff, complaint.ID, domain.StatusResolved, "")
	require.NoError(t, err)

	_, err = rater.Rate(ctx, f.staff, complaint.ID, 5, "")
	assertDomainError(t, err, "FORBIDDEN")

	_, err = rater.Rate(ctx, f.admin, complaint.ID, 5, "")
	assertDomainError(t, err, "FORBIDDEN")
}

func TestRateOverwritesPriorRating(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	complaint := f.submit(t)
	rater := NewSatisfactionService(f.complaints)

	_, err := f.service.UpdateStatus(ctx, f.staff, complaint.ID, domain.StatusResolved, "")
	require.NoError(t, err)

	_, err = rater.Rate(ctx, f.student, complaint.ID, 2, "Took too long.")
	require.NoError(t, err)

	rated, err := rater.Rate(ctx, f.student, complaint.ID, 5, "Follow-up was great.")
	require.NoError(t, err)
	require.NotNil(t, rated.Satisfaction)
	assert.Equal(t, 5, rated.Satisfaction.Rating)
	assert.Equal(t, "Follow-up was great.", rated.Satisfaction.Feedback)
}

func TestRateUnknownComplaint(t *testing.T) {
	f := newComplaintFixture(t)
	rater := NewSatisfactionService(f.complaints)

	_, err := rater.Rate(context.Background(), f.student, "missing", 3, "")
	assertDomainError(t, err, "NOT_FOUND")
}
