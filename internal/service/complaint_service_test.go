package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhu-platform/complaint-service/internal/access"
	"github.com/vhu-platform/complaint-service/internal/domain"
	"github.com/vhu-platform/complaint-service/internal/events"
	"github.com/vhu-platform/complaint-service/internal/ticketid"
	"github.com/vhu-platform/complaint-service/pkg/util/errorutil"
)

type fakeSequence struct {
	value int64
}

func (s *fakeSequence) Next(context.Context) (int64, error) {
	s.value++
	return s.value, nil
}

type complaintFixture struct {
	service    *ComplaintService
	complaints *fakeComplaintRepo
	categories *fakeCategoryRepo
	users      *fakeUserRepo
	dispatcher events.Dispatcher
	published  *[]events.Event
	now        time.Time

	category *domain.Category
	student  *domain.User
	staff    *domain.User
	admin    *domain.User
}

func newComplaintFixture(t *testing.T) *complaintFixture {
	t.Helper()

	complaints := newFakeComplaintRepo()
	categories := newFakeCategoryRepo()
	users := newFakeUserRepo()
	dispatcher := events.NewInMemoryDispatcher()

	published := &[]events.Event{}
	for _, eventType := range []events.EventType{
		events.EventComplaintSubmitted,
		events.EventComplaintStatusChanged,
		events.EventComplaintAssigned,
		events.EventResponseAdded,
	} {
		dispatcher.Subscribe(eventType, func(_ context.Context, event events.Event) error {
			*published = append(*published, event)
			return nil
		})
	}

	category := &domain.Category{Name: "Facilities", IsActive: true}
	require.NoError(t, categories.Create(context.Background(), category))

	student := &domain.User{Name: "Student One", Email: "student@vhu.edu", Role: domain.RoleStudent, IsActive: true}
	staff := &domain.User{Name: "Staff One", Email: "staff@vhu.edu", Role: domain.RoleStaff, IsActive: true}
	admin := &domain.User{Name: "Admin One", Email: "admin@vhu.edu", Role: domain.RoleAdmin, IsActive: true}
	for _, user := range []*domain.User{student, staff, admin} {
		require.NoError(t, users.Create(context.Background(), user))
	}

	now := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	service := NewComplaintService(ComplaintDependencies{
		ComplaintRepo: complaints,
		CategoryRepo:  categories,
		UserRepo:      users,
		TicketIDs:     ticketid.NewGenerator("VHU", &fakeSequence{}),
		Dispatcher:    dispatcher,
		Now:           func() time.Time { return now },
	})

	return &complaintFixture{
		service:    service,
		complaints: complaints,
		categories: categories,
		users:      users,
		dispatcher: dispatcher,
		published:  published,
		now:        now,
		category:   category,
		student:    student,
		staff:      staff,
		admin:      admin,
	}
}

func (f *complaintFixture) submit(t *testing.T) *domain.Complaint {
	t.Helper()
	complaint, err := f.service.CreateComplaint(context.Background(), f.student.ID, CreateComplaintInput{
		Title:       "Broken projector",
		Description: "The projector in room B204 does not turn on.",
		CategoryID:  f.category.ID,
	})
	require.NoError(t, err)
	return complaint
}

func assertDomainError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *errorutil.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, code, domainErr.Code)
}

func TestCreateComplaint(t *testing.T) {
	f := newComplaintFixture(t)

	complaint := f.submit(t)

	assert.Equal(t, "VHU-2603-0001", complaint.TicketID)
	assert.Equal(t, domain.StatusPending, complaint.Status)
	assert.Equal(t, domain.PriorityMedium, complaint.Priority)
	assert.Equal(t, f.student.ID, complaint.SubmittedBy)
	assert.Nil(t, complaint.AssignedTo)

	category, err := f.categories.GetByID(context.Background(), f.category.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, category.ComplaintCount)

	require.Len(t, *f.published, 1)
	assert.Equal(t, events.EventComplaintSubmitted, (*f.published)[0].Type)
}

func TestCreateComplaintSequentialTickets(t *testing.T) {
	f := newComplaintFixture(t)

	first := f.submit(t)
	second := f.submit(t)

	assert.Equal(t, "VHU-2603-0001", first.TicketID)
	assert.Equal(t, "VHU-2603-0002", second.TicketID)
}

func TestCreateComplaintValidation(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()

	_, err := f.service.CreateComplaint(ctx, f.student.ID, CreateComplaintInput{
		Title:      "Missing description",
		CategoryID: f.category.ID,
	})
	assertDomainError(t, err, "VALIDATION_FAILED")

	_, err = f.service.CreateComplaint(ctx, f.student.ID, CreateComplaintInput{
		Title:       "Bad priority",
		Description: "desc",
		CategoryID:  f.category.ID,
		Priority:    "extreme",
	})
	assertDomainError(t, err, "VALIDATION_FAILED")

	_, err = f.service.CreateComplaint(ctx, f.student.ID, CreateComplaintInput{
		Title:       "Unknown category",
		Description: "desc",
		CategoryID:  "missing",
	})
	assertDomainError(t, err, "VALIDATION_FAILED")
}

func TestCreateComplaintInactiveCategory(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()

	f.category.IsActive = false
	require.NoError(t, f.categories.Update(ctx, f.category))

	_, err := f.service.CreateComplaint(ctx, f.student.ID, CreateComplaintInput{
		Title:       "Inactive category",
		Description: "desc",
		CategoryID:  f.category.ID,
	})
	assertDomainError(t, err, "VALIDATION_FAILED")
}

func TestUpdateStatus(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	complaint := f.submit(t)

	updated, err := f.service.UpdateStatus(ctx, f.staff, complaint.ID, domain.StatusInProgress, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, updated.Status)
	assert.Nil(t, updated.ResolvedAt)
}

func TestUpdateStatusStudentForbidden(t *testing.T) {
	f := newComplaintFixture(t)
	complaint := f.submit(t)

	_, err := f.service.UpdateStatus(context.Background(), f.student, complaint.ID, domain.StatusResolved, "")
	assertDomainError(t, err, "FORBIDDEN")
}

func TestUpdateStatusRejectionRequiresReason(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	complaint := f.submit(t)

	_, err := f.service.UpdateStatus(ctx, f.staff, complaint.ID, domain.StatusRejected, "   ")
	assertDomainError(t, err, "VALIDATION_FAILED")

	updated, err := f.service.UpdateStatus(ctx, f.staff, complaint.ID, domain.StatusRejected, "Duplicate of VHU-2603-0007")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, updated.Status)
	assert.Equal(t, "Duplicate of VHU-2603-0007", updated.RejectionReason)
}

func TestUpdateStatusResolvedAtSetOnce(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	complaint := f.submit(t)

	resolved, err := f.service.UpdateStatus(ctx, f.staff, complaint.ID, domain.StatusResolved, "")
	require.NoError(t, err)
	require.NotNil(t, resolved.ResolvedAt)
	firstResolvedAt := *resolved.ResolvedAt

	reopened, err := f.service.UpdateStatus(ctx, f.staff, complaint.ID, domain.StatusInProgress, "")
	require.NoError(t, err)
	require.NotNil(t, reopened.ResolvedAt)

	resolvedAgain, err := f.service.UpdateStatus(ctx, f.staff, complaint.ID, domain.StatusResolved, "")
	require.NoError(t, err)
	require.NotNil(t, resolvedAgain.ResolvedAt)
	assert.Equal(t, firstResolvedAt, *resolvedAgain.ResolvedAt)
}

func TestAssignComplaint(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	complaint := f.submit(t)

	assigned, err := f.service.AssignComplaint(ctx, f.admin, complaint.ID, f.staff.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, f.staff.ID, *assigned.AssignedTo)
	assert.Equal(t, domain.StatusInReview, assigned.Status)
}

func TestAssignComplaintRejectsStudentAssignee(t *testing.T) {
	f := newComplaintFixture(t)
	complaint := f.submit(t)

	_, err := f.service.AssignComplaint(context.Background(), f.admin, complaint.ID, f.student.ID)
	assertDomainError(t, err, "VALIDATION_FAILED")
}

func TestAssignComplaintAdminOnly(t *testing.T) {
	f := newComplaintFixture(t)
	complaint := f.submit(t)

	_, err := f.service.AssignComplaint(context.Background(), f.staff, complaint.ID, f.staff.ID)
	assertDomainError(t, err, "FORBIDDEN")
}

func TestAssignComplaintInactiveAssignee(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	complaint := f.submit(t)

	f.staff.IsActive = false
	require.NoError(t, f.users.Update(ctx, f.staff))

	_, err := f.service.AssignComplaint(ctx, f.admin, complaint.ID, f.staff.ID)
	assertDomainError(t, err, "VALIDATION_FAILED")
}

func TestAddResponseStudentNeverInternal(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	complaint := f.submit(t)

	updated, err := f.service.AddResponse(ctx, f.student, complaint.ID, "Any update on this?", true)
	require.NoError(t, err)
	require.Len(t, updated.Responses, 1)
	assert.False(t, updated.Responses[0].IsInternal)
}

func TestAddResponseStudentMustOwn(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	complaint := f.submit(t)

	other := &domain.User{Name: "Other Student", Email: "other@vhu.edu", Role: domain.RoleStudent, IsActive: true}
	require.NoError(t, f.users.Create(ctx, other))

	_, err := f.service.AddResponse(ctx, other, complaint.ID, "I have the same issue.", false)
	assertDomainError(t, err, "FORBIDDEN")
}

func TestAddResponseInternalHiddenFromStudent(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	complaint := f.submit(t)

	_, err := f.service.AddResponse(ctx, f.staff, complaint.ID, "Ordered a replacement bulb.", true)
	require.NoError(t, err)

	asStudent, err := f.service.GetComplaint(ctx, f.student, complaint.ID)
	require.NoError(t, err)
	assert.Empty(t, asStudent.Responses)

	asStaff, err := f.service.GetComplaint(ctx, f.staff, complaint.ID)
	require.NoError(t, err)
	assert.Len(t, asStaff.Responses, 1)
}

func TestGetComplaintStudentScope(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	complaint := f.submit(t)

	other := &domain.User{Name: "Other Student", Email: "other@vhu.edu", Role: domain.RoleStudent, IsActive: true}
	require.NoError(t, f.users.Create(ctx, other))

	_, err := f.service.GetComplaint(ctx, other, complaint.ID)
	assertDomainError(t, err, "FORBIDDEN")

	_, err = f.service.GetComplaint(ctx, f.staff, complaint.ID)
	require.NoError(t, err)
}

func TestListComplaintsSearchKeepsStudentScope(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()
	f.submit(t)

	other := &domain.User{Name: "Other Student", Email: "other@vhu.edu", Role: domain.RoleStudent, IsActive: true}
	require.NoError(t, f.users.Create(ctx, other))
	_, err := f.service.CreateComplaint(ctx, other.ID, CreateComplaintInput{
		Title:       "Broken window",
		Description: "Window broken in dorm A.",
		CategoryID:  f.category.ID,
	})
	require.NoError(t, err)

	items, total, err := f.service.ListComplaints(ctx, f.student, access.ListQuery{Search: "Broken"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, f.student.ID, items[0].SubmittedBy)
}

func TestDeleteComplaint(t *testing.T) {
	f := newComplaintFixture(t)
	ctx := context.Background()

	t.Run("student deletes own pending", func(t *testing.T) {
		complaint := f.submit(t)
		require.NoError(t, f.service.DeleteComplaint(ctx, f.student, complaint.ID))
	})

	t.Run("student cannot delete once in progress", func(t *testing.T) {
		complaint := f.submit(t)
		_, err := f.service.UpdateStatus(ctx, f.staff, complaint.ID, domain.StatusInProgress, "")
		require.NoError(t, err)

		err = f.service.DeleteComplaint(ctx, f.student, complaint.ID)
		assertDomainError(t, err, "STATE_INVALID")
	})

	t.Run("staff cannot delete", func(t *testing.T) {
		complaint := f.submit(t)
		err := f.service.DeleteComplaint(ctx, f.staff, complaint.ID)
		assertDomainError(t, err, "FORBIDDEN")
	})

	t.Run("admin deletes anything", func(t *testing.T) {
		complaint := f.submit(t)
		_, err := f.service.UpdateStatus(ctx, f.staff, complaint.ID, domain.StatusResolved, "")
		require.NoError(t, err)
		require.NoError(t, f.service.DeleteComplaint(ctx, f.admin, complaint.ID))
	})
}
