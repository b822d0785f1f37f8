package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vhu-platform/complaint-service/internal/domain"
	"github.com/vhu-platform/complaint-service/internal/repository"
)

type fakeComplaintRepo struct {
	complaints map[string]*domain.Complaint
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{complaints: map[string]*domain.Complaint{}}
}

func (r *fakeComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	if complaint.ID == "" {
		complaint.ID = uuid.NewString()
	}
	stored := *complaint
	r.complaints[complaint.ID] = &stored
	return nil
}

func (r *fakeComplaintRepo) Update(_ context.Context, complaint *domain.Complaint) error {
	if _, ok := r.complaints[complaint.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *complaint
	r.complaints[complaint.ID] = &stored
	return nil
}

func (r *fakeComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	stored, ok := r.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeComplaintRepo) List(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, int, error) {
	var matched []domain.Complaint
	for _, complaint := range r.complaints {
		if filter.SubmittedBy != nil && complaint.SubmittedBy != *filter.SubmittedBy {
			continue
		}
		if filter.AssigneeQueue != nil && complaint.AssignedTo != nil && *complaint.AssignedTo != *filter.AssigneeQueue {
			continue
		}
		if filter.Status != nil && complaint.Status != *filter.Status {
			continue
		}
		if filter.Search != nil && !strings.Contains(complaint.Title, *filter.Search) &&
			!strings.Contains(complaint.Description, *filter.Search) {
			continue
		}
		matched = append(matched, *complaint)
	}
	return matched, len(matched), nil
}

func (r *fakeComplaintRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.complaints[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.complaints, id)
	return nil
}

func (r *fakeComplaintRepo) CountByCategory(_ context.Context, categoryID string) (int, error) {
	count := 0
	for _, complaint := range r.complaints {
		if complaint.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (r *fakeComplaintRepo) StatusCounts(_ context.Context, filter repository.ComplaintFilter) (map[domain.ComplaintStatus]int, error) {
	counts := map[domain.ComplaintStatus]int{}
	for _, complaint := range r.complaints {
		if filter.SubmittedBy != nil && complaint.SubmittedBy != *filter.SubmittedBy {
			continue
		}
		counts[complaint.Status]++
	}
	return counts, nil
}

func (r *fakeComplaintRepo) PriorityCounts(_ context.Context, filter repository.ComplaintFilter) (map[domain.ComplaintPriority]int, error) {
	counts := map[domain.ComplaintPriority]int{}
	for _, complaint := range r.complaints {
		if filter.SubmittedBy != nil && complaint.SubmittedBy != *filter.SubmittedBy {
			continue
		}
		counts[complaint.Priority]++
	}
	return counts, nil
}

func (r *fakeComplaintRepo) ResolutionStats(context.Context) (float64, float64, int, error) {
	return 0, 0, 0, nil
}

type fakeCategoryRepo struct {
	categories map[string]*domain.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: map[string]*domain.Category{}}
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	stored := *category
	r.categories[category.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	if _, ok := r.categories[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *category
	r.categories[category.ID] = &stored
	return nil
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id string) (*domain.Category, error) {
	stored, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeCategoryRepo) List(_ context.Context, activeOnly bool) ([]domain.Category, error) {
	var categories []domain.Category
	for _, category := range r.categories {
		if activeOnly && !category.IsActive {
			continue
		}
		categories = append(categories, *category)
	}
	return categories, nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.categories, id)
	return nil
}

func (r *fakeCategoryRepo) AdjustComplaintCount(_ context.Context, id string, delta int) error {
	category, ok := r.categories[id]
	if !ok {
		return pgx.ErrNoRows
	}
	category.ComplaintCount += delta
	if category.ComplaintCount < 0 {
		category.ComplaintCount = 0
	}
	return nil
}

func (r *fakeCategoryRepo) CountActive(_ context.Context) (int, error) {
	count := 0
	for _, category := range r.categories {
		if category.IsActive {
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	stored, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, int, error) {
	var users []domain.User
	for _, user := range r.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		users = append(users, *user)
	}
	return users, len(users), nil
}

func (r *fakeUserRepo) ListByRoles(_ context.Context, roles ...domain.Role) ([]domain.User, error) {
	var users []domain.User
	for _, user := range r.users {
		if !user.IsActive {
			continue
		}
		for _, role := range roles {
			if user.Role == role {
				users = append(users, *user)
				break
			}
		}
	}
	return users, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) TouchLastLogin(_ context.Context, id string) error {
	return nil
}

func (r *fakeUserRepo) CountByRole(_ context.Context, role domain.Role) (int, error) {
	count := 0
	for _, user := range r.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

func (r *fakeUserRepo) Count(context.Context) (int, error) {
	return len(r.users), nil
}

type fakeNotificationRepo struct {
	notifications []*domain.Notification
	failCreate    bool
}

func (r *fakeNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	if r.failCreate {
		return pgx.ErrTxClosed
	}
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	stored := *notification
	r.notifications = append(r.notifications, &stored)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, limit, offset int) ([]domain.Notification, int, error) {
	var matched []domain.Notification
	for _, notification := range r.notifications {
		if notification.UserID != userID {
			continue
		}
		if unreadOnly && notification.IsRead {
			continue
		}
		matched = append(matched, *notification)
	}
	total := len(matched)
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID string) (int, error) {
	count := 0
	for _, notification := range r.notifications {
		if notification.UserID == userID && !notification.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, userID string) (*domain.Notification, error) {
	for _, notification := range r.notifications {
		if notification.ID == id && notification.UserID == userID {
			notification.IsRead = true
			copied := *notification
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			notification.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, id, userID string) error {
	for i, notification := range r.notifications {
		if notification.ID == id && notification.UserID == userID {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeNotificationRepo) forUser(userID string) []*domain.Notification {
	var matched []*domain.Notification
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			matched = append(matched, notification)
		}
	}
	return matched
}
