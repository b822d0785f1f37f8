package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vhu-platform/complaint-service/internal/domain"
)

func newCategoryService() (*CategoryService, *fakeCategoryRepo, *fakeComplaintRepo) {
	categories := newFakeCategoryRepo()
	complaints := newFakeComplaintRepo()
	return NewCategoryService(categories, complaints), categories, complaints
}

func TestCreateCategoryDefaults(t *testing.T) {
	service, _, _ := newCategoryService()

	category, err := service.CreateCategory(context.Background(), "  Facilities  ", "Buildings and rooms", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Facilities", category.Name)
	assert.Equal(t, "📋", category.Icon)
	assert.Equal(t, "#6366f1", category.Color)
	assert.True(t, category.IsActive)
}

func TestCreateCategoryRequiresName(t *testing.T) {
	service, _, _ := newCategoryService()

	_, err := service.CreateCategory(context.Background(), "   ", "", "", "")
	assertDomainError(t, err, "VALIDATION_FAILED")
}

func TestUpdateCategoryPatch(t *testing.T) {
	service, _, _ := newCategoryService()
	ctx := context.Background()

	category, err := service.CreateCategory(ctx, "Facilities", "", "", "")
	require.NoError(t, err)

	inactive := false
	newName := "Campus Facilities"
	updated, err := service.UpdateCategory(ctx, category.ID, CategoryUpdate{
		Name:     &newName,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Campus Facilities", updated.Name)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "📋", updated.Icon)

	empty := " "
	_, err = service.UpdateCategory(ctx, category.ID, CategoryUpdate{Name: &empty})
	assertDomainError(t, err, "VALIDATION_FAILED")
}

func TestDeleteCategoryBlockedByComplaints(t *testing.T) {
	service, _, complaints := newCategoryService()
	ctx := context.Background()

	category, err := service.CreateCategory(ctx, "Facilities", "", "", "")
	require.NoError(t, err)

	require.NoError(t, complaints.Create(ctx, &domain.Complaint{
		Title:      "Broken door",
		CategoryID: category.ID,
		Status:     domain.StatusPending,
	}))

	err = service.DeleteCategory(ctx, category.ID)
	assertDomainError(t, err, "STATE_INVALID")

	_, err = service.GetCategory(ctx, category.ID)
	require.NoError(t, err)
}

func TestDeleteEmptyCategory(t *testing.T) {
	service, _, _ := newCategoryService()
	ctx := context.Background()

	category, err := service.CreateCategory(ctx, "Facilities", "", "", "")
	require.NoError(t, err)

	require.NoError(t, service.DeleteCategory(ctx, category.ID))

	_, err = service.GetCategory(ctx, category.ID)
	assertDomainError(t, err, "NOT_FOUND")
}

func TestListCategoriesActiveOnly(t *testing.T) {
	service, categories, _ := newCategoryService()
	ctx := context.Background()

	active, err := service.CreateCategory(ctx, "Active", "", "", "")
	require.NoError(t, err)
	retired, err := service.CreateCategory(ctx, "Retired", "", "", "")
	require.NoError(t, err)
	retired.IsActive = false
	require.NoError(t, categories.Update(ctx, retired))

	onlyActive, err := service.ListCategories(ctx, true)
	require.NoError(t, err)
	require.Len(t, onlyActive, 1)
	assert.Equal(t, active.ID, onlyActive[0].ID)

	all, err := service.ListCategories(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
