package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	rows    []model.Category
	deleted []string
}

func (f *fakeRepo) Create(ctx context.Context, c *model.Category) error {
	f.rows = append(f.rows, *c)
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*model.Category, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			c := f.rows[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FindAll(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	var out []model.Category
	for _, c := range f.rows {
		if c.MerchantID == filters.MerchantID {
			out = append(out, c)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) FindAllByMerchant(ctx context.Context, merchantID string, isActive *bool) ([]model.Category, error) {
	var out []model.Category
	for _, c := range f.rows {
		if c.MerchantID == merchantID && (isActive == nil || c.IsActive == *isActive) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, c *model.Category) error {
	for i := range f.rows {
		if f.rows[i].ID == c.ID {
			f.rows[i] = *c
		}
	}
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, merchantID, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func row(id, merchant, parent string, active bool) model.Category {
	c := model.Category{BaseModel: model.BaseModel{ID: id}, MerchantID: merchant, Name: id, IsActive: active}
	if parent != "" {
		p := parent
		c.ParentID = &p
	}
	return c
}

func newUseCase(rows ...model.Category) (category.UseCase, *fakeRepo) {
	repo := &fakeRepo{rows: rows}
	return NewCategoryUseCase(repo, logger.NewNop()), repo
}

func strPtr(s string) *string { return &s }

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()
	uc, repo := newUseCase(row("root", "m1", "", true), row("other", "m2", "", true))

	t.Run("under existing parent", func(t *testing.T) {
		cat, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{MerchantID: "m1", ParentID: strPtr("root"), Name: "  Drinks "})
		require.NoError(t, err)
		assert.Equal(t, "Drinks", cat.Name)
		assert.Equal(t, "root", *cat.ParentID)
		assert.True(t, cat.IsActive)
		assert.NotEmpty(t, cat.ID)
		assert.Nil(t, cat.Description)
	})

	t.Run("empty parent means root", func(t *testing.T) {
		cat, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{MerchantID: "m1", ParentID: strPtr(""), Name: "Snacks"})
		require.NoError(t, err)
		assert.Nil(t, cat.ParentID)
	})

	t.Run("parent of another merchant", func(t *testing.T) {
		_, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{MerchantID: "m1", ParentID: strPtr("other"), Name: "x"})
		assert.ErrorIs(t, err, category.ErrParentNotFound)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{MerchantID: "m1", Name: "  "})
		assert.ErrorIs(t, err, category.ErrNameRequired)
	})

	assert.Len(t, repo.rows, 4)
}

func TestGetCategoryChecksMerchant(t *testing.T) {
	uc, _ := newUseCase(row("a", "m1", "", true))

	_, err := uc.GetCategory(context.Background(), "m2", "a")
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)

	cat, err := uc.GetCategory(context.Background(), "m1", "a")
	require.NoError(t, err)
	assert.Equal(t, "a", cat.ID)
}

func TestListCategoriesTree(t *testing.T) {
	uc, _ := newUseCase(
		row("a", "m1", "", true),
		row("b", "m1", "a", true),
		row("c", "m1", "b", false),
		row("d", "m1", "", true),
		row("x", "m2", "", true),
	)
	ctx := context.Background()

	forest, total, err := uc.ListCategories(ctx, &dto.CategoryFilters{MerchantID: "m1", IncludeChildren: true})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, forest, 2)
	assert.Equal(t, "b", forest[0].Children[0].ID)
	assert.Equal(t, "c", forest[0].Children[0].Children[0].ID)

	active := true
	forest, _, err = uc.ListCategories(ctx, &dto.CategoryFilters{MerchantID: "m1", IncludeChildren: true, IsActive: &active})
	require.NoError(t, err)
	assert.Empty(t, forest[0].Children[0].Children)

	inactive := false
	forest, total, err = uc.ListCategories(ctx, &dto.CategoryFilters{MerchantID: "m1", IncludeChildren: true, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, forest, 1)
	assert.Equal(t, "c", forest[0].ID)

	sub, total, err := uc.ListCategories(ctx, &dto.CategoryFilters{MerchantID: "m1", IncludeChildren: true, ParentID: strPtr("a")})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "b", sub[0].ID)

	_, _, err = uc.ListCategories(ctx, &dto.CategoryFilters{MerchantID: "m1", IncludeChildren: true, ParentID: strPtr("x")})
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
}

func TestUpdateCategoryRejectsCycle(t *testing.T) {
	uc, repo := newUseCase(
		row("a", "m1", "", true),
		row("b", "m1", "a", true),
		row("c", "m1", "b", true),
		row("z", "m1", "", true),
	)
	ctx := context.Background()

	_, err := uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: "a", MerchantID: "m1", Name: "a", ParentID: strPtr("c")})
	assert.ErrorIs(t, err, category.ErrCategoryCycle)

	_, err = uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: "a", MerchantID: "m1", Name: "a", ParentID: strPtr("a")})
	assert.ErrorIs(t, err, category.ErrCategoryCycle)

	updated, err := uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: "a", MerchantID: "m1", Name: "A", ParentID: strPtr("z"), IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "z", *updated.ParentID)
	assert.Equal(t, "A", repo.rows[0].Name)

	moved, err := uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{ID: "c", MerchantID: "m1", Name: "c"})
	require.NoError(t, err)
	assert.Nil(t, moved.ParentID)
}

func TestSubtreeIDs(t *testing.T) {
	uc, _ := newUseCase(row("a", "m1", "", true), row("b", "m1", "a", false), row("c", "m1", "b", true))
	ids, err := uc.SubtreeIDs(context.Background(), "m1", "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestDeleteCategory(t *testing.T) {
	uc, repo := newUseCase(row("a", "m1", "", true))

	assert.ErrorIs(t, uc.DeleteCategory(context.Background(), "m2", "a"), category.ErrCategoryNotFound)
	require.NoError(t, uc.DeleteCategory(context.Background(), "m1", "a"))
	assert.Equal(t, []string{"a"}, repo.deleted)
}
