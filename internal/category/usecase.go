package category

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type UseCase interface {
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, merchantID, id string) (*model.Category, error)
	ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error)
	GetCategoryTree(ctx context.Context, merchantID string, activeOnly bool) ([]model.Category, error)
	// SubtreeIDs returns id and the ids of all its descendants within the merchant's catalog.
	SubtreeIDs(ctx context.Context, merchantID, id string) ([]string, error)
	UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, merchantID, id string) error
}
