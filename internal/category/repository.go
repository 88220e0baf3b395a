package category

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, category *model.Category) error
	// FindByID returns nil, nil when no row matches.
	FindByID(ctx context.Context, id string) (*model.Category, error)
	FindAll(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error)
	// FindAllByMerchant returns every category of the merchant in display order, unpaged.
	// A nil isActive matches both states.
	FindAllByMerchant(ctx context.Context, merchantID string, isActive *bool) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, merchantID, id string) error
}
