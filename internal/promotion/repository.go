package promotion

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/promotion/dto"
)

type Repository interface {
	Create(ctx context.Context, p *model.Promotion) error
	// FindByID and FindByCode return nil, nil when no row matches.
	FindByID(ctx context.Context, id string) (*model.Promotion, error)
	FindByCode(ctx context.Context, merchantID, code string) (*model.Promotion, error)
	FindAll(ctx context.Context, filters *dto.PromotionFilters) ([]model.Promotion, int, error)
	Update(ctx context.Context, p *model.Promotion) error
	Delete(ctx context.Context, merchantID, id string) error

	IsCodeUnique(ctx context.Context, merchantID, code string) (bool, error)

	// Redeem bumps usage_count unless the usage limit is reached and records
	// the redemption in the same transaction. It returns the new usage count,
	// ErrUsageExhausted when the limit is hit, or ErrAlreadyRedeemed when the
	// order already used this promotion.
	Redeem(ctx context.Context, r *model.PromotionRedemption) (int, error)
}
