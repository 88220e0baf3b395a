package promotion

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/promotion/dto"
	"github.com/shopspring/decimal"
)

type UseCase interface {
	CreatePromotion(ctx context.Context, input *dto.CreatePromotionInput) (*model.Promotion, error)
	GetPromotion(ctx context.Context, merchantID, id string) (*model.Promotion, error)
	GetPromotionByCode(ctx context.Context, merchantID, code string) (*model.Promotion, error)
	ListPromotions(ctx context.Context, filters *dto.PromotionFilters) ([]model.Promotion, int, error)
	UpdatePromotion(ctx context.Context, input *dto.UpdatePromotionInput) (*model.Promotion, error)
	DeletePromotion(ctx context.Context, merchantID, id string) error

	// ApplyPromotion prices an order against a code without consuming it.
	ApplyPromotion(ctx context.Context, merchantID, code string, orderValue decimal.Decimal) (*dto.ApplyResult, error)
	RedeemPromotion(ctx context.Context, input *dto.RedeemPromotionInput) (*dto.RedeemResult, error)
}

// Cache is the subset of the redis client used for code lookups.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}
