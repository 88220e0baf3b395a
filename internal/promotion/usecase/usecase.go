package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/promotion"
	"github.com/fekuna/omnipos-catalog-service/internal/promotion/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/promotion/evaluator"
	"github.com/fekuna/omnipos-catalog-service/pkg/apperror"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const eventPromotionRedeemed = "PromotionRedeemed"

var tracer = otel.Tracer("github.com/fekuna/omnipos-catalog-service/internal/promotion")

type promotionUseCase struct {
	repo      promotion.Repository
	cache     promotion.Cache
	publisher promotion.EventPublisher
	cacheTTL  time.Duration
	logger    logger.ZapLogger
	now       func() time.Time
}

// NewPromotionUseCase builds the promotion usecase. cache and publisher may be
// nil, which disables code caching and redemption events respectively.
func NewPromotionUseCase(repo promotion.Repository, cache promotion.Cache, publisher promotion.EventPublisher, cacheTTL time.Duration, log logger.ZapLogger) promotion.UseCase {
	return &promotionUseCase{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		cacheTTL:  cacheTTL,
		logger:    log,
		now:       time.Now,
	}
}

func (uc *promotionUseCase) CreatePromotion(ctx context.Context, input *dto.CreatePromotionInput) (*model.Promotion, error) {
	now := uc.now()
	p := &model.Promotion{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MerchantID:    input.MerchantID,
		Code:          normalizeCode(input.Code),
		Name:          strings.TrimSpace(input.Name),
		Description:   optional(input.Description),
		DiscountType:  model.DiscountType(input.DiscountType),
		DiscountValue: input.DiscountValue,
		MinOrderValue: input.MinOrderValue,
		MaxDiscount:   input.MaxDiscount,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		IsActive:      true,
		UsageLimit:    input.UsageLimit,
	}
	if err := evaluator.Validate(p); err != nil {
		return nil, err
	}

	unique, err := uc.repo.IsCodeUnique(ctx, p.MerchantID, p.Code)
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, promotion.ErrCodeExists.WithData(map[string]interface{}{"Code": p.Code})
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *promotionUseCase) GetPromotion(ctx context.Context, merchantID, id string) (*model.Promotion, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.MerchantID != merchantID {
		return nil, promotion.ErrPromotionNotFound.WithData(map[string]interface{}{"Code": id})
	}
	return p, nil
}

func (uc *promotionUseCase) GetPromotionByCode(ctx context.Context, merchantID, code string) (*model.Promotion, error) {
	code = normalizeCode(code)
	key := cacheKey(merchantID, code)

	if uc.cache != nil {
		var cached model.Promotion
		found, err := uc.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			uc.logger.Warn("promotion cache read failed", zap.String("key", key), zap.Error(err))
		}
		if found {
			return &cached, nil
		}
	}

	p, err := uc.repo.FindByCode(ctx, merchantID, code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, promotion.ErrPromotionNotFound.WithData(map[string]interface{}{"Code": code})
	}

	if uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, key, p, uc.cacheTTL); err != nil {
			uc.logger.Warn("promotion cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return p, nil
}

func (uc *promotionUseCase) ListPromotions(ctx context.Context, filters *dto.PromotionFilters) ([]model.Promotion, int, error) {
	if filters.ActiveOnly {
		filters.ActiveAt = uc.now()
	}
	return uc.repo.FindAll(ctx, filters)
}

func (uc *promotionUseCase) UpdatePromotion(ctx context.Context, input *dto.UpdatePromotionInput) (*model.Promotion, error) {
	p, err := uc.GetPromotion(ctx, input.MerchantID, input.ID)
	if err != nil {
		return nil, err
	}

	p.Name = strings.TrimSpace(input.Name)
	p.Description = optional(input.Description)
	p.DiscountType = model.DiscountType(input.DiscountType)
	p.DiscountValue = input.DiscountValue
	p.MinOrderValue = input.MinOrderValue
	p.MaxDiscount = input.MaxDiscount
	p.StartDate = input.StartDate
	p.EndDate = input.EndDate
	p.UsageLimit = input.UsageLimit
	p.IsActive = input.IsActive
	p.UpdatedAt = uc.now()

	if err := evaluator.Validate(p); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	uc.invalidate(ctx, p)
	return p, nil
}

func (uc *promotionUseCase) DeletePromotion(ctx context.Context, merchantID, id string) error {
	p, err := uc.GetPromotion(ctx, merchantID, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, merchantID, id); err != nil {
		return err
	}

	uc.invalidate(ctx, p)
	return nil
}

func (uc *promotionUseCase) ApplyPromotion(ctx context.Context, merchantID, code string, orderValue decimal.Decimal) (*dto.ApplyResult, error) {
	ctx, span := tracer.Start(ctx, "promotion.ApplyPromotion")
	defer span.End()

	if orderValue.IsNegative() {
		return nil, promotion.ErrInvalidOrderValue
	}

	p, err := uc.GetPromotionByCode(ctx, merchantID, code)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	if err := evaluator.CheckEligibility(p, orderValue, now); err != nil {
		return nil, err
	}

	discount := evaluator.CalculateDiscount(p, orderValue)
	return &dto.ApplyResult{
		Promotion:     p,
		OrderValue:    orderValue,
		Discount:      discount,
		FinalTotal:    evaluator.FinalTotal(orderValue, discount),
		RemainingDays: evaluator.RemainingDays(p, now),
	}, nil
}

func (uc *promotionUseCase) RedeemPromotion(ctx context.Context, input *dto.RedeemPromotionInput) (*dto.RedeemResult, error) {
	ctx, span := tracer.Start(ctx, "promotion.RedeemPromotion")
	defer span.End()

	if strings.TrimSpace(input.OrderID) == "" {
		return nil, promotion.ErrOrderRequired
	}
	if input.OrderValue.IsNegative() {
		return nil, promotion.ErrInvalidOrderValue
	}

	// Redemption reads through to the database so usage counts are current.
	code := normalizeCode(input.Code)
	p, err := uc.repo.FindByCode(ctx, input.MerchantID, code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, promotion.ErrPromotionNotFound.WithData(map[string]interface{}{"Code": code})
	}

	now := uc.now()
	if err := evaluator.CheckEligibility(p, input.OrderValue, now); err != nil {
		return nil, err
	}

	discount := evaluator.CalculateDiscount(p, input.OrderValue)
	redemption := &model.PromotionRedemption{
		ID:          uuid.New().String(),
		MerchantID:  input.MerchantID,
		PromotionID: p.ID,
		OrderID:     input.OrderID,
		OrderValue:  input.OrderValue,
		Discount:    discount,
		RedeemedAt:  now,
	}

	usage, err := uc.repo.Redeem(ctx, redemption)
	if err != nil {
		if apperror.Known(err) {
			return nil, withRedeemData(err, p.Code, input.OrderID)
		}
		return nil, err
	}
	p.UsageCount = usage
	span.SetAttributes(
		attribute.String("promotion.code", p.Code),
		attribute.Int("promotion.usage_count", usage),
	)

	uc.invalidate(ctx, p)
	uc.publishRedeemed(ctx, p, redemption, usage)

	return &dto.RedeemResult{
		Redemption: redemption,
		FinalTotal: evaluator.FinalTotal(input.OrderValue, discount),
		UsageCount: usage,
	}, nil
}

func (uc *promotionUseCase) publishRedeemed(ctx context.Context, p *model.Promotion, r *model.PromotionRedemption, usage int) {
	if uc.publisher == nil {
		return
	}

	event := dto.PromotionRedeemedEvent{
		EventID:   uuid.New().String(),
		EventType: eventPromotionRedeemed,
		Payload: dto.PromotionRedeemedPayload{
			RedemptionID: r.ID,
			MerchantID:   r.MerchantID,
			PromotionID:  p.ID,
			Code:         p.Code,
			OrderID:      r.OrderID,
			OrderValue:   r.OrderValue,
			Discount:     r.Discount,
			UsageCount:   usage,
		},
		Timestamp: r.RedeemedAt,
	}
	data, err := json.Marshal(event)
	if err != nil {
		uc.logger.Error("failed to encode promotion event", zap.Error(err))
		return
	}

	// The redemption is already committed at this point.
	if err := uc.publisher.Publish(ctx, p.MerchantID, data); err != nil {
		uc.logger.Error("failed to publish promotion event",
			zap.String("promotion_id", p.ID),
			zap.String("order_id", r.OrderID),
			zap.Error(err),
		)
	}
}

func (uc *promotionUseCase) invalidate(ctx context.Context, p *model.Promotion) {
	if uc.cache == nil {
		return
	}
	key := cacheKey(p.MerchantID, p.Code)
	if err := uc.cache.Delete(ctx, key); err != nil {
		uc.logger.Warn("promotion cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

func withRedeemData(err error, code, orderID string) error {
	data := map[string]interface{}{"Code": code, "OrderID": orderID}
	switch {
	case errors.Is(err, promotion.ErrUsageExhausted):
		return promotion.ErrUsageExhausted.WithData(data)
	case errors.Is(err, promotion.ErrAlreadyRedeemed):
		return promotion.ErrAlreadyRedeemed.WithData(data)
	}
	return err
}

func cacheKey(merchantID, code string) string {
	return fmt.Sprintf("promotions:code:%s:%s", merchantID, code)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
