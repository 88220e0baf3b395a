package dto

import (
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/shopspring/decimal"
)

type PromotionFilters struct {
	MerchantID string
	ActiveOnly bool
	ActiveAt   time.Time // Set by the usecase when ActiveOnly is true
	Page       int
	PageSize   int
}

type ApplyResult struct {
	Promotion     *model.Promotion
	OrderValue    decimal.Decimal
	Discount      decimal.Decimal
	FinalTotal    decimal.Decimal
	RemainingDays int
}

type RedeemResult struct {
	Redemption *model.PromotionRedemption
	FinalTotal decimal.Decimal
	UsageCount int
}

// PromotionRedeemedEvent is published on the promotions topic after a redemption commits.
type PromotionRedeemedEvent struct {
	EventID   string                   `json:"event_id"`
	EventType string                   `json:"event_type"`
	Payload   PromotionRedeemedPayload `json:"payload"`
	Timestamp time.Time                `json:"timestamp"`
}

type PromotionRedeemedPayload struct {
	RedemptionID string          `json:"redemption_id"`
	MerchantID   string          `json:"merchant_id"`
	PromotionID  string          `json:"promotion_id"`
	Code         string          `json:"code"`
	OrderID      string          `json:"order_id"`
	OrderValue   decimal.Decimal `json:"order_value"`
	Discount     decimal.Decimal `json:"discount"`
	UsageCount   int             `json:"usage_count"`
}
