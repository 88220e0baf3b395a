package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

type Promotion struct {
	BaseModel
	MerchantID    string           `db:"merchant_id" json:"merchant_id"`
	Code          string           `db:"code" json:"code"`
	Name          string           `db:"name" json:"name"`
	Description   *string          `db:"description" json:"description"`
	DiscountType  DiscountType     `db:"discount_type" json:"discount_type"`
	DiscountValue decimal.Decimal  `db:"discount_value" json:"discount_value"`
	MinOrderValue *decimal.Decimal `db:"min_order_value" json:"min_order_value"` // Optional
	MaxDiscount   *decimal.Decimal `db:"max_discount" json:"max_discount"`       // Optional
	StartDate     time.Time        `db:"start_date" json:"start_date"`
	EndDate       time.Time        `db:"end_date" json:"end_date"`
	IsActive      bool             `db:"is_active" json:"is_active"`
	UsageLimit    *int             `db:"usage_limit" json:"usage_limit"` // Optional cap on redemptions
	UsageCount    int              `db:"usage_count" json:"usage_count"`
}

type PromotionRedemption struct {
	ID          string          `db:"id"`
	MerchantID  string          `db:"merchant_id"`
	PromotionID string          `db:"promotion_id"`
	OrderID     string          `db:"order_id"`
	OrderValue  decimal.Decimal `db:"order_value"`
	Discount    decimal.Decimal `db:"discount"`
	RedeemedAt  time.Time       `db:"redeemed_at"`
}
