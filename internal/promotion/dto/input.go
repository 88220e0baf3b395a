package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreatePromotionInput struct {
	MerchantID    string
	Code          string
	Name          string
	Description   string
	DiscountType  string
	DiscountValue decimal.Decimal
	MinOrderValue *decimal.Decimal
	MaxDiscount   *decimal.Decimal
	StartDate     time.Time
	EndDate       time.Time
	UsageLimit    *int
}

// UpdatePromotionInput replaces every mutable field; the code is fixed at creation.
type UpdatePromotionInput struct {
	ID            string
	MerchantID    string
	Name          string
	Description   string
	DiscountType  string
	DiscountValue decimal.Decimal
	MinOrderValue *decimal.Decimal
	MaxDiscount   *decimal.Decimal
	StartDate     time.Time
	EndDate       time.Time
	UsageLimit    *int
	IsActive      bool
}

type RedeemPromotionInput struct {
	MerchantID string
	Code       string
	OrderID    string
	OrderValue decimal.Decimal
}
