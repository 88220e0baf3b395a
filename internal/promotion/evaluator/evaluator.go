// Package evaluator holds the pure promotion rules used at checkout. Nothing
// here performs I/O or mutates the promotion it is given.
package evaluator

import (
	"fmt"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/promotion"
	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

var hundred = decimal.NewFromInt(100)

// IsActive reports whether p is switched on and now lies within
// [StartDate, EndDate], both ends inclusive.
func IsActive(p *model.Promotion, now time.Time) bool {
	return p.IsActive && !now.Before(p.StartDate) && !now.After(p.EndDate)
}

// RemainingDays is the number of started days until EndDate, 0 once it has passed.
func RemainingDays(p *model.Promotion, now time.Time) int {
	left := p.EndDate.Sub(now)
	if left <= 0 {
		return 0
	}
	days := left / day
	if left%day != 0 {
		days++
	}
	return int(days)
}

// CalculateDiscount returns the amount taken off orderValue. It is zero below
// MinOrderValue and never more than MaxDiscount when those are set.
func CalculateDiscount(p *model.Promotion, orderValue decimal.Decimal) decimal.Decimal {
	if p.MinOrderValue != nil && orderValue.LessThan(*p.MinOrderValue) {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch p.DiscountType {
	case model.DiscountPercentage:
		discount = orderValue.Mul(p.DiscountValue).Div(hundred)
	case model.DiscountFixed:
		discount = p.DiscountValue
	default:
		return decimal.Zero
	}

	if p.MaxDiscount != nil && discount.GreaterThan(*p.MaxDiscount) {
		discount = *p.MaxDiscount
	}
	return discount
}

// FinalTotal is orderValue minus the discount, floored at zero.
func FinalTotal(orderValue, discount decimal.Decimal) decimal.Decimal {
	total := orderValue.Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// CheckEligibility explains why p cannot be used for orderValue at now, or
// returns nil.
func CheckEligibility(p *model.Promotion, orderValue decimal.Decimal, now time.Time) error {
	data := map[string]interface{}{"Code": p.Code}
	switch {
	case !p.IsActive:
		return promotion.ErrInactive.WithData(data)
	case now.Before(p.StartDate):
		return promotion.ErrNotStarted.WithData(data)
	case now.After(p.EndDate):
		return promotion.ErrExpired.WithData(data)
	case p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit:
		return promotion.ErrUsageExhausted.WithData(data)
	case p.MinOrderValue != nil && orderValue.LessThan(*p.MinOrderValue):
		data["MinOrderValue"] = p.MinOrderValue.String()
		return promotion.ErrBelowMinimum.WithData(data)
	}
	return nil
}

// Validate checks the invariants a stored promotion must satisfy.
func Validate(p *model.Promotion) error {
	var reason string
	switch {
	case p.Code == "":
		reason = "code is required"
	case !p.DiscountType.Valid():
		reason = fmt.Sprintf("unknown discount type %q", p.DiscountType)
	case !p.DiscountValue.IsPositive():
		reason = "discount value must be positive"
	case p.DiscountType == model.DiscountPercentage && p.DiscountValue.GreaterThan(hundred):
		reason = "percentage discount cannot exceed 100"
	case p.MinOrderValue != nil && p.MinOrderValue.IsNegative():
		reason = "minimum order value cannot be negative"
	case p.MaxDiscount != nil && p.MaxDiscount.IsNegative():
		reason = "maximum discount cannot be negative"
	case p.StartDate.IsZero() || p.EndDate.IsZero():
		reason = "start and end dates are required"
	case p.StartDate.After(p.EndDate):
		reason = "start date must not be after end date"
	case p.UsageLimit != nil && *p.UsageLimit < 0:
		reason = "usage limit cannot be negative"
	default:
		return nil
	}
	return promotion.ErrInvalidPromotion.WithData(map[string]interface{}{"Reason": reason})
}
