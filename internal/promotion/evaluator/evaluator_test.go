package evaluator

import (
	"testing"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/promotion"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var (
	start = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func intPtr(v int) *int { return &v }

func promo(mut func(p *model.Promotion)) *model.Promotion {
	p := &model.Promotion{
		Code:          "SALE",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: dec(10),
		StartDate:     start,
		EndDate:       end,
		IsActive:      true,
	}
	if mut != nil {
		mut(p)
	}
	return p
}

func TestIsActive(t *testing.T) {
	tests := []struct {
		name string
		p    *model.Promotion
		now  time.Time
		want bool
	}{
		{"inside window", promo(nil), start.Add(48 * time.Hour), true},
		{"exactly at start", promo(nil), start, true},
		{"exactly at end", promo(nil), end, true},
		{"one millisecond past end", promo(nil), end.Add(time.Millisecond), false},
		{"before start", promo(nil), start.Add(-time.Millisecond), false},
		{"switched off", promo(func(p *model.Promotion) { p.IsActive = false }), start.Add(time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsActive(tt.p, tt.now))
		})
	}
}

func TestRemainingDays(t *testing.T) {
	p := promo(func(p *model.Promotion) { p.EndDate = start.Add(72 * time.Hour) })
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"exact days", start, 3},
		{"partial day rounds up", start.Add(time.Hour), 3},
		{"last minute", start.Add(72*time.Hour - time.Minute), 1},
		{"at end", start.Add(72 * time.Hour), 0},
		{"past end", start.Add(100 * time.Hour), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemainingDays(p, tt.now))
		})
	}
}

func TestRemainingDaysFarFutureEnd(t *testing.T) {
	now := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	p := promo(func(p *model.Promotion) { p.EndDate = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC) })

	got := RemainingDays(p, now)
	// Sub saturates at the maximum Duration, about 106751 days.
	assert.Equal(t, 106752, got)
	assert.Positive(t, got)
}

func TestCalculateDiscount(t *testing.T) {
	tests := []struct {
		name  string
		p     *model.Promotion
		order decimal.Decimal
		want  decimal.Decimal
	}{
		{
			name:  "percentage clamped to max discount",
			p:     promo(func(p *model.Promotion) { p.MaxDiscount = decPtr(5000) }),
			order: dec(100000),
			want:  dec(5000),
		},
		{
			name: "fixed below minimum order",
			p: promo(func(p *model.Promotion) {
				p.DiscountType = model.DiscountFixed
				p.DiscountValue = dec(20000)
				p.MinOrderValue = decPtr(50000)
			}),
			order: dec(30000),
			want:  decimal.Zero,
		},
		{
			name: "fixed at minimum order",
			p: promo(func(p *model.Promotion) {
				p.DiscountType = model.DiscountFixed
				p.DiscountValue = dec(20000)
				p.MinOrderValue = decPtr(50000)
			}),
			order: dec(50000),
			want:  dec(20000),
		},
		{
			name:  "percentage unclamped",
			p:     promo(nil),
			order: dec(12345),
			want:  decimal.RequireFromString("1234.5"),
		},
		{
			name:  "percentage under max",
			p:     promo(func(p *model.Promotion) { p.MaxDiscount = decPtr(5000) }),
			order: dec(20000),
			want:  dec(2000),
		},
		{
			name: "fixed clamped to max",
			p: promo(func(p *model.Promotion) {
				p.DiscountType = model.DiscountFixed
				p.DiscountValue = dec(9000)
				p.MaxDiscount = decPtr(7000)
			}),
			order: dec(100),
			want:  dec(7000),
		},
		{
			name:  "unknown type",
			p:     promo(func(p *model.Promotion) { p.DiscountType = "bogo" }),
			order: dec(100),
			want:  decimal.Zero,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateDiscount(tt.p, tt.order)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestCalculateDiscountDoesNotMutate(t *testing.T) {
	p := promo(func(p *model.Promotion) { p.MaxDiscount = decPtr(5000) })
	before := *p
	CalculateDiscount(p, dec(100000))
	assert.Equal(t, before, *p)
}

func TestFinalTotal(t *testing.T) {
	assert.True(t, dec(80).Equal(FinalTotal(dec(100), dec(20))))
	assert.True(t, decimal.Zero.Equal(FinalTotal(dec(100), dec(150))))
}

func TestCheckEligibility(t *testing.T) {
	now := start.Add(time.Hour)
	tests := []struct {
		name  string
		p     *model.Promotion
		order decimal.Decimal
		now   time.Time
		want  error
	}{
		{"eligible", promo(nil), dec(100), now, nil},
		{"inactive", promo(func(p *model.Promotion) { p.IsActive = false }), dec(100), now, promotion.ErrInactive},
		{"not started", promo(nil), dec(100), start.Add(-time.Hour), promotion.ErrNotStarted},
		{"expired", promo(nil), dec(100), end.Add(time.Millisecond), promotion.ErrExpired},
		{"exhausted", promo(func(p *model.Promotion) { p.UsageLimit = intPtr(3); p.UsageCount = 3 }), dec(100), now, promotion.ErrUsageExhausted},
		{"below minimum", promo(func(p *model.Promotion) { p.MinOrderValue = decPtr(500) }), dec(100), now, promotion.ErrBelowMinimum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckEligibility(tt.p, tt.order, tt.now)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		p     *model.Promotion
		valid bool
	}{
		{"valid", promo(nil), true},
		{"single instant window", promo(func(p *model.Promotion) { p.EndDate = p.StartDate }), true},
		{"start after end", promo(func(p *model.Promotion) { p.StartDate = end.Add(time.Hour) }), false},
		{"missing code", promo(func(p *model.Promotion) { p.Code = "" }), false},
		{"bad type", promo(func(p *model.Promotion) { p.DiscountType = "free" }), false},
		{"zero value", promo(func(p *model.Promotion) { p.DiscountValue = decimal.Zero }), false},
		{"over 100 percent", promo(func(p *model.Promotion) { p.DiscountValue = dec(101) }), false},
		{"large fixed ok", promo(func(p *model.Promotion) { p.DiscountType = model.DiscountFixed; p.DiscountValue = dec(500000) }), true},
		{"negative min", promo(func(p *model.Promotion) { p.MinOrderValue = decPtr(-1) }), false},
		{"negative max", promo(func(p *model.Promotion) { p.MaxDiscount = decPtr(-1) }), false},
		{"missing dates", promo(func(p *model.Promotion) { p.StartDate = time.Time{} }), false},
		{"negative usage limit", promo(func(p *model.Promotion) { p.UsageLimit = intPtr(-1) }), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.p)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, promotion.ErrInvalidPromotion)
			}
		})
	}
}
