// Package tier maps lifetime loyalty points onto membership tiers and works
// out how many points an order earns. Everything here is pure.
package tier

import "github.com/shopspring/decimal"

type Tier struct {
	Name       string
	MinPoints  int64
	Multiplier decimal.Decimal
}

var (
	Bronze   = Tier{Name: "bronze", MinPoints: 0, Multiplier: decimal.NewFromInt(1)}
	Silver   = Tier{Name: "silver", MinPoints: 1000, Multiplier: decimal.RequireFromString("1.25")}
	Gold     = Tier{Name: "gold", MinPoints: 5000, Multiplier: decimal.RequireFromString("1.5")}
	Platinum = Tier{Name: "platinum", MinPoints: 10000, Multiplier: decimal.NewFromInt(2)}
)

// ladder is ordered by MinPoints ascending.
var ladder = []Tier{Bronze, Silver, Gold, Platinum}

// ForPoints returns the highest tier whose threshold lifetime reaches.
// Negative totals are treated as zero.
func ForPoints(lifetime int64) Tier {
	current := ladder[0]
	for _, t := range ladder[1:] {
		if lifetime < t.MinPoints {
			break
		}
		current = t
	}
	return current
}

// Next returns the tier after the one lifetime sits in, false at the top.
func Next(lifetime int64) (Tier, bool) {
	for _, t := range ladder[1:] {
		if lifetime < t.MinPoints {
			return t, true
		}
	}
	return Tier{}, false
}

// PointsToNextTier is 0 at the top tier.
func PointsToNextTier(lifetime int64) int64 {
	next, ok := Next(lifetime)
	if !ok {
		return 0
	}
	if lifetime < 0 {
		lifetime = 0
	}
	return next.MinPoints - lifetime
}

// Progress is the fraction of the current band already covered, in [0, 1].
func Progress(lifetime int64) float64 {
	next, ok := Next(lifetime)
	if !ok {
		return 1
	}
	current := ForPoints(lifetime)
	if lifetime < current.MinPoints {
		return 0
	}
	return float64(lifetime-current.MinPoints) / float64(next.MinPoints-current.MinPoints)
}

// EarnedPoints is floor(orderValue / spendPerPoint) scaled by the tier
// multiplier and floored again. Non-positive inputs earn nothing.
func EarnedPoints(orderValue decimal.Decimal, spendPerPoint int64, t Tier) int64 {
	if !orderValue.IsPositive() || spendPerPoint <= 0 {
		return 0
	}
	base := orderValue.Div(decimal.NewFromInt(spendPerPoint)).Floor()
	return base.Mul(t.Multiplier).Floor().IntPart()
}
