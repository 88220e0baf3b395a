package loyalty

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/loyalty/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/loyalty/tier"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/shopspring/decimal"
)

type UseCase interface {
	// GetAccount returns a zero balance for customers without an account yet.
	GetAccount(ctx context.Context, merchantID, customerID string) (*dto.AccountSummary, error)
	AdjustPoints(ctx context.Context, input *dto.AdjustPointsInput) (*dto.AccountSummary, error)
	RedeemPoints(ctx context.Context, input *dto.RedeemPointsInput) (*dto.AccountSummary, error)
	// EarnFromOrder credits points for a completed order once; replays earn 0.
	EarnFromOrder(ctx context.Context, input *dto.EarnInput) (int64, error)
	QuoteEarn(ctx context.Context, merchantID, customerID string, orderValue decimal.Decimal) (int64, tier.Tier, error)
	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.LoyaltyTransaction, int, error)
}

// Locker is the distributed lock used to serialize balance changes per customer.
type Locker interface {
	AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key, value string) error
}
