package dto

import (
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/loyalty/tier"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/shopspring/decimal"
)

type AccountSummary struct {
	Account          *model.LoyaltyAccount
	Tier             tier.Tier
	NextTier         *tier.Tier
	PointsToNextTier int64
	Progress         float64
}

type TransactionFilters struct {
	MerchantID string
	CustomerID string
	TxType     string
	Page       int
	PageSize   int
}

// OrderCompletedEvent is consumed from the orders topic.
type OrderCompletedEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   OrderPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type OrderPayload struct {
	ID          string          `json:"id"`
	MerchantID  string          `json:"merchant_id"`
	CustomerID  string          `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}
