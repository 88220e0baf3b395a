package model

import "time"

type LoyaltyAccount struct {
	ID             string    `db:"id"`
	MerchantID     string    `db:"merchant_id"`
	CustomerID     string    `db:"customer_id"`
	PointsBalance  int64     `db:"points_balance"`
	LifetimePoints int64     `db:"lifetime_points"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type LoyaltyTransaction struct {
	ID            string    `db:"id"`
	AccountID     string    `db:"account_id"`
	MerchantID    string    `db:"merchant_id"`
	CustomerID    string    `db:"customer_id"`
	TxType        string    `db:"tx_type"` // earn, redeem, adjust
	PointsChange  int64     `db:"points_change"`
	BalanceBefore int64     `db:"balance_before"`
	BalanceAfter  int64     `db:"balance_after"`
	ReferenceType *string   `db:"reference_type"`
	ReferenceID   *string   `db:"reference_id"`
	Notes         string    `db:"notes"`
	CreatedBy     *string   `db:"created_by"`
	CreatedAt     time.Time `db:"created_at"`
}
