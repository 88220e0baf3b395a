package dto

import "github.com/shopspring/decimal"

type AdjustPointsInput struct {
	MerchantID    string
	CustomerID    string
	Points        int64 // Signed change
	TxType        string
	Reason        string
	ReferenceType string
	ReferenceID   string
	UserID        string
}

type RedeemPointsInput struct {
	MerchantID string
	CustomerID string
	Points     int64
	OrderID    string
	UserID     string
}

type EarnInput struct {
	MerchantID string
	CustomerID string
	OrderID    string
	OrderValue decimal.Decimal
}
