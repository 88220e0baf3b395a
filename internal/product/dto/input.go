package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	MerchantID     string
	CategoryID     string // Optional
	SKU            string
	Barcode        string
	Name           string
	Description    string
	BasePrice      decimal.Decimal
	CostPrice      decimal.Decimal
	TaxRate        decimal.Decimal
	TrackInventory bool
	ImageURL       string
}

type UpdateProductInput struct {
	ID             string
	MerchantID     string
	CategoryID     string
	SKU            string
	Barcode        string
	Name           string
	Description    string
	BasePrice      decimal.Decimal
	CostPrice      decimal.Decimal
	TaxRate        decimal.Decimal
	TrackInventory bool
	ImageURL       string
	IsActive       bool
}
