package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	MerchantID     string           `db:"merchant_id" json:"merchant_id"`
	CategoryID     *string          `db:"category_id" json:"category_id"` // Nullable
	SKU            string           `db:"sku" json:"sku"`
	Barcode        *string          `db:"barcode" json:"barcode"` // Nullable
	Name           string           `db:"name" json:"name"`
	Description    *string          `db:"description" json:"description"`
	BasePrice      decimal.Decimal  `db:"base_price" json:"base_price"`
	CostPrice      *decimal.Decimal `db:"cost_price" json:"cost_price"`
	TaxRate        decimal.Decimal  `db:"tax_rate" json:"tax_rate"`
	TrackInventory bool             `db:"track_inventory" json:"track_inventory"`
	ImageURL       *string          `db:"image_url" json:"image_url"`
	IsActive       bool             `db:"is_active" json:"is_active"`
}
