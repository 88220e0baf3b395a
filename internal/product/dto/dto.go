package dto

type ProductFilters struct {
	MerchantID           string   `json:"merchant_id"`
	CategoryID           string   `json:"category_id"`
	IncludeSubcategories bool     `json:"include_subcategories"`
	CategoryIDs          []string `json:"category_ids,omitempty"` // Resolved subtree, set by the usecase
	IsActive             *bool    `json:"is_active"`
	SearchQuery          string   `json:"search"`     // For name, sku, barcode search
	SortBy               string   `json:"sort_by"`    // name, price, created_at
	SortOrder            string   `json:"sort_order"` // asc, desc
	Page                 int      `json:"page"`
	PageSize             int      `json:"page_size"`
}
