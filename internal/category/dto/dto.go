package dto

type CategoryFilters struct {
	MerchantID      string
	ParentID        *string // Nil means ignore, empty string means root categories
	IsActive        *bool
	IncludeChildren bool // Return the nested tree instead of a flat page
	Page            int
	PageSize        int
}
