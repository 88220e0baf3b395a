package product

import "github.com/fekuna/omnipos-catalog-service/pkg/apperror"

var (
	ErrProductNotFound = apperror.NotFound("product_not_found")
	ErrSKUExists       = apperror.AlreadyExists("product_sku_exists")
	ErrBarcodeExists   = apperror.AlreadyExists("product_barcode_exists")
	ErrInvalidPrice    = apperror.InvalidArgument("product_invalid_price")
	ErrInvalidProduct  = apperror.InvalidArgument(apperror.MsgInvalidArgument)
)
