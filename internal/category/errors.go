package category

import "github.com/fekuna/omnipos-catalog-service/pkg/apperror"

var (
	ErrCategoryNotFound = apperror.NotFound("category_not_found")
	ErrParentNotFound   = apperror.NotFound("category_parent_not_found")
	ErrCategoryCycle    = apperror.FailedPrecondition("category_cycle")
	ErrNameRequired     = apperror.InvalidArgument("category_name_required")
)
