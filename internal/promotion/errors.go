package promotion

import "github.com/fekuna/omnipos-catalog-service/pkg/apperror"

var (
	ErrPromotionNotFound = apperror.NotFound("promotion_not_found")
	ErrCodeExists        = apperror.AlreadyExists("promotion_code_exists")
	ErrInvalidPromotion  = apperror.InvalidArgument("promotion_invalid")
	ErrInvalidOrderValue = apperror.InvalidArgument("promotion_invalid_order_value")
	ErrAlreadyRedeemed   = apperror.AlreadyExists("promotion_already_redeemed")
	ErrOrderRequired     = apperror.InvalidArgument("promotion_order_required")

	ErrInactive       = apperror.FailedPrecondition("promotion_inactive")
	ErrNotStarted     = apperror.FailedPrecondition("promotion_not_started")
	ErrExpired        = apperror.FailedPrecondition("promotion_expired")
	ErrBelowMinimum   = apperror.FailedPrecondition("promotion_below_minimum")
	ErrUsageExhausted = apperror.FailedPrecondition("promotion_usage_exhausted")
)
