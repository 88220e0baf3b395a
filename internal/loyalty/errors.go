package loyalty

import (
	"errors"

	"github.com/fekuna/omnipos-catalog-service/pkg/apperror"
)

var (
	ErrInsufficientPoints = apperror.FailedPrecondition("loyalty_insufficient_points")
	ErrInvalidPoints      = apperror.InvalidArgument("loyalty_invalid_points")
	ErrCustomerRequired   = apperror.InvalidArgument("loyalty_customer_required")
	ErrOrderRequired      = apperror.InvalidArgument("loyalty_order_required")
	ErrSystemBusy         = apperror.Unavailable(apperror.MsgSystemBusy)

	// ErrDuplicateReference is returned by the repository when a ledger entry
	// with the same reference was already written.
	ErrDuplicateReference = errors.New("loyalty: duplicate ledger reference")
)

const (
	TxEarn   = "earn"
	TxRedeem = "redeem"
	TxAdjust = "adjust"

	RefOrder = "order"
)
