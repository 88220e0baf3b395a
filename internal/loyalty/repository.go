package loyalty

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/loyalty/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type Repository interface {
	// GetAccount returns nil, nil when the customer has no account.
	GetAccount(ctx context.Context, merchantID, customerID string) (*model.LoyaltyAccount, error)
	HasReference(ctx context.Context, merchantID, referenceType, referenceID string) (bool, error)
	// SaveWithTransaction upserts the account and appends the ledger entry atomically.
	SaveWithTransaction(ctx context.Context, account *model.LoyaltyAccount, tx *model.LoyaltyTransaction) error
	ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.LoyaltyTransaction, int, error)
}
