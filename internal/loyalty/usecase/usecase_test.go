package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/loyalty"
	"github.com/fekuna/omnipos-catalog-service/internal/loyalty/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	accounts map[string]model.LoyaltyAccount
	ledger   []model.LoyaltyTransaction
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{accounts: map[string]model.LoyaltyAccount{}}
}

func (f *fakeRepo) GetAccount(ctx context.Context, merchantID, customerID string) (*model.LoyaltyAccount, error) {
	acc, ok := f.accounts[merchantID+"/"+customerID]
	if !ok {
		return nil, nil
	}
	return &acc, nil
}

func (f *fakeRepo) HasReference(ctx context.Context, merchantID, referenceType, referenceID string) (bool, error) {
	for _, tx := range f.ledger {
		if tx.MerchantID == merchantID && tx.ReferenceType != nil && *tx.ReferenceType == referenceType &&
			tx.ReferenceID != nil && *tx.ReferenceID == referenceID && tx.TxType == loyalty.TxEarn {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) SaveWithTransaction(ctx context.Context, acc *model.LoyaltyAccount, tx *model.LoyaltyTransaction) error {
	f.accounts[acc.MerchantID+"/"+acc.CustomerID] = *acc
	f.ledger = append(f.ledger, *tx)
	return nil
}

func (f *fakeRepo) ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.LoyaltyTransaction, int, error) {
	var out []model.LoyaltyTransaction
	for _, tx := range f.ledger {
		if tx.MerchantID == filters.MerchantID && (filters.CustomerID == "" || tx.CustomerID == filters.CustomerID) {
			out = append(out, tx)
		}
	}
	return out, len(out), nil
}

type fakeLocker struct {
	held     map[string]string
	attempts int
	err      error
}

func (l *fakeLocker) AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	l.attempts++
	if l.err != nil {
		return false, l.err
	}
	if _, ok := l.held[key]; ok {
		return false, nil
	}
	l.held[key] = value
	return true, nil
}

func (l *fakeLocker) ReleaseLock(ctx context.Context, key, value string) error {
	if l.held[key] == value {
		delete(l.held, key)
	}
	return nil
}

func newUseCase() (*loyaltyUseCase, *fakeRepo, *fakeLocker) {
	repo := newFakeRepo()
	locker := &fakeLocker{held: map[string]string{}}
	uc := NewLoyaltyUseCase(repo, locker, 10000, logger.NewNop()).(*loyaltyUseCase)
	uc.retryDelay = time.Millisecond
	return uc, repo, locker
}

func TestGetAccountWithoutHistory(t *testing.T) {
	uc, _, _ := newUseCase()

	s, err := uc.GetAccount(context.Background(), "m1", "c1")
	require.NoError(t, err)
	assert.Zero(t, s.Account.PointsBalance)
	assert.Equal(t, "bronze", s.Tier.Name)
	require.NotNil(t, s.NextTier)
	assert.Equal(t, "silver", s.NextTier.Name)
	assert.Equal(t, int64(1000), s.PointsToNextTier)

	_, err = uc.GetAccount(context.Background(), "m1", " ")
	assert.ErrorIs(t, err, loyalty.ErrCustomerRequired)
}

func TestAdjustPoints(t *testing.T) {
	uc, repo, locker := newUseCase()
	ctx := context.Background()

	s, err := uc.AdjustPoints(ctx, &dto.AdjustPointsInput{MerchantID: "m1", CustomerID: "c1", Points: 1200, Reason: "welcome"})
	require.NoError(t, err)
	assert.Equal(t, int64(1200), s.Account.PointsBalance)
	assert.Equal(t, int64(1200), s.Account.LifetimePoints)
	assert.Equal(t, "silver", s.Tier.Name)

	s, err = uc.AdjustPoints(ctx, &dto.AdjustPointsInput{MerchantID: "m1", CustomerID: "c1", Points: -200})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), s.Account.PointsBalance)
	assert.Equal(t, int64(1200), s.Account.LifetimePoints)

	require.Len(t, repo.ledger, 2)
	assert.Equal(t, loyalty.TxAdjust, repo.ledger[1].TxType)
	assert.Equal(t, int64(1200), repo.ledger[1].BalanceBefore)
	assert.Equal(t, int64(1000), repo.ledger[1].BalanceAfter)
	assert.Empty(t, locker.held)
}

func TestAdjustPointsRejections(t *testing.T) {
	uc, repo, _ := newUseCase()
	ctx := context.Background()

	_, err := uc.AdjustPoints(ctx, &dto.AdjustPointsInput{MerchantID: "m1", CustomerID: "c1", Points: 0})
	assert.ErrorIs(t, err, loyalty.ErrInvalidPoints)

	_, err = uc.AdjustPoints(ctx, &dto.AdjustPointsInput{MerchantID: "m1", Points: 5})
	assert.ErrorIs(t, err, loyalty.ErrCustomerRequired)

	_, err = uc.AdjustPoints(ctx, &dto.AdjustPointsInput{MerchantID: "m1", CustomerID: "c1", Points: -1})
	assert.ErrorIs(t, err, loyalty.ErrInsufficientPoints)
	assert.Empty(t, repo.ledger)
}

func TestAdjustPointsBusyLock(t *testing.T) {
	uc, repo, locker := newUseCase()
	locker.held["lock:loyalty:m1:c1"] = "someone-else"

	_, err := uc.AdjustPoints(context.Background(), &dto.AdjustPointsInput{MerchantID: "m1", CustomerID: "c1", Points: 10})
	assert.ErrorIs(t, err, loyalty.ErrSystemBusy)
	assert.Equal(t, 3, locker.attempts)
	assert.Empty(t, repo.ledger)
	assert.Equal(t, "someone-else", locker.held["lock:loyalty:m1:c1"])
}

func TestAdjustPointsLockError(t *testing.T) {
	uc, _, locker := newUseCase()
	cause := errors.New("redis down")
	locker.err = cause

	_, err := uc.AdjustPoints(context.Background(), &dto.AdjustPointsInput{MerchantID: "m1", CustomerID: "c1", Points: 10})
	assert.ErrorIs(t, err, loyalty.ErrSystemBusy)
	assert.ErrorIs(t, err, cause)
}

func TestRedeemPoints(t *testing.T) {
	uc, repo, _ := newUseCase()
	ctx := context.Background()

	_, err := uc.AdjustPoints(ctx, &dto.AdjustPointsInput{MerchantID: "m1", CustomerID: "c1", Points: 500})
	require.NoError(t, err)

	s, err := uc.RedeemPoints(ctx, &dto.RedeemPointsInput{MerchantID: "m1", CustomerID: "c1", Points: 300, OrderID: "o1"})
	require.NoError(t, err)
	assert.Equal(t, int64(200), s.Account.PointsBalance)

	last := repo.ledger[len(repo.ledger)-1]
	assert.Equal(t, loyalty.TxRedeem, last.TxType)
	assert.Equal(t, int64(-300), last.PointsChange)
	require.NotNil(t, last.ReferenceID)
	assert.Equal(t, "o1", *last.ReferenceID)

	_, err = uc.RedeemPoints(ctx, &dto.RedeemPointsInput{MerchantID: "m1", CustomerID: "c1", Points: 201})
	assert.ErrorIs(t, err, loyalty.ErrInsufficientPoints)

	_, err = uc.RedeemPoints(ctx, &dto.RedeemPointsInput{MerchantID: "m1", CustomerID: "c1", Points: -5})
	assert.ErrorIs(t, err, loyalty.ErrInvalidPoints)
}

func TestEarnFromOrderIsIdempotent(t *testing.T) {
	uc, repo, _ := newUseCase()
	ctx := context.Background()
	input := &dto.EarnInput{MerchantID: "m1", CustomerID: "c1", OrderID: "o1", OrderValue: decimal.NewFromInt(125000)}

	earned, err := uc.EarnFromOrder(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, int64(12), earned)

	earned, err = uc.EarnFromOrder(ctx, input)
	require.NoError(t, err)
	assert.Zero(t, earned)
	assert.Len(t, repo.ledger, 1)
}

func TestEarnFromOrderUsesTierMultiplier(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()

	_, err := uc.AdjustPoints(ctx, &dto.AdjustPointsInput{MerchantID: "m1", CustomerID: "c1", Points: 5000})
	require.NoError(t, err)

	earned, err := uc.EarnFromOrder(ctx, &dto.EarnInput{MerchantID: "m1", CustomerID: "c1", OrderID: "o9", OrderValue: decimal.NewFromInt(100000)})
	require.NoError(t, err)
	assert.Equal(t, int64(15), earned)

	points, tr, err := uc.QuoteEarn(ctx, "m1", "c1", decimal.NewFromInt(100000))
	require.NoError(t, err)
	assert.Equal(t, "gold", tr.Name)
	assert.Equal(t, int64(15), points)
}

func TestEarnFromOrderValidation(t *testing.T) {
	uc, _, _ := newUseCase()

	_, err := uc.EarnFromOrder(context.Background(), &dto.EarnInput{MerchantID: "m1", OrderID: "o1"})
	assert.ErrorIs(t, err, loyalty.ErrCustomerRequired)

	_, err = uc.EarnFromOrder(context.Background(), &dto.EarnInput{MerchantID: "m1", CustomerID: "c1"})
	assert.ErrorIs(t, err, loyalty.ErrOrderRequired)

	earned, err := uc.EarnFromOrder(context.Background(), &dto.EarnInput{MerchantID: "m1", CustomerID: "c1", OrderID: "small", OrderValue: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.Zero(t, earned)
}

func TestListTransactions(t *testing.T) {
	uc, _, _ := newUseCase()
	ctx := context.Background()

	_, err := uc.AdjustPoints(ctx, &dto.AdjustPointsInput{MerchantID: "m1", CustomerID: "c1", Points: 10})
	require.NoError(t, err)
	_, err = uc.AdjustPoints(ctx, &dto.AdjustPointsInput{MerchantID: "m1", CustomerID: "c2", Points: 10})
	require.NoError(t, err)

	txs, total, err := uc.ListTransactions(ctx, &dto.TransactionFilters{MerchantID: "m1", CustomerID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "c1", txs[0].CustomerID)
}
