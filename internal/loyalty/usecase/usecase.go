package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/loyalty"
	"github.com/fekuna/omnipos-catalog-service/internal/loyalty/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/loyalty/tier"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	lockAttempts = 3
	lockTTL      = 5 * time.Second
)

type loyaltyUseCase struct {
	repo          loyalty.Repository
	locker        loyalty.Locker
	spendPerPoint int64
	logger        logger.ZapLogger
	now           func() time.Time
	retryDelay    time.Duration
}

func NewLoyaltyUseCase(repo loyalty.Repository, locker loyalty.Locker, spendPerPoint int64, log logger.ZapLogger) loyalty.UseCase {
	return &loyaltyUseCase{
		repo:          repo,
		locker:        locker,
		spendPerPoint: spendPerPoint,
		logger:        log,
		now:           time.Now,
		retryDelay:    100 * time.Millisecond,
	}
}

func (uc *loyaltyUseCase) GetAccount(ctx context.Context, merchantID, customerID string) (*dto.AccountSummary, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, loyalty.ErrCustomerRequired
	}

	acc, err := uc.repo.GetAccount(ctx, merchantID, customerID)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		acc = &model.LoyaltyAccount{MerchantID: merchantID, CustomerID: customerID}
	}
	return summarize(acc), nil
}

func (uc *loyaltyUseCase) AdjustPoints(ctx context.Context, input *dto.AdjustPointsInput) (*dto.AccountSummary, error) {
	if strings.TrimSpace(input.CustomerID) == "" {
		return nil, loyalty.ErrCustomerRequired
	}
	if input.Points == 0 {
		return nil, loyalty.ErrInvalidPoints
	}
	if input.TxType == "" {
		input.TxType = loyalty.TxAdjust
	}

	var summary *dto.AccountSummary
	err := uc.withLock(ctx, input.MerchantID, input.CustomerID, func() error {
		acc, err := uc.apply(ctx, input)
		if err != nil {
			return err
		}
		summary = summarize(acc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (uc *loyaltyUseCase) RedeemPoints(ctx context.Context, input *dto.RedeemPointsInput) (*dto.AccountSummary, error) {
	if input.Points <= 0 {
		return nil, loyalty.ErrInvalidPoints
	}

	adjust := &dto.AdjustPointsInput{
		MerchantID: input.MerchantID,
		CustomerID: input.CustomerID,
		Points:     -input.Points,
		TxType:     loyalty.TxRedeem,
		Reason:     "redeem",
		UserID:     input.UserID,
	}
	if input.OrderID != "" {
		adjust.ReferenceType = loyalty.RefOrder
		adjust.ReferenceID = input.OrderID
	}
	return uc.AdjustPoints(ctx, adjust)
}

func (uc *loyaltyUseCase) EarnFromOrder(ctx context.Context, input *dto.EarnInput) (int64, error) {
	if strings.TrimSpace(input.CustomerID) == "" {
		return 0, loyalty.ErrCustomerRequired
	}
	if strings.TrimSpace(input.OrderID) == "" {
		return 0, loyalty.ErrOrderRequired
	}

	var earned int64
	err := uc.withLock(ctx, input.MerchantID, input.CustomerID, func() error {
		seen, err := uc.repo.HasReference(ctx, input.MerchantID, loyalty.RefOrder, input.OrderID)
		if err != nil {
			return err
		}
		if seen {
			uc.logger.Info("order already credited", zap.String("order_id", input.OrderID))
			return nil
		}

		acc, err := uc.repo.GetAccount(ctx, input.MerchantID, input.CustomerID)
		if err != nil {
			return err
		}
		var lifetime int64
		if acc != nil {
			lifetime = acc.LifetimePoints
		}

		points := tier.EarnedPoints(input.OrderValue, uc.spendPerPoint, tier.ForPoints(lifetime))
		if points == 0 {
			return nil
		}

		_, err = uc.apply(ctx, &dto.AdjustPointsInput{
			MerchantID:    input.MerchantID,
			CustomerID:    input.CustomerID,
			Points:        points,
			TxType:        loyalty.TxEarn,
			Reason:        "order completed",
			ReferenceType: loyalty.RefOrder,
			ReferenceID:   input.OrderID,
		})
		if errors.Is(err, loyalty.ErrDuplicateReference) {
			return nil
		}
		if err != nil {
			return err
		}
		earned = points
		return nil
	})
	return earned, err
}

func (uc *loyaltyUseCase) QuoteEarn(ctx context.Context, merchantID, customerID string, orderValue decimal.Decimal) (int64, tier.Tier, error) {
	summary, err := uc.GetAccount(ctx, merchantID, customerID)
	if err != nil {
		return 0, tier.Tier{}, err
	}
	return tier.EarnedPoints(orderValue, uc.spendPerPoint, summary.Tier), summary.Tier, nil
}

func (uc *loyaltyUseCase) ListTransactions(ctx context.Context, filters *dto.TransactionFilters) ([]model.LoyaltyTransaction, int, error) {
	return uc.repo.ListTransactions(ctx, filters)
}

// apply must run under the customer lock.
func (uc *loyaltyUseCase) apply(ctx context.Context, input *dto.AdjustPointsInput) (*model.LoyaltyAccount, error) {
	acc, err := uc.repo.GetAccount(ctx, input.MerchantID, input.CustomerID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	if acc == nil {
		acc = &model.LoyaltyAccount{
			ID:         uuid.New().String(),
			MerchantID: input.MerchantID,
			CustomerID: input.CustomerID,
			CreatedAt:  now,
		}
	}

	before := acc.PointsBalance
	after := before + input.Points
	if after < 0 {
		return nil, loyalty.ErrInsufficientPoints.WithData(map[string]interface{}{
			"Balance":   before,
			"Requested": -input.Points,
		})
	}

	acc.PointsBalance = after
	if input.Points > 0 {
		acc.LifetimePoints += input.Points
	}
	acc.UpdatedAt = now

	var refType, refID, createdBy *string
	if input.ReferenceType != "" {
		refType = &input.ReferenceType
	}
	if input.ReferenceID != "" {
		refID = &input.ReferenceID
	}
	if input.UserID != "" {
		createdBy = &input.UserID
	}

	entry := &model.LoyaltyTransaction{
		ID:            uuid.New().String(),
		AccountID:     acc.ID,
		MerchantID:    acc.MerchantID,
		CustomerID:    acc.CustomerID,
		TxType:        input.TxType,
		PointsChange:  input.Points,
		BalanceBefore: before,
		BalanceAfter:  after,
		ReferenceType: refType,
		ReferenceID:   refID,
		Notes:         input.Reason,
		CreatedBy:     createdBy,
		CreatedAt:     now,
	}

	if err := uc.repo.SaveWithTransaction(ctx, acc, entry); err != nil {
		return nil, err
	}
	return acc, nil
}

func (uc *loyaltyUseCase) withLock(ctx context.Context, merchantID, customerID string, fn func() error) error {
	key := fmt.Sprintf("lock:loyalty:%s:%s", merchantID, customerID)
	token := uuid.New().String()

	acquired := false
	var lastErr error
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, key, token, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire loyalty lock", zap.String("key", key), zap.Error(err))
			lastErr = err
		}
		if ok {
			acquired = true
			break
		}
		if i == lockAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(uc.retryDelay):
		}
	}
	if !acquired {
		return loyalty.ErrSystemBusy.Wrap(lastErr)
	}

	defer func() {
		if err := uc.locker.ReleaseLock(context.WithoutCancel(ctx), key, token); err != nil {
			uc.logger.Warn("failed to release loyalty lock", zap.String("key", key), zap.Error(err))
		}
	}()
	return fn()
}

func summarize(acc *model.LoyaltyAccount) *dto.AccountSummary {
	s := &dto.AccountSummary{
		Account:          acc,
		Tier:             tier.ForPoints(acc.LifetimePoints),
		PointsToNextTier: tier.PointsToNextTier(acc.LifetimePoints),
		Progress:         tier.Progress(acc.LifetimePoints),
	}
	if next, ok := tier.Next(acc.LifetimePoints); ok {
		s.NextTier = &next
	}
	return s
}
