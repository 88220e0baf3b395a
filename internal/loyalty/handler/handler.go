package handler

import (
	"context"

	pb "github.com/fekuna/omnipos-catalog-service/api/catalogv1"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/loyalty"
	"github.com/fekuna/omnipos-catalog-service/internal/loyalty/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/apperror"
	"github.com/fekuna/omnipos-catalog-service/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"go.uber.org/zap"
)

var _ pb.LoyaltyServiceServer = (*LoyaltyHandler)(nil)

type LoyaltyHandler struct {
	uc     loyalty.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewLoyaltyHandler(uc loyalty.UseCase, tr *i18n.Translator, log logger.ZapLogger) *LoyaltyHandler {
	return &LoyaltyHandler{
		uc:     uc,
		tr:     tr,
		logger: log,
	}
}

func (h *LoyaltyHandler) GetAccount(ctx context.Context, req *pb.GetAccountRequest) (*pb.AccountResponse, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "get loyalty account", err)
	}

	summary, err := h.uc.GetAccount(ctx, merchantID, req.CustomerID)
	if err != nil {
		return nil, h.fail(ctx, "get loyalty account", err)
	}
	return &pb.AccountResponse{Account: mapSummaryToProto(summary)}, nil
}

func (h *LoyaltyHandler) AdjustPoints(ctx context.Context, req *pb.AdjustPointsRequest) (*pb.AccountResponse, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "adjust points", err)
	}

	summary, err := h.uc.AdjustPoints(ctx, &dto.AdjustPointsInput{
		MerchantID:    merchantID,
		CustomerID:    req.CustomerID,
		Points:        req.Points,
		TxType:        loyalty.TxAdjust,
		Reason:        req.Reason,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		UserID:        auth.GetUserID(ctx),
	})
	if err != nil {
		return nil, h.fail(ctx, "adjust points", err)
	}
	return &pb.AccountResponse{Account: mapSummaryToProto(summary)}, nil
}

func (h *LoyaltyHandler) RedeemPoints(ctx context.Context, req *pb.RedeemPointsRequest) (*pb.AccountResponse, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "redeem points", err)
	}

	summary, err := h.uc.RedeemPoints(ctx, &dto.RedeemPointsInput{
		MerchantID: merchantID,
		CustomerID: req.CustomerID,
		Points:     req.Points,
		OrderID:    req.OrderID,
		UserID:     auth.GetUserID(ctx),
	})
	if err != nil {
		return nil, h.fail(ctx, "redeem points", err)
	}
	return &pb.AccountResponse{Account: mapSummaryToProto(summary)}, nil
}

func (h *LoyaltyHandler) ListTransactions(ctx context.Context, req *pb.ListTransactionsRequest) (*pb.ListTransactionsResponse, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "list loyalty transactions", err)
	}

	txs, count, err := h.uc.ListTransactions(ctx, &dto.TransactionFilters{
		MerchantID: merchantID,
		CustomerID: req.CustomerID,
		TxType:     req.TxType,
		Page:       int(req.Page),
		PageSize:   int(req.PageSize),
	})
	if err != nil {
		return nil, h.fail(ctx, "list loyalty transactions", err)
	}

	out := make([]*pb.LoyaltyTransaction, len(txs))
	for i := range txs {
		out[i] = mapTransactionToProto(&txs[i])
	}
	return &pb.ListTransactionsResponse{Transactions: out, Total: int32(count)}, nil
}

func (h *LoyaltyHandler) QuoteEarn(ctx context.Context, req *pb.QuoteEarnRequest) (*pb.QuoteEarnResponse, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "quote points", err)
	}

	points, t, err := h.uc.QuoteEarn(ctx, merchantID, req.CustomerID, req.OrderValue)
	if err != nil {
		return nil, h.fail(ctx, "quote points", err)
	}
	return &pb.QuoteEarnResponse{Points: points, Tier: t.Name}, nil
}

func (h *LoyaltyHandler) fail(ctx context.Context, op string, err error) error {
	if !apperror.Known(err) {
		h.logger.Error("failed to "+op, zap.Error(err))
	}
	return apperror.ToStatus(h.tr, auth.GetLocale(ctx), err)
}

func mapSummaryToProto(s *dto.AccountSummary) *pb.LoyaltyAccount {
	out := &pb.LoyaltyAccount{
		MerchantID:       s.Account.MerchantID,
		CustomerID:       s.Account.CustomerID,
		PointsBalance:    s.Account.PointsBalance,
		LifetimePoints:   s.Account.LifetimePoints,
		Tier:             s.Tier.Name,
		PointsToNextTier: s.PointsToNextTier,
		TierProgress:     s.Progress,
		EarnMultiplier:   s.Tier.Multiplier.String(),
	}
	if s.NextTier != nil {
		out.NextTier = s.NextTier.Name
	}
	return out
}

func mapTransactionToProto(m *model.LoyaltyTransaction) *pb.LoyaltyTransaction {
	out := &pb.LoyaltyTransaction{
		ID:            m.ID,
		CustomerID:    m.CustomerID,
		TxType:        m.TxType,
		PointsChange:  m.PointsChange,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
	if m.ReferenceType != nil {
		out.ReferenceType = *m.ReferenceType
	}
	if m.ReferenceID != nil {
		out.ReferenceID = *m.ReferenceID
	}
	return out
}
