package handler

import (
	"context"
	"time"

	pb "github.com/fekuna/omnipos-catalog-service/api/catalogv1"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/promotion"
	"github.com/fekuna/omnipos-catalog-service/internal/promotion/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/promotion/evaluator"
	"github.com/fekuna/omnipos-catalog-service/pkg/apperror"
	"github.com/fekuna/omnipos-catalog-service/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/emptypb"
)

var _ pb.PromotionServiceServer = (*PromotionHandler)(nil)

type PromotionHandler struct {
	uc     promotion.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
	now    func() time.Time
}

func NewPromotionHandler(uc promotion.UseCase, tr *i18n.Translator, log logger.ZapLogger) *PromotionHandler {
	return &PromotionHandler{
		uc:     uc,
		tr:     tr,
		logger: log,
		now:    time.Now,
	}
}

func (h *PromotionHandler) CreatePromotion(ctx context.Context, req *pb.CreatePromotionRequest) (*pb.PromotionResponse, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "create promotion", err)
	}

	p, err := h.uc.CreatePromotion(ctx, &dto.CreatePromotionInput{
		MerchantID:    merchantID,
		Code:          req.Code,
		Name:          req.Name,
		Description:   req.Description,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MinOrderValue: req.MinOrderValue,
		MaxDiscount:   req.MaxDiscount,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		UsageLimit:    toInt(req.UsageLimit),
	})
	if err != nil {
		return nil, h.fail(ctx, "create promotion", err)
	}
	return &pb.PromotionResponse{Promotion: h.mapModelToProto(p)}, nil
}

func (h *PromotionHandler) GetPromotion(ctx context.Context, req *pb.GetPromotionRequest) (*pb.PromotionResponse, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "get promotion", err)
	}

	var p *model.Promotion
	if req.ID != "" {
		p, err = h.uc.GetPromotion(ctx, merchantID, req.ID)
	} else {
		p, err = h.uc.GetPromotionByCode(ctx, merchantID, req.Code)
	}
	if err != nil {
		return nil, h.fail(ctx, "get promotion", err)
	}
	return &pb.PromotionResponse{Promotion: h.mapModelToProto(p)}, nil
}

func (h *PromotionHandler) ListPromotions(ctx context.Context, req *pb.ListPromotionsRequest) (*pb.ListPromotionsResponse, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "list promotions", err)
	}

	promotions, count, err := h.uc.ListPromotions(ctx, &dto.PromotionFilters{
		MerchantID: merchantID,
		ActiveOnly: req.ActiveOnly,
		Page:       int(req.Page),
		PageSize:   int(req.PageSize),
	})
	if err != nil {
		return nil, h.fail(ctx, "list promotions", err)
	}

	out := make([]*pb.Promotion, len(promotions))
	for i := range promotions {
		out[i] = h.mapModelToProto(&promotions[i])
	}
	return &pb.ListPromotionsResponse{Promotions: out, Total: int32(count)}, nil
}

func (h *PromotionHandler) UpdatePromotion(ctx context.Context, req *pb.UpdatePromotionRequest) (*pb.PromotionResponse, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "update promotion", err)
	}

	p, err := h.uc.UpdatePromotion(ctx, &dto.UpdatePromotionInput{
		ID:            req.ID,
		MerchantID:    merchantID,
		Name:          req.Name,
		Description:   req.Description,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MinOrderValue: req.MinOrderValue,
		MaxDiscount:   req.MaxDiscount,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		UsageLimit:    toInt(req.UsageLimit),
		IsActive:      req.IsActive,
	})
	if err != nil {
		return nil, h.fail(ctx, "update promotion", err)
	}
	return &pb.PromotionResponse{Promotion: h.mapModelToProto(p)}, nil
}

func (h *PromotionHandler) DeletePromotion(ctx context.Context, req *pb.DeletePromotionRequest) (*emptypb.Empty, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "delete promotion", err)
	}

	if err := h.uc.DeletePromotion(ctx, merchantID, req.ID); err != nil {
		return nil, h.fail(ctx, "delete promotion", err)
	}
	return &emptypb.Empty{}, nil
}

func (h *PromotionHandler) ApplyPromotion(ctx context.Context, req *pb.ApplyPromotionRequest) (*pb.ApplyPromotionResponse, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "apply promotion", err)
	}

	res, err := h.uc.ApplyPromotion(ctx, merchantID, req.Code, req.OrderValue)
	if err != nil {
		return nil, h.fail(ctx, "apply promotion", err)
	}

	return &pb.ApplyPromotionResponse{
		Promotion:     h.mapModelToProto(res.Promotion),
		OrderValue:    res.OrderValue,
		Discount:      res.Discount,
		FinalTotal:    res.FinalTotal,
		RemainingDays: int32(res.RemainingDays),
	}, nil
}

func (h *PromotionHandler) RedeemPromotion(ctx context.Context, req *pb.RedeemPromotionRequest) (*pb.RedeemPromotionResponse, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "redeem promotion", err)
	}

	res, err := h.uc.RedeemPromotion(ctx, &dto.RedeemPromotionInput{
		MerchantID: merchantID,
		Code:       req.Code,
		OrderID:    req.OrderID,
		OrderValue: req.OrderValue,
	})
	if err != nil {
		return nil, h.fail(ctx, "redeem promotion", err)
	}

	h.logger.Info("promotion redeemed",
		zap.String("merchant_id", merchantID),
		zap.String("order_id", req.OrderID),
		zap.Int("usage_count", res.UsageCount),
	)

	return &pb.RedeemPromotionResponse{
		RedemptionID: res.Redemption.ID,
		Discount:     res.Redemption.Discount,
		FinalTotal:   res.FinalTotal,
		UsageCount:   int32(res.UsageCount),
	}, nil
}

func (h *PromotionHandler) fail(ctx context.Context, op string, err error) error {
	if !apperror.Known(err) {
		h.logger.Error("failed to "+op, zap.Error(err))
	}
	return apperror.ToStatus(h.tr, auth.GetLocale(ctx), err)
}

func (h *PromotionHandler) mapModelToProto(m *model.Promotion) *pb.Promotion {
	if m == nil {
		return nil
	}

	now := h.now()
	out := &pb.Promotion{
		ID:              m.ID,
		MerchantID:      m.MerchantID,
		Code:            m.Code,
		Name:            m.Name,
		DiscountType:    string(m.DiscountType),
		DiscountValue:   m.DiscountValue,
		MinOrderValue:   m.MinOrderValue,
		MaxDiscount:     m.MaxDiscount,
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		IsActive:        m.IsActive,
		UsageCount:      int32(m.UsageCount),
		CurrentlyActive: evaluator.IsActive(m, now),
		RemainingDays:   int32(evaluator.RemainingDays(m, now)),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.Description != nil {
		out.Description = *m.Description
	}
	if m.UsageLimit != nil {
		limit := int32(*m.UsageLimit)
		out.UsageLimit = &limit
	}
	return out
}

func toInt(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
