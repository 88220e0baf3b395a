package handler

import (
	"context"

	pb "github.com/fekuna/omnipos-catalog-service/api/catalogv1"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/apperror"
	"github.com/fekuna/omnipos-catalog-service/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/emptypb"
)

var _ pb.ProductServiceServer = (*ProductHandler)(nil)

type ProductHandler struct {
	uc     product.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, tr *i18n.Translator, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		tr:     tr,
		logger: log,
	}
}

func (h *ProductHandler) CreateProduct(ctx context.Context, req *pb.CreateProductRequest) (*pb.ProductResponse, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "create product", err)
	}

	p, err := h.uc.CreateProduct(ctx, &dto.CreateProductInput{
		MerchantID:     merchantID,
		CategoryID:     req.CategoryID,
		SKU:            req.SKU,
		Barcode:        req.Barcode,
		Name:           req.Name,
		Description:    req.Description,
		BasePrice:      req.BasePrice,
		CostPrice:      req.CostPrice,
		TaxRate:        req.TaxRate,
		TrackInventory: req.TrackInventory,
		ImageURL:       req.ImageURL,
	})
	if err != nil {
		return nil, h.fail(ctx, "create product", err)
	}

	return &pb.ProductResponse{Product: mapProductToProto(p)}, nil
}

func (h *ProductHandler) GetProduct(ctx context.Context, req *pb.GetProductRequest) (*pb.ProductResponse, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "get product", err)
	}

	p, err := h.uc.GetProduct(ctx, merchantID, req.ID)
	if err != nil {
		return nil, h.fail(ctx, "get product", err)
	}
	return &pb.ProductResponse{Product: mapProductToProto(p)}, nil
}

func (h *ProductHandler) ListProducts(ctx context.Context, req *pb.ListProductsRequest) (*pb.ListProductsResponse, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "list products", err)
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	filters := &dto.ProductFilters{
		MerchantID:           merchantID,
		CategoryID:           req.CategoryID,
		IncludeSubcategories: req.IncludeSubcategories,
		SortBy:               req.SortBy,
		SortOrder:            req.SortOrder,
		Page:                 int(page),
		PageSize:             int(pageSize),
	}
	if req.IsActive {
		active := true
		filters.IsActive = &active
	}

	products, count, err := h.uc.ListProducts(ctx, filters)
	if err != nil {
		return nil, h.fail(ctx, "list products", err)
	}

	return &pb.ListProductsResponse{
		Products: mapProductsToProto(products),
		Total:    int32(count),
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (h *ProductHandler) SearchProducts(ctx context.Context, req *pb.SearchProductsRequest) (*pb.ListProductsResponse, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "search products", err)
	}

	products, count, err := h.uc.SearchProducts(ctx, merchantID, req.Query, int(req.Limit))
	if err != nil {
		return nil, h.fail(ctx, "search products", err)
	}

	return &pb.ListProductsResponse{
		Products: mapProductsToProto(products),
		Total:    int32(count),
		Page:     1,
		PageSize: int32(len(products)),
	}, nil
}

func (h *ProductHandler) UpdateProduct(ctx context.Context, req *pb.UpdateProductRequest) (*pb.ProductResponse, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "update product", err)
	}

	p, err := h.uc.UpdateProduct(ctx, &dto.UpdateProductInput{
		ID:             req.ID,
		MerchantID:     merchantID,
		CategoryID:     req.CategoryID,
		SKU:            req.SKU,
		Barcode:        req.Barcode,
		Name:           req.Name,
		Description:    req.Description,
		BasePrice:      req.BasePrice,
		CostPrice:      req.CostPrice,
		TaxRate:        req.TaxRate,
		TrackInventory: req.TrackInventory,
		ImageURL:       req.ImageURL,
		IsActive:       req.IsActive,
	})
	if err != nil {
		return nil, h.fail(ctx, "update product", err)
	}

	return &pb.ProductResponse{Product: mapProductToProto(p)}, nil
}

func (h *ProductHandler) DeleteProduct(ctx context.Context, req *pb.DeleteProductRequest) (*emptypb.Empty, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "delete product", err)
	}

	if err := h.uc.DeleteProduct(ctx, merchantID, req.ID); err != nil {
		return nil, h.fail(ctx, "delete product", err)
	}
	return &emptypb.Empty{}, nil
}

func (h *ProductHandler) fail(ctx context.Context, op string, err error) error {
	if !apperror.Known(err) {
		h.logger.Error("failed to "+op, zap.Error(err))
	}
	return apperror.ToStatus(h.tr, auth.GetLocale(ctx), err)
}

func mapProductsToProto(products []model.Product) []*pb.Product {
	out := make([]*pb.Product, len(products))
	for i := range products {
		out[i] = mapProductToProto(&products[i])
	}
	return out
}

func mapProductToProto(p *model.Product) *pb.Product {
	if p == nil {
		return nil
	}

	cost := decimal.Zero
	if p.CostPrice != nil {
		cost = *p.CostPrice
	}

	return &pb.Product{
		ID:             p.ID,
		MerchantID:     p.MerchantID,
		CategoryID:     deref(p.CategoryID),
		SKU:            p.SKU,
		Barcode:        deref(p.Barcode),
		Name:           p.Name,
		Description:    deref(p.Description),
		BasePrice:      p.BasePrice,
		CostPrice:      cost,
		TaxRate:        p.TaxRate,
		TrackInventory: p.TrackInventory,
		ImageURL:       deref(p.ImageURL),
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
