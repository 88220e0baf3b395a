package handler

import (
	"context"

	pb "github.com/fekuna/omnipos-catalog-service/api/catalogv1"
	"github.com/fekuna/omnipos-catalog-service/internal/auth"
	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/category/tree"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/apperror"
	"github.com/fekuna/omnipos-catalog-service/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/emptypb"
)

var _ pb.CategoryServiceServer = (*CategoryHandler)(nil)

type CategoryHandler struct {
	uc     category.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, tr *i18n.Translator, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		tr:     tr,
		logger: log,
	}
}

func (h *CategoryHandler) CreateCategory(ctx context.Context, req *pb.CreateCategoryRequest) (*pb.CategoryResponse, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "create category", err)
	}

	input := &dto.CreateCategoryInput{
		MerchantID:  merchantID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		SortOrder:   int(req.SortOrder),
	}
	if req.ParentID != "" {
		input.ParentID = &req.ParentID
	}

	cat, err := h.uc.CreateCategory(ctx, input)
	if err != nil {
		return nil, h.fail(ctx, "create category", err)
	}
	return &pb.CategoryResponse{Category: mapModelToProto(cat)}, nil
}

func (h *CategoryHandler) GetCategory(ctx context.Context, req *pb.GetCategoryRequest) (*pb.CategoryResponse, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "get category", err)
	}

	cat, err := h.uc.GetCategory(ctx, merchantID, req.ID)
	if err != nil {
		return nil, h.fail(ctx, "get category", err)
	}
	return &pb.CategoryResponse{Category: mapModelToProto(cat)}, nil
}

func (h *CategoryHandler) ListCategories(ctx context.Context, req *pb.ListCategoriesRequest) (*pb.ListCategoriesResponse, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "list categories", err)
	}

	filters := &dto.CategoryFilters{
		MerchantID:      merchantID,
		IncludeChildren: req.IncludeChildren,
		Page:            int(req.Page),
		PageSize:        int(req.PageSize),
	}
	if req.ParentID != "" {
		filters.ParentID = &req.ParentID
	}
	// A plain bool can't say "any": false lists everything, true lists active only.
	if req.IsActive {
		active := true
		filters.IsActive = &active
	}

	cats, count, err := h.uc.ListCategories(ctx, filters)
	if err != nil {
		return nil, h.fail(ctx, "list categories", err)
	}

	return &pb.ListCategoriesResponse{
		Categories: mapModelsToProto(cats),
		Total:      int32(count),
	}, nil
}

func (h *CategoryHandler) GetCategoryTree(ctx context.Context, req *pb.GetCategoryTreeRequest) (*pb.GetCategoryTreeResponse, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "get category tree", err)
	}

	forest, err := h.uc.GetCategoryTree(ctx, merchantID, req.ActiveOnly)
	if err != nil {
		return nil, h.fail(ctx, "get category tree", err)
	}

	return &pb.GetCategoryTreeResponse{
		Categories: mapModelsToProto(forest),
		NodeCount:  int32(tree.Count(forest)),
	}, nil
}

func (h *CategoryHandler) UpdateCategory(ctx context.Context, req *pb.UpdateCategoryRequest) (*pb.CategoryResponse, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "update category", err)
	}

	input := &dto.UpdateCategoryInput{
		ID:          req.ID,
		MerchantID:  merchantID,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		SortOrder:   int(req.SortOrder),
		IsActive:    req.IsActive,
	}
	if req.ParentID != "" {
		input.ParentID = &req.ParentID
	}

	cat, err := h.uc.UpdateCategory(ctx, input)
	if err != nil {
		return nil, h.fail(ctx, "update category", err)
	}
	return &pb.CategoryResponse{Category: mapModelToProto(cat)}, nil
}

func (h *CategoryHandler) DeleteCategory(ctx context.Context, req *pb.DeleteCategoryRequest) (*emptypb.Empty, error) {
	merchantID, err := auth.RequireMerchantID(ctx)
	if err != nil {
		return nil, h.fail(ctx, "delete category", err)
	}

	if err := h.uc.DeleteCategory(ctx, merchantID, req.ID); err != nil {
		return nil, h.fail(ctx, "delete category", err)
	}
	return &emptypb.Empty{}, nil
}

func (h *CategoryHandler) fail(ctx context.Context, op string, err error) error {
	if !apperror.Known(err) {
		h.logger.Error("failed to "+op, zap.Error(err))
	}
	return apperror.ToStatus(h.tr, auth.GetLocale(ctx), err)
}

func mapModelsToProto(cats []model.Category) []*pb.Category {
	out := make([]*pb.Category, len(cats))
	for i := range cats {
		out[i] = mapModelToProto(&cats[i])
	}
	return out
}

func mapModelToProto(m *model.Category) *pb.Category {
	if m == nil {
		return nil
	}

	var children []*pb.Category
	if len(m.Children) > 0 {
		children = mapModelsToProto(m.Children)
	}

	return &pb.Category{
		ID:          m.ID,
		MerchantID:  m.MerchantID,
		ParentID:    deref(m.ParentID),
		Name:        m.Name,
		Description: deref(m.Description),
		ImageURL:    deref(m.ImageURL),
		SortOrder:   int32(m.SortOrder),
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Children:    children,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
