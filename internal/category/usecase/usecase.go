package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/category/tree"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/fekuna/omnipos-catalog-service/internal/category")

type categoryUseCase struct {
	repo   category.Repository
	logger logger.ZapLogger
	now    func() time.Time
}

func NewCategoryUseCase(repo category.Repository, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, category.ErrNameRequired
	}

	parentID := normalizeParent(input.ParentID)
	if parentID != nil {
		if err := uc.checkParent(ctx, input.MerchantID, *parentID); err != nil {
			return nil, err
		}
	}

	now := uc.now()
	cat := &model.Category{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MerchantID:  input.MerchantID,
		ParentID:    parentID,
		Name:        name,
		Description: optional(input.Description),
		ImageURL:    optional(input.ImageURL),
		SortOrder:   input.SortOrder,
		IsActive:    true,
	}

	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, merchantID, id string) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Rows of another merchant are reported as missing.
	if cat == nil || cat.MerchantID != merchantID {
		return nil, category.ErrCategoryNotFound
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	if !filters.IncludeChildren {
		return uc.repo.FindAll(ctx, filters)
	}

	forest, err := uc.buildTree(ctx, filters.MerchantID, filters.IsActive)
	if err != nil {
		return nil, 0, err
	}

	if filters.ParentID != nil && *filters.ParentID != "" {
		parent, ok := tree.Find(forest, *filters.ParentID)
		if !ok {
			return nil, 0, category.ErrCategoryNotFound
		}
		forest = parent.Children
	}
	return forest, len(forest), nil
}

func (uc *categoryUseCase) GetCategoryTree(ctx context.Context, merchantID string, activeOnly bool) ([]model.Category, error) {
	var isActive *bool
	if activeOnly {
		isActive = &activeOnly
	}
	return uc.buildTree(ctx, merchantID, isActive)
}

func (uc *categoryUseCase) buildTree(ctx context.Context, merchantID string, isActive *bool) ([]model.Category, error) {
	ctx, span := tracer.Start(ctx, "category.GetCategoryTree")
	defer span.End()

	categories, err := uc.repo.FindAllByMerchant(ctx, merchantID, isActive)
	if err != nil {
		return nil, err
	}

	forest := tree.Build(categories)
	span.SetAttributes(
		attribute.Int("category.count", len(categories)),
		attribute.Int("category.roots", len(forest)),
	)
	return forest, nil
}

func (uc *categoryUseCase) SubtreeIDs(ctx context.Context, merchantID, id string) ([]string, error) {
	categories, err := uc.repo.FindAllByMerchant(ctx, merchantID, nil)
	if err != nil {
		return nil, err
	}
	return tree.DescendantIDs(categories, id), nil
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, category.ErrNameRequired
	}

	cat, err := uc.GetCategory(ctx, input.MerchantID, input.ID)
	if err != nil {
		return nil, err
	}

	parentID := normalizeParent(input.ParentID)
	if parentID != nil && !samePtr(cat.ParentID, parentID) {
		if err := uc.checkParent(ctx, input.MerchantID, *parentID); err != nil {
			return nil, err
		}

		all, err := uc.repo.FindAllByMerchant(ctx, input.MerchantID, nil)
		if err != nil {
			return nil, err
		}
		if tree.WouldCycle(all, cat.ID, *parentID) {
			uc.logger.Info("rejected category move that would create a cycle",
				zap.String("category_id", cat.ID),
				zap.String("parent_id", *parentID),
			)
			return nil, category.ErrCategoryCycle
		}
	}

	cat.Name = name
	cat.Description = optional(input.Description)
	cat.ImageURL = optional(input.ImageURL)
	cat.SortOrder = input.SortOrder
	cat.IsActive = input.IsActive
	cat.ParentID = parentID
	cat.UpdatedAt = uc.now()

	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, merchantID, id string) error {
	if _, err := uc.GetCategory(ctx, merchantID, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, merchantID, id)
}

func (uc *categoryUseCase) checkParent(ctx context.Context, merchantID, parentID string) error {
	parent, err := uc.repo.FindByID(ctx, parentID)
	if err != nil {
		return err
	}
	if parent == nil || parent.MerchantID != merchantID {
		return category.ErrParentNotFound.WithData(map[string]interface{}{"ParentID": parentID})
	}
	return nil
}

func normalizeParent(parentID *string) *string {
	if parentID == nil || *parentID == "" {
		return nil
	}
	p := *parentID
	return &p
}

func samePtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
