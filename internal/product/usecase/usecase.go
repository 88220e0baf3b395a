package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	indexName = "products"

	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"merchant_id": { "type": "keyword" },
			"category_id": { "type": "keyword" },
			"name": { "type": "text" },
			"description": { "type": "text" },
			"sku": { "type": "keyword" },
			"barcode": { "type": "keyword" },
			"base_price": { "type": "double" },
			"is_active": { "type": "boolean" },
			"created_at": { "type": "date" }
		}
	}
}`

type productUseCase struct {
	repo       product.Repository
	categories product.CategoryResolver
	cache      product.Cache
	es         product.SearchIndex
	cacheTTL   time.Duration
	logger     logger.ZapLogger
	now        func() time.Time
}

// NewProductUseCase wires the product usecase. cache and es may be nil.
func NewProductUseCase(repo product.Repository, categories product.CategoryResolver, cache product.Cache, es product.SearchIndex, cacheTTL time.Duration, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:       repo,
		categories: categories,
		cache:      cache,
		es:         es,
		cacheTTL:   cacheTTL,
		logger:     log,
		now:        time.Now,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := validate(input.Name, input.SKU, input.BasePrice, input.CostPrice, input.TaxRate); err != nil {
		return nil, err
	}
	if err := uc.checkCategory(ctx, input.MerchantID, input.CategoryID); err != nil {
		return nil, err
	}
	if err := uc.checkUnique(ctx, input.MerchantID, input.SKU, input.Barcode, ""); err != nil {
		return nil, err
	}

	now := uc.now()
	costPrice := input.CostPrice
	p := &model.Product{
		BaseModel:      model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		MerchantID:     input.MerchantID,
		CategoryID:     optional(input.CategoryID),
		SKU:            strings.TrimSpace(input.SKU),
		Barcode:        optional(input.Barcode),
		Name:           strings.TrimSpace(input.Name),
		Description:    optional(input.Description),
		BasePrice:      input.BasePrice,
		CostPrice:      &costPrice,
		TaxRate:        input.TaxRate,
		TrackInventory: input.TrackInventory,
		ImageURL:       optional(input.ImageURL),
		IsActive:       true,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	uc.invalidateProductCache(ctx, p.MerchantID)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, merchantID, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.MerchantID != merchantID {
		return nil, product.ErrProductNotFound
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if filters.CategoryID != "" && filters.IncludeSubcategories {
		ids, err := uc.categories.SubtreeIDs(ctx, filters.MerchantID, filters.CategoryID)
		if err != nil {
			return nil, 0, err
		}
		filters.CategoryIDs = ids
	}

	cacheKey := uc.cacheKey(filters)
	if uc.cache != nil && cacheKey != "" {
		var cached listResult
		found, err := uc.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			uc.logger.Warn("product cache read failed", zap.Error(err))
		}
		if found {
			return cached.Products, cached.Count, nil
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		products, count, err := uc.searchElastic(ctx, filters)
		if err == nil {
			return products, count, nil
		}
		uc.logger.Error("elasticsearch query failed, falling back to database", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if uc.cache != nil && cacheKey != "" {
		if err := uc.cache.SetJSON(ctx, cacheKey, listResult{Products: products, Count: count}, uc.cacheTTL); err != nil {
			uc.logger.Warn("product cache write failed", zap.Error(err))
		}
	}
	return products, count, nil
}

func (uc *productUseCase) SearchProducts(ctx context.Context, merchantID, query string, limit int) ([]model.Product, int, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, 0, product.ErrInvalidProduct
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	active := true
	return uc.ListProducts(ctx, &dto.ProductFilters{
		MerchantID:  merchantID,
		IsActive:    &active,
		SearchQuery: query,
		Page:        1,
		PageSize:    limit,
	})
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	if err := validate(input.Name, input.SKU, input.BasePrice, input.CostPrice, input.TaxRate); err != nil {
		return nil, err
	}

	p, err := uc.GetProduct(ctx, input.MerchantID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != input.CategoryID) {
		if err := uc.checkCategory(ctx, input.MerchantID, input.CategoryID); err != nil {
			return nil, err
		}
	}

	sku := strings.TrimSpace(input.SKU)
	barcode := ""
	if input.Barcode != "" && (p.Barcode == nil || *p.Barcode != input.Barcode) {
		barcode = input.Barcode
	}
	if sku == p.SKU {
		sku = ""
	}
	if err := uc.checkUnique(ctx, input.MerchantID, sku, barcode, p.ID); err != nil {
		return nil, err
	}

	cost := input.CostPrice
	p.SKU = strings.TrimSpace(input.SKU)
	p.Name = strings.TrimSpace(input.Name)
	p.Description = optional(input.Description)
	p.BasePrice = input.BasePrice
	p.CostPrice = &cost
	p.TaxRate = input.TaxRate
	p.TrackInventory = input.TrackInventory
	p.ImageURL = optional(input.ImageURL)
	p.IsActive = input.IsActive
	p.CategoryID = optional(input.CategoryID)
	p.Barcode = optional(input.Barcode)
	p.UpdatedAt = uc.now()

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	uc.invalidateProductCache(ctx, p.MerchantID)
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, merchantID, id string) error {
	if _, err := uc.GetProduct(ctx, merchantID, id); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, merchantID, id); err != nil {
		return err
	}

	uc.invalidateProductCache(ctx, merchantID)
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), indexName, id); err != nil {
				uc.logger.Error("failed to delete product from elasticsearch", zap.String("product_id", id), zap.Error(err))
			}
		}()
	}
	return nil
}

type listResult struct {
	Products []model.Product `json:"products"`
	Count    int             `json:"count"`
}

func (uc *productUseCase) searchElastic(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	must := []map[string]interface{}{
		{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
				"fields": []string{"name^3", "sku", "barcode", "description"},
			},
		},
		{"term": map[string]interface{}{"merchant_id": filters.MerchantID}},
	}
	if filters.IsActive != nil {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"is_active": *filters.IsActive}})
	}
	if len(filters.CategoryIDs) > 0 {
		must = append(must, map[string]interface{}{"terms": map[string]interface{}{"category_id": filters.CategoryIDs}})
	} else if filters.CategoryID != "" {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"category_id": filters.CategoryID}})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
	}
	if filters.PageSize > 0 {
		page := filters.Page
		if page < 1 {
			page = 1
		}
		q["from"] = (page - 1) * filters.PageSize
		q["size"] = filters.PageSize
	}

	res, err := uc.es.Search(ctx, indexName, q)
	if err != nil {
		return nil, 0, err
	}

	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err != nil {
			uc.logger.Warn("skipping undecodable search hit", zap.Error(err))
			continue
		}
		products = append(products, p)
	}
	return products, res.Hits.Total.Value, nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	if err := uc.es.CreateIndex(ctx, indexName, indexMapping); err != nil {
		uc.logger.Debug("create products index", zap.Error(err))
	}
	if err := uc.es.Index(ctx, indexName, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) cacheKey(filters *dto.ProductFilters) string {
	data, err := json.Marshal(filters)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("products:list:%s:%x", filters.MerchantID, md5.Sum(data))
}

// invalidateProductCache drops every cached list page of the merchant.
func (uc *productUseCase) invalidateProductCache(ctx context.Context, merchantID string) {
	if uc.cache == nil {
		return
	}
	pattern := fmt.Sprintf("products:list:%s:*", merchantID)
	if err := uc.cache.DeleteByPattern(ctx, pattern); err != nil {
		uc.logger.Warn("product cache invalidation failed", zap.String("merchant_id", merchantID), zap.Error(err))
	}
}

func (uc *productUseCase) checkCategory(ctx context.Context, merchantID, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	_, err := uc.categories.GetCategory(ctx, merchantID, categoryID)
	return err
}

// checkUnique skips empty sku or barcode.
func (uc *productUseCase) checkUnique(ctx context.Context, merchantID, sku, barcode, excludeID string) error {
	if sku != "" {
		unique, err := uc.repo.IsSKUUnique(ctx, merchantID, strings.TrimSpace(sku), excludeID)
		if err != nil {
			return err
		}
		if !unique {
			return product.ErrSKUExists.WithData(map[string]interface{}{"SKU": sku})
		}
	}
	if barcode != "" {
		unique, err := uc.repo.IsBarcodeUnique(ctx, merchantID, barcode, excludeID)
		if err != nil {
			return err
		}
		if !unique {
			return product.ErrBarcodeExists.WithData(map[string]interface{}{"Barcode": barcode})
		}
	}
	return nil
}

func validate(name, sku string, prices ...decimal.Decimal) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(sku) == "" {
		return product.ErrInvalidProduct
	}
	for _, p := range prices {
		if p.IsNegative() {
			return product.ErrInvalidPrice
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
