package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/fekuna/omnipos-catalog-service/pkg/search"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	rows      []model.Product
	lastQuery *dto.ProductFilters
	findAll   int
}

func (f *fakeRepo) Create(ctx context.Context, p *model.Product) error {
	f.rows = append(f.rows, *p)
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			p := f.rows[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	f.findAll++
	cp := *filters
	f.lastQuery = &cp

	in := map[string]bool{}
	for _, id := range filters.CategoryIDs {
		in[id] = true
	}

	out := []model.Product{}
	for _, p := range f.rows {
		if p.MerchantID != filters.MerchantID {
			continue
		}
		if len(in) > 0 && (p.CategoryID == nil || !in[*p.CategoryID]) {
			continue
		}
		if len(in) == 0 && filters.CategoryID != "" && (p.CategoryID == nil || *p.CategoryID != filters.CategoryID) {
			continue
		}
		if filters.SearchQuery != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filters.SearchQuery)) {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (f *fakeRepo) Update(ctx context.Context, p *model.Product) error {
	for i := range f.rows {
		if f.rows[i].ID == p.ID {
			f.rows[i] = *p
		}
	}
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, merchantID, id string) error {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeRepo) IsSKUUnique(ctx context.Context, merchantID, sku, excludeID string) (bool, error) {
	for _, p := range f.rows {
		if p.MerchantID == merchantID && p.SKU == sku && p.ID != excludeID {
			return false, nil
		}
	}
	return true, nil
}

func (f *fakeRepo) IsBarcodeUnique(ctx context.Context, merchantID, barcode, excludeID string) (bool, error) {
	for _, p := range f.rows {
		if p.MerchantID == merchantID && p.Barcode != nil && *p.Barcode == barcode && p.ID != excludeID {
			return false, nil
		}
	}
	return true, nil
}

// fakeCategories knows a fixed subtree: drinks > coffee > espresso.
type fakeCategories struct{}

func (fakeCategories) GetCategory(ctx context.Context, merchantID, id string) (*model.Category, error) {
	switch id {
	case "drinks", "coffee", "espresso", "food":
		return &model.Category{BaseModel: model.BaseModel{ID: id}, MerchantID: merchantID}, nil
	}
	return nil, category.ErrCategoryNotFound
}

func (fakeCategories) SubtreeIDs(ctx context.Context, merchantID, id string) ([]string, error) {
	switch id {
	case "drinks":
		return []string{"drinks", "coffee", "espresso"}, nil
	case "coffee":
		return []string{"coffee", "espresso"}, nil
	}
	return []string{id}, nil
}

type fakeCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func (c *fakeCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *fakeCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = data
	return nil
}

func (c *fakeCache) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
	return nil
}

type fakeIndex struct {
	response string
	err      error
	queries  []map[string]interface{}
}

func (f *fakeIndex) CreateIndex(ctx context.Context, name, mapping string) error { return nil }

func (f *fakeIndex) Index(ctx context.Context, index, id string, doc interface{}) error { return nil }

func (f *fakeIndex) Delete(ctx context.Context, index, id string) error { return nil }

func (f *fakeIndex) Search(ctx context.Context, index string, query map[string]interface{}) (*search.SearchResponse, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	var res search.SearchResponse
	if err := json.Unmarshal([]byte(f.response), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func strPtr(s string) *string { return &s }

func productRow(id, merchant, categoryID, name string) model.Product {
	p := model.Product{
		BaseModel:  model.BaseModel{ID: id},
		MerchantID: merchant,
		SKU:        "SKU-" + id,
		Name:       name,
		BasePrice:  decimal.NewFromInt(10000),
		IsActive:   true,
	}
	if categoryID != "" {
		p.CategoryID = strPtr(categoryID)
	}
	return p
}

func newUseCase(es product.SearchIndex, rows ...model.Product) (*productUseCase, *fakeRepo, *fakeCache) {
	repo := &fakeRepo{rows: rows}
	cache := &fakeCache{items: map[string][]byte{}}
	uc := NewProductUseCase(repo, fakeCategories{}, cache, es, time.Minute, logger.NewNop()).(*productUseCase)
	return uc, repo, cache
}

func seed() []model.Product {
	return []model.Product{
		productRow("p1", "m1", "drinks", "Water"),
		productRow("p2", "m1", "coffee", "Latte"),
		productRow("p3", "m1", "espresso", "Doppio"),
		productRow("p4", "m1", "food", "Bagel"),
		productRow("p5", "m2", "coffee", "Other merchant latte"),
	}
}

func TestListProductsBySubtree(t *testing.T) {
	tests := []struct {
		name    string
		filters dto.ProductFilters
		want    []string
	}{
		{"direct category only", dto.ProductFilters{MerchantID: "m1", CategoryID: "coffee"}, []string{"p2"}},
		{"coffee subtree", dto.ProductFilters{MerchantID: "m1", CategoryID: "coffee", IncludeSubcategories: true}, []string{"p2", "p3"}},
		{"drinks subtree", dto.ProductFilters{MerchantID: "m1", CategoryID: "drinks", IncludeSubcategories: true}, []string{"p1", "p2", "p3"}},
		{"no category", dto.ProductFilters{MerchantID: "m1"}, []string{"p1", "p2", "p3", "p4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, _ := newUseCase(nil, seed()...)
			filters := tt.filters
			products, count, err := uc.ListProducts(context.Background(), &filters)
			require.NoError(t, err)

			var ids []string
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			assert.ElementsMatch(t, tt.want, ids)
			assert.Equal(t, len(tt.want), count)
		})
	}
}

func TestListProductsCachesPages(t *testing.T) {
	uc, repo, cache := newUseCase(nil, seed()...)
	ctx := context.Background()

	_, _, err := uc.ListProducts(ctx, &dto.ProductFilters{MerchantID: "m1", Page: 1, PageSize: 10})
	require.NoError(t, err)
	products, count, err := uc.ListProducts(ctx, &dto.ProductFilters{MerchantID: "m1", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.findAll)
	assert.Equal(t, 4, count)
	assert.Len(t, products, 4)
	assert.Len(t, cache.items, 1)

	_, err = uc.CreateProduct(ctx, &dto.CreateProductInput{MerchantID: "m1", SKU: "NEW", Name: "Croissant", BasePrice: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.Empty(t, cache.items)
}

func TestSearchProductsFallsBackToDatabase(t *testing.T) {
	es := &fakeIndex{err: errors.New("cluster red")}
	uc, repo, _ := newUseCase(es, seed()...)

	products, _, err := uc.SearchProducts(context.Background(), "m1", "latte", 0)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p2", products[0].ID)
	assert.Len(t, es.queries, 1)
	assert.Equal(t, defaultSearchLimit, repo.lastQuery.PageSize)
}

func TestSearchProductsUsesElastic(t *testing.T) {
	es := &fakeIndex{response: `{"hits":{"total":{"value":7},"hits":[{"_id":"p9","_source":{"id":"p9","merchant_id":"m1","name":"Flat white","base_price":"25000"}}]}}`}
	uc, repo, _ := newUseCase(es, seed()...)

	products, total, err := uc.SearchProducts(context.Background(), "m1", "flat", 500)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, products, 1)
	assert.Equal(t, "Flat white", products[0].Name)
	assert.Zero(t, repo.findAll)
	assert.Equal(t, maxSearchLimit, es.queries[0]["size"])

	_, _, err = uc.SearchProducts(context.Background(), "m1", "  ", 5)
	assert.ErrorIs(t, err, product.ErrInvalidProduct)
}

func TestCreateProductValidation(t *testing.T) {
	uc, _, _ := newUseCase(nil, seed()...)
	ctx := context.Background()
	base := dto.CreateProductInput{MerchantID: "m1", SKU: "X1", Name: "Thing", BasePrice: decimal.NewFromInt(5)}

	tests := []struct {
		name string
		mut  func(in *dto.CreateProductInput)
		want error
	}{
		{"duplicate sku", func(in *dto.CreateProductInput) { in.SKU = "SKU-p1" }, product.ErrSKUExists},
		{"negative price", func(in *dto.CreateProductInput) { in.BasePrice = decimal.NewFromInt(-1) }, product.ErrInvalidPrice},
		{"missing name", func(in *dto.CreateProductInput) { in.Name = " " }, product.ErrInvalidProduct},
		{"unknown category", func(in *dto.CreateProductInput) { in.CategoryID = "nope" }, category.ErrCategoryNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mut(&in)
			_, err := uc.CreateProduct(ctx, &in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	p, err := uc.CreateProduct(ctx, &base)
	require.NoError(t, err)
	assert.True(t, p.IsActive)
	assert.Nil(t, p.CategoryID)
}

func TestUpdateProduct(t *testing.T) {
	rows := seed()
	rows[0].Barcode = strPtr("111")
	uc, _, _ := newUseCase(nil, rows...)
	ctx := context.Background()

	p, err := uc.UpdateProduct(ctx, &dto.UpdateProductInput{
		ID: "p2", MerchantID: "m1", SKU: "SKU-p2", Name: "Big latte", CategoryID: "espresso",
		BasePrice: decimal.NewFromInt(30000), IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Big latte", p.Name)
	assert.Equal(t, "espresso", *p.CategoryID)

	_, err = uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: "p2", MerchantID: "m1", SKU: "SKU-p2", Name: "x", Barcode: "111"})
	assert.ErrorIs(t, err, product.ErrBarcodeExists)

	_, err = uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: "p5", MerchantID: "m1", SKU: "S", Name: "x"})
	assert.ErrorIs(t, err, product.ErrProductNotFound)
}

func TestDeleteProduct(t *testing.T) {
	uc, repo, _ := newUseCase(nil, seed()...)
	ctx := context.Background()

	assert.ErrorIs(t, uc.DeleteProduct(ctx, "m2", "p1"), product.ErrProductNotFound)
	require.NoError(t, uc.DeleteProduct(ctx, "m1", "p1"))
	assert.Len(t, repo.rows, 4)
}
