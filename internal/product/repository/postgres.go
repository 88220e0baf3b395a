package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, merchant_id, category_id, sku, barcode, name, description,
            base_price, cost_price, tax_rate, track_inventory,
            image_url, is_active, created_at, updated_at
        )
        VALUES (
            :id, :merchant_id, :category_id, :sku, :barcode, :name, :description,
            :base_price, :cost_price, :tax_rate, :track_inventory,
            :image_url, :is_active, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return errors.Wrap(err, "products: create")
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	query := `SELECT * FROM products WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "products: find by id")
	}
	return &product, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	products := []model.Product{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.MerchantID != "" {
		conditions = append(conditions, "merchant_id = :merchant_id")
		args["merchant_id"] = f.MerchantID
	}
	if len(f.CategoryIDs) > 0 {
		conditions = append(conditions, "category_id IN (:category_ids)")
		args["category_ids"] = f.CategoryIDs
	} else if f.CategoryID != "" {
		conditions = append(conditions, "category_id = :category_id")
		args["category_id"] = f.CategoryID
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR sku ILIKE :search OR barcode ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery, countArgs, err := r.bind("SELECT count(*) FROM products"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return nil, 0, errors.Wrap(err, "products: count")
	}

	// Sort columns are whitelisted.
	orderBy := "created_at DESC"
	if f.SortBy != "" {
		switch f.SortBy {
		case "name":
			orderBy = "name"
		case "price":
			orderBy = "base_price"
		default:
			orderBy = "created_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := fmt.Sprintf("SELECT * FROM products%s ORDER BY %s", whereClause, orderBy)
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	listQuery, listArgs, err := r.bind(query, args)
	if err != nil {
		return nil, 0, err
	}
	if err := r.DB.SelectContext(ctx, &products, listQuery, listArgs...); err != nil {
		return nil, 0, errors.Wrap(err, "products: list")
	}

	return products, count, nil
}

// bind expands named parameters and slice arguments into positional ones.
func (r *PGRepository) bind(query string, args map[string]interface{}) (string, []interface{}, error) {
	q, params, err := sqlx.Named(query, args)
	if err != nil {
		return "", nil, errors.Wrap(err, "products: bind named")
	}
	q, params, err = sqlx.In(q, params...)
	if err != nil {
		return "", nil, errors.Wrap(err, "products: expand in")
	}
	return r.DB.Rebind(q), params, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET category_id = :category_id,
            sku = :sku,
            barcode = :barcode,
            name = :name,
            description = :description,
            base_price = :base_price,
            cost_price = :cost_price,
            tax_rate = :tax_rate,
            track_inventory = :track_inventory,
            image_url = :image_url,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id AND merchant_id = :merchant_id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return errors.Wrap(err, "products: update")
}

func (r *PGRepository) Delete(ctx context.Context, merchantID, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id = $1 AND merchant_id = $2", id, merchantID)
	return errors.Wrap(err, "products: delete")
}

func (r *PGRepository) IsSKUUnique(ctx context.Context, merchantID, sku, excludeID string) (bool, error) {
	return r.isUnique(ctx, "sku", merchantID, sku, excludeID)
}

func (r *PGRepository) IsBarcodeUnique(ctx context.Context, merchantID, barcode, excludeID string) (bool, error) {
	if barcode == "" {
		return true, nil
	}
	return r.isUnique(ctx, "barcode", merchantID, barcode, excludeID)
}

// column is always a literal from this file.
func (r *PGRepository) isUnique(ctx context.Context, column, merchantID, value, excludeID string) (bool, error) {
	var count int
	query := fmt.Sprintf(`SELECT count(*) FROM products WHERE merchant_id = $1 AND %s = $2`, column)
	args := []interface{}{merchantID, value}
	if excludeID != "" {
		query += ` AND id != $3`
		args = append(args, excludeID)
	}

	if err := r.DB.GetContext(ctx, &count, query, args...); err != nil {
		return false, errors.Wrapf(err, "products: check %s", column)
	}
	return count == 0, nil
}
