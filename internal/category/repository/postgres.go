package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (id, merchant_id, parent_id, name, description, image_url, sort_order, is_active, created_at, updated_at)
        VALUES (:id, :merchant_id, :parent_id, :name, :description, :image_url, :sort_order, :is_active, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return errors.Wrap(err, "categories: create")
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	query := `SELECT * FROM categories WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "categories: find by id")
	}
	return &category, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.Category, int, error) {
	categories := []model.Category{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.MerchantID != "" {
		conditions = append(conditions, "merchant_id = :merchant_id")
		args["merchant_id"] = f.MerchantID
	}
	if f.ParentID != nil {
		if *f.ParentID == "" {
			conditions = append(conditions, "parent_id IS NULL")
		} else {
			conditions = append(conditions, "parent_id = :parent_id")
			args["parent_id"] = *f.ParentID
		}
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	countStmt, err := r.DB.PrepareNamedContext(ctx, "SELECT count(*) FROM categories"+whereClause)
	if err != nil {
		return nil, 0, errors.Wrap(err, "categories: prepare count")
	}
	defer countStmt.Close()
	if err := countStmt.GetContext(ctx, &count, args); err != nil {
		return nil, 0, errors.Wrap(err, "categories: count")
	}

	query := "SELECT * FROM categories" + whereClause + " ORDER BY sort_order ASC, name ASC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, errors.Wrap(err, "categories: prepare list")
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &categories, args); err != nil {
		return nil, 0, errors.Wrap(err, "categories: list")
	}
	return categories, count, nil
}

func (r *PGRepository) FindAllByMerchant(ctx context.Context, merchantID string, isActive *bool) ([]model.Category, error) {
	categories := []model.Category{}
	query := `SELECT * FROM categories WHERE merchant_id = $1`
	args := []interface{}{merchantID}
	if isActive != nil {
		query += ` AND is_active = $2`
		args = append(args, *isActive)
	}
	query += ` ORDER BY sort_order ASC, name ASC`

	if err := r.DB.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, errors.Wrap(err, "categories: list by merchant")
	}
	return categories, nil
}

func (r *PGRepository) Update(ctx context.Context, c *model.Category) error {
	query := `
        UPDATE categories
        SET parent_id = :parent_id,
            name = :name,
            description = :description,
            image_url = :image_url,
            sort_order = :sort_order,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id AND merchant_id = :merchant_id
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return errors.Wrap(err, "categories: update")
}

// Delete relies on the parent_id FK being ON DELETE SET NULL: children become roots.
func (r *PGRepository) Delete(ctx context.Context, merchantID, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM categories WHERE id = $1 AND merchant_id = $2", id, merchantID)
	return errors.Wrap(err, "categories: delete")
}
