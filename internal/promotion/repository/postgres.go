package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/promotion"
	"github.com/fekuna/omnipos-catalog-service/internal/promotion/dto"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

const uniqueViolation = "23505"

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Promotion) error {
	query := `
        INSERT INTO promotions (
            id, merchant_id, code, name, description, discount_type, discount_value,
            min_order_value, max_discount, start_date, end_date, is_active,
            usage_limit, usage_count, created_at, updated_at
        )
        VALUES (
            :id, :merchant_id, :code, :name, :description, :discount_type, :discount_value,
            :min_order_value, :max_discount, :start_date, :end_date, :is_active,
            :usage_limit, :usage_count, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	if isUniqueViolation(err) {
		return promotion.ErrCodeExists.WithData(map[string]interface{}{"Code": p.Code})
	}
	return errors.Wrap(err, "promotions: create")
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Promotion, error) {
	return r.findOne(ctx, `SELECT * FROM promotions WHERE id = $1 LIMIT 1`, id)
}

func (r *PGRepository) FindByCode(ctx context.Context, merchantID, code string) (*model.Promotion, error) {
	return r.findOne(ctx, `SELECT * FROM promotions WHERE merchant_id = $1 AND code = $2 LIMIT 1`, merchantID, code)
}

func (r *PGRepository) findOne(ctx context.Context, query string, args ...interface{}) (*model.Promotion, error) {
	var p model.Promotion
	if err := r.DB.GetContext(ctx, &p, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "promotions: find")
	}
	return &p, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.PromotionFilters) ([]model.Promotion, int, error) {
	promotions := []model.Promotion{}
	var count int

	conditions := []string{"merchant_id = :merchant_id"}
	args := map[string]interface{}{"merchant_id": f.MerchantID}

	if f.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE", "start_date <= :active_at", "end_date >= :active_at")
		args["active_at"] = f.ActiveAt
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countStmt, err := r.DB.PrepareNamedContext(ctx, "SELECT count(*) FROM promotions"+whereClause)
	if err != nil {
		return nil, 0, errors.Wrap(err, "promotions: prepare count")
	}
	defer countStmt.Close()
	if err := countStmt.GetContext(ctx, &count, args); err != nil {
		return nil, 0, errors.Wrap(err, "promotions: count")
	}

	query := "SELECT * FROM promotions" + whereClause + " ORDER BY start_date DESC, code ASC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, errors.Wrap(err, "promotions: prepare list")
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &promotions, args); err != nil {
		return nil, 0, errors.Wrap(err, "promotions: list")
	}
	return promotions, count, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Promotion) error {
	query := `
        UPDATE promotions
        SET name = :name,
            description = :description,
            discount_type = :discount_type,
            discount_value = :discount_value,
            min_order_value = :min_order_value,
            max_discount = :max_discount,
            start_date = :start_date,
            end_date = :end_date,
            is_active = :is_active,
            usage_limit = :usage_limit,
            updated_at = :updated_at
        WHERE id = :id AND merchant_id = :merchant_id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return errors.Wrap(err, "promotions: update")
}

func (r *PGRepository) Delete(ctx context.Context, merchantID, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM promotions WHERE id = $1 AND merchant_id = $2", id, merchantID)
	return errors.Wrap(err, "promotions: delete")
}

func (r *PGRepository) IsCodeUnique(ctx context.Context, merchantID, code string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM promotions WHERE merchant_id = $1 AND code = $2`
	if err := r.DB.GetContext(ctx, &count, query, merchantID, code); err != nil {
		return false, errors.Wrap(err, "promotions: check code")
	}
	return count == 0, nil
}

func (r *PGRepository) Redeem(ctx context.Context, rd *model.PromotionRedemption) (int, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "promotions: begin redeem")
	}
	defer tx.Rollback()

	insertQuery := `
        INSERT INTO promotion_redemptions (id, merchant_id, promotion_id, order_id, order_value, discount, redeemed_at)
        VALUES (:id, :merchant_id, :promotion_id, :order_id, :order_value, :discount, :redeemed_at)
        ON CONFLICT (promotion_id, order_id) DO NOTHING
    `
	res, err := tx.NamedExecContext(ctx, insertQuery, rd)
	if err != nil {
		return 0, errors.Wrap(err, "promotions: insert redemption")
	}
	if n, err := res.RowsAffected(); err != nil {
		return 0, errors.Wrap(err, "promotions: insert redemption")
	} else if n == 0 {
		return 0, promotion.ErrAlreadyRedeemed
	}

	// The WHERE clause is the usage guard: concurrent redemptions serialize on the row lock.
	var usage int
	updateQuery := `
        UPDATE promotions
        SET usage_count = usage_count + 1, updated_at = $2
        WHERE id = $1 AND (usage_limit IS NULL OR usage_count < usage_limit)
        RETURNING usage_count
    `
	if err := tx.GetContext(ctx, &usage, updateQuery, rd.PromotionID, rd.RedeemedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, promotion.ErrUsageExhausted
		}
		return 0, errors.Wrap(err, "promotions: bump usage")
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "promotions: commit redeem")
	}
	return usage, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
