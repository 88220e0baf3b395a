package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/loyalty"
	"github.com/fekuna/omnipos-catalog-service/internal/loyalty/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetAccount(ctx context.Context, merchantID, customerID string) (*model.LoyaltyAccount, error) {
	var acc model.LoyaltyAccount
	query := `SELECT * FROM loyalty_accounts WHERE merchant_id = $1 AND customer_id = $2 LIMIT 1`
	if err := r.DB.GetContext(ctx, &acc, query, merchantID, customerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "loyalty: get account")
	}
	return &acc, nil
}

func (r *PGRepository) HasReference(ctx context.Context, merchantID, referenceType, referenceID string) (bool, error) {
	var exists bool
	query := `
        SELECT EXISTS (
            SELECT 1 FROM loyalty_transactions
            WHERE merchant_id = $1 AND reference_type = $2 AND reference_id = $3 AND tx_type = 'earn'
        )
    `
	if err := r.DB.GetContext(ctx, &exists, query, merchantID, referenceType, referenceID); err != nil {
		return false, errors.Wrap(err, "loyalty: check reference")
	}
	return exists, nil
}

func (r *PGRepository) SaveWithTransaction(ctx context.Context, acc *model.LoyaltyAccount, entry *model.LoyaltyTransaction) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "loyalty: begin")
	}
	defer tx.Rollback()

	upsertQuery := `
        INSERT INTO loyalty_accounts (id, merchant_id, customer_id, points_balance, lifetime_points, created_at, updated_at)
        VALUES (:id, :merchant_id, :customer_id, :points_balance, :lifetime_points, :created_at, :updated_at)
        ON CONFLICT (merchant_id, customer_id)
        DO UPDATE SET
            points_balance = EXCLUDED.points_balance,
            lifetime_points = EXCLUDED.lifetime_points,
            updated_at = EXCLUDED.updated_at
    `
	if _, err := tx.NamedExecContext(ctx, upsertQuery, acc); err != nil {
		return errors.Wrap(err, "loyalty: upsert account")
	}

	insertQuery := `
        INSERT INTO loyalty_transactions (
            id, account_id, merchant_id, customer_id, tx_type, points_change,
            balance_before, balance_after, reference_type, reference_id, notes, created_by, created_at
        )
        VALUES (
            :id, :account_id, :merchant_id, :customer_id, :tx_type, :points_change,
            :balance_before, :balance_after, :reference_type, :reference_id, :notes, :created_by, :created_at
        )
    `
	if _, err := tx.NamedExecContext(ctx, insertQuery, entry); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return loyalty.ErrDuplicateReference
		}
		return errors.Wrap(err, "loyalty: insert transaction")
	}

	return errors.Wrap(tx.Commit(), "loyalty: commit")
}

func (r *PGRepository) ListTransactions(ctx context.Context, f *dto.TransactionFilters) ([]model.LoyaltyTransaction, int, error) {
	txs := []model.LoyaltyTransaction{}
	var count int

	conditions := []string{"merchant_id = :merchant_id"}
	args := map[string]interface{}{"merchant_id": f.MerchantID}

	if f.CustomerID != "" {
		conditions = append(conditions, "customer_id = :customer_id")
		args["customer_id"] = f.CustomerID
	}
	if f.TxType != "" {
		conditions = append(conditions, "tx_type = :tx_type")
		args["tx_type"] = f.TxType
	}

	whereClause := " WHERE " + strings.Join(conditions, " AND ")

	countStmt, err := r.DB.PrepareNamedContext(ctx, "SELECT count(*) FROM loyalty_transactions"+whereClause)
	if err != nil {
		return nil, 0, errors.Wrap(err, "loyalty: prepare count")
	}
	defer countStmt.Close()
	if err := countStmt.GetContext(ctx, &count, args); err != nil {
		return nil, 0, errors.Wrap(err, "loyalty: count")
	}

	query := "SELECT * FROM loyalty_transactions" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, errors.Wrap(err, "loyalty: prepare list")
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &txs, args); err != nil {
		return nil, 0, errors.Wrap(err, "loyalty: list transactions")
	}
	return txs, count, nil
}
