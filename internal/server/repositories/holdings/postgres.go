package holdings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/portfoliorisk/internal/common"
	"github.com/dmitrijs2005/portfoliorisk/internal/dbx"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, h *models.Holding) error {
	query :=
		`INSERT INTO holdings (id, user_id, ticker, quantity)
		 VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, h.ID, h.UserID, h.Ticker, h.Quantity)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Holding, error) {
	query :=
		`SELECT id, user_id, ticker, quantity FROM holdings
		 WHERE user_id = $1
		 ORDER BY ticker`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Holding
	for rows.Next() {
		h := &models.Holding{}
		if err := rows.Scan(&h.ID, &h.UserID, &h.Ticker, &h.Quantity); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Holding, error) {
	query :=
		`SELECT id, user_id, ticker, quantity FROM holdings
		 WHERE id = $1
		 FOR UPDATE`

	h := &models.Holding{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&h.ID, &h.UserID, &h.Ticker, &h.Quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return h, nil
}

func (r *PostgresRepository) Update(ctx context.Context, h *models.Holding) error {
	query := `UPDATE holdings SET quantity = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, h.ID, h.Quantity)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM holdings WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) ExistsByUserAndTicker(ctx context.Context, userID, ticker string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM holdings WHERE user_id = $1 AND ticker = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, ticker).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
