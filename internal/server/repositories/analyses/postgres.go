package analyses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/portfoliorisk/internal/common"
	"github.com/dmitrijs2005/portfoliorisk/internal/dbx"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/models"
)

const resultColumns = `id, user_id, analysis_date, alpha, beta_mkt, beta_smb, beta_hml, beta_rmw, beta_cma, r_squared`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, res *models.AnalysisResult) error {
	query :=
		`INSERT INTO factor_analysis_results (` + resultColumns + `)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		res.ID, res.UserID, res.AnalysisDate,
		res.Alpha, res.BetaMkt, res.BetaSmb, res.BetaHml, res.BetaRmw, res.BetaCma,
		res.RSquared)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.AnalysisResult, error) {
	query :=
		`SELECT ` + resultColumns + ` FROM factor_analysis_results
		 WHERE user_id = $1
		 ORDER BY analysis_date DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.AnalysisResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.AnalysisResult, error) {
	query := `SELECT ` + resultColumns + ` FROM factor_analysis_results WHERE id = $1`

	res, err := scanResult(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return res, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(s scanner) (*models.AnalysisResult, error) {
	res := &models.AnalysisResult{}
	err := s.Scan(&res.ID, &res.UserID, &res.AnalysisDate,
		&res.Alpha, &res.BetaMkt, &res.BetaSmb, &res.BetaHml, &res.BetaRmw, &res.BetaCma,
		&res.RSquared)
	if err != nil {
		return nil, err
	}
	return res, nil
}
