package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/portfoliorisk/internal/common"
	"github.com/dmitrijs2005/portfoliorisk/internal/dbx"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/auth"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/models"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/repositories/holdings"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxTickerLength = 10

// HoldingService manages a user's holdings. Update and delete lock the row
// and check ownership in the same transaction as the write.
type HoldingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewHoldingService(db *sql.DB, m repomanager.RepositoryManager) *HoldingService {
	return &HoldingService{db: db, repomanager: m}
}

func (s *HoldingService) List(ctx context.Context, userID string) ([]*models.Holding, error) {
	list, err := s.repomanager.Holdings(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing holdings: %w", err)
	}
	return list, nil
}

// Create adds a holding. The ticker is trimmed and upper-cased; a user may
// hold each ticker once.
func (s *HoldingService) Create(ctx context.Context, userID, ticker string, quantity decimal.Decimal) (*models.Holding, error) {
	ticker, err := normalizeTicker(ticker)
	if err != nil {
		return nil, err
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	repo := s.repomanager.Holdings(s.db)

	exists, err := repo.ExistsByUserAndTicker(ctx, userID, ticker)
	if err != nil {
		return nil, fmt.Errorf("error checking holding: %w", err)
	}
	if exists {
		return nil, duplicateTicker(ticker)
	}

	h := &models.Holding{
		ID:       uuid.NewString(),
		UserID:   userID,
		Ticker:   ticker,
		Quantity: quantity,
	}
	if err := repo.Create(ctx, h); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, duplicateTicker(ticker)
		}
		return nil, fmt.Errorf("error creating holding: %w", err)
	}
	return h, nil
}

// Update sets a new quantity. The ticker cannot change.
func (s *HoldingService) Update(ctx context.Context, userID, id string, quantity decimal.Decimal) (*models.Holding, error) {
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	var updated *models.Holding
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Holdings(tx)

		h, err := lockOwned(ctx, repo, userID, id)
		if err != nil {
			return err
		}

		h.Quantity = quantity
		if err := repo.Update(ctx, h); err != nil {
			return err
		}
		updated = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *HoldingService) Delete(ctx context.Context, userID, id string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Holdings(tx)

		if _, err := lockOwned(ctx, repo, userID, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

// lockOwned reads and locks the holding, failing with common.ErrorNotFound
// unless userID owns it.
func lockOwned(ctx context.Context, repo holdings.Repository, userID, id string) (*models.Holding, error) {
	h, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(h.UserID, userID); err != nil {
		return nil, err
	}
	return h, nil
}

func normalizeTicker(ticker string) (string, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return "", common.NewValidationError("ticker is required")
	}
	if utf8.RuneCountInString(ticker) > maxTickerLength {
		return "", common.Validationf("ticker must be %d characters or less", maxTickerLength)
	}
	return ticker, nil
}

// Quantities are stored as NUMERIC(19,6).
const quantityScale = 6

var maxQuantity = decimal.New(1, 19-quantityScale)

func validateQuantity(q decimal.Decimal) error {
	if !q.IsPositive() {
		return common.NewValidationError("quantity must be positive")
	}
	if !q.Equal(q.Truncate(quantityScale)) {
		return common.Validationf("quantity must have at most %d decimal places", quantityScale)
	}
	if q.GreaterThanOrEqual(maxQuantity) {
		return common.NewValidationError("quantity is too large")
	}
	return nil
}

func duplicateTicker(ticker string) error {
	return common.Validationf("you already have a holding for %s", ticker)
}
