// Package holdings declares and implements persistence for portfolio
// holdings.
package holdings

import (
	"context"

	"github.com/dmitrijs2005/portfoliorisk/internal/server/models"
)

// Repository stores holdings. Ownership is not checked here; callers compare
// the returned UserID with the caller before acting.
type Repository interface {
	// Create inserts a holding; an existing (user, ticker) pair yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, h *models.Holding) error

	ListByUser(ctx context.Context, userID string) ([]*models.Holding, error)

	// GetForUpdate reads a holding and locks its row until the surrounding
	// transaction ends. Returns common.ErrorNotFound when absent.
	GetForUpdate(ctx context.Context, id string) (*models.Holding, error)

	// Update stores a new quantity for the holding.
	Update(ctx context.Context, h *models.Holding) error

	Delete(ctx context.Context, id string) error

	ExistsByUserAndTicker(ctx context.Context, userID, ticker string) (bool, error)
}
