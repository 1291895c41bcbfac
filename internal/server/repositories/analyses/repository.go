// Package analyses declares and implements persistence for factor analysis
// results. Results are append-only.
package analyses

import (
	"context"

	"github.com/dmitrijs2005/portfoliorisk/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, r *models.AnalysisResult) error
	// ListByUser returns the user's results, most recent first.
	ListByUser(ctx context.Context, userID string) ([]*models.AnalysisResult, error)
	// GetByID returns common.ErrorNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.AnalysisResult, error)
}
