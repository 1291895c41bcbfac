package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/portfoliorisk/internal/dbx"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/repositories/analyses"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/repositories/holdings"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can use
// the same repository inside or outside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Holdings(db dbx.DBTX) holdings.Repository
	Analyses(db dbx.DBTX) analyses.Repository
}
