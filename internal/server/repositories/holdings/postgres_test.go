package holdings

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/portfoliorisk/internal/common"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+holdings\s*\(id,\s*user_id,\s*ticker,\s*quantity\)`).
		WithArgs("h-1", "u-1", "AAPL", "10.5").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &models.Holding{
		ID: "h-1", UserID: "u-1", Ticker: "AAPL", Quantity: decimal.RequireFromString("10.5"),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateTicker(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`INSERT\s+INTO\s+holdings`).WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &models.Holding{ID: "h-1", UserID: "u-1", Ticker: "AAPL", Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestListByUser(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*user_id,\s*ticker,\s*quantity\s+FROM\s+holdings\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+ticker$`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "ticker", "quantity"}).
			AddRow("h-1", "u-1", "AAPL", "10.5").
			AddRow("h-2", "u-1", "MSFT", "3"))

	got, err := repo.ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "AAPL", got[0].Ticker)
	assert.True(t, decimal.RequireFromString("10.5").Equal(got[0].Quantity))
	assert.Equal(t, "MSFT", got[1].Ticker)
}

func TestListByUser_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+holdings`).
		WithArgs("u-2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "ticker", "quantity"}))

	got, err := repo.ListByUser(context.Background(), "u-2")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetForUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)FROM\s+holdings\s+WHERE\s+id\s*=\s*\$1\s+FOR\s+UPDATE$`).
		WithArgs("h-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "ticker", "quantity"}).
			AddRow("h-1", "u-1", "AAPL", "2"))

	h, err := repo.GetForUpdate(context.Background(), "h-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", h.UserID)
}

func TestGetForUpdate_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FOR\s+UPDATE`).WithArgs("h-404").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetForUpdate(context.Background(), "h-404")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`(?s)^UPDATE\s+holdings\s+SET\s+quantity\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("h-1", "7").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), &models.Holding{ID: "h-1", Quantity: decimal.NewFromInt(7)})
	require.NoError(t, err)
}

func TestDelete_NoRows(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+holdings\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("h-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "h-1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`DELETE\s+FROM\s+holdings`).WillReturnError(errors.New("db down"))

	err := repo.Delete(context.Background(), "h-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestExistsByUserAndTicker(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+EXISTS.*user_id\s*=\s*\$1\s+AND\s+ticker\s*=\s*\$2`).
		WithArgs("u-1", "AAPL").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := repo.ExistsByUserAndTicker(context.Background(), "u-1", "AAPL")
	require.NoError(t, err)
	assert.False(t, ok)
}
