package services

import (
	"context"
	"database/sql"
	"sort"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/portfoliorisk/internal/common"
	"github.com/dmitrijs2005/portfoliorisk/internal/dbx"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/analysisclient"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/models"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/repositories/analyses"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/repositories/holdings"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/repositories/users"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, m, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, m
}

// --- users ---

type fakeUsersRepo struct {
	byEmail   map[string]*models.User
	existsErr error
	createErr error
	getErr    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	cp := *u
	f.byEmail[u.Email] = &cp
	return &cp, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.byEmail[email]
	return ok, nil
}

// --- holdings ---

type fakeHoldingsRepo struct {
	byID      map[string]*models.Holding
	createErr error
	listErr   error
	updates   int
	deletes   int
}

func newFakeHoldingsRepo(hs ...*models.Holding) *fakeHoldingsRepo {
	f := &fakeHoldingsRepo{byID: map[string]*models.Holding{}}
	for _, h := range hs {
		f.byID[h.ID] = h
	}
	return f
}

func (f *fakeHoldingsRepo) Create(_ context.Context, h *models.Holding) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *h
	f.byID[h.ID] = &cp
	return nil
}

func (f *fakeHoldingsRepo) ListByUser(_ context.Context, userID string) ([]*models.Holding, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*models.Holding
	for _, h := range f.byID {
		if h.UserID == userID {
			cp := *h
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out, nil
}

func (f *fakeHoldingsRepo) GetForUpdate(_ context.Context, id string) (*models.Holding, error) {
	h, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *h
	return &cp, nil
}

func (f *fakeHoldingsRepo) Update(_ context.Context, h *models.Holding) error {
	f.updates++
	cp := *h
	f.byID[h.ID] = &cp
	return nil
}

func (f *fakeHoldingsRepo) Delete(_ context.Context, id string) error {
	f.deletes++
	delete(f.byID, id)
	return nil
}

func (f *fakeHoldingsRepo) ExistsByUserAndTicker(_ context.Context, userID, ticker string) (bool, error) {
	for _, h := range f.byID {
		if h.UserID == userID && h.Ticker == ticker {
			return true, nil
		}
	}
	return false, nil
}

// --- analyses ---

type fakeAnalysesRepo struct {
	saved     []*models.AnalysisResult
	createErr error
}

func (f *fakeAnalysesRepo) Create(_ context.Context, r *models.AnalysisResult) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *r
	f.saved = append(f.saved, &cp)
	return nil
}

func (f *fakeAnalysesRepo) ListByUser(_ context.Context, userID string) ([]*models.AnalysisResult, error) {
	var out []*models.AnalysisResult
	for i := len(f.saved) - 1; i >= 0; i-- {
		if f.saved[i].UserID == userID {
			cp := *f.saved[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeAnalysesRepo) GetByID(_ context.Context, id string) (*models.AnalysisResult, error) {
	for _, r := range f.saved {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

// --- manager ---

type fakeRepoManager struct {
	users    *fakeUsersRepo
	holdings *fakeHoldingsRepo
	analyses *fakeAnalysesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:    newFakeUsersRepo(),
		holdings: newFakeHoldingsRepo(),
		analyses: &fakeAnalysesRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.users }
func (m *fakeRepoManager) Holdings(dbx.DBTX) holdings.Repository        { return m.holdings }
func (m *fakeRepoManager) Analyses(dbx.DBTX) analyses.Repository        { return m.analyses }

// --- engine and archive ---

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) RunFactorRegression(ctx context.Context, req *analysisclient.FactorRegressionRequest) (*analysisclient.FactorRegressionResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*analysisclient.FactorRegressionResponse)
	return resp, args.Error(1)
}

type mockArchiver struct {
	mock.Mock
}

func (m *mockArchiver) Archive(ctx context.Context, r *models.AnalysisResult) error {
	return m.Called(ctx, r).Error(0)
}
