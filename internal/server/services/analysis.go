package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/portfoliorisk/internal/common"
	"github.com/dmitrijs2005/portfoliorisk/internal/logging"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/analysisclient"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/auth"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/models"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	// defaultLookbackYears is the window used when no start date is given.
	defaultLookbackYears  = 3
	defaultArchiveTimeout = 10 * time.Second
)

// FactorRegressor runs a regression on the external engine.
type FactorRegressor interface {
	RunFactorRegression(ctx context.Context, req *analysisclient.FactorRegressionRequest) (*analysisclient.FactorRegressionResponse, error)
}

// Archiver keeps a copy of a committed result outside the database. It never
// receives t-statistics.
type Archiver interface {
	Archive(ctx context.Context, r *models.AnalysisResult) error
}

// AnalysisService runs factor analyses for a user and serves their history.
// A result is stored only after the engine answered successfully.
type AnalysisService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	engine      FactorRegressor
	archiver    Archiver
	logger      logging.Logger
	now         func() time.Time

	archiveTimeout time.Duration
	archives       sync.WaitGroup
}

// NewAnalysisService builds the service. archiver may be nil; archiveTimeout
// bounds one archive write and defaults to 10s when not positive.
func NewAnalysisService(db *sql.DB, m repomanager.RepositoryManager, engine FactorRegressor, archiver Archiver, archiveTimeout time.Duration, logger logging.Logger) *AnalysisService {
	if archiveTimeout <= 0 {
		archiveTimeout = defaultArchiveTimeout
	}
	return &AnalysisService{
		db:             db,
		repomanager:    m,
		engine:         engine,
		archiver:       archiver,
		logger:         logger,
		now:            time.Now,
		archiveTimeout: archiveTimeout,
	}
}

// Run analyses the user's current holdings over [start, end]. A nil end means
// today; a nil start means end minus three years. The returned result carries
// the t-statistics of this run.
func (s *AnalysisService) Run(ctx context.Context, userID string, start, end *time.Time) (*models.AnalysisResult, error) {
	holdings, err := s.repomanager.Holdings(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error loading holdings: %w", err)
	}
	if len(holdings) == 0 {
		return nil, common.ErrNoHoldings
	}

	from, to := s.window(start, end)
	if from.After(to) {
		return nil, common.Validationf("start date %s is after end date %s",
			from.Format(common.DateLayout), to.Format(common.DateLayout))
	}

	req := buildRegressionRequest(holdings, from, to)

	resp, err := s.engine.RunFactorRegression(ctx, req)
	if err != nil {
		if de, ok := analysisclient.AsDownstreamError(err); ok {
			s.logger.Warn(ctx, "factor regression failed",
				"user_id", userID, "kind", de.Kind.String(), "status", de.StatusCode, "error", de.Message)
		}
		return nil, err
	}

	result := &models.AnalysisResult{
		ID:           uuid.NewString(),
		UserID:       userID,
		AnalysisDate: s.now().UTC(),
		Alpha:        resp.Alpha,
		BetaMkt:      resp.BetaMkt,
		BetaSmb:      resp.BetaSmb,
		BetaHml:      resp.BetaHml,
		BetaRmw:      resp.BetaRmw,
		BetaCma:      resp.BetaCma,
		RSquared:     resp.RSquared,
	}
	if err := s.repomanager.Analyses(s.db).Create(ctx, result); err != nil {
		return nil, fmt.Errorf("error saving analysis: %w", err)
	}
	result.TStats = resp.TStats

	s.logger.Info(ctx, "analysis persisted", "result_id", result.ID, "user_id", userID, "holdings", len(holdings))

	if s.archiver != nil {
		s.archive(ctx, *result)
	}

	return result, nil
}

// archive writes r in the background, detached from the request and bounded
// by archiveTimeout. r is a copy, so the caller's TStats never reach it.
func (s *AnalysisService) archive(ctx context.Context, r models.AnalysisResult) {
	r.TStats = nil

	s.archives.Add(1)
	go func() {
		defer s.archives.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.archiveTimeout)
		defer cancel()

		if err := s.archiver.Archive(ctx, &r); err != nil {
			s.logger.Error(ctx, "analysis archive failed", "result_id", r.ID, "error", err)
		}
	}()
}

// Wait blocks until pending archive writes have finished.
func (s *AnalysisService) Wait() {
	s.archives.Wait()
}

// History lists the user's results, most recent first, without t-statistics.
func (s *AnalysisService) History(ctx context.Context, userID string) ([]*models.AnalysisResult, error) {
	list, err := s.repomanager.Analyses(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing analyses: %w", err)
	}
	for _, r := range list {
		r.TStats = nil
	}
	return list, nil
}

// Get returns one of the user's results. Results of other users are
// reported as common.ErrorNotFound.
func (s *AnalysisService) Get(ctx context.Context, userID, id string) (*models.AnalysisResult, error) {
	r, err := s.repomanager.Analyses(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading analysis: %w", err)
	}
	if err := auth.Authorize(r.UserID, userID); err != nil {
		return nil, err
	}
	r.TStats = nil
	return r, nil
}

// window resolves the date range as UTC calendar dates.
func (s *AnalysisService) window(start, end *time.Time) (time.Time, time.Time) {
	to := dateOf(s.now())
	if end != nil {
		to = dateOf(*end)
	}
	from := yearsBefore(to, defaultLookbackYears)
	if start != nil {
		from = dateOf(*start)
	}
	return from, to
}

func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// yearsBefore moves a date back by whole years, clamping Feb 29 to Feb 28.
func yearsBefore(t time.Time, years int) time.Time {
	y := t.Year() - years
	d := t.Day()
	if last := time.Date(y, t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day(); d > last {
		d = last
	}
	return time.Date(y, t.Month(), d, 0, 0, 0, 0, time.UTC)
}

// buildRegressionRequest converts holdings for the engine. Quantities are
// truncated toward zero, so 10.9 shares are sent as 10.
func buildRegressionRequest(holdings []*models.Holding, from, to time.Time) *analysisclient.FactorRegressionRequest {
	payload := make([]analysisclient.HoldingPayload, 0, len(holdings))
	for _, h := range holdings {
		payload = append(payload, analysisclient.HoldingPayload{
			Ticker:   h.Ticker,
			Quantity: int(h.Quantity.IntPart()),
		})
	}
	return &analysisclient.FactorRegressionRequest{
		Holdings:  payload,
		StartDate: from.Format(common.DateLayout),
		EndDate:   to.Format(common.DateLayout),
	}
}
