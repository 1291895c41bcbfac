// Package api exposes the services over HTTP/JSON using chi.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/portfoliorisk/internal/logging"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/auth"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/models"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
)

const apiPrefix = "/api/v1"

type UserService interface {
	Register(ctx context.Context, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
}

type HoldingService interface {
	List(ctx context.Context, userID string) ([]*models.Holding, error)
	Create(ctx context.Context, userID, ticker string, quantity decimal.Decimal) (*models.Holding, error)
	Update(ctx context.Context, userID, id string, quantity decimal.Decimal) (*models.Holding, error)
	Delete(ctx context.Context, userID, id string) error
}

type AnalysisService interface {
	Run(ctx context.Context, userID string, start, end *time.Time) (*models.AnalysisResult, error)
	History(ctx context.Context, userID string) ([]*models.AnalysisResult, error)
	Get(ctx context.Context, userID, id string) (*models.AnalysisResult, error)
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	users    UserService
	holdings HoldingService
	analyses AnalysisService
	db       Pinger
	logger   logging.Logger
}

func NewHandler(users UserService, holdings HoldingService, analyses AnalysisService, db Pinger, logger logging.Logger) *Handler {
	return &Handler{users: users, holdings: holdings, analyses: analyses, db: db, logger: logger}
}

// NewRouter mounts the API. Every request passes through authn; routes other
// than registration, login and health require an identity.
func NewRouter(h *Handler, authn *auth.Authenticator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.logger))
	r.Use(authn.Middleware)

	r.Get("/healthz", h.health)

	r.Route(apiPrefix, func(r chi.Router) {
		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireIdentity)

			r.Get("/holdings", h.listHoldings)
			r.Post("/holdings", h.createHolding)
			r.Put("/holdings/{id}", h.updateHolding)
			r.Delete("/holdings/{id}", h.deleteHolding)

			r.Post("/analysis/run", h.runAnalysis)
			r.Get("/analysis/history", h.analysisHistory)
			r.Get("/analysis/{id}", h.getAnalysis)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Error(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, statusBody{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, statusBody{Status: "ok"})
}

// requestLogger writes one line per request once the response is done.
func requestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
