package api

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/portfoliorisk/internal/common"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/models"
	"github.com/shopspring/decimal"
)

type analysisResponse struct {
	ID           string                     `json:"id"`
	AnalysisDate time.Time                  `json:"analysisDate"`
	Alpha        decimal.Decimal            `json:"alpha"`
	BetaMkt      decimal.Decimal            `json:"betaMkt"`
	BetaSmb      decimal.Decimal            `json:"betaSmb"`
	BetaHml      decimal.Decimal            `json:"betaHml"`
	BetaRmw      decimal.Decimal            `json:"betaRmw"`
	BetaCma      decimal.Decimal            `json:"betaCma"`
	RSquared     decimal.Decimal            `json:"rSquared"`
	TStats       map[string]decimal.Decimal `json:"tStats"`
}

func toAnalysisResponse(a *models.AnalysisResult) analysisResponse {
	return analysisResponse{
		ID:           a.ID,
		AnalysisDate: a.AnalysisDate,
		Alpha:        a.Alpha,
		BetaMkt:      a.BetaMkt,
		BetaSmb:      a.BetaSmb,
		BetaHml:      a.BetaHml,
		BetaRmw:      a.BetaRmw,
		BetaCma:      a.BetaCma,
		RSquared:     a.RSquared,
		TStats:       a.TStats,
	}
}

func (h *Handler) runAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		h.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	start, err := dateParam(r, "startDate")
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	end, err := dateParam(r, "endDate")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	res, err := h.analyses.Run(r.Context(), id.UserID, start, end)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAnalysisResponse(res))
}

func (h *Handler) analysisHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		h.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	list, err := h.analyses.History(r.Context(), id.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]analysisResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAnalysisResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getAnalysis(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		h.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	resultID, ok := pathID(r)
	if !ok {
		h.writeError(w, r, common.ErrorNotFound)
		return
	}

	res, err := h.analyses.Get(r.Context(), id.UserID, resultID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAnalysisResponse(res))
}

// dateParam reads an optional YYYY-MM-DD query parameter.
func dateParam(r *http.Request, name string) (*time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(common.DateLayout, v)
	if err != nil {
		return nil, common.Validationf("invalid %s %q, expected YYYY-MM-DD", name, v)
	}
	return &t, nil
}
