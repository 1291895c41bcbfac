package api

import (
	"net/http"

	"github.com/dmitrijs2005/portfoliorisk/internal/common"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/auth"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type holdingRequest struct {
	Ticker   string           `json:"ticker"`
	Quantity *decimal.Decimal `json:"quantity"`
}

type holdingResponse struct {
	ID       string          `json:"id"`
	Ticker   string          `json:"ticker"`
	Quantity decimal.Decimal `json:"quantity"`
}

func toHoldingResponse(h *models.Holding) holdingResponse {
	return holdingResponse{ID: h.ID, Ticker: h.Ticker, Quantity: h.Quantity}
}

func (h *Handler) listHoldings(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		h.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	list, err := h.holdings.List(r.Context(), id.UserID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]holdingResponse, 0, len(list))
	for _, hl := range list {
		out = append(out, toHoldingResponse(hl))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createHolding(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		h.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	var req holdingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Quantity == nil {
		h.writeError(w, r, common.NewValidationError("quantity is required"))
		return
	}

	hl, err := h.holdings.Create(r.Context(), id.UserID, req.Ticker, *req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toHoldingResponse(hl))
}

// updateHolding changes the quantity; a ticker in the body is ignored.
func (h *Handler) updateHolding(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		h.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	holdingID, ok := pathID(r)
	if !ok {
		h.writeError(w, r, common.ErrorNotFound)
		return
	}

	var req holdingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Quantity == nil {
		h.writeError(w, r, common.NewValidationError("quantity is required"))
		return
	}

	hl, err := h.holdings.Update(r.Context(), id.UserID, holdingID, *req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toHoldingResponse(hl))
}

func (h *Handler) deleteHolding(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(r)
	if !ok {
		h.writeError(w, r, common.ErrorUnauthorized)
		return
	}

	holdingID, ok := pathID(r)
	if !ok {
		h.writeError(w, r, common.ErrorNotFound)
		return
	}

	if err := h.holdings.Delete(r.Context(), id.UserID, holdingID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func identity(r *http.Request) (auth.Identity, bool) {
	return auth.IdentityFromContext(r.Context())
}

// pathID returns the {id} URL parameter if it is a UUID. Anything else
// cannot name a stored row.
func pathID(r *http.Request) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}
