package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/portfoliorisk/internal/common"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/analysisclient"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

const (
	msgNotFound    = "not found"
	msgUnavailable = "factor analysis service is unavailable"
)

type errorBody struct {
	Error string `json:"error,omitempty"`
}

type statusBody struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError translates a service error into a status and body. It is the
// only place domain errors become HTTP responses.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var ve *common.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: ve.Message})
		return
	}

	if de, ok := analysisclient.AsDownstreamError(err); ok {
		switch de.Kind {
		case analysisclient.KindBadRequest:
			writeJSON(w, http.StatusBadRequest, errorBody{Error: de.Message})
		case analysisclient.KindNotFound:
			writeJSON(w, http.StatusNotFound, errorBody{Error: de.Message})
		default:
			h.logger.Error(ctx, "analysis engine unavailable", "status", de.StatusCode, "error", de.Message)
			writeJSON(w, http.StatusBadGateway, errorBody{Error: msgUnavailable})
		}
		return
	}

	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorBody{})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: msgNotFound})
	default:
		h.logger.Error(ctx, "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: common.ErrorInternal.Error()})
	}
}

// decodeJSON reads a JSON body into dst. Malformed input is a validation
// error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.NewValidationError("malformed request body")
	}
	return nil
}
