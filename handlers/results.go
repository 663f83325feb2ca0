// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/veo/cliparse"
	"github.com/danielhkuo/veo/middleware"
	"github.com/danielhkuo/veo/tally"
)

type ResultsHandler struct {
	tally *tally.Service
	cfg   cliparse.Config
}

func NewResultsHandler(svc *tally.Service, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{tally: svc, cfg: cfg}
}

// GetResults handles GET /api/v1/polls/{pollId}/results
// Results are live while the poll is open and final once it closes.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("pollId")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pollId is required")
		return
	}

	t, err := h.tally.Compute(r.Context(), pollID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, t)
}
