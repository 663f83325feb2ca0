// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/veo/auth"
	"github.com/danielhkuo/veo/cliparse"
	"github.com/danielhkuo/veo/middleware"
	"github.com/danielhkuo/veo/models"
	"github.com/danielhkuo/veo/voting"
)

type VotingHandler struct {
	engine *voting.Engine
	cfg    cliparse.Config
}

func NewVotingHandler(engine *voting.Engine, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{engine: engine, cfg: cfg}
}

// Vote handles POST /api/v1/polls/{pollId}/vote/{optionId}
// The body is ignored; the voter is the authenticated caller.
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.IdentityFrom(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	pollID := r.PathValue("pollId")
	optionID := r.PathValue("optionId")
	if pollID == "" || optionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pollId and optionId are required")
		return
	}

	if err := h.engine.Vote(r.Context(), pollID, optionID, caller.UserID); err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		Status:  "accepted",
		Message: "vote recorded",
	})
}
