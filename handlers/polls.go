// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/veo/auth"
	"github.com/danielhkuo/veo/cliparse"
	"github.com/danielhkuo/veo/middleware"
	"github.com/danielhkuo/veo/models"
	"github.com/danielhkuo/veo/store"
)

type PollHandler struct {
	store *store.Store
	cfg   cliparse.Config
	now   func() time.Time
}

func NewPollHandler(s *store.Store, cfg cliparse.Config) *PollHandler {
	return &PollHandler{store: s, cfg: cfg, now: time.Now}
}

// CreatePoll handles POST /api/v1/polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.IdentityFrom(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	if req.Ending.IsZero() {
		middleware.WriteError(w, models.Invalid("ending", "ending cannot be null"))
		return
	}
	endingAt := req.Ending.In(location(h.cfg))
	if err := models.ValidateEnding(endingAt, h.now()); err != nil {
		middleware.WriteError(w, err)
		return
	}

	poll := &models.Poll{
		Title:    strings.TrimSpace(req.Title),
		OwnerID:  caller.UserID,
		Options:  optionsFromRequest(req.Options),
		EndingAt: endingAt,
	}

	pollID, err := h.store.CreatePoll(r.Context(), poll)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("poll created", "poll_id", pollID, "owner", caller.UserID, "options", len(poll.Options),
		"ends", humanize.RelTime(poll.EndingAt, h.now(), "ago", "from now"))

	middleware.JSONResponse(w, http.StatusCreated, pollResponse(poll, location(h.cfg), h.now()))
}

// GetPoll handles GET /api/v1/polls/{pollId}
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("pollId")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pollId is required")
		return
	}

	poll, err := h.store.GetPoll(r.Context(), pollID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, pollResponse(poll, location(h.cfg), h.now()))
}

// EditPoll handles PUT /api/v1/polls/edit/{pollId}
// Only the owner may edit. Options are replaced as a whole; options sent
// back with their id keep their votes.
func (h *PollHandler) EditPoll(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.IdentityFrom(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	pollID := r.PathValue("pollId")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pollId is required")
		return
	}

	var req models.EditPollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	patch := models.PollPatch{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		patch.Title = &title
	}
	if req.Options != nil {
		patch.Options = optionsFromRequest(req.Options)
	}
	if req.Ending != nil {
		if req.Ending.IsZero() {
			middleware.WriteError(w, models.Invalid("ending", "ending cannot be null"))
			return
		}
		endingAt := req.Ending.In(location(h.cfg))
		if err := models.ValidateEnding(endingAt, h.now()); err != nil {
			middleware.WriteError(w, err)
			return
		}
		patch.EndingAt = &endingAt
	}

	poll, err := h.store.UpdatePoll(r.Context(), pollID, patch, caller.UserID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	slog.Info("poll edited", "poll_id", pollID, "owner", caller.UserID, "votes", poll.TotalVotes())

	middleware.JSONResponse(w, http.StatusOK, pollResponse(poll, location(h.cfg), h.now()))
}

// ListMyPolls handles GET /api/v1/polls
func (h *PollHandler) ListMyPolls(w http.ResponseWriter, r *http.Request) {
	caller, err := auth.IdentityFrom(r.Context())
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	summaries, err := h.store.ListPollsByOwner(r.Context(), caller.UserID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}

	now := h.now()
	loc := location(h.cfg)
	resp := make([]models.PollSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, models.PollSummaryResponse{
			ID:          s.ID,
			Title:       s.Title,
			Open:        now.Before(s.EndingAt),
			Ending:      models.EndingFrom(s.EndingAt, loc),
			Ends:        humanize.RelTime(s.EndingAt, now, "ago", "from now"),
			OptionCount: s.OptionCount,
			VoteCount:   s.VoteCount,
		})
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
