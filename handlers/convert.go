// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"strings"
	"time"

	"github.com/danielhkuo/veo/cliparse"
	"github.com/danielhkuo/veo/models"
)

func location(cfg cliparse.Config) *time.Location {
	if cfg.Location == nil {
		return time.UTC
	}
	return cfg.Location
}

func optionsFromRequest(reqs []models.OptionRequest) []models.Option {
	options := make([]models.Option, 0, len(reqs))
	for _, o := range reqs {
		options = append(options, models.Option{
			ID:   strings.TrimSpace(o.ID),
			Name: strings.TrimSpace(o.Name),
		})
	}
	return options
}

func pollResponse(p *models.Poll, loc *time.Location, now time.Time) models.PollResponse {
	options := make([]models.OptionResponse, 0, len(p.Options))
	for _, o := range p.Options {
		votes := o.Votes
		if votes == nil {
			votes = []string{}
		}
		options = append(options, models.OptionResponse{ID: o.ID, Name: o.Name, Votes: votes})
	}

	return models.PollResponse{
		ID:      p.ID,
		Title:   p.Title,
		User:    p.OwnerID,
		Options: options,
		Ending:  models.EndingFrom(p.EndingAt, loc),
		Open:    p.IsOpen(now),
	}
}
