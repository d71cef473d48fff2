// Package dto holds the JSON response shapes of the HTTP API.
package dto

import "github.com/google/uuid"

// The matcher endpoint keeps the flat wire contract of the original hosted
// function instead of the service envelope, so existing clients keep working.

type MatchResultResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	Headline string    `json:"headline"`
	Location string    `json:"location"`
	Points   int       `json:"points"`

	MatchedSkills     []string `json:"matched_skills"`
	ProficiencyLevels []string `json:"proficiency_levels"`

	MatchScore int `json:"match_score"`
}

type FindMatchesResponse struct {
	Matches       []MatchResultResponse `json:"matches"`
	TotalMatches  int                   `json:"total_matches"`
	HelpRequestID string                `json:"help_request_id"`
}

type MatchErrorResponse struct {
	Error string `json:"error"`
}
