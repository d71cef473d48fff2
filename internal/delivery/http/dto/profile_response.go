package dto

import "github.com/google/uuid"

type ProfileResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	Headline string    `json:"headline"`
	Location string    `json:"location"`
	Points   int       `json:"points"`
}
