package dto

import (
	"time"

	"github.com/google/uuid"
)

type MQUserInfoUpdatedMsg struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	UpdatedAt time.Time `json:"updated_at"`
}
