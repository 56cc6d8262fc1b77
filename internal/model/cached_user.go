package model

import (
	"time"

	"github.com/google/uuid"
)

const CachedUserSyncThreshold = time.Hour

type CachedUser struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Nickname     string    `json:"nickname"`
	LastSyncedAt time.Time `json:"last_synced_at"`
}

func (u *CachedUser) IsStale(now time.Time) bool {
	return now.Sub(u.LastSyncedAt) > CachedUserSyncThreshold
}

// Requester is the identity the auth service vouches for on the current request.
type Requester struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Nickname string    `json:"nickname"`
}
