package model

import (
	"time"

	"github.com/google/uuid"
)

// Post carries a denormalized copy of the author's email and nickname.
// Those copies may lag behind the auth service and are never used for
// access control: ownership is decided by AuthorID only.
type Post struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	IsPublic       bool      `json:"is_public"`
	AuthorID       uuid.UUID `json:"author_id"`
	AuthorEmail    *string   `json:"author_email"`
	AuthorNickname *string   `json:"author_nickname"`
	CreatedAt      time.Time `json:"created_at"`
}

func (p *Post) IsOwnedBy(userID uuid.UUID) bool {
	return p.AuthorID == userID
}

// VisibleTo reports whether requester may read the post. A nil requester is anonymous.
func (p *Post) VisibleTo(requester *Requester) bool {
	if p.IsPublic {
		return true
	}
	return requester != nil && p.IsOwnedBy(requester.ID)
}
