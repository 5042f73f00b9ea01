package model

import (
	"time"

	"github.com/google/uuid"
)

// FollowerEdge is a single follower-to-author relationship. The
// (FollowerID, AuthorName) pair is unique; follower counts are derived from
// the edge set, never stored as a counter.
type FollowerEdge struct {
	ID         int64     `json:"id"`
	FollowerID uuid.UUID `json:"followerId"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
}
