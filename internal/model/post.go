package model

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID                 int64     `json:"id"`
	AuthorID           uuid.UUID `json:"authorId"`
	Author             string    `json:"author"`
	Title              string    `json:"title"`
	Content            string    `json:"content"`
	Tags               []string  `json:"tags"`
	Status             Status    `json:"status"`
	ProfanityFound     *bool     `json:"profanityFound"`
	SeoScore           *float64  `json:"seoScore"`
	AiSimilarityScore  *float64  `json:"aiSimilarityScore"`
	AnalysisIncomplete bool      `json:"analysisIncomplete"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Scored reports whether the pipeline has produced all three results.
// Partially-populated scores are only ever visible while a post sits in
// PROCESSING after an engine failure.
func (p *Post) Scored() bool {
	return p.ProfanityFound != nil && p.SeoScore != nil && p.AiSimilarityScore != nil
}

// TransitionEntry is one row of the append-only status audit ledger. The
// post's current status is always the latest entry for its id.
type TransitionEntry struct {
	ID         int64     `json:"id"`
	PostID     int64     `json:"postId"`
	FromStatus Status    `json:"fromStatus"`
	ToStatus   Status    `json:"toStatus"`
	Actor      Actor     `json:"actor"`
	ActorName  string    `json:"actorName"`
	CreatedAt  time.Time `json:"createdAt"`
}
