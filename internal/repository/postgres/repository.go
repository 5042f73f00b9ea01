package postgres

import (
	"context"
	"fmt"

	"github.com/BloggingApp/moderation-service/internal/config"
	"github.com/BloggingApp/moderation-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const MAX_LIMIT = 50

func maxLimit(limit *int) {
	if *limit <= 0 || *limit > MAX_LIMIT {
		*limit = MAX_LIMIT
	}
}

// PostFilter narrows Find; zero values mean "no constraint". The visibility
// gate is applied by the service before a filter ever reaches here.
type PostFilter struct {
	Status model.Status
	Author string
	Query  string
	Limit  int
	Offset int
}

type Post interface {
	Create(ctx context.Context, post model.Post) (*model.Post, error)
	FindByID(ctx context.Context, id int64) (*model.Post, error)
	Find(ctx context.Context, filter PostFilter) ([]*model.Post, error)
	FindAuthorPosts(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.Post, error)
	UpdateContent(ctx context.Context, id int64, title *string, content *string) (bool, error)
	SetScores(ctx context.Context, id int64, profanityFound *bool, seoScore *float64, aiSimilarityScore *float64, analysisIncomplete bool) error
	SetTags(ctx context.Context, id int64, tags []string) error
	Transition(ctx context.Context, id int64, decide func(current model.Status) (model.Status, error), actor model.Actor, actorName string) (*model.Post, error)
	FindTransitions(ctx context.Context, postID int64) ([]*model.TransitionEntry, error)
}

type Comment interface {
	Create(ctx context.Context, comment model.Comment) (*model.Comment, error)
	FindPostComments(ctx context.Context, postID int64, limit int, offset int) ([]*model.Comment, error)
}

type Follow interface {
	Create(ctx context.Context, followerID uuid.UUID, authorName string) (bool, error)
	Delete(ctx context.Context, followerID uuid.UUID, authorName string) (bool, error)
	Exists(ctx context.Context, followerID uuid.UUID, authorName string) (bool, error)
	CountByAuthor(ctx context.Context, authorName string) (int64, error)
	FindFollowing(ctx context.Context, followerID uuid.UUID) ([]string, error)
}

type PostgresRepository struct {
	Post
	Comment
	Follow
}

func New(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		Post:    newPostRepo(db),
		Comment: newCommentRepo(db),
		Follow:  newFollowRepo(db),
	}
}

func DB(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.SSLMode,
	)
	return pgxpool.New(ctx, dsn)
}
