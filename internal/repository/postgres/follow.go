package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type followRepo struct {
	db *pgxpool.Pool
}

func newFollowRepo(db *pgxpool.Pool) Follow {
	return &followRepo{
		db: db,
	}
}

// Create is idempotent: the unique (follower_id, author_name) index absorbs
// duplicate follows. Returns whether a new edge was actually written.
func (r *followRepo) Create(ctx context.Context, followerID uuid.UUID, authorName string) (bool, error) {
	result, err := r.db.Exec(
		ctx,
		"INSERT INTO follows(follower_id, author_name, created_at) VALUES($1, $2, $3) ON CONFLICT (follower_id, author_name) DO NOTHING",
		followerID,
		authorName,
		time.Now(),
	)
	if err != nil {
		return false, err
	}

	return result.RowsAffected() > 0, nil
}

func (r *followRepo) Delete(ctx context.Context, followerID uuid.UUID, authorName string) (bool, error) {
	result, err := r.db.Exec(
		ctx,
		"DELETE FROM follows WHERE follower_id = $1 AND author_name = $2",
		followerID,
		authorName,
	)
	if err != nil {
		return false, err
	}

	return result.RowsAffected() > 0, nil
}

func (r *followRepo) Exists(ctx context.Context, followerID uuid.UUID, authorName string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND author_name = $2)",
		followerID,
		authorName,
	).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// CountByAuthor derives the follower count from the edge set every time;
// there is no stored counter to drift.
func (r *followRepo) CountByAuthor(ctx context.Context, authorName string) (int64, error) {
	var count int64
	if err := r.db.QueryRow(
		ctx,
		"SELECT COUNT(*) FROM follows WHERE author_name = $1",
		authorName,
	).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *followRepo) FindFollowing(ctx context.Context, followerID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(
		ctx,
		"SELECT author_name FROM follows WHERE follower_id = $1 ORDER BY created_at DESC",
		followerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []string
	for rows.Next() {
		var author string
		if err := rows.Scan(&author); err != nil {
			return nil, err
		}
		authors = append(authors, author)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return authors, nil
}
