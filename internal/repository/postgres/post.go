package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BloggingApp/moderation-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postRepo struct {
	db *pgxpool.Pool
}

func newPostRepo(db *pgxpool.Pool) Post {
	return &postRepo{
		db: db,
	}
}

func (r *postRepo) Create(ctx context.Context, post model.Post) (*model.Post, error) {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Status = model.StatusPending

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(
		ctx,
		`INSERT INTO posts(author_id, author, title, content, status, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		post.AuthorID,
		post.Author,
		post.Title,
		post.Content,
		post.Status,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID); err != nil {
		return nil, err
	}

	for i, tag := range post.Tags {
		if _, err := tx.Exec(
			ctx,
			"INSERT INTO post_tags(post_id, tag, position) VALUES($1, $2, $3)",
			post.ID,
			tag,
			i,
		); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(
		ctx,
		"INSERT INTO post_status_transitions(post_id, from_status, to_status, actor, actor_name, created_at) VALUES($1, $2, $3, $4, $5, $6)",
		post.ID,
		post.Status,
		post.Status,
		model.ActorPipeline,
		string(model.ActorPipeline),
		now,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &post, nil
}

const postColumns = "p.id, p.author_id, p.author, p.title, p.content, p.status, p.profanity_found, p.seo_score, p.ai_similarity_score, p.analysis_incomplete, p.created_at, p.updated_at"

func scanPost(row pgx.Row) (*model.Post, error) {
	var post model.Post
	if err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.Author,
		&post.Title,
		&post.Content,
		&post.Status,
		&post.ProfanityFound,
		&post.SeoScore,
		&post.AiSimilarityScore,
		&post.AnalysisIncomplete,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepo) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	post, err := scanPost(r.db.QueryRow(
		ctx,
		"SELECT "+postColumns+" FROM posts p WHERE p.id = $1",
		id,
	))
	if err != nil {
		return nil, err
	}

	if err := r.attachTags(ctx, []*model.Post{post}); err != nil {
		return nil, err
	}

	return post, nil
}

func (r *postRepo) Find(ctx context.Context, filter PostFilter) ([]*model.Post, error) {
	maxLimit(&filter.Limit)

	where := []string{}
	args := []interface{}{}
	arg := func(value interface{}) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		where = append(where, "p.status = "+arg(filter.Status))
	}
	if filter.Author != "" {
		where = append(where, "p.author = "+arg(filter.Author))
	}
	if filter.Query != "" {
		where = append(where, "(p.title ILIKE "+arg("%"+filter.Query+"%")+" OR p.content ILIKE "+arg("%"+filter.Query+"%")+")")
	}

	query := "SELECT " + postColumns + " FROM posts p"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.created_at DESC, p.id DESC LIMIT " + arg(filter.Limit) + " OFFSET " + arg(filter.Offset)

	return r.findMany(ctx, query, args...)
}

func (r *postRepo) FindAuthorPosts(ctx context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.Post, error) {
	maxLimit(&limit)

	return r.findMany(
		ctx,
		"SELECT "+postColumns+" FROM posts p WHERE p.author_id = $1 ORDER BY p.created_at DESC, p.id DESC LIMIT $2 OFFSET $3",
		authorID,
		limit,
		offset,
	)
}

func (r *postRepo) findMany(ctx context.Context, query string, args ...interface{}) ([]*model.Post, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachTags(ctx, posts); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepo) attachTags(ctx context.Context, posts []*model.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(posts))
	postMap := make(map[int64]*model.Post, len(posts))
	for _, post := range posts {
		ids = append(ids, post.ID)
		postMap[post.ID] = post
	}

	rows, err := r.db.Query(
		ctx,
		"SELECT post_id, tag FROM post_tags WHERE post_id = ANY($1) ORDER BY post_id, position",
		ids,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID int64
			tag    string
		)
		if err := rows.Scan(&postID, &tag); err != nil {
			return err
		}
		postMap[postID].Tags = append(postMap[postID].Tags, tag)
	}

	return rows.Err()
}

func (r *postRepo) UpdateContent(ctx context.Context, id int64, title *string, content *string) (bool, error) {
	result, err := r.db.Exec(
		ctx,
		`UPDATE posts SET
		title = COALESCE($2, title),
		content = COALESCE($3, content),
		updated_at = $4
		WHERE id = $1 AND status IN ($5, $6)`,
		id,
		title,
		content,
		time.Now(),
		model.StatusPending,
		model.StatusProcessing,
	)
	if err != nil {
		return false, err
	}

	return result.RowsAffected() > 0, nil
}

func (r *postRepo) SetScores(ctx context.Context, id int64, profanityFound *bool, seoScore *float64, aiSimilarityScore *float64, analysisIncomplete bool) error {
	_, err := r.db.Exec(
		ctx,
		`UPDATE posts SET
		profanity_found = $2,
		seo_score = $3,
		ai_similarity_score = $4,
		analysis_incomplete = $5,
		updated_at = $6
		WHERE id = $1`,
		id,
		profanityFound,
		seoScore,
		aiSimilarityScore,
		analysisIncomplete,
		time.Now(),
	)
	return err
}

func (r *postRepo) SetTags(ctx context.Context, id int64, tags []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM post_tags WHERE post_id = $1", id); err != nil {
		return err
	}

	for i, tag := range tags {
		if _, err := tx.Exec(
			ctx,
			"INSERT INTO post_tags(post_id, tag, position) VALUES($1, $2, $3)",
			id,
			tag,
			i,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Transition serializes status changes on one post: the row lock is held
// while decide inspects the current status, so a racing caller re-reads the
// winner's result before its own edge is judged.
func (r *postRepo) Transition(ctx context.Context, id int64, decide func(current model.Status) (model.Status, error), actor model.Actor, actorName string) (*model.Post, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var current model.Status
	if err := tx.QueryRow(
		ctx,
		"SELECT status FROM posts WHERE id = $1 FOR UPDATE",
		id,
	).Scan(&current); err != nil {
		return nil, err
	}

	target, err := decide(current)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if _, err := tx.Exec(
		ctx,
		"UPDATE posts SET status = $2, updated_at = $3 WHERE id = $1",
		id,
		target,
		now,
	); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(
		ctx,
		"INSERT INTO post_status_transitions(post_id, from_status, to_status, actor, actor_name, created_at) VALUES($1, $2, $3, $4, $5, $6)",
		id,
		current,
		target,
		actor,
		actorName,
		now,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.FindByID(ctx, id)
}

func (r *postRepo) FindTransitions(ctx context.Context, postID int64) ([]*model.TransitionEntry, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, post_id, from_status, to_status, actor, actor_name, created_at
		FROM post_status_transitions
		WHERE post_id = $1
		ORDER BY id`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*model.TransitionEntry
	for rows.Next() {
		var entry model.TransitionEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.PostID,
			&entry.FromStatus,
			&entry.ToStatus,
			&entry.Actor,
			&entry.ActorName,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
