package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/BloggingApp/moderation-service/internal/dto"
	"github.com/BloggingApp/moderation-service/internal/model"
	"github.com/BloggingApp/moderation-service/internal/rabbitmq"
	"github.com/BloggingApp/moderation-service/internal/repository"
	"github.com/BloggingApp/moderation-service/internal/repository/postgres"
	"github.com/BloggingApp/moderation-service/internal/repository/redisrepo"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// PostQuery is the listing request after the handler has parsed it; the
// service applies the visibility gate before handing it to the repository.
type PostQuery struct {
	Status model.Status
	Author string
	Query  string
	Limit  int
	Offset int
}

type postService struct {
	logger *zap.Logger
	repo   *repository.Repository
	broker Broker
}

func newPostService(logger *zap.Logger, repo *repository.Repository, broker Broker) Post {
	return &postService{
		logger: logger,
		repo:   repo,
		broker: broker,
	}
}

func (s *postService) Submit(ctx context.Context, caller model.Caller, req dto.CreatePostRequest) (*model.Post, error) {
	post := model.Post{
		AuthorID: caller.ID,
		Author:   caller.Username,
		Title:    req.Title,
		Content:  req.Content,
		Tags:     model.NormalizeTags(req.Tags),
	}

	createdPost, err := s.repo.Postgres.Post.Create(ctx, post)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) post: %s", caller.ID.String(), err.Error())
		return nil, ErrInternal
	}

	job := dto.MQScoringJobMsg{
		PostID:      createdPost.ID,
		Attempts:    0,
		SubmittedAt: createdPost.CreatedAt,
	}
	jobJSON, err := json.Marshal(job)
	if err != nil {
		s.logger.Sugar().Errorf("failed to marshal scoring job for post(%d): %s", createdPost.ID, err.Error())
		return nil, ErrInternal
	}
	if err := s.broker.PublishJSON(ctx, rabbitmq.POST_SUBMITTED_QUEUE, jobJSON); err != nil {
		s.logger.Sugar().Errorf("failed to publish scoring job for post(%d): %s", createdPost.ID, err.Error())
		return nil, ErrInternal
	}

	return createdPost, nil
}

func (s *postService) FindByID(ctx context.Context, caller *model.Caller, id int64) (*model.Post, error) {
	post, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !model.IsReadable(post, caller) {
		return nil, ErrNotVisible
	}

	return post, nil
}

// findByID is the ungated cache-aside read used internally by the comment
// gate and the moderator paths.
func (s *postService) findByID(ctx context.Context, id int64) (*model.Post, error) {
	cachedPost, err := redisrepo.Get[model.Post](s.repo.Redis.Default, ctx, redisrepo.PostKey(id))
	if err == nil && cachedPost != nil {
		return cachedPost, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get post(%d) from redis: %s", id, err.Error())
	}

	post, err := s.repo.Postgres.Post.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%d) from postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.PostKey(id), post, time.Hour); err != nil {
		s.logger.Sugar().Errorf("failed to set post(%d) in redis: %s", id, err.Error())
	}

	return post, nil
}

func (s *postService) Find(ctx context.Context, caller *model.Caller, query PostQuery) ([]*model.Post, error) {
	// Visibility gate before any other filter: unprivileged callers see
	// listable posts only, plus their own regardless of status.
	if caller == nil || !caller.Moderator() {
		ownQuery := caller != nil && query.Author == caller.Username
		if !ownQuery {
			if query.Status != "" && !model.IsListable(query.Status) {
				return []*model.Post{}, nil
			}
			query.Status = model.StatusApproved
		}
	}

	posts, err := s.repo.Postgres.Post.Find(ctx, postgres.PostFilter{
		Status: query.Status,
		Author: query.Author,
		Query:  query.Query,
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil && err != pgx.ErrNoRows {
		s.logger.Sugar().Errorf("failed to find posts: %s", err.Error())
		return nil, ErrInternal
	}

	if posts == nil {
		posts = []*model.Post{}
	}
	return posts, nil
}

// FindMy lists the caller's own posts in every status, for the profile view
// where drafts still in moderation sit next to published ones.
func (s *postService) FindMy(ctx context.Context, caller model.Caller, limit int, offset int) ([]*model.Post, error) {
	posts, err := s.repo.Postgres.Post.FindAuthorPosts(ctx, caller.ID, limit, offset)
	if err != nil && err != pgx.ErrNoRows {
		s.logger.Sugar().Errorf("failed to find user(%s) posts: %s", caller.ID.String(), err.Error())
		return nil, ErrInternal
	}

	if posts == nil {
		posts = []*model.Post{}
	}
	return posts, nil
}

func (s *postService) Edit(ctx context.Context, caller model.Caller, req dto.EditPostRequest) (*model.Post, error) {
	post, err := s.repo.Postgres.Post.FindByID(ctx, req.ID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%d) from postgres: %s", req.ID, err.Error())
		return nil, ErrInternal
	}

	if post.AuthorID != caller.ID {
		return nil, ErrInvalidOperation
	}

	// Edits are only legal before scoring settles; the conditional UPDATE
	// re-checks the status so a decision landing mid-request still wins.
	updated, err := s.repo.Postgres.Post.UpdateContent(ctx, req.ID, req.Title, req.Content)
	if err != nil {
		s.logger.Sugar().Errorf("failed to update post(%d) content: %s", req.ID, err.Error())
		return nil, ErrInternal
	}
	if !updated {
		return nil, ErrPostNotEditable
	}

	s.invalidatePost(ctx, req.ID)

	return s.repo.Postgres.Post.FindByID(ctx, req.ID)
}

func (s *postService) Approve(ctx context.Context, caller model.Caller, id int64) (*model.Post, error) {
	return s.moderate(ctx, caller, id, model.StatusApproved)
}

func (s *postService) Reject(ctx context.Context, caller model.Caller, id int64) (*model.Post, error) {
	return s.moderate(ctx, caller, id, model.StatusRejected)
}

func (s *postService) PutUnderReview(ctx context.Context, caller model.Caller, id int64) (*model.Post, error) {
	return s.moderate(ctx, caller, id, model.StatusReview)
}

func (s *postService) moderate(ctx context.Context, caller model.Caller, id int64, target model.Status) (*model.Post, error) {
	post, err := s.repo.Postgres.Post.Transition(ctx, id, func(current model.Status) (model.Status, error) {
		if !model.CanTransition(current, target, model.ActorModerator) {
			return "", ErrInvalidTransition
		}
		return target, nil
	}, model.ActorModerator, caller.Username)
	if err != nil {
		if err == ErrInvalidTransition {
			return nil, err
		}
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		s.logger.Sugar().Errorf("failed to transition post(%d) to %s: %s", id, target, err.Error())
		return nil, ErrInternal
	}

	s.invalidatePost(ctx, id)

	if target == model.StatusApproved {
		s.publishApproved(ctx, post)
	}

	return post, nil
}

func (s *postService) FindTransitions(ctx context.Context, id int64) ([]*model.TransitionEntry, error) {
	entries, err := s.repo.Postgres.Post.FindTransitions(ctx, id)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d) transitions: %s", id, err.Error())
		return nil, ErrInternal
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}
	return entries, nil
}

func (s *postService) publishApproved(ctx context.Context, post *model.Post) {
	msg := dto.MQPostApprovedMsg{
		PostID:     post.ID,
		Author:     post.Author,
		PostTitle:  post.Title,
		ApprovedAt: post.UpdatedAt,
	}
	msgJSON, err := json.Marshal(msg)
	if err != nil {
		s.logger.Sugar().Errorf("failed to marshal approved msg for post(%d): %s", post.ID, err.Error())
		return
	}
	if err := s.broker.PublishJSON(ctx, rabbitmq.POST_APPROVED_QUEUE, msgJSON); err != nil {
		s.logger.Sugar().Errorf("failed to publish approved msg for post(%d): %s", post.ID, err.Error())
	}
}

func (s *postService) invalidatePost(ctx context.Context, id int64) {
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostKey(id)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%d) from redis: %s", id, err.Error())
	}
}
