package service

import (
	"context"

	"github.com/BloggingApp/moderation-service/internal/dto"
	"github.com/BloggingApp/moderation-service/internal/model"
	"github.com/BloggingApp/moderation-service/internal/repository"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type commentService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newCommentService(logger *zap.Logger, repo *repository.Repository) Comment {
	return &commentService{
		logger: logger,
		repo:   repo,
	}
}

func (s *commentService) Create(ctx context.Context, caller model.Caller, postID int64, req dto.CreateCommentRequest) (*model.Comment, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !model.IsCommentable(post.Status) {
		return nil, ErrNotCommentable
	}

	comment := model.Comment{
		PostID:   postID,
		AuthorID: caller.ID,
		Author:   caller.Username,
		Content:  req.Content,
	}

	createdComment, err := s.repo.Postgres.Comment.Create(ctx, comment)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) comment on post(%d): %s", caller.ID.String(), postID, err.Error())
		return nil, ErrInternal
	}

	return createdComment, nil
}

func (s *commentService) FindPostComments(ctx context.Context, caller *model.Caller, postID int64, limit int, offset int) ([]*model.Comment, error) {
	post, err := s.findPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !model.IsReadable(post, caller) {
		return nil, ErrNotVisible
	}

	comments, err := s.repo.Postgres.Comment.FindPostComments(ctx, postID, limit, offset)
	if err != nil && err != pgx.ErrNoRows {
		s.logger.Sugar().Errorf("failed to find post(%d) comments: %s", postID, err.Error())
		return nil, ErrInternal
	}

	if comments == nil {
		comments = []*model.Comment{}
	}
	return comments, nil
}

func (s *commentService) findPost(ctx context.Context, postID int64) (*model.Post, error) {
	post, err := s.repo.Postgres.Post.FindByID(ctx, postID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%d) from postgres: %s", postID, err.Error())
		return nil, ErrInternal
	}
	return post, nil
}
