package service

import (
	"context"
	"strconv"
	"time"

	"github.com/BloggingApp/moderation-service/internal/model"
	"github.com/BloggingApp/moderation-service/internal/repository"
	"github.com/BloggingApp/moderation-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type followService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newFollowService(logger *zap.Logger, repo *repository.Repository) Follow {
	return &followService{
		logger: logger,
		repo:   repo,
	}
}

func (s *followService) Follow(ctx context.Context, caller model.Caller, authorName string) error {
	if caller.Username == authorName {
		return ErrInvalidOperation
	}

	created, err := s.repo.Postgres.Follow.Create(ctx, caller.ID, authorName)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create follow edge(%s -> %s): %s", caller.ID.String(), authorName, err.Error())
		return ErrInternal
	}

	// Duplicate follows are a no-op; the count cache only moves when an
	// edge actually did.
	if created {
		s.invalidateCount(ctx, authorName)
	}

	return nil
}

func (s *followService) Unfollow(ctx context.Context, caller model.Caller, authorName string) error {
	deleted, err := s.repo.Postgres.Follow.Delete(ctx, caller.ID, authorName)
	if err != nil {
		s.logger.Sugar().Errorf("failed to delete follow edge(%s -> %s): %s", caller.ID.String(), authorName, err.Error())
		return ErrInternal
	}

	if deleted {
		s.invalidateCount(ctx, authorName)
	}

	return nil
}

func (s *followService) IsFollowing(ctx context.Context, followerID uuid.UUID, authorName string) (bool, error) {
	following, err := s.repo.Postgres.Follow.Exists(ctx, followerID, authorName)
	if err != nil {
		s.logger.Sugar().Errorf("failed to check follow edge(%s -> %s): %s", followerID.String(), authorName, err.Error())
		return false, ErrInternal
	}
	return following, nil
}

func (s *followService) CountFollowers(ctx context.Context, authorName string) (int64, error) {
	cached, err := s.repo.Redis.Default.Get(ctx, redisrepo.FollowerCountKey(authorName)).Result()
	if err == nil {
		count, parseErr := strconv.ParseInt(cached, 10, 64)
		if parseErr == nil {
			return count, nil
		}
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get author(%s) follower count from redis: %s", authorName, err.Error())
	}

	count, err := s.repo.Postgres.Follow.CountByAuthor(ctx, authorName)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count author(%s) followers: %s", authorName, err.Error())
		return 0, ErrInternal
	}

	if err := s.repo.Redis.Default.Set(ctx, redisrepo.FollowerCountKey(authorName), count, time.Hour); err != nil {
		s.logger.Sugar().Errorf("failed to set author(%s) follower count in redis: %s", authorName, err.Error())
	}

	return count, nil
}

func (s *followService) FindFollowing(ctx context.Context, followerID uuid.UUID) ([]string, error) {
	authors, err := s.repo.Postgres.Follow.FindFollowing(ctx, followerID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s) following: %s", followerID.String(), err.Error())
		return nil, ErrInternal
	}

	if authors == nil {
		authors = []string{}
	}
	return authors, nil
}

func (s *followService) invalidateCount(ctx context.Context, authorName string) {
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.FollowerCountKey(authorName)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete author(%s) follower count from redis: %s", authorName, err.Error())
	}
}
