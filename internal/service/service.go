package service

import (
	"context"

	"github.com/BloggingApp/moderation-service/internal/dto"
	"github.com/BloggingApp/moderation-service/internal/model"
	"github.com/BloggingApp/moderation-service/internal/repository"
	"github.com/BloggingApp/moderation-service/internal/scoring"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Broker is the slice of the RabbitMQ connection the services use; the
// concrete *rabbitmq.MQConn satisfies it.
type Broker interface {
	PublishJSON(ctx context.Context, queue string, body []byte) error
	Consume(queue string) (<-chan amqp.Delivery, error)
}

type Post interface {
	Submit(ctx context.Context, caller model.Caller, req dto.CreatePostRequest) (*model.Post, error)
	FindByID(ctx context.Context, caller *model.Caller, id int64) (*model.Post, error)
	Find(ctx context.Context, caller *model.Caller, filter PostQuery) ([]*model.Post, error)
	FindMy(ctx context.Context, caller model.Caller, limit int, offset int) ([]*model.Post, error)
	Edit(ctx context.Context, caller model.Caller, req dto.EditPostRequest) (*model.Post, error)
	Approve(ctx context.Context, caller model.Caller, id int64) (*model.Post, error)
	Reject(ctx context.Context, caller model.Caller, id int64) (*model.Post, error)
	PutUnderReview(ctx context.Context, caller model.Caller, id int64) (*model.Post, error)
	FindTransitions(ctx context.Context, id int64) ([]*model.TransitionEntry, error)
}

type Pipeline interface {
	Process(ctx context.Context, job dto.MQScoringJobMsg) error
	StartConsume(ctx context.Context)
}

type Comment interface {
	Create(ctx context.Context, caller model.Caller, postID int64, req dto.CreateCommentRequest) (*model.Comment, error)
	FindPostComments(ctx context.Context, caller *model.Caller, postID int64, limit int, offset int) ([]*model.Comment, error)
}

type Follow interface {
	Follow(ctx context.Context, caller model.Caller, authorName string) error
	Unfollow(ctx context.Context, caller model.Caller, authorName string) error
	IsFollowing(ctx context.Context, followerID uuid.UUID, authorName string) (bool, error)
	CountFollowers(ctx context.Context, authorName string) (int64, error)
	FindFollowing(ctx context.Context, followerID uuid.UUID) ([]string, error)
}

type Service struct {
	Post
	Pipeline
	Comment
	Follow
}

func New(logger *zap.Logger, repo *repository.Repository, broker Broker, engines *scoring.Engines) *Service {
	return &Service{
		Post:     newPostService(logger, repo, broker),
		Pipeline: newPipelineService(logger, repo, broker, engines),
		Comment:  newCommentService(logger, repo),
		Follow:   newFollowService(logger, repo),
	}
}

func (s *Service) StartConsumeAll(ctx context.Context) {
	go s.Pipeline.StartConsume(ctx)
}
