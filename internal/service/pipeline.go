package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/BloggingApp/moderation-service/internal/dto"
	"github.com/BloggingApp/moderation-service/internal/model"
	"github.com/BloggingApp/moderation-service/internal/rabbitmq"
	"github.com/BloggingApp/moderation-service/internal/repository"
	"github.com/BloggingApp/moderation-service/internal/repository/redisrepo"
	"github.com/BloggingApp/moderation-service/internal/scoring"
	"github.com/jackc/pgx/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	aiSimilarityRejectThreshold = 0.85
	seoReviewThreshold          = 40.0

	defaultMaxAttempts   = 3
	defaultEngineTimeout = time.Second * 20
	generatedTagsLimit   = 5
)

type pipelineService struct {
	logger        *zap.Logger
	repo          *repository.Repository
	broker        Broker
	engines       *scoring.Engines
	maxAttempts   int
	engineTimeout time.Duration
}

func newPipelineService(logger *zap.Logger, repo *repository.Repository, broker Broker, engines *scoring.Engines) Pipeline {
	maxAttempts := viper.GetInt("pipeline.max-attempts")
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	engineTimeout := viper.GetDuration("pipeline.engine-timeout")
	if engineTimeout <= 0 {
		engineTimeout = defaultEngineTimeout
	}

	return &pipelineService{
		logger:        logger,
		repo:          repo,
		broker:        broker,
		engines:       engines,
		maxAttempts:   maxAttempts,
		engineTimeout: engineTimeout,
	}
}

// decide maps a complete score triple to the single automatic status; first
// matching rule wins.
func decide(profanityFound bool, seoScore float64, aiSimilarityScore float64) model.Status {
	if profanityFound {
		return model.StatusRejected
	}
	if aiSimilarityScore >= aiSimilarityRejectThreshold {
		return model.StatusRejected
	}
	if seoScore < seoReviewThreshold {
		return model.StatusReview
	}
	return model.StatusApproved
}

type engineResults struct {
	profanityFound    *bool
	seoScore          *float64
	aiSimilarityScore *float64
}

func (r *engineResults) complete() bool {
	return r.profanityFound != nil && r.seoScore != nil && r.aiSimilarityScore != nil
}

// Process runs one scoring attempt for a submitted post. Engine failures
// never escape to the submitter: the job is republished with a spent
// attempt, and once the budget is gone the post escalates to REVIEW so a
// human always has a path to resolve it.
func (s *pipelineService) Process(ctx context.Context, job dto.MQScoringJobMsg) error {
	post, err := s.repo.Postgres.Post.FindByID(ctx, job.PostID)
	if err != nil {
		if err == pgx.ErrNoRows {
			s.logger.Sugar().Errorf("scoring job references unknown post(%d)", job.PostID)
			return nil
		}
		return err
	}

	switch post.Status {
	case model.StatusPending:
		if _, err := s.transition(ctx, post.ID, model.StatusProcessing); err != nil {
			return err
		}
	case model.StatusProcessing:
		// retry attempt, already marked
	default:
		// already decided, nothing to do
		return nil
	}

	results := s.runEngines(ctx, post.Title, post.Content)

	if len(post.Tags) == 0 {
		if tags := s.engines.Tags.Generate(post.Title, post.Content, generatedTagsLimit); len(tags) > 0 {
			if err := s.repo.Postgres.Post.SetTags(ctx, post.ID, tags); err != nil {
				s.logger.Sugar().Errorf("failed to set generated tags for post(%d): %s", post.ID, err.Error())
			}
		}
	}

	if !results.complete() {
		return s.handleIncomplete(ctx, post, job, results)
	}

	if err := s.repo.Postgres.Post.SetScores(ctx, post.ID, results.profanityFound, results.seoScore, results.aiSimilarityScore, false); err != nil {
		return err
	}

	target := decide(*results.profanityFound, *results.seoScore, *results.aiSimilarityScore)
	decided, err := s.transition(ctx, post.ID, target)
	if err != nil {
		return err
	}

	s.invalidatePost(ctx, post.ID)

	if target == model.StatusApproved {
		s.publishApproved(ctx, decided)
	}

	return nil
}

// runEngines fans the three scoring calls out concurrently and joins before
// the decision; a timed-out engine simply leaves its slot nil.
func (s *pipelineService) runEngines(ctx context.Context, title string, content string) engineResults {
	var (
		results engineResults
		wg      sync.WaitGroup
	)

	wg.Add(3)

	go func() {
		defer wg.Done()
		engineCtx, cancel := context.WithTimeout(ctx, s.engineTimeout)
		defer cancel()
		found, err := s.engines.Profanity.Detect(engineCtx, title, content)
		if err != nil {
			s.logger.Sugar().Errorf("profanity engine failed: %s", err.Error())
			return
		}
		results.profanityFound = &found
	}()

	go func() {
		defer wg.Done()
		engineCtx, cancel := context.WithTimeout(ctx, s.engineTimeout)
		defer cancel()
		score, err := s.engines.Seo.Score(engineCtx, title, content)
		if err != nil {
			s.logger.Sugar().Errorf("seo engine failed: %s", err.Error())
			return
		}
		results.seoScore = &score
	}()

	go func() {
		defer wg.Done()
		engineCtx, cancel := context.WithTimeout(ctx, s.engineTimeout)
		defer cancel()
		score, err := s.engines.Similarity.Score(engineCtx, title, content)
		if err != nil {
			s.logger.Sugar().Errorf("similarity engine failed: %s", err.Error())
			return
		}
		results.aiSimilarityScore = &score
	}()

	wg.Wait()
	return results
}

func (s *pipelineService) handleIncomplete(ctx context.Context, post *model.Post, job dto.MQScoringJobMsg, results engineResults) error {
	attempts := job.Attempts + 1

	exhausted := attempts >= s.maxAttempts
	if err := s.repo.Postgres.Post.SetScores(ctx, post.ID, results.profanityFound, results.seoScore, results.aiSimilarityScore, exhausted); err != nil {
		return err
	}

	if exhausted {
		s.logger.Sugar().Errorf("scoring for post(%d) failed %d times, escalating to review", post.ID, attempts)
		if _, err := s.transition(ctx, post.ID, model.StatusReview); err != nil {
			return err
		}
		s.invalidatePost(ctx, post.ID)
		return nil
	}

	retry := dto.MQScoringJobMsg{
		PostID:      job.PostID,
		Attempts:    attempts,
		SubmittedAt: job.SubmittedAt,
	}
	retryJSON, err := json.Marshal(retry)
	if err != nil {
		return err
	}
	return s.broker.PublishJSON(ctx, rabbitmq.POST_SUBMITTED_QUEUE, retryJSON)
}

func (s *pipelineService) transition(ctx context.Context, postID int64, target model.Status) (*model.Post, error) {
	return s.repo.Postgres.Post.Transition(ctx, postID, func(current model.Status) (model.Status, error) {
		if !model.CanTransition(current, target, model.ActorPipeline) {
			return "", ErrInvalidTransition
		}
		return target, nil
	}, model.ActorPipeline, string(model.ActorPipeline))
}

func (s *pipelineService) publishApproved(ctx context.Context, post *model.Post) {
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

func (s *pipelineService) invalidatePost(ctx context.Context, id int64) {
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostKey(id)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%d) from redis: %s", id, err.Error())
	}
}

// StartConsume drains scoring jobs until the channel closes. Each job is a
// goroutine so one slow post never blocks another's processing.
func (s *pipelineService) StartConsume(ctx context.Context) {
	queue := rabbitmq.POST_SUBMITTED_QUEUE
	msgs, err := s.broker.Consume(queue)
	if err != nil {
		s.logger.Sugar().Fatalf("failed to start consuming queue(%s): %s", queue, err.Error())
	}

	for msg := range msgs {
		var job dto.MQScoringJobMsg
		if err := json.Unmarshal(msg.Body, &job); err != nil {
			s.logger.Sugar().Errorf("failed to unmarshal json in queue(%s): %s", queue, err.Error())
			msg.Nack(false, false)
			continue
		}

		go func(msg amqp.Delivery, job dto.MQScoringJobMsg) {
			if err := s.Process(ctx, job); err != nil {
				s.logger.Sugar().Errorf("failed to process scoring job for post(%d): %s", job.PostID, err.Error())
				msg.Nack(false, true)
				return
			}
			msg.Ack(false)
		}(msg, job)
	}
}
