package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/BloggingApp/moderation-service/internal/model"
	"github.com/BloggingApp/moderation-service/internal/repository"
	"github.com/BloggingApp/moderation-service/internal/repository/postgres"
	"github.com/BloggingApp/moderation-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

// fakePostRepo is an in-memory postgres.Post with the same locking
// discipline as the real one: Transition holds the store lock while the
// decide callback inspects the current status.
type fakePostRepo struct {
	mu          sync.Mutex
	posts       map[int64]*model.Post
	transitions map[int64][]*model.TransitionEntry
	nextID      int64
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:       make(map[int64]*model.Post),
		transitions: make(map[int64][]*model.TransitionEntry),
	}
}

func copyPost(post *model.Post) *model.Post {
	copied := *post
	copied.Tags = append([]string(nil), post.Tags...)
	return &copied
}

func (r *fakePostRepo) Create(_ context.Context, post model.Post) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	post.ID = r.nextID
	post.Status = model.StatusPending
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	r.posts[post.ID] = copyPost(&post)
	r.transitions[post.ID] = append(r.transitions[post.ID], &model.TransitionEntry{
		PostID:     post.ID,
		FromStatus: model.StatusPending,
		ToStatus:   model.StatusPending,
		Actor:      model.ActorPipeline,
		ActorName:  string(model.ActorPipeline),
		CreatedAt:  now,
	})

	return copyPost(&post), nil
}

func (r *fakePostRepo) FindByID(_ context.Context, id int64) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, exists := r.posts[id]
	if !exists {
		return nil, pgx.ErrNoRows
	}
	return copyPost(post), nil
}

func (r *fakePostRepo) Find(_ context.Context, filter postgres.PostFilter) ([]*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var posts []*model.Post
	for _, post := range r.posts {
		if filter.Status != "" && post.Status != filter.Status {
			continue
		}
		if filter.Author != "" && post.Author != filter.Author {
			continue
		}
		if filter.Query != "" &&
			!strings.Contains(strings.ToLower(post.Title), strings.ToLower(filter.Query)) &&
			!strings.Contains(strings.ToLower(post.Content), strings.ToLower(filter.Query)) {
			continue
		}
		posts = append(posts, copyPost(post))
	}
	return posts, nil
}

func (r *fakePostRepo) FindAuthorPosts(_ context.Context, authorID uuid.UUID, limit int, offset int) ([]*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var posts []*model.Post
	for _, post := range r.posts {
		if post.AuthorID == authorID {
			posts = append(posts, copyPost(post))
		}
	}
	return posts, nil
}

func (r *fakePostRepo) UpdateContent(_ context.Context, id int64, title *string, content *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, exists := r.posts[id]
	if !exists {
		return false, nil
	}
	if post.Status != model.StatusPending && post.Status != model.StatusProcessing {
		return false, nil
	}
	if title != nil {
		post.Title = *title
	}
	if content != nil {
		post.Content = *content
	}
	post.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakePostRepo) SetScores(_ context.Context, id int64, profanityFound *bool, seoScore *float64, aiSimilarityScore *float64, analysisIncomplete bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, exists := r.posts[id]
	if !exists {
		return pgx.ErrNoRows
	}
	post.ProfanityFound = profanityFound
	post.SeoScore = seoScore
	post.AiSimilarityScore = aiSimilarityScore
	post.AnalysisIncomplete = analysisIncomplete
	post.UpdatedAt = time.Now()
	return nil
}

func (r *fakePostRepo) SetTags(_ context.Context, id int64, tags []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, exists := r.posts[id]
	if !exists {
		return pgx.ErrNoRows
	}
	post.Tags = append([]string(nil), tags...)
	return nil
}

func (r *fakePostRepo) Transition(_ context.Context, id int64, decide func(current model.Status) (model.Status, error), actor model.Actor, actorName string) (*model.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, exists := r.posts[id]
	if !exists {
		return nil, pgx.ErrNoRows
	}

	target, err := decide(post.Status)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	r.transitions[id] = append(r.transitions[id], &model.TransitionEntry{
		PostID:     id,
		FromStatus: post.Status,
		ToStatus:   target,
		Actor:      actor,
		ActorName:  actorName,
		CreatedAt:  now,
	})
	post.Status = target
	post.UpdatedAt = now

	return copyPost(post), nil
}

func (r *fakePostRepo) FindTransitions(_ context.Context, postID int64) ([]*model.TransitionEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*model.TransitionEntry(nil), r.transitions[postID]...), nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[int64][]*model.Comment
	nextID   int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{
		comments: make(map[int64][]*model.Comment),
	}
}

func (r *fakeCommentRepo) Create(_ context.Context, comment model.Comment) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	comment.ID = r.nextID
	comment.CreatedAt = time.Now()
	created := comment
	// prepend: newest-first, matching the repository's query ordering
	r.comments[comment.PostID] = append([]*model.Comment{&created}, r.comments[comment.PostID]...)
	return &created, nil
}

func (r *fakeCommentRepo) FindPostComments(_ context.Context, postID int64, limit int, offset int) ([]*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]*model.Comment(nil), r.comments[postID]...), nil
}

type followPair struct {
	followerID uuid.UUID
	authorName string
}

type fakeFollowRepo struct {
	mu    sync.Mutex
	edges map[followPair]time.Time
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{
		edges: make(map[followPair]time.Time),
	}
}

func (r *fakeFollowRepo) Create(_ context.Context, followerID uuid.UUID, authorName string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pair := followPair{followerID, authorName}
	if _, exists := r.edges[pair]; exists {
		return false, nil
	}
	r.edges[pair] = time.Now()
	return true, nil
}

func (r *fakeFollowRepo) Delete(_ context.Context, followerID uuid.UUID, authorName string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pair := followPair{followerID, authorName}
	if _, exists := r.edges[pair]; !exists {
		return false, nil
	}
	delete(r.edges, pair)
	return true, nil
}

func (r *fakeFollowRepo) Exists(_ context.Context, followerID uuid.UUID, authorName string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.edges[followPair{followerID, authorName}]
	return exists, nil
}

func (r *fakeFollowRepo) CountByAuthor(_ context.Context, authorName string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for pair := range r.edges {
		if pair.authorName == authorName {
			count++
		}
	}
	return count, nil
}

func (r *fakeFollowRepo) FindFollowing(_ context.Context, followerID uuid.UUID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var authors []string
	for pair := range r.edges {
		if pair.followerID == followerID {
			authors = append(authors, pair.authorName)
		}
	}
	return authors, nil
}

// fakeRedis is a cache that never hits; mutations are recorded so tests can
// assert invalidations happened.
type fakeRedis struct {
	mu      sync.Mutex
	deleted []string
}

func (r *fakeRedis) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}

func (r *fakeRedis) SetJSON(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}

func (r *fakeRedis) Get(_ context.Context, _ string) *redis.StringCmd {
	return redis.NewStringResult("", redis.Nil)
}

func (r *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, keys...)
	return redis.NewIntResult(int64(len(keys)), nil)
}

type fakeBroker struct {
	mu        sync.Mutex
	published map[string][][]byte
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{
		published: make(map[string][][]byte),
	}
}

func (b *fakeBroker) PublishJSON(_ context.Context, queue string, body []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published[queue] = append(b.published[queue], body)
	return nil
}

func (b *fakeBroker) Consume(_ string) (<-chan amqp.Delivery, error) {
	msgs := make(chan amqp.Delivery)
	close(msgs)
	return msgs, nil
}

func (b *fakeBroker) publishedTo(queue string) [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]byte(nil), b.published[queue]...)
}

func newTestRepository(posts *fakePostRepo, comments *fakeCommentRepo, follows *fakeFollowRepo) *repository.Repository {
	return &repository.Repository{
		Postgres: &postgres.PostgresRepository{
			Post:    posts,
			Comment: comments,
			Follow:  follows,
		},
		Redis: &redisrepo.RedisRepository{
			Default: &fakeRedis{},
		},
	}
}
