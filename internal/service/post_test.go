package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/BloggingApp/moderation-service/internal/dto"
	"github.com/BloggingApp/moderation-service/internal/model"
	"github.com/BloggingApp/moderation-service/internal/rabbitmq"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	testAuthor = model.Caller{ID: uuid.New(), Username: "alice", Role: "user"}
	testMod    = model.Caller{ID: uuid.New(), Username: "maria", Role: "mod"}
)

func newTestPostService(posts *fakePostRepo, broker *fakeBroker) Post {
	repo := newTestRepository(posts, newFakeCommentRepo(), newFakeFollowRepo())
	return newPostService(zap.NewNop(), repo, broker)
}

func forceStatus(t *testing.T, posts *fakePostRepo, id int64, status model.Status) {
	t.Helper()
	posts.mu.Lock()
	defer posts.mu.Unlock()
	post, exists := posts.posts[id]
	require.True(t, exists)
	post.Status = status
}

func TestSubmitCreatesPendingPostAndEnqueuesScoring(t *testing.T) {
	posts := newFakePostRepo()
	broker := newFakeBroker()
	svc := newTestPostService(posts, broker)

	created, err := svc.Submit(context.Background(), testAuthor, dto.CreatePostRequest{
		Title:   "On storage engines",
		Content: "A body long enough to pass request validation.",
		Tags:    "go, rust , storage, go",
	})
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, created.Status)
	assert.Equal(t, testAuthor.Username, created.Author)
	assert.Equal(t, []string{"go", "rust", "storage"}, created.Tags)
	assert.Nil(t, created.ProfanityFound)
	assert.Nil(t, created.SeoScore)
	assert.Nil(t, created.AiSimilarityScore)

	jobs := broker.publishedTo(rabbitmq.POST_SUBMITTED_QUEUE)
	require.Len(t, jobs, 1)
	var job dto.MQScoringJobMsg
	require.NoError(t, json.Unmarshal(jobs[0], &job))
	assert.Equal(t, created.ID, job.PostID)
	assert.Equal(t, 0, job.Attempts)
}

func TestModeratorTransitions(t *testing.T) {
	posts := newFakePostRepo()
	broker := newFakeBroker()
	svc := newTestPostService(posts, broker)

	created, err := svc.Submit(context.Background(), testAuthor, dto.CreatePostRequest{
		Title:   "On storage engines",
		Content: "A body long enough to pass request validation.",
	})
	require.NoError(t, err)

	// A fresh submission is not moderatable.
	_, err = svc.Approve(context.Background(), testMod, created.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// A REJECTED post can be re-opened and then approved.
	forceStatus(t, posts, created.ID, model.StatusRejected)

	underReview, err := svc.PutUnderReview(context.Background(), testMod, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReview, underReview.Status)

	approved, err := svc.Approve(context.Background(), testMod, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, approved.Status)

	// Each moderator action landed in the audit ledger.
	entries, err := svc.FindTransitions(context.Background(), created.ID)
	require.NoError(t, err)
	latest := entries[len(entries)-1]
	assert.Equal(t, model.StatusReview, latest.FromStatus)
	assert.Equal(t, model.StatusApproved, latest.ToStatus)
	assert.Equal(t, model.ActorModerator, latest.Actor)
	assert.Equal(t, testMod.Username, latest.ActorName)
}

func TestModeratorApproveNotifiesFollowers(t *testing.T) {
	posts := newFakePostRepo()
	broker := newFakeBroker()
	svc := newTestPostService(posts, broker)

	created, err := svc.Submit(context.Background(), testAuthor, dto.CreatePostRequest{
		Title:   "On storage engines",
		Content: "A body long enough to pass request validation.",
	})
	require.NoError(t, err)
	forceStatus(t, posts, created.ID, model.StatusReview)

	_, err = svc.Approve(context.Background(), testMod, created.ID)
	require.NoError(t, err)

	assert.Len(t, broker.publishedTo(rabbitmq.POST_APPROVED_QUEUE), 1)
}

func TestFailedTransitionLeavesStatusUnchanged(t *testing.T) {
	posts := newFakePostRepo()
	broker := newFakeBroker()
	svc := newTestPostService(posts, broker)

	created, err := svc.Submit(context.Background(), testAuthor, dto.CreatePostRequest{
		Title:   "On storage engines",
		Content: "A body long enough to pass request validation.",
	})
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), testMod, created.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	unchanged, err := posts.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, unchanged.Status)
}

func TestFindByIDAppliesVisibilityGate(t *testing.T) {
	posts := newFakePostRepo()
	broker := newFakeBroker()
	svc := newTestPostService(posts, broker)

	created, err := svc.Submit(context.Background(), testAuthor, dto.CreatePostRequest{
		Title:   "On storage engines",
		Content: "A body long enough to pass request validation.",
	})
	require.NoError(t, err)
	forceStatus(t, posts, created.ID, model.StatusReview)

	_, err = svc.FindByID(context.Background(), nil, created.ID)
	assert.ErrorIs(t, err, ErrNotVisible)

	stranger := model.Caller{ID: uuid.New(), Username: "bob", Role: "user"}
	_, err = svc.FindByID(context.Background(), &stranger, created.ID)
	assert.ErrorIs(t, err, ErrNotVisible)

	_, err = svc.FindByID(context.Background(), &testAuthor, created.ID)
	assert.NoError(t, err)

	_, err = svc.FindByID(context.Background(), &testMod, created.ID)
	assert.NoError(t, err)

	forceStatus(t, posts, created.ID, model.StatusApproved)
	_, err = svc.FindByID(context.Background(), nil, created.ID)
	assert.NoError(t, err)
}

func TestFindForcesApprovedForUnprivilegedCallers(t *testing.T) {
	posts := newFakePostRepo()
	broker := newFakeBroker()
	svc := newTestPostService(posts, broker)

	visible, err := svc.Submit(context.Background(), testAuthor, dto.CreatePostRequest{
		Title:   "Visible post",
		Content: "A body long enough to pass request validation.",
	})
	require.NoError(t, err)
	forceStatus(t, posts, visible.ID, model.StatusApproved)

	_, err = svc.Submit(context.Background(), testAuthor, dto.CreatePostRequest{
		Title:   "Hidden post",
		Content: "A body long enough to pass request validation.",
	})
	require.NoError(t, err)

	listed, err := svc.Find(context.Background(), nil, PostQuery{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, visible.ID, listed[0].ID)

	// Asking for a non-listable status outright yields nothing.
	listed, err = svc.Find(context.Background(), nil, PostQuery{Status: model.StatusPending})
	require.NoError(t, err)
	assert.Empty(t, listed)

	// The author sees their own pending post; a moderator sees everything.
	listed, err = svc.Find(context.Background(), &testAuthor, PostQuery{Author: testAuthor.Username})
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	listed, err = svc.Find(context.Background(), &testMod, PostQuery{})
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestFindMyListsAllOwnStatuses(t *testing.T) {
	posts := newFakePostRepo()
	broker := newFakeBroker()
	svc := newTestPostService(posts, broker)

	first, err := svc.Submit(context.Background(), testAuthor, dto.CreatePostRequest{
		Title:   "My pending draft",
		Content: "A body long enough to pass request validation.",
	})
	require.NoError(t, err)

	second, err := svc.Submit(context.Background(), testAuthor, dto.CreatePostRequest{
		Title:   "My rejected one",
		Content: "Another body long enough to pass request validation.",
	})
	require.NoError(t, err)
	forceStatus(t, posts, second.ID, model.StatusRejected)

	_, err = svc.Submit(context.Background(), testMod, dto.CreatePostRequest{
		Title:   "Somebody else's post",
		Content: "A third body long enough to pass request validation.",
	})
	require.NoError(t, err)

	mine, err := svc.FindMy(context.Background(), testAuthor, 10, 0)
	require.NoError(t, err)
	require.Len(t, mine, 2)

	ids := []int64{mine[0].ID, mine[1].ID}
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)

	nobody := model.Caller{ID: uuid.New(), Username: "carol", Role: "user"}
	none, err := svc.FindMy(context.Background(), nobody, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEditOnlyBeforeScoringSettles(t *testing.T) {
	posts := newFakePostRepo()
	broker := newFakeBroker()
	svc := newTestPostService(posts, broker)

	created, err := svc.Submit(context.Background(), testAuthor, dto.CreatePostRequest{
		Title:   "On storage engines",
		Content: "A body long enough to pass request validation.",
	})
	require.NoError(t, err)

	newTitle := "On storage engines, revisited"
	edited, err := svc.Edit(context.Background(), testAuthor, dto.EditPostRequest{ID: created.ID, Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, newTitle, edited.Title)

	// Only the author may edit.
	stranger := model.Caller{ID: uuid.New(), Username: "bob", Role: "user"}
	_, err = svc.Edit(context.Background(), stranger, dto.EditPostRequest{ID: created.ID, Title: &newTitle})
	assert.ErrorIs(t, err, ErrInvalidOperation)

	// Once a decision lands the post is frozen; a new submission is the
	// only way to change it.
	forceStatus(t, posts, created.ID, model.StatusApproved)
	_, err = svc.Edit(context.Background(), testAuthor, dto.EditPostRequest{ID: created.ID, Title: &newTitle})
	assert.ErrorIs(t, err, ErrPostNotEditable)
}
