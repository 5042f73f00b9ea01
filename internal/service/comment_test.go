package service

import (
	"context"
	"testing"

	"github.com/BloggingApp/moderation-service/internal/dto"
	"github.com/BloggingApp/moderation-service/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCommentFixture(t *testing.T, status model.Status) (Comment, *fakePostRepo, *model.Post) {
	t.Helper()
	posts := newFakePostRepo()
	repo := newTestRepository(posts, newFakeCommentRepo(), newFakeFollowRepo())
	svc := newCommentService(zap.NewNop(), repo)

	post, err := posts.Create(context.Background(), model.Post{
		AuthorID: testAuthor.ID,
		Author:   testAuthor.Username,
		Title:    "On storage engines",
		Content:  "A body long enough to pass request validation.",
	})
	require.NoError(t, err)
	forceStatus(t, posts, post.ID, status)

	return svc, posts, post
}

func TestCommentOnApprovedPost(t *testing.T) {
	svc, _, post := newCommentFixture(t, model.StatusApproved)
	commenter := model.Caller{ID: uuid.New(), Username: "bob", Role: "user"}

	created, err := svc.Create(context.Background(), commenter, post.ID, dto.CreateCommentRequest{Content: "great read"})
	require.NoError(t, err)
	assert.Equal(t, post.ID, created.PostID)
	assert.Equal(t, "bob", created.Author)
	assert.NotZero(t, created.ID)
}

func TestCommentGateDeniesNonApprovedPost(t *testing.T) {
	for _, status := range []model.Status{model.StatusPending, model.StatusProcessing, model.StatusReview, model.StatusRejected} {
		t.Run(string(status), func(t *testing.T) {
			svc, _, post := newCommentFixture(t, status)
			commenter := model.Caller{ID: uuid.New(), Username: "bob", Role: "user"}

			_, err := svc.Create(context.Background(), commenter, post.ID, dto.CreateCommentRequest{Content: "too early"})
			assert.ErrorIs(t, err, ErrNotCommentable)
		})
	}
}

func TestCommentOnUnknownPost(t *testing.T) {
	svc, _, _ := newCommentFixture(t, model.StatusApproved)
	commenter := model.Caller{ID: uuid.New(), Username: "bob", Role: "user"}

	_, err := svc.Create(context.Background(), commenter, 9999, dto.CreateCommentRequest{Content: "hello"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCommentsNewestFirst(t *testing.T) {
	svc, _, post := newCommentFixture(t, model.StatusApproved)
	commenter := model.Caller{ID: uuid.New(), Username: "bob", Role: "user"}

	first, err := svc.Create(context.Background(), commenter, post.ID, dto.CreateCommentRequest{Content: "first"})
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), commenter, post.ID, dto.CreateCommentRequest{Content: "second"})
	require.NoError(t, err)

	comments, err := svc.FindPostComments(context.Background(), nil, post.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, second.ID, comments[0].ID)
	assert.Equal(t, first.ID, comments[1].ID)
}

func TestListCommentsGatedByReadability(t *testing.T) {
	svc, _, post := newCommentFixture(t, model.StatusReview)

	_, err := svc.FindPostComments(context.Background(), nil, post.ID, 10, 0)
	assert.ErrorIs(t, err, ErrNotVisible)

	// The author still sees the thread on their hidden post.
	_, err = svc.FindPostComments(context.Background(), &testAuthor, post.ID, 10, 0)
	assert.NoError(t, err)
}
