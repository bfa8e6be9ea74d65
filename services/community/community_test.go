package community

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	memoryRepo "coursehub/database/repository/memory"
	"coursehub/models"
	"coursehub/services/notification"
	"coursehub/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = models.Actor{UserID: "alice", Role: models.RoleStudent}
	bob   = models.Actor{UserID: "bob", Role: models.RoleStudent}
	admin = models.Actor{UserID: "root", Role: models.RoleAdmin}
)

type fixture struct {
	svc      *DefaultCommunityService
	repo     *memoryRepo.CommunityRepo
	redis    *miniredis.Miniredis
	recorder *notification.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	users := memoryRepo.NewUserRepo()
	require.NoError(t, users.Create(ctx, &models.User{ID: "alice", Name: "Alice", Email: "alice@example.com"}))
	require.NoError(t, users.Create(ctx, &models.User{ID: "bob", Name: "Bob", Email: "bob@example.com"}))
	files := memoryRepo.NewFileRepo()
	require.NoError(t, files.Create(ctx, &models.File{ID: "f1", OwnerID: "alice", Name: "notes.pdf"}))

	repo := memoryRepo.NewCommunityRepo()
	rec := &notification.Recorder{}
	return &fixture{
		svc:      &DefaultCommunityService{Repo: repo, Users: users, Files: files, Cache: client, Notifier: rec},
		repo:     repo,
		redis:    mr,
		recorder: rec,
	}
}

func TestCreatePostValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	post, err := f.svc.CreatePost(ctx, alice, models.PostRequest{Body: "  hello world  ", FileID: "f1"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", post.Body)
	assert.Equal(t, "Alice", post.AuthorName)

	var lengthErr *BodyLengthError
	_, err = f.svc.CreatePost(ctx, alice, models.PostRequest{Body: "   "})
	assert.ErrorAs(t, err, &lengthErr)
	_, err = f.svc.CreatePost(ctx, alice, models.PostRequest{Body: strings.Repeat("é", MaxPostLength+1)})
	assert.ErrorAs(t, err, &lengthErr)
	_, err = f.svc.CreatePost(ctx, alice, models.PostRequest{Body: strings.Repeat("é", MaxPostLength)})
	assert.NoError(t, err, "limit counts characters, not bytes")

	_, err = f.svc.CreatePost(ctx, alice, models.PostRequest{Body: "with file", FileID: "missing"})
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestFeedPagingAndCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := f.svc.CreatePost(ctx, alice, models.PostRequest{Body: fmt.Sprintf("post %d", i)})
		require.NoError(t, err)
	}

	page, err := f.svc.ListFeed(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, "post 4", page.Posts[0].Body, "newest first")
	assert.True(t, page.HasMore)
	assert.True(t, f.redis.Exists(utils.FeedCachePrefix+"1:2"))
	assert.Equal(t, utils.FeedCacheTTL, f.redis.TTL(utils.FeedCachePrefix+"1:2"))

	last, err := f.svc.ListFeed(ctx, 3, 2)
	require.NoError(t, err)
	assert.Len(t, last.Posts, 1)
	assert.False(t, last.HasMore)

	// Writes drop the cached first page.
	_, err = f.svc.CreatePost(ctx, bob, models.PostRequest{Body: "fresh"})
	require.NoError(t, err)
	assert.False(t, f.redis.Exists(utils.FeedCachePrefix+"1:2"))

	page, err = f.svc.ListFeed(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "fresh", page.Posts[0].Body)

	big, err := f.svc.ListFeed(ctx, 1, 500)
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, big.PageSize)
}

func TestFeedServedFromCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.CreatePost(ctx, alice, models.PostRequest{Body: "original"})
	require.NoError(t, err)

	_, err = f.svc.ListFeed(ctx, 1, DefaultPageSize)
	require.NoError(t, err)

	// A write that bypasses the service is invisible until the entry expires.
	require.NoError(t, f.repo.CreatePost(ctx, &models.Post{ID: "sneaky", Body: "sneaky"}))
	page, err := f.svc.ListFeed(ctx, 1, DefaultPageSize)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 1)

	f.redis.FastForward(utils.FeedCacheTTL + time.Second)
	page, err = f.svc.ListFeed(ctx, 1, DefaultPageSize)
	require.NoError(t, err)
	assert.Len(t, page.Posts, 2)
}

func TestToggleLike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post, err := f.svc.CreatePost(ctx, alice, models.PostRequest{Body: "like me"})
	require.NoError(t, err)

	res, err := f.svc.ToggleLike(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.Equal(t, &models.LikeResult{Liked: true, LikeCount: 1}, res)

	res, err = f.svc.ToggleLike(ctx, alice, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.LikeCount)

	res, err = f.svc.ToggleLike(ctx, bob, post.ID)
	require.NoError(t, err)
	assert.Equal(t, &models.LikeResult{Liked: false, LikeCount: 1}, res)

	_, err = f.svc.ToggleLike(ctx, bob, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post, err := f.svc.CreatePost(ctx, alice, models.PostRequest{Body: "discuss"})
	require.NoError(t, err)

	first, err := f.svc.AddComment(ctx, bob, post.ID, models.CommentRequest{Body: "first"})
	require.NoError(t, err)
	_, err = f.svc.AddComment(ctx, alice, post.ID, models.CommentRequest{Body: "second"})
	require.NoError(t, err)

	var lengthErr *BodyLengthError
	_, err = f.svc.AddComment(ctx, bob, post.ID, models.CommentRequest{Body: strings.Repeat("x", MaxCommentLength+1)})
	assert.ErrorAs(t, err, &lengthErr)
	_, err = f.svc.AddComment(ctx, bob, "missing", models.CommentRequest{Body: "hi"})
	assert.ErrorIs(t, err, ErrPostNotFound)

	comments, err := f.svc.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Body, "oldest first")
	assert.Equal(t, "Bob", comments[0].AuthorName)

	stored, err := f.svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.CommentCount)

	assert.ErrorIs(t, f.svc.DeleteComment(ctx, alice, first.ID), ErrForbidden)
	require.NoError(t, f.svc.DeleteComment(ctx, bob, first.ID))
	assert.ErrorIs(t, f.svc.DeleteComment(ctx, bob, first.ID), ErrCommentNotFound)

	stored, err = f.svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CommentCount)

	assert.Eventually(t, func() bool { return len(f.recorder.Pushes()) == 1 }, time.Second, 10*time.Millisecond,
		"only the comment by someone else notifies the author")
}

func TestDeletePostPermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	post, err := f.svc.CreatePost(ctx, alice, models.PostRequest{Body: "mine"})
	require.NoError(t, err)
	_, err = f.svc.AddComment(ctx, alice, post.ID, models.CommentRequest{Body: "note"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeletePost(ctx, bob, post.ID), ErrForbidden)
	require.NoError(t, f.svc.DeletePost(ctx, admin, post.ID))
	_, err = f.svc.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.ErrorIs(t, f.svc.DeletePost(ctx, alice, post.ID), ErrPostNotFound)

	other, err := f.svc.CreatePost(ctx, bob, models.PostRequest{Body: "bob's"})
	require.NoError(t, err)
	assert.NoError(t, f.svc.DeletePost(ctx, bob, other.ID))
}
