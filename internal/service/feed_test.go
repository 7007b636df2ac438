package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/social-feed/internal/model"
)

func TestCreatePostAppearsInGlobalFeed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := seedUser(t, env.db, "alice")

	postID, err := env.posts.CreatePost(ctx, "  hello world  ", u.ID)
	require.NoError(t, err)

	page, err := env.feed.GlobalFeed(ctx, u.ID, 1, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, postID, page[0].ID)
	assert.Equal(t, "hello world", page[0].Content) // 入库前已去除首尾空白
	assert.Equal(t, "alice", page[0].Author)
	assert.EqualValues(t, 0, page[0].LikesCount)
	assert.Empty(t, page[0].Comments)
}

func TestGlobalFeedEmptyPageShortCircuits(t *testing.T) {
	env := newTestEnv(t)
	page, err := env.feed.GlobalFeed(context.Background(), "", 20, 0)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestGlobalFeedViewerFlags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := seedUser(t, env.db, "author")
	v := seedUser(t, env.db, "viewer")
	p := seedPost(t, env.db, u.ID, "post", time.Now())

	_, err := env.rel.ToggleLike(ctx, p.ID, v.ID)
	require.NoError(t, err)
	_, err = env.rel.ToggleFollow(ctx, v.ID, u.ID)
	require.NoError(t, err)

	page, err := env.feed.GlobalFeed(ctx, v.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.True(t, page[0].IsLikedByUser)
	assert.True(t, page[0].IsFollowingAuthor)
	assert.EqualValues(t, 1, page[0].LikesCount)

	// 匿名浏览不带 viewer 标记
	anon, err := env.feed.GlobalFeed(ctx, "", 10, 0)
	require.NoError(t, err)
	require.Len(t, anon, 1)
	assert.False(t, anon[0].IsLikedByUser)
	assert.False(t, anon[0].IsFollowingAuthor)
}

func TestGlobalFeedUnknownAuthor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	// 作者不存在：直接写一条孤儿帖子，装配不应失败
	p := &model.Post{ID: "orphan-post", Content: "ghost", AuthorID: "missing-user", CreatedAt: time.Now()}
	require.NoError(t, env.db.Create(p).Error)

	page, err := env.feed.GlobalFeed(ctx, "", 10, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Unknown", page[0].Author)
}

func TestGlobalFeedAttachesCommentsAscending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := seedUser(t, env.db, "author")
	v := seedUser(t, env.db, "commenter")
	p := seedPost(t, env.db, u.ID, "post", time.Now())

	c1, err := env.posts.AddComment(ctx, p.ID, "first", v.ID)
	require.NoError(t, err)
	c2, err := env.posts.AddComment(ctx, p.ID, "second", v.ID)
	require.NoError(t, err)

	page, err := env.feed.GlobalFeed(ctx, "", 10, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Len(t, page[0].Comments, 2)
	assert.Equal(t, c1, page[0].Comments[0].ID)
	assert.Equal(t, c2, page[0].Comments[1].ID)
	assert.Equal(t, "commenter", page[0].Comments[0].Author)
	assert.EqualValues(t, 2, page[0].CommentsCount)
}

func TestFollowingFeedFallsBackToGlobal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := seedUser(t, env.db, "author")
	v := seedUser(t, env.db, "lurker")
	seedPost(t, env.db, u.ID, "p1", time.Now().Add(-2*time.Second))
	seedPost(t, env.db, u.ID, "p2", time.Now().Add(-1*time.Second))

	global, err := env.feed.GlobalFeed(ctx, v.ID, 10, 0)
	require.NoError(t, err)
	following, err := env.feed.FollowingFeed(ctx, v.ID, 10, 0)
	require.NoError(t, err)

	// 关注图为空 → 关注流就是全局流的第一页
	require.Equal(t, len(global), len(following))
	for i := range global {
		assert.Equal(t, global[i].ID, following[i].ID)
	}
}

func TestFollowingFeedRestrictsToFollowedAuthors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := seedUser(t, env.db, "followed")
	w := seedUser(t, env.db, "stranger")
	v := seedUser(t, env.db, "viewer")
	followedPost := seedPost(t, env.db, u.ID, "from-followed", time.Now())
	seedPost(t, env.db, w.ID, "from-stranger", time.Now())

	_, err := env.rel.ToggleFollow(ctx, v.ID, u.ID)
	require.NoError(t, err)
	_, err = env.posts.AddComment(ctx, followedPost.ID, "note", u.ID)
	require.NoError(t, err)

	page, err := env.feed.FollowingFeed(ctx, v.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, followedPost.ID, page[0].ID)
	assert.True(t, page[0].IsFollowingAuthor)
	// 关注流不展开评论，但计数仍然在
	assert.Empty(t, page[0].Comments)
	assert.EqualValues(t, 1, page[0].CommentsCount)
}

func TestFeedPaginationStableOnEqualTimestamps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := seedUser(t, env.db, "author")
	ts := time.Now().Truncate(time.Second)
	for i := 0; i < 5; i++ {
		seedPost(t, env.db, u.ID, "same-ts", ts)
	}

	// created_at 全部相同，翻页靠 id 次序兜底：不丢行、不重行
	seen := make(map[string]bool)
	for offset := 0; offset < 5; offset++ {
		page, err := env.feed.GlobalFeed(ctx, "", 1, offset)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.False(t, seen[page[0].ID], "post %s returned twice", page[0].ID)
		seen[page[0].ID] = true
	}
	assert.Len(t, seen, 5)
}
