package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountsByPostBatchingInvariance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := seedUser(t, env.db, "author")
	v := seedUser(t, env.db, "viewer")
	w := seedUser(t, env.db, "other")
	p1 := seedPost(t, env.db, u.ID, "p1", time.Now())
	p2 := seedPost(t, env.db, u.ID, "p2", time.Now())

	_, err := env.rel.ToggleLike(ctx, p1.ID, v.ID)
	require.NoError(t, err)
	_, err = env.rel.ToggleLike(ctx, p1.ID, w.ID)
	require.NoError(t, err)
	_, err = env.posts.AddComment(ctx, p2.ID, "c", v.ID)
	require.NoError(t, err)

	together, err := env.stats.CountsByPost(ctx, []string{p1.ID, p2.ID})
	require.NoError(t, err)
	solo1, err := env.stats.CountsByPost(ctx, []string{p1.ID})
	require.NoError(t, err)
	solo2, err := env.stats.CountsByPost(ctx, []string{p2.ID})
	require.NoError(t, err)

	// 合并计数与逐个计数结果一致
	assert.Equal(t, solo1[p1.ID], together[p1.ID])
	assert.Equal(t, solo2[p2.ID], together[p2.ID])
	assert.EqualValues(t, 2, together[p1.ID].Likes)
	assert.EqualValues(t, 0, together[p1.ID].Comments)
	assert.EqualValues(t, 0, together[p2.ID].Likes)
	assert.EqualValues(t, 1, together[p2.ID].Comments)
}

func TestCountsByPostZeroFills(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := seedUser(t, env.db, "author")
	p := seedPost(t, env.db, u.ID, "quiet", time.Now())

	counts, err := env.stats.CountsByPost(ctx, []string{p.ID})
	require.NoError(t, err)
	pc, ok := counts[p.ID]
	require.True(t, ok)
	assert.EqualValues(t, 0, pc.Likes)
	assert.EqualValues(t, 0, pc.Comments)
}

func TestViewerStateBatched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := seedUser(t, env.db, "author")
	v := seedUser(t, env.db, "viewer")
	p1 := seedPost(t, env.db, u.ID, "p1", time.Now())
	p2 := seedPost(t, env.db, u.ID, "p2", time.Now())

	_, err := env.rel.ToggleLike(ctx, p1.ID, v.ID)
	require.NoError(t, err)
	_, err = env.rel.ToggleFollow(ctx, v.ID, u.ID)
	require.NoError(t, err)

	liked, following, err := env.stats.ViewerState(ctx, v.ID, []string{p1.ID, p2.ID})
	require.NoError(t, err)
	assert.True(t, liked[p1.ID])
	assert.False(t, liked[p2.ID])
	assert.True(t, following[u.ID])
}

// 统计里的 likesCount 是"收到的赞"：挂在作者头上，而不是点赞的人
func TestUserStatsLikesReceivedNotGiven(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := seedUser(t, env.db, "author")
	v := seedUser(t, env.db, "fan")
	p := seedPost(t, env.db, u.ID, "hello", time.Now())

	_, err := env.rel.ToggleLike(ctx, p.ID, v.ID)
	require.NoError(t, err)

	uStats, err := env.stats.UserStats(ctx, u.ID)
	require.NoError(t, err)
	vStats, err := env.stats.UserStats(ctx, v.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, uStats.LikesCount)
	assert.EqualValues(t, 0, vStats.LikesCount)

	_, err = env.rel.ToggleLike(ctx, p.ID, v.ID)
	require.NoError(t, err)
	uStats, err = env.stats.UserStats(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, uStats.LikesCount)
}

func TestUserStatsAllCounters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := seedUser(t, env.db, "author")
	v := seedUser(t, env.db, "other")
	p := seedPost(t, env.db, u.ID, "p", time.Now())

	_, err := env.posts.AddComment(ctx, p.ID, "self-comment", u.ID)
	require.NoError(t, err)
	_, err = env.rel.ToggleFollow(ctx, v.ID, u.ID)
	require.NoError(t, err)
	_, err = env.rel.ToggleFollow(ctx, u.ID, v.ID)
	require.NoError(t, err)

	stats, err := env.stats.UserStats(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.PostsCount)
	assert.EqualValues(t, 1, stats.CommentsCount)
	assert.EqualValues(t, 1, stats.FollowersCount)
	assert.EqualValues(t, 1, stats.FollowingCount)
}
