package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/social-feed/internal/apperror"
	"github.com/d60-Lab/social-feed/internal/model"
	"github.com/d60-Lab/social-feed/internal/repository"
)

func TestToggleLikeInvolution(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := seedUser(t, env.db, "author")
	v := seedUser(t, env.db, "viewer")
	p := seedPost(t, env.db, u.ID, "hello", time.Now())

	res, err := env.rel.ToggleLike(ctx, p.ID, v.ID)
	require.NoError(t, err)
	assert.True(t, res.IsLiked)
	assert.EqualValues(t, 1, res.LikesCount)

	res, err = env.rel.ToggleLike(ctx, p.ID, v.ID)
	require.NoError(t, err)
	assert.False(t, res.IsLiked)
	assert.EqualValues(t, 0, res.LikesCount)

	// 两次翻转 = 正负各一条流水，新的在前
	assert.Equal(t, []string{model.ActivityUnlike, model.ActivityLike}, activityTypes(t, env, v.ID))

	var likeRows int64
	require.NoError(t, env.db.Model(&model.Like{}).Count(&likeRows).Error)
	assert.EqualValues(t, 0, likeRows)
}

func TestToggleLikeObservesExistingRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := seedUser(t, env.db, "author")
	v := seedUser(t, env.db, "viewer")
	p := seedPost(t, env.db, u.ID, "hello", time.Now())

	// 并发赢家已插入：本次翻转应走删除分支
	inserted, err := repository.NewLikeRepository(env.db).InsertIfAbsent(ctx, v.ID, p.ID)
	require.NoError(t, err)
	require.True(t, inserted)

	res, err := env.rel.ToggleLike(ctx, p.ID, v.ID)
	require.NoError(t, err)
	assert.False(t, res.IsLiked)
	assert.EqualValues(t, 0, res.LikesCount)
}

func TestToggleFollowInvolution(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := seedUser(t, env.db, "a")
	b := seedUser(t, env.db, "b")

	isFollowing, err := env.rel.ToggleFollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, isFollowing)

	isFollowing, err = env.rel.ToggleFollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, isFollowing)

	exists, err := repository.NewFollowRepository(env.db).Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.Equal(t, []string{model.ActivityUnfollow, model.ActivityFollow}, activityTypes(t, env, a.ID))
}

func TestToggleFollowSelfReference(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := seedUser(t, env.db, "a")

	_, err := env.rel.ToggleFollow(ctx, a.ID, a.ID)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.ErrSelfReference))

	// 校验先于一切读写：不能留下任何痕迹
	var followRows, activityRows int64
	require.NoError(t, env.db.Model(&model.Follow{}).Count(&followRows).Error)
	require.NoError(t, env.db.Model(&model.UserActivity{}).Count(&activityRows).Error)
	assert.EqualValues(t, 0, followRows)
	assert.EqualValues(t, 0, activityRows)
}

func TestConditionalInsertIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := seedUser(t, env.db, "a")
	b := seedUser(t, env.db, "b")
	p := seedPost(t, env.db, b.ID, "x", time.Now())

	likes := repository.NewLikeRepository(env.db)
	inserted, err := likes.InsertIfAbsent(ctx, a.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, inserted)

	// 唯一键冲突不是错误，而是"已存在"
	inserted, err = likes.InsertIfAbsent(ctx, a.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, inserted)

	var cnt int64
	require.NoError(t, env.db.Model(&model.Like{}).Count(&cnt).Error)
	assert.EqualValues(t, 1, cnt)
}
