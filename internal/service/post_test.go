package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/social-feed/internal/apperror"
	"github.com/d60-Lab/social-feed/internal/model"
)

func TestCreatePostValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := seedUser(t, env.db, "author")

	cases := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t "},
		{"over 280 chars", strings.Repeat("a", 281)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.posts.CreatePost(ctx, tc.content, u.ID)
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.ErrValidation))
		})
	}

	// 校验失败不落任何行
	var postRows, activityRows int64
	require.NoError(t, env.db.Model(&model.Post{}).Count(&postRows).Error)
	require.NoError(t, env.db.Model(&model.UserActivity{}).Count(&activityRows).Error)
	assert.EqualValues(t, 0, postRows)
	assert.EqualValues(t, 0, activityRows)
}

func TestCreatePostAtLimitSucceeds(t *testing.T) {
	env := newTestEnv(t)
	u := seedUser(t, env.db, "author")
	_, err := env.posts.CreatePost(context.Background(), strings.Repeat("a", 280), u.ID)
	require.NoError(t, err)
}

func TestCreatePostRecordsActivity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := seedUser(t, env.db, "author")

	postID, err := env.posts.CreatePost(ctx, "hello", u.ID)
	require.NoError(t, err)

	rows, err := env.activity.History(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.ActivityPost, rows[0].ActivityType)
	require.NotNil(t, rows[0].TargetID)
	assert.Equal(t, postID, *rows[0].TargetID)
	assert.NotEmpty(t, rows[0].Metadata)
}

func TestAddCommentValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := seedUser(t, env.db, "author")
	p := seedPost(t, env.db, u.ID, "post", time.Now())

	_, err := env.posts.AddComment(ctx, p.ID, strings.Repeat("b", 281), u.ID)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.ErrValidation))

	var commentRows int64
	require.NoError(t, env.db.Model(&model.Comment{}).Count(&commentRows).Error)
	assert.EqualValues(t, 0, commentRows)
}

func TestAddCommentMissingPost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := seedUser(t, env.db, "author")

	_, err := env.posts.AddComment(ctx, "no-such-post", "hi", u.ID)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.ErrNotFound))

	var commentRows, activityRows int64
	require.NoError(t, env.db.Model(&model.Comment{}).Count(&commentRows).Error)
	require.NoError(t, env.db.Model(&model.UserActivity{}).Count(&activityRows).Error)
	assert.EqualValues(t, 0, commentRows)
	assert.EqualValues(t, 0, activityRows)
}
