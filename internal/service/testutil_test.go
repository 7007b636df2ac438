package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-feed/internal/model"
	"github.com/d60-Lab/social-feed/internal/repository"
	"github.com/d60-Lab/social-feed/pkg/database"
)

// 每个测试一个独立的共享内存库，聚合路径的并发查询会复用连接池
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type testEnv struct {
	db       *gorm.DB
	posts    *PostService
	rel      *RelationshipService
	stats    *StatsService
	feed     *FeedService
	profile  *ProfileService
	activity *ActivityService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	userRepo := repository.NewUserRepository(db)

	stats := NewStatsService(postRepo, commentRepo, likeRepo, followRepo, nil)
	return &testEnv{
		db:       db,
		posts:    NewPostService(db, nil, nil),
		rel:      NewRelationshipService(db, nil, nil),
		stats:    stats,
		feed:     NewFeedService(postRepo, commentRepo, followRepo, stats),
		profile:  NewProfileService(userRepo, postRepo, commentRepo, activityRepo, stats),
		activity: NewActivityService(activityRepo),
	}
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{ID: uuid.New().String(), Username: username, PasswordHash: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedPost(t *testing.T, db *gorm.DB, authorID, content string, createdAt time.Time) *model.Post {
	t.Helper()
	p := &model.Post{ID: uuid.New().String(), Content: content, AuthorID: authorID, CreatedAt: createdAt}
	require.NoError(t, db.Create(p).Error)
	return p
}

func activityTypes(t *testing.T, env *testEnv, userID string) []string {
	t.Helper()
	rows, err := env.activity.History(context.Background(), userID, 50)
	require.NoError(t, err)
	types := make([]string, len(rows))
	for i, r := range rows {
		types[i] = r.ActivityType
	}
	return types
}
