package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-feed/internal/model"
)

func setupFeedBenchDB(b *testing.B) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		b.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Post{}, &model.Follow{}, &model.Like{}, &model.Comment{}); err != nil {
		b.Fatalf("migrate: %v", err)
	}
	return db
}

func seedBenchUsers(b *testing.B, db *gorm.DB, n int) []model.User {
	users := make([]model.User, n)
	for i := range users {
		uid := fmt.Sprintf("u%04d", i)
		users[i] = model.User{ID: uid, Username: uid, PasswordHash: "h"}
	}
	if err := db.CreateInBatches(&users, 500).Error; err != nil {
		b.Fatalf("seed users: %v", err)
	}
	return users
}

func BenchmarkFollowInsertIfAbsent(b *testing.B) {
	db := setupFeedBenchDB(b)
	followRepo := NewFollowRepository(db)
	ctx := context.Background()

	users := seedBenchUsers(b, db, 1000)
	rng := rand.New(rand.NewSource(42))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		from := users[rng.Intn(len(users))].ID
		to := users[rng.Intn(len(users))].ID
		if from == to {
			continue
		}
		// 条件写：大部分迭代会撞上已存在的对，正是线上的热路径
		_, _ = followRepo.InsertIfAbsent(ctx, from, to)
	}
}

func BenchmarkFeedPageQueries(b *testing.B) {
	db := setupFeedBenchDB(b)
	postRepo := NewPostRepository(db)
	likeRepo := NewLikeRepository(db)
	commentRepo := NewCommentRepository(db)
	ctx := context.Background()

	// 构造：1000 个用户、5000 条帖子，每条帖子随机若干赞
	users := seedBenchUsers(b, db, 1000)
	rng := rand.New(rand.NewSource(42))
	const posts = 5000
	postIDs := make([]string, posts)
	for i := 0; i < posts; i++ {
		pid := fmt.Sprintf("p%05d", i)
		postIDs[i] = pid
		author := users[rng.Intn(len(users))].ID
		if err := db.Create(&model.Post{ID: pid, Content: "bench", AuthorID: author}).Error; err != nil {
			b.Fatalf("seed post: %v", err)
		}
		for j := 0; j < rng.Intn(4); j++ {
			_, _ = likeRepo.InsertIfAbsent(ctx, users[rng.Intn(len(users))].ID, pid)
		}
	}

	b.ResetTimer()
	b.Run("PageGlobal", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := postRepo.PageGlobal(ctx, 20, 0); err != nil {
				b.Fatalf("page global: %v", err)
			}
		}
	})

	b.Run("GroupedCounts", func(b *testing.B) {
		page := postIDs[:20]
		for i := 0; i < b.N; i++ {
			if _, err := likeRepo.CountGroupByPost(ctx, page); err != nil {
				b.Fatalf("like counts: %v", err)
			}
			if _, err := commentRepo.CountGroupByPost(ctx, page); err != nil {
				b.Fatalf("comment counts: %v", err)
			}
		}
	})
}
