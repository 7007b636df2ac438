package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/d60-Lab/social-feed/config"
	"github.com/d60-Lab/social-feed/internal/cache"
	"github.com/d60-Lab/social-feed/internal/model"
	"github.com/d60-Lab/social-feed/internal/repository"
	"github.com/d60-Lab/social-feed/internal/service"
	"github.com/d60-Lab/social-feed/pkg/database"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func envInt(name string, def int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// feedbench: 种子一批用户/帖子/点赞/评论，测整页装配延迟
func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))

	N := envInt("N", 5000)        // 帖子数
	USERS := envInt("USERS", 500) // 用户数
	CONC := envInt("CONC", 4)     // 并发读
	PAGE := envInt("PAGE", 20)    // 页大小
	READS := envInt("READS", 2000)

	ctx := context.Background()

	// seed users
	users := make([]model.User, USERS)
	for i := range users {
		id := uuid.New().String()
		users[i] = model.User{ID: id, Username: "u" + id[:8], PasswordHash: "p"}
	}
	batch := 500
	for i := 0; i < len(users); i += batch {
		end := i + batch
		if end > len(users) {
			end = len(users)
		}
		sub := users[i:end]
		_ = db.Create(&sub).Error
	}

	// seed posts + engagement
	posts := make([]model.Post, N)
	now := time.Now()
	for i := range posts {
		posts[i] = model.Post{
			ID:        uuid.New().String(),
			Content:   fmt.Sprintf("post %d", i),
			AuthorID:  users[rand.Intn(USERS)].ID,
			CreatedAt: now.Add(-time.Duration(i) * time.Second),
		}
	}
	for i := 0; i < len(posts); i += batch {
		end := i + batch
		if end > len(posts) {
			end = len(posts)
		}
		sub := posts[i:end]
		_ = db.Create(&sub).Error
	}

	likeRepo := repository.NewLikeRepository(db)
	for i := 0; i < N; i++ {
		_, _ = likeRepo.InsertIfAbsent(ctx, users[rand.Intn(USERS)].ID, posts[rand.Intn(N)].ID)
	}

	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)
	var countCache *cache.CountCache // 纯回表基准，不走缓存
	statsSvc := service.NewStatsService(postRepo, commentRepo, likeRepo, followRepo, countCache)
	feedSvc := service.NewFeedService(postRepo, commentRepo, followRepo, statsSvc)

	// measure page assembly with CONC workers
	recs := make([]time.Duration, 0, READS)
	recCh := make(chan time.Duration, READS)
	feed := make(chan int, READS)
	for i := 0; i < READS; i++ {
		feed <- i
	}
	close(feed)

	t0 := time.Now()
	done := make(chan struct{}, CONC)
	for w := 0; w < CONC; w++ {
		go func() {
			for i := range feed {
				viewer := users[i%USERS].ID
				st := time.Now()
				_, _ = feedSvc.GlobalFeed(ctx, viewer, PAGE, (i%10)*PAGE)
				recCh <- time.Since(st)
			}
			done <- struct{}{}
		}()
	}
	for w := 0; w < CONC; w++ {
		<-done
	}
	close(recCh)
	for d := range recCh {
		recs = append(recs, d)
	}
	total := time.Since(t0)

	pct := func(vs []time.Duration, p float64) time.Duration {
		if len(vs) == 0 {
			return 0
		}
		xs := append([]time.Duration(nil), vs...)
		sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
		k := int(math.Ceil(p*float64(len(xs)))) - 1
		if k < 0 {
			k = 0
		}
		if k >= len(xs) {
			k = len(xs) - 1
		}
		return xs[k]
	}

	fmt.Printf("N=%d, USERS=%d, CONC=%d, PAGE=%d, READS=%d\n", N, USERS, CONC, PAGE, READS)
	fmt.Printf("Feed assembly total: %v, per page: %v, p50: %v, p95: %v, p99: %v\n",
		total, total/time.Duration(READS), pct(recs, 0.50), pct(recs, 0.95), pct(recs, 0.99))
}
