package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/social-feed/config"
	"github.com/d60-Lab/social-feed/internal/api"
	"github.com/d60-Lab/social-feed/internal/api/handler"
	"github.com/d60-Lab/social-feed/internal/cache"
	"github.com/d60-Lab/social-feed/internal/realtime"
	"github.com/d60-Lab/social-feed/internal/repository"
	"github.com/d60-Lab/social-feed/internal/service"
	"github.com/d60-Lab/social-feed/pkg/database"
	"github.com/d60-Lab/social-feed/pkg/logger"
	"github.com/d60-Lab/social-feed/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Server.Mode); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	if cfg.Otel.Enabled {
		shutdown, err := tracing.Init(ctx, cfg)
		if err != nil {
			logger.Fatal("tracing init failed", zap.Error(err))
		}
		defer func() { _ = shutdown(ctx) }()
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, cache and broadcast disabled", zap.Error(err))
			rdb = nil
		}
	}

	countCache := cache.NewCountCache(rdb, cfg.Cache.CountTTL)
	broadcaster := realtime.NewBroadcaster(rdb, "feed:events", 10000)
	stopBroadcast := broadcaster.Start(2)

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	followRepo := repository.NewFollowRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	authSvc := service.NewAuthService(userRepo, sessionRepo, cfg.Auth.Secret, cfg.Auth.SessionTTL)
	postSvc := service.NewPostService(db, countCache, broadcaster)
	relSvc := service.NewRelationshipService(db, countCache, broadcaster)
	statsSvc := service.NewStatsService(postRepo, commentRepo, likeRepo, followRepo, countCache)
	feedSvc := service.NewFeedService(postRepo, commentRepo, followRepo, statsSvc)
	profileSvc := service.NewProfileService(userRepo, postRepo, commentRepo, activityRepo, statsSvc)
	activitySvc := service.NewActivityService(activityRepo)

	h := handler.New(authSvc, postSvc, relSvc, feedSvc, profileSvc, activitySvc)
	router := api.NewRouter(cfg, h, authSvc)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}
	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = stopBroadcast(shutdownCtx)
}
