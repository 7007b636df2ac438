package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-feed/internal/apperror"
	"github.com/d60-Lab/social-feed/internal/cache"
	"github.com/d60-Lab/social-feed/internal/model"
	"github.com/d60-Lab/social-feed/internal/realtime"
)

const maxContentLen = 280

// validateContent 统一的正文校验：去除首尾空白，非空且不超过 280 字符
func validateContent(field, content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", apperror.Validation(field, field+" is required")
	}
	if utf8.RuneCountInString(trimmed) > maxContentLen {
		return "", apperror.Validation(field, field+" too long (max 280 characters)")
	}
	return trimmed, nil
}

// PostService 发帖与评论：主写入与活动流水在一个事务内落地
type PostService struct {
	db          *gorm.DB
	cache       *cache.CountCache
	broadcaster *realtime.Broadcaster
}

func NewPostService(db *gorm.DB, countCache *cache.CountCache, broadcaster *realtime.Broadcaster) *PostService {
	return &PostService{db: db, cache: countCache, broadcaster: broadcaster}
}

// CreatePost 创建帖子并记录 post 活动
func (s *PostService) CreatePost(ctx context.Context, content, authorID string) (string, error) {
	trimmed, err := validateContent("content", content)
	if err != nil {
		return "", err
	}

	postID := uuid.New().String()
	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post := &model.Post{ID: postID, Content: trimmed, AuthorID: authorID, CreatedAt: now}
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return recordActivity(ctx, tx, authorID, model.ActivityPost, postID, map[string]any{"content": trimmed})
	})
	if err != nil {
		return "", apperror.Storage(err)
	}

	s.broadcaster.Enqueue(realtime.Event{
		Type:     realtime.EventCreatePost,
		ActorID:  authorID,
		TargetID: postID,
	})
	return postID, nil
}

// AddComment 给帖子追加评论；帖子不存在返回 NotFound
func (s *PostService) AddComment(ctx context.Context, postID, content, authorID string) (string, error) {
	trimmed, err := validateContent("content", content)
	if err != nil {
		return "", err
	}

	commentID := uuid.New().String()
	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&model.Post{}).Where("id = ?", postID).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			return apperror.NotFound("post", postID)
		}
		comment := &model.Comment{ID: commentID, Content: trimmed, AuthorID: authorID, PostID: postID, CreatedAt: now}
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return recordActivity(ctx, tx, authorID, model.ActivityComment, commentID, map[string]any{"postId": postID, "content": trimmed})
	})
	if err != nil {
		if apperror.Is(err, apperror.ErrNotFound) {
			return "", err
		}
		return "", apperror.Storage(err)
	}

	s.cache.Invalidate(ctx, postID)
	s.broadcaster.Enqueue(realtime.Event{
		Type:     realtime.EventAddComment,
		ActorID:  authorID,
		TargetID: postID,
		Payload:  map[string]any{"commentId": commentID},
	})
	return commentID, nil
}
