package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-feed/internal/apperror"
	"github.com/d60-Lab/social-feed/internal/cache"
	"github.com/d60-Lab/social-feed/internal/model"
	"github.com/d60-Lab/social-feed/internal/realtime"
	"github.com/d60-Lab/social-feed/internal/repository"
)

// RelationshipService 点赞 / 关注的幂等翻转引擎。
// 翻转采用先插后删：插入走唯一键上的条件写，冲突即"已存在"，
// 并发下输掉竞争的一方退化为另一分支或 no-op，绝不会产生重复行，
// 也不会为同一次状态变化写出两条活动流水。
type RelationshipService struct {
	db          *gorm.DB
	cache       *cache.CountCache
	broadcaster *realtime.Broadcaster
}

func NewRelationshipService(db *gorm.DB, countCache *cache.CountCache, broadcaster *realtime.Broadcaster) *RelationshipService {
	return &RelationshipService{db: db, cache: countCache, broadcaster: broadcaster}
}

// ToggleLike 翻转 userID 对 postID 的点赞，返回翻转后的状态与最新计数
func (s *RelationshipService) ToggleLike(ctx context.Context, postID, userID string) (LikeToggleResult, error) {
	var isLiked bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		likes := repository.NewLikeRepository(tx)
		inserted, err := likes.InsertIfAbsent(ctx, userID, postID)
		if err != nil {
			return err
		}
		if inserted {
			isLiked = true
			return recordActivity(ctx, tx, userID, model.ActivityLike, postID, nil)
		}
		deleted, err := likes.DeletePair(ctx, userID, postID)
		if err != nil {
			return err
		}
		isLiked = false
		if !deleted {
			// 并发翻转已经删掉了这一对：状态已是目标态，不补流水
			return nil
		}
		return recordActivity(ctx, tx, userID, model.ActivityUnlike, postID, nil)
	})
	if err != nil {
		return LikeToggleResult{}, apperror.Storage(err)
	}

	s.cache.Invalidate(ctx, postID)
	count, err := repository.NewLikeRepository(s.db).CountByPost(ctx, postID)
	if err != nil {
		return LikeToggleResult{}, apperror.Storage(err)
	}

	s.broadcaster.Enqueue(realtime.Event{
		Type:     realtime.EventLikePost,
		ActorID:  userID,
		TargetID: postID,
		Payload:  map[string]any{"isLiked": isLiked, "likesCount": count},
	})
	return LikeToggleResult{IsLiked: isLiked, LikesCount: count}, nil
}

// ToggleFollow 翻转 followerID 对 followingID 的关注；关注自己直接拒绝
func (s *RelationshipService) ToggleFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == followingID {
		return false, apperror.SelfReference("cannot follow yourself")
	}

	var isFollowing bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		follows := repository.NewFollowRepository(tx)
		inserted, err := follows.InsertIfAbsent(ctx, followerID, followingID)
		if err != nil {
			return err
		}
		if inserted {
			isFollowing = true
			return recordActivity(ctx, tx, followerID, model.ActivityFollow, followingID, nil)
		}
		deleted, err := follows.DeletePair(ctx, followerID, followingID)
		if err != nil {
			return err
		}
		isFollowing = false
		if !deleted {
			return nil
		}
		return recordActivity(ctx, tx, followerID, model.ActivityUnfollow, followingID, nil)
	})
	if err != nil {
		return false, apperror.Storage(err)
	}

	s.broadcaster.Enqueue(realtime.Event{
		Type:     realtime.EventFollowUser,
		ActorID:  followerID,
		TargetID: followingID,
		Payload:  map[string]any{"isFollowing": isFollowing},
	})
	return isFollowing, nil
}
