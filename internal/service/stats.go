package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/d60-Lab/social-feed/internal/apperror"
	"github.com/d60-Lab/social-feed/internal/cache"
	"github.com/d60-Lab/social-feed/internal/repository"
)

// StatsService 批量聚合：每个指标一条分组查询，整页一次取回。
// 逐帖发 count 是这里明确要避免的 N+1 模式。
type StatsService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
	followRepo  repository.FollowRepository
	cache       *cache.CountCache
}

func NewStatsService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
	followRepo repository.FollowRepository,
	countCache *cache.CountCache,
) *StatsService {
	return &StatsService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		followRepo:  followRepo,
		cache:       countCache,
	}
}

// CountsByPost 返回整页帖子的 {点赞数, 评论数}；缓存命中的帖子不再回表
func (s *StatsService) CountsByPost(ctx context.Context, postIDs []string) (map[string]cache.PostCounts, error) {
	result := make(map[string]cache.PostCounts, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	hits, missing := s.cache.GetMany(ctx, postIDs)
	for id, pc := range hits {
		result[id] = pc
	}
	if len(missing) == 0 {
		return result, nil
	}

	var likeCounts, commentCounts map[string]int64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		likeCounts, err = s.likeRepo.CountGroupByPost(gctx, missing)
		return err
	})
	g.Go(func() error {
		var err error
		commentCounts, err = s.commentRepo.CountGroupByPost(gctx, missing)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperror.Storage(err)
	}

	fresh := make(map[string]cache.PostCounts, len(missing))
	for _, id := range missing {
		pc := cache.PostCounts{Likes: likeCounts[id], Comments: commentCounts[id]}
		fresh[id] = pc
		result[id] = pc
	}
	s.cache.SetMany(ctx, fresh)
	return result, nil
}

// ViewerState 返回 viewer 赞过的帖子集合与关注的作者集合，两路并发
func (s *StatsService) ViewerState(ctx context.Context, viewerID string, postIDs []string) (liked map[string]bool, following map[string]bool, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		liked, err = s.likeRepo.LikedSet(gctx, viewerID, postIDs)
		return err
	})
	g.Go(func() error {
		ids, err := s.followRepo.FollowingIDs(gctx, viewerID)
		if err != nil {
			return err
		}
		following = make(map[string]bool, len(ids))
		for _, id := range ids {
			following[id] = true
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, apperror.Storage(err)
	}
	return liked, following, nil
}

// UserStats 个人页五项计数，互相独立，一次并发取齐。
// LikesCount 是收到的赞：Like 经 Post 归到作者头上，而不是该用户点出的赞。
func (s *StatsService) UserStats(ctx context.Context, userID string) (UserStats, error) {
	var stats UserStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.postRepo.CountByAuthor(gctx, userID)
		stats.PostsCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.likeRepo.CountReceivedBy(gctx, userID)
		stats.LikesCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.commentRepo.CountByAuthor(gctx, userID)
		stats.CommentsCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.followRepo.CountFollowers(gctx, userID)
		stats.FollowersCount = n
		return err
	})
	g.Go(func() error {
		n, err := s.followRepo.CountFollowing(gctx, userID)
		stats.FollowingCount = n
		return err
	})
	if err := g.Wait(); err != nil {
		return UserStats{}, apperror.Storage(err)
	}
	return stats, nil
}
