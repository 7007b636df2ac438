package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/d60-Lab/social-feed/internal/apperror"
	"github.com/d60-Lab/social-feed/internal/cache"
	"github.com/d60-Lab/social-feed/internal/repository"
	"github.com/d60-Lab/social-feed/pkg/logger"
)

const defaultPageSize = 20

// FeedService 信息流装配：无状态纯组装，不持有任何跨请求可变状态
type FeedService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	followRepo  repository.FollowRepository
	stats       *StatsService
}

func NewFeedService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	followRepo repository.FollowRepository,
	stats *StatsService,
) *FeedService {
	return &FeedService{postRepo: postRepo, commentRepo: commentRepo, followRepo: followRepo, stats: stats}
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// GlobalFeed 全局倒序信息流。viewerID 为空表示匿名浏览，跳过 viewer 标记。
// 选出的页为空时立即返回，不再发任何聚合查询。
func (s *FeedService) GlobalFeed(ctx context.Context, viewerID string, limit, offset int) ([]PostDetail, error) {
	limit, offset = normalizePage(limit, offset)

	posts, err := s.postRepo.PageGlobal(ctx, limit, offset)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	if len(posts) == 0 {
		return []PostDetail{}, nil
	}

	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	var (
		counts       map[string]cache.PostCounts
		comments     []repository.CommentRow
		likedSet     map[string]bool
		followingSet map[string]bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.stats.CountsByPost(gctx, postIDs)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = s.commentRepo.ListForPosts(gctx, postIDs)
		return err
	})
	if viewerID != "" {
		g.Go(func() error {
			var err error
			likedSet, followingSet, err = s.stats.ViewerState(gctx, viewerID, postIDs)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		if apperror.Is(err, apperror.ErrStorage) {
			return nil, err
		}
		return nil, apperror.Storage(err)
	}

	commentsByPost := make(map[string][]CommentDetail, len(posts))
	for _, c := range comments {
		commentsByPost[c.PostID] = append(commentsByPost[c.PostID], commentDetail(c))
	}

	details := make([]PostDetail, len(posts))
	for i, p := range posts {
		d := postDetail(p, counts[p.ID])
		d.Comments = commentsByPost[p.ID]
		if d.Comments == nil {
			d.Comments = []CommentDetail{}
		}
		if viewerID != "" {
			d.IsLikedByUser = likedSet[p.ID]
			d.IsFollowingAuthor = followingSet[p.AuthorID]
		}
		details[i] = d
	}
	return details, nil
}

// FollowingFeed 关注流。关注图为空时回退到全局流：
// 新用户第一页不该是空白——这是有意保留的引导策略，不是缺省行为
func (s *FeedService) FollowingFeed(ctx context.Context, viewerID string, limit, offset int) ([]PostDetail, error) {
	limit, offset = normalizePage(limit, offset)

	followingIDs, err := s.followRepo.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	if len(followingIDs) == 0 {
		logger.Debug("empty follow graph, falling back to global feed", zap.String("viewer", viewerID))
		return s.GlobalFeed(ctx, viewerID, limit, offset)
	}

	posts, err := s.postRepo.PageByAuthors(ctx, followingIDs, limit, offset)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	if len(posts) == 0 {
		return []PostDetail{}, nil
	}

	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	var (
		counts   map[string]cache.PostCounts
		likedSet map[string]bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.stats.CountsByPost(gctx, postIDs)
		return err
	})
	g.Go(func() error {
		var err error
		likedSet, err = s.likedSetOnly(gctx, viewerID, postIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		if apperror.Is(err, apperror.ErrStorage) {
			return nil, err
		}
		return nil, apperror.Storage(err)
	}

	// 关注流里作者必然被关注；评论在这条路径上不展开
	details := make([]PostDetail, len(posts))
	for i, p := range posts {
		d := postDetail(p, counts[p.ID])
		d.Comments = []CommentDetail{}
		d.IsLikedByUser = likedSet[p.ID]
		d.IsFollowingAuthor = true
		details[i] = d
	}
	return details, nil
}

func (s *FeedService) likedSetOnly(ctx context.Context, viewerID string, postIDs []string) (map[string]bool, error) {
	likes := s.stats.likeRepo
	return likes.LikedSet(ctx, viewerID, postIDs)
}

func postDetail(p repository.PostRow, counts cache.PostCounts) PostDetail {
	author := p.Author
	if author == "" {
		author = unknownAuthor
	}
	return PostDetail{
		ID:            p.ID,
		Content:       p.Content,
		Author:        author,
		AuthorID:      p.AuthorID,
		CreatedAt:     p.CreatedAt,
		LikesCount:    counts.Likes,
		CommentsCount: counts.Comments,
	}
}

func commentDetail(c repository.CommentRow) CommentDetail {
	author := c.Author
	if author == "" {
		author = unknownAuthor
	}
	return CommentDetail{
		ID:        c.ID,
		Content:   c.Content,
		Author:    author,
		AuthorID:  c.AuthorID,
		CreatedAt: c.CreatedAt,
	}
}
