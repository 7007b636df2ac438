package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/d60-Lab/social-feed/internal/apperror"
	"github.com/d60-Lab/social-feed/internal/model"
	"github.com/d60-Lab/social-feed/internal/repository"
)

// UserSummary 对外暴露的用户摘要
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// UserComment 用户发过的评论 + 所评帖子的上下文
type UserComment struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	PostID      string    `json:"postId"`
	CreatedAt   time.Time `json:"createdAt"`
	PostContent string    `json:"postContent"`
	PostAuthor  string    `json:"postAuthor"`
}

// Profile 个人页聚合包
type Profile struct {
	User     UserSummary          `json:"user"`
	Posts    []PostDetail         `json:"posts"`
	Likes    []PostDetail         `json:"likes"`
	Comments []UserComment        `json:"comments"`
	Stats    UserStats            `json:"stats"`
	Activity []model.UserActivity `json:"activity"`
}

const profileActivityLimit = 20

// ProfileService 个人页装配：五路只读查询并发取齐
type ProfileService struct {
	userRepo     repository.UserRepository
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	activityRepo repository.ActivityRepository
	stats        *StatsService
}

func NewProfileService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	activityRepo repository.ActivityRepository,
	stats *StatsService,
) *ProfileService {
	return &ProfileService{
		userRepo:     userRepo,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		activityRepo: activityRepo,
		stats:        stats,
	}
}

func (s *ProfileService) UserProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	if user == nil {
		return nil, apperror.NotFound("user", userID)
	}

	profile := &Profile{User: UserSummary{ID: user.ID, Username: user.Username}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.postRepo.ListByAuthor(gctx, userID)
		if err != nil {
			return err
		}
		profile.Posts = plainPostDetails(rows, false)
		return nil
	})
	g.Go(func() error {
		rows, err := s.postRepo.ListLikedBy(gctx, userID)
		if err != nil {
			return err
		}
		profile.Likes = plainPostDetails(rows, true)
		return nil
	})
	g.Go(func() error {
		rows, err := s.commentRepo.ListByAuthor(gctx, userID)
		if err != nil {
			return err
		}
		profile.Comments = userComments(rows)
		return nil
	})
	g.Go(func() error {
		stats, err := s.stats.UserStats(gctx, userID)
		if err != nil {
			return err
		}
		profile.Stats = stats
		return nil
	})
	g.Go(func() error {
		rows, err := s.activityRepo.ListByUser(gctx, userID, profileActivityLimit)
		if err != nil {
			return err
		}
		profile.Activity = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		if apperror.Is(err, apperror.ErrStorage) {
			return nil, err
		}
		return nil, apperror.Storage(err)
	}
	return profile, nil
}

// plainPostDetails 个人页子列表不带计数与评论，保持原有轻量形态
func plainPostDetails(rows []repository.PostRow, liked bool) []PostDetail {
	details := make([]PostDetail, len(rows))
	for i, p := range rows {
		author := p.Author
		if author == "" {
			author = unknownAuthor
		}
		details[i] = PostDetail{
			ID:            p.ID,
			Content:       p.Content,
			Author:        author,
			AuthorID:      p.AuthorID,
			CreatedAt:     p.CreatedAt,
			IsLikedByUser: liked,
			Comments:      []CommentDetail{},
		}
	}
	return details
}

func userComments(rows []repository.UserCommentRow) []UserComment {
	out := make([]UserComment, len(rows))
	for i, c := range rows {
		author := c.PostAuthor
		if author == "" {
			author = unknownAuthor
		}
		out[i] = UserComment{
			ID:          c.ID,
			Content:     c.Content,
			PostID:      c.PostID,
			CreatedAt:   c.CreatedAt,
			PostContent: c.PostContent,
			PostAuthor:  author,
		}
	}
	return out
}
