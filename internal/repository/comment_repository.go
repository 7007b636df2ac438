package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-feed/internal/model"
)

// CommentRow 评论行 + 作者名
type CommentRow struct {
	ID        string
	Content   string
	AuthorID  string
	PostID    string
	CreatedAt time.Time
	Author    string
}

// UserCommentRow 某用户发过的评论 + 所评帖子的上下文
type UserCommentRow struct {
	ID          string
	Content     string
	PostID      string
	CreatedAt   time.Time
	PostContent string
	PostAuthor  string
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	// ListForPosts 一次取回整页帖子的全部评论，按 created_at 升序
	ListForPosts(ctx context.Context, postIDs []string) ([]CommentRow, error)
	ListByAuthor(ctx context.Context, authorID string) ([]UserCommentRow, error)
	// CountGroupByPost 单条分组查询拿到每帖评论数，避免逐帖扇出
	CountGroupByPost(ctx context.Context, postIDs []string) (map[string]int64, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) ListForPosts(ctx context.Context, postIDs []string) ([]CommentRow, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var rows []CommentRow
	err := r.db.WithContext(ctx).
		Table("comments").
		Select("comments.id", "comments.content", "comments.author_id", "comments.post_id", "comments.created_at", "users.username AS author").
		Joins("LEFT JOIN users ON comments.author_id = users.id").
		Where("comments.post_id IN ?", postIDs).
		Order("comments.created_at ASC, comments.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *commentRepository) ListByAuthor(ctx context.Context, authorID string) ([]UserCommentRow, error) {
	var rows []UserCommentRow
	err := r.db.WithContext(ctx).
		Table("comments").
		Select("comments.id", "comments.content", "comments.post_id", "comments.created_at",
			"posts.content AS post_content", "users.username AS post_author").
		Joins("LEFT JOIN posts ON comments.post_id = posts.id").
		Joins("LEFT JOIN users ON posts.author_id = users.id").
		Where("comments.author_id = ?", authorID).
		Order("comments.created_at DESC, comments.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *commentRepository) CountGroupByPost(ctx context.Context, postIDs []string) (map[string]int64, error) {
	if len(postIDs) == 0 {
		return map[string]int64{}, nil
	}
	var rows []groupCount
	err := r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Select("post_id", "COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return groupCountMap(rows), nil
}

func (r *commentRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("author_id = ?", authorID).
		Count(&cnt).Error
	return cnt, err
}

type groupCount struct {
	PostID string
	Count  int64
}

func groupCountMap(rows []groupCount) map[string]int64 {
	m := make(map[string]int64, len(rows))
	for _, row := range rows {
		m[row.PostID] = row.Count
	}
	return m
}
