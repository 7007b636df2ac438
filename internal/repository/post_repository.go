package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-feed/internal/model"
)

// PostRow 帖子行 + 左连接出来的作者名（作者缺失时为空串）
type PostRow struct {
	ID        string
	Content   string
	AuthorID  string
	CreatedAt time.Time
	Author    string
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Exists(ctx context.Context, id string) (bool, error)
	// PageGlobal 全局倒序分页；created_at 相同时按 id 倒序，保证翻页稳定
	PageGlobal(ctx context.Context, limit, offset int) ([]PostRow, error)
	// PageByAuthors 限定作者集合的倒序分页
	PageByAuthors(ctx context.Context, authorIDs []string, limit, offset int) ([]PostRow, error)
	ListByAuthor(ctx context.Context, authorID string) ([]PostRow, error)
	// ListLikedBy 按点赞时间倒序返回用户赞过的帖子
	ListLikedBy(ctx context.Context, userID string) ([]PostRow, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) Exists(ctx context.Context, id string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *postRepository) PageGlobal(ctx context.Context, limit, offset int) ([]PostRow, error) {
	var rows []PostRow
	err := r.db.WithContext(ctx).
		Table("posts").
		Select("posts.id", "posts.content", "posts.author_id", "posts.created_at", "users.username AS author").
		Joins("LEFT JOIN users ON posts.author_id = users.id").
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, err
}

func (r *postRepository) PageByAuthors(ctx context.Context, authorIDs []string, limit, offset int) ([]PostRow, error) {
	var rows []PostRow
	err := r.db.WithContext(ctx).
		Table("posts").
		Select("posts.id", "posts.content", "posts.author_id", "posts.created_at", "users.username AS author").
		Joins("LEFT JOIN users ON posts.author_id = users.id").
		Where("posts.author_id IN ?", authorIDs).
		Order("posts.created_at DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, err
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID string) ([]PostRow, error) {
	var rows []PostRow
	err := r.db.WithContext(ctx).
		Table("posts").
		Select("posts.id", "posts.content", "posts.author_id", "posts.created_at", "users.username AS author").
		Joins("LEFT JOIN users ON posts.author_id = users.id").
		Where("posts.author_id = ?", authorID).
		Order("posts.created_at DESC, posts.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *postRepository) ListLikedBy(ctx context.Context, userID string) ([]PostRow, error) {
	var rows []PostRow
	err := r.db.WithContext(ctx).
		Table("likes").
		Select("posts.id", "posts.content", "posts.author_id", "posts.created_at", "users.username AS author").
		Joins("JOIN posts ON likes.post_id = posts.id").
		Joins("LEFT JOIN users ON posts.author_id = users.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC, likes.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("author_id = ?", authorID).
		Count(&cnt).Error
	return cnt, err
}
