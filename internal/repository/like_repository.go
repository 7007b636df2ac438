package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/social-feed/internal/model"
)

type LikeRepository interface {
	// InsertIfAbsent 条件写入：依赖 (user_id, post_id) 唯一键，
	// 冲突视为已点赞并返回 false，不作为错误抛出
	InsertIfAbsent(ctx context.Context, userID, postID string) (bool, error)
	// DeletePair 删除点赞对，返回是否真的删到了行
	DeletePair(ctx context.Context, userID, postID string) (bool, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
	CountGroupByPost(ctx context.Context, postIDs []string) (map[string]int64, error)
	// LikedSet 批量判断 viewer 对整页帖子的点赞情况
	LikedSet(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
	// CountReceivedBy 统计某作者收到的赞（Like 经 Post 连接到作者）
	CountReceivedBy(ctx context.Context, authorID string) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) InsertIfAbsent(ctx context.Context, userID, postID string) (bool, error) {
	l := &model.Like{ID: uuid.New().String(), UserID: userID, PostID: postID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(l)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *likeRepository) DeletePair(ctx context.Context, userID, postID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *likeRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("post_id = ?", postID).
		Count(&cnt).Error
	return cnt, err
}

func (r *likeRepository) CountGroupByPost(ctx context.Context, postIDs []string) (map[string]int64, error) {
	if len(postIDs) == 0 {
		return map[string]int64{}, nil
	}
	var rows []groupCount
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Select("post_id", "COUNT(*) AS count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return groupCountMap(rows), nil
}

func (r *likeRepository) LikedSet(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	if len(postIDs) == 0 {
		return map[string]bool{}, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Select("post_id").
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (r *likeRepository) CountReceivedBy(ctx context.Context, authorID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Table("likes").
		Joins("JOIN posts ON likes.post_id = posts.id").
		Where("posts.author_id = ?", authorID).
		Count(&cnt).Error
	return cnt, err
}
