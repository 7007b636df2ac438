package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/social-feed/internal/model"
)

type ActivityRepository interface {
	// Create 追加一条活动流水；流水只增不改
	Create(ctx context.Context, activity *model.UserActivity) error
	// ListByUser 按时间倒序返回最近的活动
	ListByUser(ctx context.Context, userID string, limit int) ([]model.UserActivity, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository { return &activityRepository{db: db} }

func (r *activityRepository) Create(ctx context.Context, activity *model.UserActivity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.UserActivity, error) {
	var rows []model.UserActivity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *activityRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.UserActivity{}).
		Where("user_id = ?", userID).
		Count(&cnt).Error
	return cnt, err
}
