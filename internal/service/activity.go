package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/d60-Lab/social-feed/internal/apperror"
	"github.com/d60-Lab/social-feed/internal/model"
	"github.com/d60-Lab/social-feed/internal/repository"
)

// recordActivity 在给定事务内追加一条活动流水。与主写入同事务提交：
// 流水写失败则整个操作回滚，审计线不会与主状态脱节。
func recordActivity(ctx context.Context, tx *gorm.DB, userID, activityType string, targetID string, metadata map[string]any) error {
	a := &model.UserActivity{
		ID:           uuid.New().String(),
		UserID:       userID,
		ActivityType: activityType,
		CreatedAt:    time.Now(),
	}
	if targetID != "" {
		a.TargetID = &targetID
	}
	if metadata != nil {
		payload, err := json.Marshal(metadata)
		if err != nil {
			return err
		}
		a.Metadata = datatypes.JSON(payload)
	}
	return tx.WithContext(ctx).Create(a).Error
}

// ActivityService 活动时间线读取
type ActivityService struct {
	repo repository.ActivityRepository
}

func NewActivityService(repo repository.ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// History 返回某用户最近的活动，新的在前
func (s *ActivityService) History(ctx context.Context, userID string, limit int) ([]model.UserActivity, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	return rows, nil
}
