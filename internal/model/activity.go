package model

import (
	"time"

	"gorm.io/datatypes"
)

// 活动类型
const (
	ActivityPost     = "post"
	ActivityLike     = "like"
	ActivityUnlike   = "unlike"
	ActivityComment  = "comment"
	ActivityFollow   = "follow"
	ActivityUnfollow = "unfollow"
)

// UserActivity 活动流水，只追加；created_at 序即活动时间线
type UserActivity struct {
	ID           string  `gorm:"primaryKey;type:varchar(36)"`
	UserID       string  `gorm:"type:varchar(36);index:idx_activity_user;index:idx_activity_user_type;not null"`
	ActivityType string  `gorm:"type:varchar(16);index:idx_activity_type;index:idx_activity_user_type;not null"`
	TargetID     *string `gorm:"type:varchar(36)"`
	Metadata     datatypes.JSON
	CreatedAt    time.Time `gorm:"index:idx_activity_created"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (UserActivity) TableName() string { return "user_activities" }
