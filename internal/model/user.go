package model

import "time"

// User 用户（用户名大小写敏感，唯一约束由存储引擎保证）
type User struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	Username     string `gorm:"type:varchar(64);uniqueIndex:ux_user_username;not null"`
	PasswordHash string `gorm:"type:varchar(128);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string { return "users" }
