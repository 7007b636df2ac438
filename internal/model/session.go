package model

import "time"

// Session 会话，由认证侧写入；核心逻辑只读取
type Session struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	UserID    string `gorm:"type:varchar(36);index:idx_session_user;not null"`
	ExpiresAt time.Time

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Session) TableName() string { return "sessions" }
