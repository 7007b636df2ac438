package model

import "time"

// Like 点赞
type Like struct {
	ID     string `gorm:"primaryKey;type:varchar(36)"`
	UserID string `gorm:"type:varchar(36);index:idx_like_pair,unique;not null"`
	PostID string `gorm:"type:varchar(36);not null;index:idx_like_pair,unique;index:idx_like_post"`
	// 复合唯一键，一个用户对同一帖子至多一条点赞
	// idx_like_pair = (user_id, post_id)
	CreatedAt time.Time

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Post *Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

func (Like) TableName() string { return "likes" }
