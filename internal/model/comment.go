package model

import "time"

// Comment 评论，随帖子或作者级联删除
type Comment struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Content   string    `gorm:"type:varchar(280);not null"`
	AuthorID  string    `gorm:"type:varchar(36);index:idx_comment_author;not null"`
	PostID    string    `gorm:"type:varchar(36);index:idx_comment_post;not null"`
	CreatedAt time.Time

	Author *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Post   *Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

func (Comment) TableName() string { return "comments" }
