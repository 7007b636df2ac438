package model

import "time"

// Post 内容主体，正文上限 280 字符
type Post struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Content   string    `gorm:"type:varchar(280);not null"`
	AuthorID  string    `gorm:"type:varchar(36);index:idx_post_author;not null"`
	CreatedAt time.Time `gorm:"index:idx_post_created"`

	Author *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

func (Post) TableName() string { return "posts" }
