package service

import "time"

// CommentDetail 评论视图
type CommentDetail struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostDetail 聚合后的帖子视图：作者名、计数、viewer 相关标记与评论
type PostDetail struct {
	ID                string          `json:"id"`
	Content           string          `json:"content"`
	Author            string          `json:"author"`
	AuthorID          string          `json:"authorId"`
	CreatedAt         time.Time       `json:"createdAt"`
	LikesCount        int64           `json:"likesCount"`
	CommentsCount     int64           `json:"commentsCount"`
	IsLikedByUser     bool            `json:"isLikedByUser"`
	IsFollowingAuthor bool            `json:"isFollowingAuthor"`
	Comments          []CommentDetail `json:"comments"`
}

// UserStats 个人页五项计数；LikesCount 为收到的赞（按帖子作者归属）
type UserStats struct {
	PostsCount     int64 `json:"postsCount"`
	LikesCount     int64 `json:"likesCount"`
	CommentsCount  int64 `json:"commentsCount"`
	FollowersCount int64 `json:"followersCount"`
	FollowingCount int64 `json:"followingCount"`
}

// LikeToggleResult 点赞翻转的结果
type LikeToggleResult struct {
	IsLiked    bool  `json:"isLiked"`
	LikesCount int64 `json:"likesCount"`
}

// 作者被删或缺失时填充的占位名
const unknownAuthor = "Unknown"
