package models

import "time"

// Like ties a user to a post. One like per user per post; removal is keyed by
// the (post, user) pair rather than the row id.
type Like struct {
	ID     int `gorm:"primaryKey" json:"id"`
	UserID int `gorm:"not null;uniqueIndex:idx_likes_user_post" json:"userId"`
	PostID int `gorm:"not null;uniqueIndex:idx_likes_user_post" json:"postId"`

	CreatedAt time.Time `json:"createdAt"`
}

func (l Like) PrimaryKey() any { return l.ID }

func (l Like) CreationTime() time.Time { return l.CreatedAt }

type CreateLikeRequest struct {
	PostID int `json:"postId"`
}
