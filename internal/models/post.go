package models

import "time"

type Post struct {
	ID           int    `gorm:"primaryKey" json:"id"`
	Content      string `gorm:"not null" json:"content"`
	SenderID     int    `gorm:"not null;index" json:"sender"`
	RestaurantID string `gorm:"not null;index" json:"restaurant"`
	Rating       int    `gorm:"not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	ImageURL     string `json:"imageUrl"`

	// Restaurant attributes supplied alongside the post body; consumed by the
	// rating ledger on create, never persisted on the post itself.
	RestaurantInput *RestaurantInput `gorm:"-" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p Post) PrimaryKey() any { return p.ID }

func (p Post) CreationTime() time.Time { return p.CreatedAt }

// PostView is the row shape produced by the posts query pipeline: the post
// plus response-only computed fields.
type PostView struct {
	Post
	SenderUsername  string `json:"senderUsername"`
	SenderAvatarURL string `json:"senderAvatarUrl"`
	LikesCount      int64  `json:"likesCount"`
	CommentsCount   int64  `json:"commentsCount"`
	IsLiked         bool   `json:"isLiked"`
}

type CreatePostRequest struct {
	Post struct {
		Content    string `json:"content" binding:"required"`
		Restaurant string `json:"restaurant" binding:"required"`
		Rating     int    `json:"rating" binding:"required,min=1,max=5"`
		ImageURL   string `json:"imageUrl"`
	} `json:"post" binding:"required"`
	Restaurant RestaurantInput `json:"restaurant"`
}
