package models

import "time"

type Comment struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"not null" json:"content"`
	SenderID int    `gorm:"not null;index" json:"sender"`
	Sender   User   `gorm:"foreignKey:SenderID" json:"user"`
	PostID   int    `gorm:"not null;index" json:"postId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c Comment) PrimaryKey() any { return c.ID }

func (c Comment) CreationTime() time.Time { return c.CreatedAt }

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
	PostID  int    `json:"postId" binding:"required"`
}
