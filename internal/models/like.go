package models

import "time"

// Like represents a like on a post. At most one per (user, post).
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index;uniqueIndex:idx_user_post_like"`
	PostID    uint      `json:"post_id" gorm:"not null;index;uniqueIndex:idx_user_post_like"`
	User      User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Post      Post      `json:"-" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
}
