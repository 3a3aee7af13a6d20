package models

import "time"

// Hashtag is a lower-cased tag. Names are unbounded; captions cap their length.
// PostCount counts linked posts and only changes when a link is created or removed.
type Hashtag struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:text;uniqueIndex;not null"`
	PostCount int64     `json:"posts_count" gorm:"not null;default:0;index"`
	CreatedAt time.Time `json:"created_at"`
}

// PostHashtag links a post to a hashtag.
type PostHashtag struct {
	PostID    uint      `json:"post_id" gorm:"primaryKey"`
	HashtagID uint      `json:"hashtag_id" gorm:"primaryKey;index"`
	CreatedAt time.Time `json:"created_at"`
}
