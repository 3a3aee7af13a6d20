package models

import "time"

// StoryTTL is how long a story stays visible after creation.
const StoryTTL = 24 * time.Hour

// Story is an image with an optional text overlay that expires StoryTTL after creation.
// IsActive is a manual switch independent of expiry.
type Story struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ImageURL    string    `json:"image_url" gorm:"not null"`
	TextContent string    `json:"text_content" gorm:"type:text"`
	AuthorID    uint      `json:"author_id" gorm:"not null;index"`
	Author      User      `json:"author" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	ExpiresAt   time.Time `json:"expires_at" gorm:"not null;index"`
	IsActive    bool      `json:"is_active" gorm:"default:true;not null"`
}

// ExpiredAt reports whether the story has reached its expiry at the given instant.
func (s Story) ExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// StoryView records that a viewer opened a story. At most one per (story, viewer).
type StoryView struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	StoryID  uint      `json:"story_id" gorm:"not null;index;uniqueIndex:idx_story_viewer"`
	Story    Story     `json:"-" gorm:"foreignKey:StoryID;constraint:OnDelete:CASCADE"`
	ViewerID uint      `json:"viewer_id" gorm:"not null;index;uniqueIndex:idx_story_viewer"`
	Viewer   User      `json:"viewer" gorm:"foreignKey:ViewerID;constraint:OnDelete:CASCADE"`
	ViewedAt time.Time `json:"viewed_at"`
}

// StoryDetail is a story enriched with fields derived for one viewer at read time.
type StoryDetail struct {
	Story
	IsExpired  bool  `json:"is_expired"`
	ViewsCount int64 `json:"views_count"`
	IsViewed   bool  `json:"is_viewed"`
}

// CreateStoryRequest defines the request body for creating a story
type CreateStoryRequest struct {
	ImageURL    string `json:"image_url" validate:"required,max=512"`
	TextContent string `json:"text_content" validate:"max=500"`
}
