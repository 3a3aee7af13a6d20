package models

import "time"

// MaxPostImages caps the number of images attached to one post.
const MaxPostImages = 10

// Post is a captioned set of ordered images.
type Post struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Caption  string `json:"caption" gorm:"type:text"`
	ImageURL string `json:"image_url,omitempty"` // single-image posts predating PostImage
	AuthorID uint   `json:"author_id" gorm:"not null;index"`
	Author   User   `json:"author" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	// Images are kept in OrderIndex order when loaded.
	Images    []PostImage `json:"images" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `json:"created_at" gorm:"index"`
}

// PostImage is one image of a post at a fixed position.
type PostImage struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PostID     uint      `json:"post_id" gorm:"not null;index"`
	ImageURL   string    `json:"image_url" gorm:"not null"`
	OrderIndex int       `json:"order_index" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
}

// PrimaryImageURL returns the first ordered image, falling back to the legacy reference.
func (p Post) PrimaryImageURL() string {
	if len(p.Images) == 0 {
		return p.ImageURL
	}
	first := p.Images[0]
	for _, img := range p.Images[1:] {
		if img.OrderIndex < first.OrderIndex {
			first = img
		}
	}
	return first.ImageURL
}

// PostDetail is a post enriched with fields derived for one viewer at read time.
type PostDetail struct {
	Post
	LikesCount      int64    `json:"likes_count"`
	CommentsCount   int64    `json:"comments_count"`
	IsLiked         bool     `json:"is_liked"`
	PrimaryImageURL string   `json:"primary_image_url"`
	Hashtags        []string `json:"hashtags"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Caption string   `json:"caption" validate:"max=2200"`
	Images  []string `json:"images" validate:"required,min=1,max=10,dive,required,max=512"`
}
