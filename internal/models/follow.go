package models

import "time"

// Follow is a directed edge: FollowerID follows FollowedID.
// Mutual follows are two rows.
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID uint      `json:"follower_id" gorm:"not null;index;uniqueIndex:idx_follower_followed;check:chk_follows_no_self,follower_id <> followed_id"`
	FollowedID uint      `json:"followed_id" gorm:"not null;index;uniqueIndex:idx_follower_followed"`
	Follower   User      `json:"-" gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE"`
	Followed   User      `json:"-" gorm:"foreignKey:FollowedID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `json:"created_at"`
}
