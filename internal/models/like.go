package models

import "time"

// Like represents a user's like on a post. The combination of AuthorUsername
// and PostID must be unique, and the author must differ from the post's
// author. Likes are add-only: no unlike path exists, and deleting a post does
// not remove its likes.
type Like struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	AuthorUsername string    `gorm:"not null;uniqueIndex:idx_author_post" json:"author_username"`
	PostID         uint      `gorm:"not null;uniqueIndex:idx_author_post" json:"post_id"`
	CreatedAt      time.Time `json:"created_at"`
}
