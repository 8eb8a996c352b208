// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a blog entry. The author is referenced by username rather
// than by user ID; ownership checks compare against AuthorUsername.
type Post struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	AuthorUsername string `gorm:"not null;index" json:"author_username"`
	Subject        string `gorm:"not null" json:"subject"`
	Content        string `gorm:"type:text;not null" json:"content"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int            `gorm:"->" json:"comments_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"last_modified_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
