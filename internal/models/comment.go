// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post. Comments survive deletion of the
// post they reference.
type Comment struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	AuthorUsername string         `gorm:"not null;index" json:"author_username"`
	PostID         uint           `gorm:"not null;index" json:"post_id"`
	Body           string         `gorm:"type:text;not null" json:"comment"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"last_modified_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
