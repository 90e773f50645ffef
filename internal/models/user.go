// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User is the identity anchor every video, tweet, comment and relation
// points at. The core never mutates it.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"unique;not null" json:"username"`
	Email      string    `gorm:"unique;not null" json:"email"`
	FullName   string    `gorm:"not null" json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	Password   string    `gorm:"not null" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// OwnerSummary is the public projection of a user joined onto an entity.
type OwnerSummary struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// UserSummary is the projection used when listing related users.
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}
