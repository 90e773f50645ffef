package models

import (
	"time"
)

// Comment represents a comment on a video.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	VideoID   uint      `gorm:"not null;index" json:"videoId"`
	Video     Video     `gorm:"foreignKey:VideoID" json:"-"`
	OwnerID   uint      `gorm:"not null;index" json:"ownerId"`
	Owner     User      `gorm:"foreignKey:OwnerID" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
