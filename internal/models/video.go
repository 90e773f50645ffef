package models

import (
	"time"
)

// Video is an uploaded video. Asset identifiers are stored next to the
// public URLs so the media store can be told exactly what to destroy.
type Video struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	VideoFile        string    `gorm:"not null" json:"videoFile"`
	VideoAssetID     string    `gorm:"not null" json:"-"`
	Thumbnail        string    `gorm:"not null" json:"thumbnail"`
	ThumbnailAssetID string    `gorm:"not null" json:"-"`
	Title            string    `gorm:"not null;index" json:"title"`
	Description      string    `gorm:"type:text;not null" json:"description"`
	Duration         float64   `json:"duration"`
	Views            int64     `gorm:"not null" json:"views"`
	IsPublished      bool      `gorm:"not null;index" json:"isPublished"`
	OwnerID          uint      `gorm:"not null;index" json:"ownerId"`
	Owner            User      `gorm:"foreignKey:OwnerID" json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
