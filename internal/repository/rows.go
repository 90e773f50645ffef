package repository

import (
	"time"

	"videotube/internal/models"
)

// ownerColumns receives the flattened owner lookup. A nil ID means no
// user matched.
type ownerColumns struct {
	ID       *uint   `gorm:"column:owner__id"`
	Username *string `gorm:"column:owner__username"`
	FullName *string `gorm:"column:owner__full_name"`
	Avatar   *string `gorm:"column:owner__avatar"`
}

func (o ownerColumns) summary() *models.OwnerSummary {
	if o.ID == nil {
		return nil
	}
	return &models.OwnerSummary{
		Username: deref(o.Username),
		FullName: deref(o.FullName),
		Avatar:   deref(o.Avatar),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type videoRow struct {
	ID          uint         `gorm:"column:id"`
	VideoFile   string       `gorm:"column:video_file"`
	Thumbnail   string       `gorm:"column:thumbnail"`
	Title       string       `gorm:"column:title"`
	Description string       `gorm:"column:description"`
	Duration    float64      `gorm:"column:duration"`
	Views       int64        `gorm:"column:views"`
	IsPublished bool         `gorm:"column:is_published"`
	OwnerID     uint         `gorm:"column:owner_id"`
	CreatedAt   time.Time    `gorm:"column:created_at"`
	UpdatedAt   time.Time    `gorm:"column:updated_at"`
	LikesCount  int64        `gorm:"column:likes_count"`
	Owner       ownerColumns `gorm:"embedded"`
}

func shapeVideo(r videoRow) models.VideoView {
	return models.VideoView{
		ID:          r.ID,
		VideoFile:   r.VideoFile,
		Thumbnail:   r.Thumbnail,
		Title:       r.Title,
		Description: r.Description,
		Duration:    r.Duration,
		Views:       r.Views,
		IsPublished: r.IsPublished,
		OwnerID:     r.OwnerID,
		Owner:       r.Owner.summary(),
		LikesCount:  r.LikesCount,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type commentRow struct {
	ID         uint         `gorm:"column:id"`
	Content    string       `gorm:"column:content"`
	VideoID    uint         `gorm:"column:video_id"`
	CreatedAt  time.Time    `gorm:"column:created_at"`
	UpdatedAt  time.Time    `gorm:"column:updated_at"`
	LikesCount int64        `gorm:"column:likes_count"`
	Owner      ownerColumns `gorm:"embedded"`
}

func shapeComment(r commentRow) models.CommentView {
	return models.CommentView{
		ID:         r.ID,
		Content:    r.Content,
		VideoID:    r.VideoID,
		Owner:      r.Owner.summary(),
		LikesCount: r.LikesCount,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type tweetRow struct {
	ID         uint         `gorm:"column:id"`
	Content    string       `gorm:"column:content"`
	CreatedAt  time.Time    `gorm:"column:created_at"`
	UpdatedAt  time.Time    `gorm:"column:updated_at"`
	LikesCount int64        `gorm:"column:likes_count"`
	Owner      ownerColumns `gorm:"embedded"`
}

func shapeTweet(r tweetRow) models.TweetView {
	return models.TweetView{
		ID:         r.ID,
		Content:    r.Content,
		Owner:      r.Owner.summary(),
		LikesCount: r.LikesCount,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type userRow struct {
	ID               uint   `gorm:"column:id"`
	Username         string `gorm:"column:username"`
	FullName         string `gorm:"column:full_name"`
	Avatar           string `gorm:"column:avatar"`
	SubscribersCount int64  `gorm:"column:subscribers_count"`
}

func shapeUser(r userRow) models.UserSummary {
	return models.UserSummary{
		ID:       r.ID,
		Username: r.Username,
		FullName: r.FullName,
		Avatar:   r.Avatar,
	}
}
