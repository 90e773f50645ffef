package models

import (
	"time"
)

// VideoView is a video as returned by listing and detail queries:
// owner joined in, likes counted on read.
type VideoView struct {
	ID          uint          `json:"id"`
	VideoFile   string        `json:"videoFile"`
	Thumbnail   string        `json:"thumbnail"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Duration    float64       `json:"duration"`
	Views       int64         `json:"views"`
	IsPublished bool          `json:"isPublished"`
	OwnerID     uint          `json:"ownerId"`
	Owner       *OwnerSummary `json:"owner"`
	LikesCount  int64         `json:"likesCount"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// CommentView is a comment with its author joined in.
type CommentView struct {
	ID         uint          `json:"id"`
	Content    string        `json:"content"`
	VideoID    uint          `json:"videoId"`
	Owner      *OwnerSummary `json:"owner"`
	LikesCount int64         `json:"likesCount"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// TweetView is a tweet with its author joined in.
type TweetView struct {
	ID         uint          `json:"id"`
	Content    string        `json:"content"`
	Owner      *OwnerSummary `json:"owner"`
	LikesCount int64         `json:"likesCount"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`
}

// ChannelProfile is a user seen as a channel.
type ChannelProfile struct {
	UserSummary
	SubscribersCount int64 `json:"subscribersCount"`
}

// ChannelSubscribers lists who subscribes to a channel.
type ChannelSubscribers struct {
	Channel     ChannelProfile `json:"channel"`
	Subscribers []UserSummary  `json:"subscribers"`
}

// SubscribedChannels lists the channels a user subscribes to.
type SubscribedChannels struct {
	Subscriber    UserSummary   `json:"subscriber"`
	Channels      []UserSummary `json:"channels"`
	ChannelsCount int           `json:"channelsCount"`
}
