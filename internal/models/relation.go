package models

import (
	"fmt"
	"time"
)

// TargetKind names the entity a relation points at.
type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetComment TargetKind = "comment"
	TargetTweet   TargetKind = "tweet"
	TargetChannel TargetKind = "channel"
)

// ParseTargetKind accepts the lowercase kind names used in routes.
func ParseTargetKind(raw string) (TargetKind, error) {
	switch kind := TargetKind(raw); kind {
	case TargetVideo, TargetComment, TargetTweet, TargetChannel:
		return kind, nil
	default:
		return "", NewValidationError(fmt.Sprintf("Unknown target kind %q", raw))
	}
}

// Likeable reports whether a like may point at this kind.
func (k TargetKind) Likeable() bool {
	switch k {
	case TargetVideo, TargetComment, TargetTweet:
		return true
	case TargetChannel:
		return false
	default:
		return false
	}
}

// Target identifies one entity an actor can relate to.
type Target struct {
	Kind TargetKind
	ID   uint
}

func (t Target) String() string {
	return fmt.Sprintf("%s:%d", t.Kind, t.ID)
}

// Relation is the storage-agnostic view of a like or a subscription.
type Relation struct {
	ID        uint      `json:"id"`
	ActorID   uint      `json:"actorId"`
	Target    Target    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Like is an actor liking a video, comment or tweet.
// The combination of ActorID, TargetKind and TargetID must be unique.
type Like struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ActorID    uint       `gorm:"not null;uniqueIndex:idx_like_actor_target" json:"likedBy"`
	TargetKind TargetKind `gorm:"type:varchar(16);not null;uniqueIndex:idx_like_actor_target;index:idx_like_target" json:"targetKind"`
	TargetID   uint       `gorm:"not null;uniqueIndex:idx_like_actor_target;index:idx_like_target" json:"targetId"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Relation converts the row into its domain form.
func (l Like) Relation() *Relation {
	return &Relation{
		ID:        l.ID,
		ActorID:   l.ActorID,
		Target:    Target{Kind: l.TargetKind, ID: l.TargetID},
		CreatedAt: l.CreatedAt,
	}
}

// Subscription is a subscriber following a channel (another user).
// The combination of SubscriberID and ChannelID must be unique.
type Subscription struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubscriberID uint      `gorm:"not null;uniqueIndex:idx_subscriber_channel" json:"subscriber"`
	ChannelID    uint      `gorm:"not null;uniqueIndex:idx_subscriber_channel;index" json:"channel"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Relation converts the row into its domain form.
func (s Subscription) Relation() *Relation {
	return &Relation{
		ID:        s.ID,
		ActorID:   s.SubscriberID,
		Target:    Target{Kind: TargetChannel, ID: s.ChannelID},
		CreatedAt: s.CreatedAt,
	}
}
