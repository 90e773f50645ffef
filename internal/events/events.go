// Package events publishes domain events after a write has committed.
// Delivery is best effort: a failed publish is logged and counted but
// never fails the request that caused it.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"videotube/internal/models"
	"videotube/internal/observability"
)

// Subjects events are published under.
const (
	SubjectLikeToggled         = "videotube.like.toggled"
	SubjectSubscriptionToggled = "videotube.subscription.toggled"
	SubjectVideoPublished      = "videotube.video.published"
	SubjectVideoDeleted        = "videotube.video.deleted"
)

// Broker moves encoded events to a transport.
type Broker interface {
	Name() string
	Publish(ctx context.Context, subject string, data []byte) error
	Close() error
}

// Publisher is what services emit through.
type Publisher interface {
	RelationToggled(ctx context.Context, actorID uint, target models.Target, active bool)
	VideoPublished(ctx context.Context, video *models.Video)
	VideoDeleted(ctx context.Context, videoID, ownerID uint)
}

// RelationToggledEvent is emitted when a like or subscription flips.
type RelationToggledEvent struct {
	ActorID    uint      `json:"actorId"`
	TargetKind string    `json:"targetKind"`
	TargetID   uint      `json:"targetId"`
	Active     bool      `json:"active"`
	OccurredAt time.Time `json:"occurredAt"`
}

// VideoEvent is emitted when a video is published or deleted.
type VideoEvent struct {
	VideoID     uint      `json:"videoId"`
	OwnerID     uint      `json:"ownerId"`
	Title       string    `json:"title,omitempty"`
	IsPublished bool      `json:"isPublished"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// Emitter encodes events and hands them to a Broker. A nil broker drops
// everything.
type Emitter struct {
	broker Broker
	now    func() time.Time
}

// NewEmitter creates an emitter publishing through b.
func NewEmitter(b Broker) *Emitter {
	return &Emitter{broker: b, now: time.Now}
}

func (e *Emitter) enabled() bool {
	return e != nil && e.broker != nil
}

func (e *Emitter) RelationToggled(ctx context.Context, actorID uint, target models.Target, active bool) {
	if !e.enabled() {
		return
	}
	subject := SubjectLikeToggled
	if target.Kind == models.TargetChannel {
		subject = SubjectSubscriptionToggled
	}
	e.emit(ctx, subject, RelationToggledEvent{
		ActorID:    actorID,
		TargetKind: string(target.Kind),
		TargetID:   target.ID,
		Active:     active,
		OccurredAt: e.now().UTC(),
	})
}

func (e *Emitter) VideoPublished(ctx context.Context, video *models.Video) {
	if !e.enabled() || video == nil {
		return
	}
	e.emit(ctx, SubjectVideoPublished, VideoEvent{
		VideoID:     video.ID,
		OwnerID:     video.OwnerID,
		Title:       video.Title,
		IsPublished: video.IsPublished,
		OccurredAt:  e.now().UTC(),
	})
}

func (e *Emitter) VideoDeleted(ctx context.Context, videoID, ownerID uint) {
	if !e.enabled() {
		return
	}
	e.emit(ctx, SubjectVideoDeleted, VideoEvent{
		VideoID:    videoID,
		OwnerID:    ownerID,
		OccurredAt: e.now().UTC(),
	})
}

func (e *Emitter) emit(ctx context.Context, subject string, event any) {
	data, err := json.Marshal(event)
	if err == nil {
		err = e.broker.Publish(ctx, subject, data)
	}
	observability.EventsPublished.WithLabelValues(e.broker.Name(), subject, observability.Outcome(err)).Inc()
	if err != nil {
		observability.GlobalLogger.WarnContext(ctx, "event publish failed",
			slog.String("broker", e.broker.Name()),
			slog.String("subject", subject),
			slog.String("error", err.Error()),
		)
	}
}

// Close releases the underlying broker.
func (e *Emitter) Close() error {
	if e == nil || e.broker == nil {
		return nil
	}
	return e.broker.Close()
}
