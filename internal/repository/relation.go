package repository

import (
	"context"
	"errors"
	"fmt"

	"videotube/internal/models"
	"videotube/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RelationStore persists likes and subscriptions. At most one relation
// exists per actor and target; the unique indexes on both tables enforce
// it.
type RelationStore interface {
	Find(ctx context.Context, actorID uint, target models.Target) (*models.Relation, error)
	Create(ctx context.Context, actorID uint, target models.Target) (*models.Relation, error)
	Delete(ctx context.Context, kind models.TargetKind, relationID uint) (bool, error)
	Toggle(ctx context.Context, actorID uint, target models.Target) (bool, error)
}

type relationStore struct {
	db    *gorm.DB
	likes *observability.RepoLogger
	subs  *observability.RepoLogger
}

// NewRelationStore creates a relation store backed by db.
func NewRelationStore(db *gorm.DB) RelationStore {
	return &relationStore{
		db:    db,
		likes: observability.NewRepoLogger("likes"),
		subs:  observability.NewRepoLogger("subscriptions"),
	}
}

var (
	likeConflict = clause.OnConflict{
		Columns:   []clause.Column{{Name: "actor_id"}, {Name: "target_kind"}, {Name: "target_id"}},
		DoNothing: true,
	}
	subscriptionConflict = clause.OnConflict{
		Columns:   []clause.Column{{Name: "subscriber_id"}, {Name: "channel_id"}},
		DoNothing: true,
	}
)

func unknownKind(kind models.TargetKind) error {
	return models.NewValidationError(fmt.Sprintf("Unknown target kind %q", kind))
}

func (r *relationStore) Find(ctx context.Context, actorID uint, target models.Target) (*models.Relation, error) {
	db := r.db.WithContext(ctx)
	switch target.Kind {
	case models.TargetVideo, models.TargetComment, models.TargetTweet:
		var like models.Like
		err := db.Where("actor_id = ? AND target_kind = ? AND target_id = ?", actorID, target.Kind, target.ID).
			Take(&like).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return like.Relation(), nil
	case models.TargetChannel:
		var sub models.Subscription
		err := db.Where("subscriber_id = ? AND channel_id = ?", actorID, target.ID).
			Take(&sub).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return sub.Relation(), nil
	default:
		return nil, unknownKind(target.Kind)
	}
}

// insert adds the relation unless it already exists. The returned flag is
// false when another writer got there first.
func (r *relationStore) insert(ctx context.Context, actorID uint, target models.Target) (*models.Relation, bool, error) {
	db := r.db.WithContext(ctx)
	switch target.Kind {
	case models.TargetVideo, models.TargetComment, models.TargetTweet:
		like := models.Like{ActorID: actorID, TargetKind: target.Kind, TargetID: target.ID}
		res := db.Clauses(likeConflict).Create(&like)
		if res.Error != nil {
			if isDuplicateKey(res.Error) {
				return nil, false, nil
			}
			r.likes.LogError(ctx, res.Error, "create")
			return nil, false, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, false, nil
		}
		r.likes.LogCreate(ctx, map[string]any{"actor_id": actorID, "target": target.String()})
		return like.Relation(), true, nil
	case models.TargetChannel:
		sub := models.Subscription{SubscriberID: actorID, ChannelID: target.ID}
		res := db.Clauses(subscriptionConflict).Create(&sub)
		if res.Error != nil {
			if isDuplicateKey(res.Error) {
				return nil, false, nil
			}
			r.subs.LogError(ctx, res.Error, "create")
			return nil, false, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, false, nil
		}
		r.subs.LogCreate(ctx, map[string]any{"subscriber_id": actorID, "channel_id": target.ID})
		return sub.Relation(), true, nil
	default:
		return nil, false, unknownKind(target.Kind)
	}
}

func (r *relationStore) Create(ctx context.Context, actorID uint, target models.Target) (*models.Relation, error) {
	rel, created, err := r.insert(ctx, actorID, target)
	if err != nil {
		return nil, err
	}
	if created {
		return rel, nil
	}
	existing, err := r.Find(ctx, actorID, target)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		// Deleted again between the conflicting insert and the read.
		return nil, fmt.Errorf("relation %s for actor %d vanished during create", target, actorID)
	}
	return existing, nil
}

func (r *relationStore) Delete(ctx context.Context, kind models.TargetKind, relationID uint) (bool, error) {
	db := r.db.WithContext(ctx)
	var res *gorm.DB
	switch kind {
	case models.TargetVideo, models.TargetComment, models.TargetTweet:
		res = db.Where("id = ? AND target_kind = ?", relationID, kind).Delete(&models.Like{})
	case models.TargetChannel:
		res = db.Where("id = ?", relationID).Delete(&models.Subscription{})
	default:
		return false, unknownKind(kind)
	}
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, models.NewNotFoundError("Relation", relationID)
	}
	return true, nil
}

// remove deletes the relation between actor and target if there is one.
func (r *relationStore) remove(ctx context.Context, actorID uint, target models.Target) (bool, error) {
	db := r.db.WithContext(ctx)
	var res *gorm.DB
	switch target.Kind {
	case models.TargetVideo, models.TargetComment, models.TargetTweet:
		res = db.Where("actor_id = ? AND target_kind = ? AND target_id = ?", actorID, target.Kind, target.ID).
			Delete(&models.Like{})
	case models.TargetChannel:
		res = db.Where("subscriber_id = ? AND channel_id = ?", actorID, target.ID).
			Delete(&models.Subscription{})
	default:
		return false, unknownKind(target.Kind)
	}
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Toggle flips the relation with two guarded statements instead of a
// read followed by a write: a delete that reports whether it removed
// anything, then an insert that ignores conflicts. A concurrent toggle
// that loses the insert race reports the relation as active.
func (r *relationStore) Toggle(ctx context.Context, actorID uint, target models.Target) (bool, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "Toggle", string(target.Kind))
	defer span.End()

	removed, err := r.remove(ctx, actorID, target)
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	if removed {
		return false, nil
	}

	if _, _, err := r.insert(ctx, actorID, target); err != nil {
		span.RecordError(err)
		return false, err
	}
	return true, nil
}
