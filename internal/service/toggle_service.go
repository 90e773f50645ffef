// Package service holds the business rules that sit between HTTP handlers
// and repositories.
package service

import (
	"context"
	"fmt"

	"videotube/internal/cache"
	"videotube/internal/events"
	"videotube/internal/models"
	"videotube/internal/observability"
	"videotube/internal/repository"
)

// existenceChecker is the part of an entity repository the toggle engine needs.
type existenceChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// ToggleService flips likes and subscriptions.
type ToggleService struct {
	relations repository.RelationStore
	videos    existenceChecker
	comments  existenceChecker
	tweets    existenceChecker
	users     existenceChecker
	events    events.Publisher
}

func NewToggleService(
	relations repository.RelationStore,
	videos repository.VideoRepository,
	comments repository.CommentRepository,
	tweets repository.TweetRepository,
	users repository.UserRepository,
	publisher events.Publisher,
) *ToggleService {
	return &ToggleService{
		relations: relations,
		videos:    videos,
		comments:  comments,
		tweets:    tweets,
		users:     users,
		events:    publisher,
	}
}

// ToggleLike likes the target if the actor has not yet, otherwise removes
// the like. It returns whether the like is active afterwards.
func (s *ToggleService) ToggleLike(ctx context.Context, actorID uint, target models.Target) (bool, error) {
	if actorID == 0 {
		return false, models.NewUnauthorizedError("Authentication required")
	}
	if !target.Kind.Likeable() {
		return false, models.NewValidationError(fmt.Sprintf("Cannot like a %s", target.Kind))
	}
	if target.ID == 0 {
		return false, models.NewValidationError(fmt.Sprintf("Invalid %s ID", target.Kind))
	}

	if err := s.requireActor(ctx, actorID); err != nil {
		return false, err
	}
	if err := s.requireTarget(ctx, target); err != nil {
		return false, err
	}
	return s.toggle(ctx, actorID, target)
}

// ToggleSubscription subscribes the actor to a channel or unsubscribes.
// Subscribing to yourself is rejected before anything is looked up.
func (s *ToggleService) ToggleSubscription(ctx context.Context, subscriberID, channelID uint) (bool, error) {
	if subscriberID == 0 {
		return false, models.NewUnauthorizedError("Authentication required")
	}
	if channelID == 0 {
		return false, models.NewValidationError("Invalid channel ID")
	}
	if subscriberID == channelID {
		return false, models.NewValidationError("You cannot subscribe to your own channel")
	}

	if err := s.requireActor(ctx, subscriberID); err != nil {
		return false, err
	}
	target := models.Target{Kind: models.TargetChannel, ID: channelID}
	if err := s.requireTarget(ctx, target); err != nil {
		return false, err
	}
	return s.toggle(ctx, subscriberID, target)
}

func (s *ToggleService) toggle(ctx context.Context, actorID uint, target models.Target) (bool, error) {
	active, err := s.relations.Toggle(ctx, actorID, target)
	if err != nil {
		return false, err
	}

	state := "inactive"
	if active {
		state = "active"
	}
	observability.RelationToggles.WithLabelValues(string(target.Kind), state).Inc()

	// Cached video details carry the like count.
	if target.Kind == models.TargetVideo {
		cache.InvalidateVideo(ctx, target.ID)
	}
	if s.events != nil {
		s.events.RelationToggled(ctx, actorID, target, active)
	}
	return active, nil
}

// requireActor rejects tokens whose user has since been removed.
func (s *ToggleService) requireActor(ctx context.Context, actorID uint) error {
	ok, err := s.users.Exists(ctx, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("User", actorID)
	}
	return nil
}

func (s *ToggleService) requireTarget(ctx context.Context, target models.Target) error {
	var (
		repo     existenceChecker
		resource string
	)
	switch target.Kind {
	case models.TargetVideo:
		repo, resource = s.videos, "Video"
	case models.TargetComment:
		repo, resource = s.comments, "Comment"
	case models.TargetTweet:
		repo, resource = s.tweets, "Tweet"
	case models.TargetChannel:
		repo, resource = s.users, "Channel"
	default:
		return models.NewValidationError(fmt.Sprintf("Unknown target kind %q", target.Kind))
	}

	ok, err := repo.Exists(ctx, target.ID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError(resource, target.ID)
	}
	return nil
}
