package repository

import (
	"context"

	"videotube/internal/models"
	"videotube/internal/pipeline"

	"gorm.io/gorm"
)

// SubscriptionRepository answers who subscribes to whom.
type SubscriptionRepository interface {
	Subscribers(ctx context.Context, channelID uint) (*models.ChannelSubscribers, error)
	SubscribedChannels(ctx context.Context, subscriberID uint) (*models.SubscribedChannels, error)
}

type subscriptionRepository struct {
	agg *Aggregator
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{agg: NewAggregator(db)}
}

// related runs both halves of a chained listing. A missing profile is a
// NotFoundError; an empty member list is not an error.
func (r *subscriptionRepository) related(ctx context.Context, rel pipeline.Related, resource string, id uint) (userRow, []models.UserSummary, error) {
	profiles, err := Collect(ctx, r.agg, rel.Profile, func(row userRow) userRow { return row })
	if err != nil {
		return userRow{}, nil, err
	}
	if len(profiles) == 0 {
		return userRow{}, nil, models.NewNotFoundError(resource, id)
	}
	members, err := Collect(ctx, r.agg, rel.Members, shapeUser)
	if err != nil {
		return userRow{}, nil, err
	}
	return profiles[0], members, nil
}

func (r *subscriptionRepository) Subscribers(ctx context.Context, channelID uint) (*models.ChannelSubscribers, error) {
	rel, err := pipeline.ChannelSubscribers(channelID)
	if err != nil {
		return nil, err
	}
	profile, members, err := r.related(ctx, rel, "Channel", channelID)
	if err != nil {
		return nil, err
	}
	return &models.ChannelSubscribers{
		Channel: models.ChannelProfile{
			UserSummary:      shapeUser(profile),
			SubscribersCount: profile.SubscribersCount,
		},
		Subscribers: members,
	}, nil
}

func (r *subscriptionRepository) SubscribedChannels(ctx context.Context, subscriberID uint) (*models.SubscribedChannels, error) {
	rel, err := pipeline.SubscribedChannels(subscriberID)
	if err != nil {
		return nil, err
	}
	profile, members, err := r.related(ctx, rel, "User", subscriberID)
	if err != nil {
		return nil, err
	}
	return &models.SubscribedChannels{
		Subscriber:    shapeUser(profile),
		Channels:      members,
		ChannelsCount: len(members),
	}, nil
}
