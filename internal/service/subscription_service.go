package service

import (
	"context"

	"videotube/internal/models"
	"videotube/internal/repository"
)

type SubscriptionService struct {
	subs repository.SubscriptionRepository
}

func NewSubscriptionService(subs repository.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{subs: subs}
}

// ChannelSubscribers returns the channel profile with its subscriber count
// and the users subscribed to it. A channel with no subscribers yields an
// empty list.
func (s *SubscriptionService) ChannelSubscribers(ctx context.Context, channelID uint) (*models.ChannelSubscribers, error) {
	if channelID == 0 {
		return nil, models.NewValidationError("Invalid channel ID")
	}
	return s.subs.Subscribers(ctx, channelID)
}

// SubscribedChannels returns the channels a user follows.
func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriberID uint) (*models.SubscribedChannels, error) {
	if subscriberID == 0 {
		return nil, models.NewValidationError("Invalid subscriber ID")
	}
	return s.subs.SubscribedChannels(ctx, subscriberID)
}
