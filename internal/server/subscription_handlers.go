package server

import (
	"videotube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ToggleSubscription handles POST /api/v1/subscriptions/c/:channelId
func (s *Server) ToggleSubscription(c *fiber.Ctx) error {
	channelID, err := s.parseID(c, "channelId")
	if err != nil {
		return nil
	}

	subscribed, err := s.toggleService.ToggleSubscription(c.UserContext(), currentUserID(c), channelID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	message := "Unsubscribed successfully"
	if subscribed {
		message = "Subscribed successfully"
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"subscribed": subscribed}, message)
}

// GetChannelSubscribers handles GET /api/v1/subscriptions/c/:channelId
func (s *Server) GetChannelSubscribers(c *fiber.Ctx) error {
	channelID, err := s.parseID(c, "channelId")
	if err != nil {
		return nil
	}

	subs, err := s.subscriptionService.ChannelSubscribers(c.UserContext(), channelID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, subs, "Subscribers fetched successfully")
}

// GetSubscribedChannels handles GET /api/v1/subscriptions/u/:subscriberId
func (s *Server) GetSubscribedChannels(c *fiber.Ctx) error {
	subscriberID, err := s.parseID(c, "subscriberId")
	if err != nil {
		return nil
	}

	channels, err := s.subscriptionService.SubscribedChannels(c.UserContext(), subscriberID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, channels, "Subscribed channels fetched successfully")
}
