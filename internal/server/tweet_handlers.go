package server

import (
	"videotube/internal/models"
	"videotube/internal/service"

	"github.com/gofiber/fiber/v2"
)

type tweetRequest struct {
	Content string `json:"content"`
}

// CreateTweet handles POST /api/v1/tweets
func (s *Server) CreateTweet(c *fiber.Ctx) error {
	var req tweetRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	tweet, err := s.tweetService.CreateTweet(c.UserContext(), service.CreateTweetInput{
		UserID:  currentUserID(c),
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, tweet, "Tweet created successfully")
}

// GetUserTweets handles GET /api/v1/tweets/user/:userId
func (s *Server) GetUserTweets(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	page, err := s.tweetService.ListUserTweets(c.UserContext(), userID, c.Query("search"), pageQuery(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, page, "Tweets fetched successfully")
}

// UpdateTweet handles PATCH /api/v1/tweets/:tweetId
func (s *Server) UpdateTweet(c *fiber.Ctx) error {
	tweetID, err := s.parseID(c, "tweetId")
	if err != nil {
		return nil
	}

	var req tweetRequest
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	tweet, err := s.tweetService.UpdateTweet(c.UserContext(), service.UpdateTweetInput{
		UserID:  currentUserID(c),
		TweetID: tweetID,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, tweet, "Tweet updated successfully")
}

// DeleteTweet handles DELETE /api/v1/tweets/:tweetId
func (s *Server) DeleteTweet(c *fiber.Ctx) error {
	tweetID, err := s.parseID(c, "tweetId")
	if err != nil {
		return nil
	}

	if err := s.tweetService.DeleteTweet(c.UserContext(), currentUserID(c), tweetID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"tweetId": tweetID}, "Tweet deleted successfully")
}
