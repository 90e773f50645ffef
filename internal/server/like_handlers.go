package server

import (
	"strings"

	"videotube/internal/models"

	"github.com/gofiber/fiber/v2"
)

// likeKindAliases keeps the short route segments older clients use.
var likeKindAliases = map[string]models.TargetKind{
	"v": models.TargetVideo,
	"c": models.TargetComment,
	"t": models.TargetTweet,
}

// ToggleLike handles POST /api/v1/likes/toggle/:kind/:targetId
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	raw := strings.ToLower(c.Params("kind"))
	kind, ok := likeKindAliases[raw]
	if !ok {
		parsed, err := models.ParseTargetKind(raw)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
		kind = parsed
	}

	targetID, err := s.parseID(c, "targetId")
	if err != nil {
		return nil
	}

	liked, err := s.toggleService.ToggleLike(c.UserContext(), currentUserID(c), models.Target{Kind: kind, ID: targetID})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	message := "Like removed"
	if liked {
		message = "Like added"
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"liked": liked}, message)
}

// GetLikedVideos handles GET /api/v1/likes/videos
func (s *Server) GetLikedVideos(c *fiber.Ctx) error {
	videos, err := s.videoService.LikedVideos(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, videos, "Liked videos fetched successfully")
}
