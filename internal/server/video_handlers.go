package server

import (
	"videotube/internal/models"
	"videotube/internal/pipeline"
	"videotube/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetVideos handles GET /api/v1/videos
func (s *Server) GetVideos(c *fiber.Ctx) error {
	ownerID, err := pipeline.ParseOptionalRef("user ID", c.Query("userId"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	page, err := s.videoService.List(c.UserContext(), service.ListVideosInput{
		ActorID: s.optionalUserID(c),
		Search:  c.Query("query"),
		OwnerID: ownerID,
		Page:    pageQuery(c),
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, page, "Videos fetched successfully")
}

// GetVideo handles GET /api/v1/videos/:videoId
func (s *Server) GetVideo(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "videoId")
	if err != nil {
		return nil
	}

	video, err := s.videoService.Get(c.UserContext(), s.optionalUserID(c), videoID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, video, "Video fetched successfully")
}

// PublishVideo handles POST /api/v1/videos (multipart: videoFile, thumbnail)
func (s *Server) PublishVideo(c *fiber.Ctx) error {
	videoPath, cleanupVideo, err := s.saveUpload(c, "videoFile")
	defer cleanupVideo()
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	thumbPath, cleanupThumb, err := s.saveUpload(c, "thumbnail")
	defer cleanupThumb()
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	video, err := s.videoService.Publish(c.UserContext(), service.PublishVideoInput{
		OwnerID:       currentUserID(c),
		Title:         c.FormValue("title"),
		Description:   c.FormValue("description"),
		VideoPath:     videoPath,
		ThumbnailPath: thumbPath,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, video, "Video published successfully")
}

// updateVideoRequest is the JSON form of a partial video update. Absent
// fields are left unchanged.
type updateVideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// optionalFormValue distinguishes an absent form field from an empty one.
func optionalFormValue(c *fiber.Ctx, key string) *string {
	form, err := c.MultipartForm()
	if err == nil && form != nil {
		if values, ok := form.Value[key]; ok && len(values) > 0 {
			return &values[0]
		}
		return nil
	}
	if c.Request().PostArgs().Has(key) {
		v := c.FormValue(key)
		return &v
	}
	return nil
}

// UpdateVideo handles PATCH /api/v1/videos/:videoId
func (s *Server) UpdateVideo(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "videoId")
	if err != nil {
		return nil
	}

	thumbPath, cleanup, err := s.saveUpload(c, "thumbnail")
	defer cleanup()
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	in := service.UpdateVideoInput{
		ActorID:       currentUserID(c),
		VideoID:       videoID,
		ThumbnailPath: thumbPath,
	}
	if c.Is("json") {
		var req updateVideoRequest
		if parseErr := c.BodyParser(&req); parseErr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
		}
		in.Title, in.Description = req.Title, req.Description
	} else {
		in.Title = optionalFormValue(c, "title")
		in.Description = optionalFormValue(c, "description")
	}

	video, err := s.videoService.Update(c.UserContext(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, video, "Video updated successfully")
}

// DeleteVideo handles DELETE /api/v1/videos/:videoId
func (s *Server) DeleteVideo(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "videoId")
	if err != nil {
		return nil
	}

	if err := s.videoService.Delete(c.UserContext(), currentUserID(c), videoID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"videoId": videoID}, "Video deleted successfully")
}

// TogglePublishStatus handles PATCH /api/v1/videos/toggle/publish/:videoId
func (s *Server) TogglePublishStatus(c *fiber.Ctx) error {
	videoID, err := s.parseID(c, "videoId")
	if err != nil {
		return nil
	}

	video, err := s.videoService.TogglePublish(c.UserContext(), currentUserID(c), videoID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, video, "Publish status toggled successfully")
}
