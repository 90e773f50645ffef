package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"videotube/internal/events"
	"videotube/internal/media"
	"videotube/internal/models"
	"videotube/internal/observability"
	"videotube/internal/pipeline"
	"videotube/internal/repository"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 5000
)

type VideoService struct {
	videos repository.VideoRepository
	users  repository.UserRepository
	media  media.Store
	events events.Publisher
}

type PublishVideoInput struct {
	OwnerID       uint
	Title         string
	Description   string
	VideoPath     string
	ThumbnailPath string
}

type ListVideosInput struct {
	ActorID uint
	Search  string
	OwnerID uint
	Page    pipeline.PageQuery
}

// UpdateVideoInput carries a partial update. Nil fields are left alone and
// an empty ThumbnailPath keeps the current thumbnail.
type UpdateVideoInput struct {
	ActorID       uint
	VideoID       uint
	Title         *string
	Description   *string
	ThumbnailPath string
}

func NewVideoService(
	videos repository.VideoRepository,
	users repository.UserRepository,
	store media.Store,
	publisher events.Publisher,
) *VideoService {
	return &VideoService{
		videos: videos,
		users:  users,
		media:  store,
		events: publisher,
	}
}

func (s *VideoService) Publish(ctx context.Context, in PublishVideoInput) (*models.VideoView, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, models.NewValidationError("Video title and description are required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if len(description) > maxDescriptionLen {
		return nil, models.NewValidationError("Description too long (max 5000 characters)")
	}
	if in.VideoPath == "" {
		return nil, models.NewValidationError("Video file is required to publish")
	}
	if in.ThumbnailPath == "" {
		return nil, models.NewValidationError("Thumbnail is required to publish")
	}
	if _, err := media.ValidateVideo(in.VideoPath); err != nil {
		return nil, models.NewValidationError("Video file must be a supported video format")
	}
	if err := validateThumbnail(in.ThumbnailPath); err != nil {
		return nil, err
	}

	ok, err := s.users.Exists(ctx, in.OwnerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.NewNotFoundError("User", in.OwnerID)
	}

	videoAsset, err := s.media.Upload(ctx, in.VideoPath, media.KindVideo)
	if err != nil {
		return nil, models.NewUpstreamError("Error uploading video", err)
	}
	thumbAsset, err := s.media.Upload(ctx, in.ThumbnailPath, media.KindImage)
	if err != nil {
		s.discard(ctx, videoAsset)
		return nil, models.NewUpstreamError("Error uploading thumbnail", err)
	}

	video := &models.Video{
		VideoFile:        videoAsset.URL,
		VideoAssetID:     videoAsset.AssetID,
		Thumbnail:        thumbAsset.URL,
		ThumbnailAssetID: thumbAsset.AssetID,
		Title:            title,
		Description:      description,
		Duration:         videoAsset.Duration,
		IsPublished:      true,
		OwnerID:          in.OwnerID,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		s.discard(ctx, videoAsset)
		s.discard(ctx, thumbAsset)
		return nil, err
	}

	if s.events != nil {
		s.events.VideoPublished(ctx, video)
	}
	return s.videos.Detail(ctx, video.ID)
}

// Get returns a video with its owner and like count. Unpublished videos
// are only visible to their owner.
func (s *VideoService) Get(ctx context.Context, actorID, videoID uint) (*models.VideoView, error) {
	view, err := s.videos.Detail(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !view.IsPublished && view.OwnerID != actorID {
		return nil, models.NewNotFoundError("Video", videoID)
	}
	return view, nil
}

// List pages through published videos. Owners filtering on their own
// channel also see their unpublished uploads.
func (s *VideoService) List(ctx context.Context, in ListVideosInput) (*pipeline.Page[models.VideoView], error) {
	filter := pipeline.VideoFilter{
		Search:        in.Search,
		OwnerID:       in.OwnerID,
		PublishedOnly: in.OwnerID == 0 || in.OwnerID != in.ActorID,
	}
	return s.videos.List(ctx, filter, in.Page)
}

func (s *VideoService) Update(ctx context.Context, in UpdateVideoInput) (*models.VideoView, error) {
	video, err := s.owned(ctx, in.ActorID, in.VideoID, "update")
	if err != nil {
		return nil, err
	}

	if in.Title == nil && in.Description == nil && in.ThumbnailPath == "" {
		return nil, models.NewValidationError("Nothing to update")
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, models.NewValidationError("Title cannot be empty")
		}
		if len(title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 200 characters)")
		}
		video.Title = title
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if description == "" {
			return nil, models.NewValidationError("Description cannot be empty")
		}
		if len(description) > maxDescriptionLen {
			return nil, models.NewValidationError("Description too long (max 5000 characters)")
		}
		video.Description = description
	}

	// Validate, upload, persist, and only then destroy the old thumbnail.
	var newThumb *media.Asset
	oldThumbID := video.ThumbnailAssetID
	if in.ThumbnailPath != "" {
		if err := validateThumbnail(in.ThumbnailPath); err != nil {
			return nil, err
		}
		newThumb, err = s.media.Upload(ctx, in.ThumbnailPath, media.KindImage)
		if err != nil {
			return nil, models.NewUpstreamError("Thumbnail upload failed", err)
		}
		video.Thumbnail = newThumb.URL
		video.ThumbnailAssetID = newThumb.AssetID
	}

	if err := s.videos.Update(ctx, video); err != nil {
		if newThumb != nil {
			s.discard(ctx, newThumb)
		}
		return nil, err
	}
	if newThumb != nil && oldThumbID != "" {
		s.destroy(ctx, oldThumbID, media.KindImage)
	}

	return s.videos.Detail(ctx, video.ID)
}

// Delete removes the video, its comments and every like attached to either,
// then destroys both media assets.
func (s *VideoService) Delete(ctx context.Context, actorID, videoID uint) error {
	video, err := s.owned(ctx, actorID, videoID, "delete")
	if err != nil {
		return err
	}
	if err := s.videos.Delete(ctx, video.ID); err != nil {
		return err
	}

	s.destroy(ctx, video.VideoAssetID, media.KindVideo)
	s.destroy(ctx, video.ThumbnailAssetID, media.KindImage)

	if s.events != nil {
		s.events.VideoDeleted(ctx, video.ID, video.OwnerID)
	}
	return nil
}

func (s *VideoService) TogglePublish(ctx context.Context, actorID, videoID uint) (*models.VideoView, error) {
	video, err := s.owned(ctx, actorID, videoID, "publish")
	if err != nil {
		return nil, err
	}

	video.IsPublished = !video.IsPublished
	if err := s.videos.Update(ctx, video); err != nil {
		return nil, err
	}
	if video.IsPublished && s.events != nil {
		s.events.VideoPublished(ctx, video)
	}
	return s.videos.Detail(ctx, video.ID)
}

// LikedVideos lists every published video the actor has liked.
func (s *VideoService) LikedVideos(ctx context.Context, actorID uint) ([]models.VideoView, error) {
	if actorID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	return s.videos.LikedBy(ctx, actorID)
}

func (s *VideoService) owned(ctx context.Context, actorID, videoID uint, action string) (*models.Video, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.OwnerID != actorID {
		return nil, models.NewForbiddenError("You can only " + action + " your own videos")
	}
	return video, nil
}

func validateThumbnail(path string) error {
	if _, err := media.ValidateImage(path); err != nil {
		if errors.Is(err, media.ErrNotImage) {
			return models.NewValidationError("Thumbnail must be a JPEG, PNG, GIF or WebP image")
		}
		return models.NewValidationError("Thumbnail could not be read")
	}
	return nil
}

// discard removes an upload that never got referenced by a video.
func (s *VideoService) discard(ctx context.Context, asset *media.Asset) {
	s.destroy(ctx, asset.AssetID, asset.ResourceType)
}

// destroy logs instead of failing; orphans are reclaimed out of band.
func (s *VideoService) destroy(ctx context.Context, assetID string, kind media.Kind) {
	if assetID == "" {
		return
	}
	if err := s.media.Destroy(ctx, assetID, kind); err != nil {
		observability.GlobalLogger.WarnContext(ctx, "failed to destroy media asset",
			slog.String("asset_id", assetID),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()),
		)
	}
}
