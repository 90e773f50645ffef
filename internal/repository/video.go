package repository

import (
	"context"

	"videotube/internal/cache"
	"videotube/internal/models"
	"videotube/internal/observability"
	"videotube/internal/pipeline"

	"gorm.io/gorm"
)

// VideoRepository defines the interface for video data operations
type VideoRepository interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id uint) (*models.Video, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Update(ctx context.Context, video *models.Video) error
	Delete(ctx context.Context, id uint) error
	Detail(ctx context.Context, id uint) (*models.VideoView, error)
	List(ctx context.Context, filter pipeline.VideoFilter, q pipeline.PageQuery) (*pipeline.Page[models.VideoView], error)
	LikedBy(ctx context.Context, actorID uint) ([]models.VideoView, error)
}

type videoRepository struct {
	db     *gorm.DB
	agg    *Aggregator
	logger *observability.RepoLogger
}

// NewVideoRepository creates a new video repository
func NewVideoRepository(db *gorm.DB) VideoRepository {
	return &videoRepository{
		db:     db,
		agg:    NewAggregator(db),
		logger: observability.NewRepoLogger("videos"),
	}
}

func (r *videoRepository) Create(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Create(video).Error; err != nil {
		r.logger.LogError(ctx, err, "create")
		return err
	}
	r.logger.LogCreate(ctx, map[string]any{"video_id": video.ID, "owner_id": video.OwnerID})
	return nil
}

func (r *videoRepository) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	var video models.Video
	if err := r.db.WithContext(ctx).First(&video, id).Error; err != nil {
		return nil, notFound(err, "Video", id)
	}
	return &video, nil
}

func (r *videoRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &models.Video{}, id)
}

func (r *videoRepository) Update(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Save(video).Error; err != nil {
		r.logger.LogError(ctx, err, "update")
		return err
	}
	cache.InvalidateVideo(ctx, video.ID)
	r.logger.LogUpdate(ctx, map[string]any{"video_id": video.ID})
	return nil
}

// Delete removes the video together with its comments and every like
// pointing at the video or at one of those comments.
func (r *videoRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("video_id = ?", id)
		if err := tx.Where("target_kind = ? AND target_id IN (?)", models.TargetComment, commentIDs).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_kind = ? AND target_id = ?", models.TargetVideo, id).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Video{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Video", id)
		}
		return nil
	})
	if err != nil {
		r.logger.LogError(ctx, err, "delete")
		return err
	}
	cache.InvalidateVideo(ctx, id)
	r.logger.LogDelete(ctx, map[string]any{"video_id": id})
	return nil
}

func (r *videoRepository) Detail(ctx context.Context, id uint) (*models.VideoView, error) {
	p, err := pipeline.VideoDetail(id)
	if err != nil {
		return nil, err
	}

	var view models.VideoView
	err = cache.Aside(ctx, cache.VideoKey(id), &view, cache.VideoTTL, func() error {
		items, err := Collect(ctx, r.agg, p, shapeVideo)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return models.NewNotFoundError("Video", id)
		}
		view = items[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *videoRepository) List(ctx context.Context, filter pipeline.VideoFilter, q pipeline.PageQuery) (*pipeline.Page[models.VideoView], error) {
	return Paginate(ctx, r.agg, pipeline.VideoFeed(filter), q, shapeVideo)
}

func (r *videoRepository) LikedBy(ctx context.Context, actorID uint) ([]models.VideoView, error) {
	p, err := pipeline.LikedVideos(actorID)
	if err != nil {
		return nil, err
	}
	return Collect(ctx, r.agg, p, shapeVideo)
}
