package repository

import (
	"context"

	"videotube/internal/models"
	"videotube/internal/observability"
	"videotube/internal/pipeline"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
	ListByVideo(ctx context.Context, videoID uint, q pipeline.PageQuery) (*pipeline.Page[models.CommentView], error)
}

type commentRepository struct {
	db     *gorm.DB
	agg    *Aggregator
	logger *observability.RepoLogger
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{
		db:     db,
		agg:    NewAggregator(db),
		logger: observability.NewRepoLogger("comments"),
	}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		r.logger.LogError(ctx, err, "create")
		return err
	}
	r.logger.LogCreate(ctx, map[string]any{"comment_id": comment.ID, "video_id": comment.VideoID})
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, notFound(err, "Comment", id)
	}
	return &comment, nil
}

func (r *commentRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &models.Comment{}, id)
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		r.logger.LogError(ctx, err, "update")
		return err
	}
	r.logger.LogUpdate(ctx, map[string]any{"comment_id": comment.ID})
	return nil
}

// Delete removes the comment and the likes pointing at it.
func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_kind = ? AND target_id = ?", models.TargetComment, id).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Comment{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Comment", id)
		}
		return nil
	})
	if err != nil {
		r.logger.LogError(ctx, err, "delete")
		return err
	}
	r.logger.LogDelete(ctx, map[string]any{"comment_id": id})
	return nil
}

func (r *commentRepository) ListByVideo(ctx context.Context, videoID uint, q pipeline.PageQuery) (*pipeline.Page[models.CommentView], error) {
	p, err := pipeline.VideoComments(videoID)
	if err != nil {
		return nil, err
	}
	return Paginate(ctx, r.agg, p, q, shapeComment)
}
