package repository

import (
	"context"

	"videotube/internal/models"
	"videotube/internal/observability"
	"videotube/internal/pipeline"

	"gorm.io/gorm"
)

// TweetRepository defines the interface for tweet data operations
type TweetRepository interface {
	Create(ctx context.Context, tweet *models.Tweet) error
	GetByID(ctx context.Context, id uint) (*models.Tweet, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Update(ctx context.Context, tweet *models.Tweet) error
	Delete(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID uint, search string, q pipeline.PageQuery) (*pipeline.Page[models.TweetView], error)
}

type tweetRepository struct {
	db     *gorm.DB
	agg    *Aggregator
	logger *observability.RepoLogger
}

// NewTweetRepository creates a new tweet repository
func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepository{
		db:     db,
		agg:    NewAggregator(db),
		logger: observability.NewRepoLogger("tweets"),
	}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	if err := r.db.WithContext(ctx).Create(tweet).Error; err != nil {
		r.logger.LogError(ctx, err, "create")
		return err
	}
	r.logger.LogCreate(ctx, map[string]any{"tweet_id": tweet.ID, "owner_id": tweet.OwnerID})
	return nil
}

func (r *tweetRepository) GetByID(ctx context.Context, id uint) (*models.Tweet, error) {
	var tweet models.Tweet
	if err := r.db.WithContext(ctx).First(&tweet, id).Error; err != nil {
		return nil, notFound(err, "Tweet", id)
	}
	return &tweet, nil
}

func (r *tweetRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &models.Tweet{}, id)
}

func (r *tweetRepository) Update(ctx context.Context, tweet *models.Tweet) error {
	if err := r.db.WithContext(ctx).Save(tweet).Error; err != nil {
		r.logger.LogError(ctx, err, "update")
		return err
	}
	r.logger.LogUpdate(ctx, map[string]any{"tweet_id": tweet.ID})
	return nil
}

// Delete removes the tweet and the likes pointing at it.
func (r *tweetRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_kind = ? AND target_id = ?", models.TargetTweet, id).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Tweet{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Tweet", id)
		}
		return nil
	})
	if err != nil {
		r.logger.LogError(ctx, err, "delete")
		return err
	}
	r.logger.LogDelete(ctx, map[string]any{"tweet_id": id})
	return nil
}

func (r *tweetRepository) ListByUser(ctx context.Context, userID uint, search string, q pipeline.PageQuery) (*pipeline.Page[models.TweetView], error) {
	p, err := pipeline.UserTweets(userID, search)
	if err != nil {
		return nil, err
	}
	return Paginate(ctx, r.agg, p, q, shapeTweet)
}
