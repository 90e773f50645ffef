package seed

import (
	"context"
	"fmt"
	"log/slog"

	"videotube/internal/database"
	"videotube/internal/models"

	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	Users            int
	VideosPerUser    int
	TweetsPerUser    int
	CommentsPerVideo int
	// LikePercent and SubscribePercent are the odds that any given user
	// likes a video or follows a channel.
	LikePercent      int
	SubscribePercent int
	Clean            bool
	SkipBcrypt       bool
	Seed             int64
}

// DefaultOptions is a small but well connected data set.
func DefaultOptions() Options {
	return Options{
		Users:            20,
		VideosPerUser:    3,
		TweetsPerUser:    5,
		CommentsPerVideo: 4,
		LikePercent:      30,
		SubscribePercent: 25,
		Clean:            true,
	}
}

// Summary counts what a seeding run created.
type Summary struct {
	Users         int
	Videos        int
	Tweets        int
	Comments      int
	Likes         int
	Subscriptions int
}

// Seeder fills a database with demo content.
type Seeder struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewSeeder creates a seeder for db.
func NewSeeder(db *gorm.DB, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{db: db, logger: logger}
}

// ClearAll removes every row the application owns, dependents first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	tables := database.PersistentModels()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := len(tables) - 1; i >= 0; i-- {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(tables[i]).Error; err != nil {
				return fmt.Errorf("clear %T: %w", tables[i], err)
			}
		}
		return nil
	})
}

// Seed creates users, their videos and tweets, then comments, likes and
// subscriptions between them.
func (s *Seeder) Seed(ctx context.Context, opts Options) (*Summary, error) {
	if opts.Clean {
		if err := s.ClearAll(ctx); err != nil {
			return nil, err
		}
	}

	f := NewFactory(s.db, opts.Seed, opts.SkipBcrypt)
	sum := &Summary{}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u, err := f.CreateUser(ctx)
		if err != nil {
			return sum, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
	}
	sum.Users = len(users)
	if len(users) == 0 {
		return sum, nil
	}

	var videos []*models.Video
	for _, u := range users {
		for i := 0; i < opts.VideosPerUser; i++ {
			v, err := f.CreateVideo(ctx, u)
			if err != nil {
				return sum, fmt.Errorf("create video: %w", err)
			}
			videos = append(videos, v)
		}
		for i := 0; i < opts.TweetsPerUser; i++ {
			t, err := f.CreateTweet(ctx, u)
			if err != nil {
				return sum, fmt.Errorf("create tweet: %w", err)
			}
			if f.Chance(opts.LikePercent) {
				if err := f.Like(ctx, users[f.Pick(len(users))], models.Target{Kind: models.TargetTweet, ID: t.ID}); err != nil {
					return sum, fmt.Errorf("like tweet: %w", err)
				}
				sum.Likes++
			}
			sum.Tweets++
		}
	}
	sum.Videos = len(videos)

	for _, v := range videos {
		for i := 0; i < opts.CommentsPerVideo; i++ {
			if _, err := f.CreateComment(ctx, v, users[f.Pick(len(users))]); err != nil {
				return sum, fmt.Errorf("create comment: %w", err)
			}
			sum.Comments++
		}
		for _, u := range users {
			if !f.Chance(opts.LikePercent) {
				continue
			}
			if err := f.Like(ctx, u, models.Target{Kind: models.TargetVideo, ID: v.ID}); err != nil {
				return sum, fmt.Errorf("like video: %w", err)
			}
			sum.Likes++
		}
	}

	for _, subscriber := range users {
		for _, channel := range users {
			if subscriber.ID == channel.ID || !f.Chance(opts.SubscribePercent) {
				continue
			}
			if err := f.Subscribe(ctx, subscriber, channel); err != nil {
				return sum, fmt.Errorf("subscribe: %w", err)
			}
			sum.Subscriptions++
		}
	}

	s.logger.InfoContext(ctx, "seed complete",
		slog.Int("users", sum.Users),
		slog.Int("videos", sum.Videos),
		slog.Int("tweets", sum.Tweets),
		slog.Int("comments", sum.Comments),
		slog.Int("likes", sum.Likes),
		slog.Int("subscriptions", sum.Subscriptions),
	)
	return sum, nil
}
