package seed

import (
	"context"
	"testing"

	"videotube/internal/database"
	"videotube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func count(t *testing.T, db *gorm.DB, model any) int {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return int(n)
}

func TestCreateUserHashesPassword(t *testing.T) {
	db := setupTestDB(t)
	f := NewFactory(db, 42, false)

	u, err := f.CreateUser(context.Background(), func(u *models.User) { u.Username = "fixture" })
	require.NoError(t, err)
	assert.Equal(t, "fixture", u.Username)
	assert.NotEqual(t, DefaultPassword, u.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(DefaultPassword)))
}

func TestCreateTweetFitsLimit(t *testing.T) {
	db := setupTestDB(t)
	f := NewFactory(db, 7, true)
	ctx := context.Background()

	u, err := f.CreateUser(ctx)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		tweet, err := f.CreateTweet(ctx, u)
		require.NoError(t, err)
		assert.LessOrEqual(t, len([]rune(tweet.Content)), 280)
	}
}

func TestSeed(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db, nil)
	opts := Options{
		Users:            6,
		VideosPerUser:    2,
		TweetsPerUser:    3,
		CommentsPerVideo: 2,
		LikePercent:      50,
		SubscribePercent: 50,
		SkipBcrypt:       true,
		Seed:             1234,
	}

	sum, err := s.Seed(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 6, sum.Users)
	assert.Equal(t, 12, sum.Videos)
	assert.Equal(t, 18, sum.Tweets)
	assert.Equal(t, 24, sum.Comments)
	assert.Equal(t, sum.Users, count(t, db, &models.User{}))
	assert.Equal(t, sum.Videos, count(t, db, &models.Video{}))
	assert.Equal(t, sum.Comments, count(t, db, &models.Comment{}))
	assert.Equal(t, sum.Likes, count(t, db, &models.Like{}))
	assert.Equal(t, sum.Subscriptions, count(t, db, &models.Subscription{}))

	var selfSubs int64
	require.NoError(t, db.Model(&models.Subscription{}).Where("subscriber_id = channel_id").Count(&selfSubs).Error)
	assert.Zero(t, selfSubs)
}

func TestSeedClean(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db, nil)
	ctx := context.Background()
	opts := Options{Users: 3, VideosPerUser: 1, CommentsPerVideo: 1, LikePercent: 100, SkipBcrypt: true, Seed: 9}

	_, err := s.Seed(ctx, opts)
	require.NoError(t, err)

	opts.Clean = true
	opts.Seed = 10
	sum, err := s.Seed(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 3, count(t, db, &models.User{}))
	assert.Equal(t, 3, count(t, db, &models.Video{}))
	assert.Equal(t, 9, sum.Likes)
	assert.Equal(t, 9, count(t, db, &models.Like{}))
}
