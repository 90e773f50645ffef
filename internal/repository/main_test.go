package repository

import (
	"context"
	"fmt"
	"testing"

	"videotube/internal/database"
	"videotube/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory SQLite database with the full
// schema. A single connection keeps every query on the same database.
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

// setupMockDB creates a GORM *gorm.DB backed by sqlmock for unit tests.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: "User " + username,
		Avatar:   "https://img.example.com/" + username + ".png",
		Password: "hashed-secret",
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func createVideo(t *testing.T, db *gorm.DB, ownerID uint, title string, published bool) *models.Video {
	t.Helper()
	video := &models.Video{
		VideoFile:        "https://cdn.example.com/" + title + ".mp4",
		VideoAssetID:     "video/" + title + ".mp4",
		Thumbnail:        "https://cdn.example.com/" + title + ".png",
		ThumbnailAssetID: "image/" + title + ".png",
		Title:            title,
		Description:      "About " + title,
		Duration:         12.5,
		IsPublished:      published,
		OwnerID:          ownerID,
	}
	require.NoError(t, NewVideoRepository(db).Create(context.Background(), video))
	return video
}

func createComments(t *testing.T, db *gorm.DB, videoID, ownerID uint, n int) []models.Comment {
	t.Helper()
	repo := NewCommentRepository(db)
	out := make([]models.Comment, 0, n)
	for i := 1; i <= n; i++ {
		c := models.Comment{Content: fmt.Sprintf("comment %d", i), VideoID: videoID, OwnerID: ownerID}
		require.NoError(t, repo.Create(context.Background(), &c))
		out = append(out, c)
	}
	return out
}

func like(t *testing.T, db *gorm.DB, actorID uint, kind models.TargetKind, targetID uint) {
	t.Helper()
	_, err := NewRelationStore(db).Create(context.Background(), actorID, models.Target{Kind: kind, ID: targetID})
	require.NoError(t, err)
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
