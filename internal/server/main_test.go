package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"videotube/internal/config"
	"videotube/internal/database"
	"videotube/internal/media"
	"videotube/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret-key-that-is-long-enough"

type testEnv struct {
	server *Server
	app    *fiber.App
	db     *gorm.DB
	store  *media.MemoryStore
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Env:          "test",
		JWTSecret:    testSecret,
		JWTIssuer:    "videotube-api",
		JWTAudience:  "videotube-client",
		MaxUploadMB:  10,
		UploadTmpDir: t.TempDir(),
		MediaBackend: "memory",
	}
}

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

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	store := media.NewMemoryStore("")
	s, err := NewServerWithDeps(testConfig(t), db, nil, store, nil)
	require.NoError(t, err)
	return &testEnv{server: s, app: s.App(), db: db, store: store}
}

func (e *testEnv) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: "User " + username,
		Avatar:   "https://img.example.com/" + username + ".png",
		Password: "hashed-secret",
	}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) video(t *testing.T, ownerID uint, title string, published bool) *models.Video {
	t.Helper()
	v := &models.Video{
		VideoFile:        "memory://media/video/" + title + ".mp4",
		VideoAssetID:     "video/" + title + ".mp4",
		Thumbnail:        "memory://media/image/" + title + ".png",
		ThumbnailAssetID: "image/" + title + ".png",
		Title:            title,
		Description:      "About " + title,
		Duration:         30,
		IsPublished:      published,
		OwnerID:          ownerID,
	}
	require.NoError(t, e.db.Create(v).Error)
	return v
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func tokenFor(t *testing.T, userID uint) string {
	return signToken(t, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": "videotube-api",
		"aud": "videotube-client",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
}

// do sends a request with an optional JSON body and bearer token.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Errors     []string        `json:"errors"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func decodeData(t *testing.T, env envelope, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dest))
}
