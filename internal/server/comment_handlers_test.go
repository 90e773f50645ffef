package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"videotube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commentPage struct {
	Comments    []models.CommentView `json:"comments"`
	TotalItems  int64                `json:"totalItems"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"totalPages"`
	HasNextPage bool                 `json:"hasNextPage"`
}

func TestCommentLifecycle(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	video := env.video(t, alice.ID, "intro", true)
	bobToken := tokenFor(t, bob.ID)

	resp := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/comments/%d", video.ID),
		map[string]string{"content": "  great video  "}, bobToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Comment
	decodeData(t, decodeEnvelope(t, resp), &created)
	assert.Equal(t, "great video", created.Content)
	assert.Equal(t, bob.ID, created.OwnerID)

	path := fmt.Sprintf("/api/v1/comments/c/%d", created.ID)

	resp = env.do(t, http.MethodPatch, path, map[string]string{"content": "hijack"}, tokenFor(t, alice.ID))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	resp = env.do(t, http.MethodPatch, path, map[string]string{"content": "edited"}, bobToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Comment
	decodeData(t, decodeEnvelope(t, resp), &updated)
	assert.Equal(t, "edited", updated.Content)

	// The video owner may remove comments left on their video.
	resp = env.do(t, http.MethodDelete, path, nil, tokenFor(t, alice.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = env.do(t, http.MethodDelete, path, nil, bobToken)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestAddCommentValidation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	video := env.video(t, alice.ID, "intro", true)
	token := tokenFor(t, alice.ID)

	resp := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/comments/%d", video.ID),
		map[string]string{"content": "   "}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/api/v1/comments/999", map[string]string{"content": "hi"}, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestGetVideoCommentsPaginates(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	video := env.video(t, alice.ID, "intro", true)
	for i := 1; i <= 12; i++ {
		require.NoError(t, env.db.Create(&models.Comment{
			Content: fmt.Sprintf("comment %02d", i), VideoID: video.ID, OwnerID: alice.ID,
		}).Error)
	}

	resp := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/comments/%d?page=2&limit=5", video.ID), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeEnvelope(t, resp)
	assert.Equal(t, "Comments fetched successfully", body.Message)

	var page commentPage
	decodeData(t, body, &page)
	assert.Equal(t, int64(12), page.TotalItems)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.Limit)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNextPage)
	require.Len(t, page.Comments, 5)
	assert.Equal(t, "comment 06", page.Comments[0].Content)
	require.NotNil(t, page.Comments[0].Owner)
	assert.Equal(t, "alice", page.Comments[0].Owner.Username)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body.Data, &raw))
	assert.NotContains(t, string(raw["comments"]), "email")
}

func TestGetVideoCommentsEmpty(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	video := env.video(t, alice.ID, "quiet", true)

	resp := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/comments/%d", video.ID), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page commentPage
	decodeData(t, decodeEnvelope(t, resp), &page)
	assert.NotNil(t, page.Comments)
	assert.Empty(t, page.Comments)
	assert.Zero(t, page.TotalItems)
}
