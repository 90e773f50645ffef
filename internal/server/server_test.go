package server

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/v1/healthcheck", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeEnvelope(t, resp)
	assert.True(t, body.Success)
	assert.Equal(t, http.StatusOK, body.StatusCode)
	assert.Equal(t, "Health check passed", body.Message)
	assert.JSONEq(t, `{"status":"OK"}`, string(body.Data))
}

func TestProbes(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/health/live", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestNewServerWithDepsRequiresCollaborators(t *testing.T) {
	_, err := NewServerWithDeps(testConfig(t), nil, nil, nil, nil)
	assert.Error(t, err)

	_, err = NewServerWithDeps(testConfig(t), setupTestDB(t), nil, nil, nil)
	assert.Error(t, err)
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	exp := time.Now().Add(time.Hour).Unix()
	sub := strconv.FormatUint(uint64(alice.ID), 10)

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "garbage", token: "not-a-jwt"},
		{name: "wrong issuer", token: signToken(t, jwt.MapClaims{
			"sub": sub, "iss": "someone-else", "aud": "videotube-client", "exp": exp})},
		{name: "wrong audience", token: signToken(t, jwt.MapClaims{
			"sub": sub, "iss": "videotube-api", "aud": "other-client", "exp": exp})},
		{name: "expired", token: signToken(t, jwt.MapClaims{
			"sub": sub, "iss": "videotube-api", "aud": "videotube-client",
			"exp": time.Now().Add(-time.Minute).Unix()})},
		{name: "non numeric subject", token: signToken(t, jwt.MapClaims{
			"sub": "alice", "iss": "videotube-api", "aud": "videotube-client", "exp": exp})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodGet, "/api/v1/likes/videos", nil, tt.token)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			body := decodeEnvelope(t, resp)
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Message)
		})
	}

	resp := env.do(t, http.MethodGet, "/api/v1/likes/videos", nil, tokenFor(t, alice.ID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestPublicReadsSkipAuth(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	env.video(t, alice.ID, "intro", true)

	resp := env.do(t, http.MethodGet, "/api/v1/videos", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}
