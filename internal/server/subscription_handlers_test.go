package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"videotube/internal/models"
	"videotube/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSubscriptionRepository is a mock implementation of repository.SubscriptionRepository
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Subscribers(ctx context.Context, channelID uint) (*models.ChannelSubscribers, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChannelSubscribers), args.Error(1)
}

func (m *MockSubscriptionRepository) SubscribedChannels(ctx context.Context, subscriberID uint) (*models.SubscribedChannels, error) {
	args := m.Called(ctx, subscriberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscribedChannels), args.Error(1)
}

func TestToggleSubscriptionRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	token := tokenFor(t, alice.ID)
	path := fmt.Sprintf("/api/v1/subscriptions/c/%d", bob.ID)

	resp := env.do(t, http.MethodPost, path, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"subscribed":true}`, string(decodeEnvelope(t, resp).Data))

	resp = env.do(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var subs models.ChannelSubscribers
	decodeData(t, decodeEnvelope(t, resp), &subs)
	assert.Equal(t, bob.ID, subs.Channel.ID)
	assert.Equal(t, int64(1), subs.Channel.SubscribersCount)
	require.Len(t, subs.Subscribers, 1)
	assert.Equal(t, "alice", subs.Subscribers[0].Username)

	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/subscriptions/u/%d", alice.ID), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var channels models.SubscribedChannels
	decodeData(t, decodeEnvelope(t, resp), &channels)
	assert.Equal(t, 1, channels.ChannelsCount)
	require.Len(t, channels.Channels, 1)
	assert.Equal(t, "bob", channels.Channels[0].Username)

	resp = env.do(t, http.MethodPost, path, nil, token)
	body := decodeEnvelope(t, resp)
	assert.Equal(t, "Unsubscribed successfully", body.Message)
	assert.JSONEq(t, `{"subscribed":false}`, string(body.Data))
}

func TestToggleSubscriptionRejectsSelfAndMissing(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	token := tokenFor(t, alice.ID)

	resp := env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/subscriptions/c/%d", alice.ID), nil, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	resp = env.do(t, http.MethodPost, "/api/v1/subscriptions/c/404", nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestGetChannelSubscribersWithMock(t *testing.T) {
	repo := new(MockSubscriptionRepository)
	s := &Server{subscriptionService: service.NewSubscriptionService(repo)}
	app := fiber.New()
	app.Get("/subscriptions/c/:channelId", s.GetChannelSubscribers)

	repo.On("Subscribers", mock.Anything, uint(7)).Return(&models.ChannelSubscribers{
		Channel:     models.ChannelProfile{UserSummary: models.UserSummary{ID: 7, Username: "carol"}},
		Subscribers: []models.UserSummary{},
	}, nil).Once()
	repo.On("Subscribers", mock.Anything, uint(8)).Return(nil, errors.New("connection reset")).Once()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/subscriptions/c/7", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeEnvelope(t, resp)
	assert.Contains(t, string(body.Data), `"subscribers":[]`)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/subscriptions/c/8", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body = decodeEnvelope(t, resp)
	assert.NotContains(t, body.Message, "connection reset")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/subscriptions/c/zero", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	repo.AssertExpectations(t)
}
