package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"videotube/internal/models"
	"videotube/internal/pipeline"
	"videotube/internal/repository"
)

const maxTweetLen = 280

type TweetService struct {
	tweetRepo repository.TweetRepository
	userRepo  repository.UserRepository
}

type CreateTweetInput struct {
	UserID  uint
	Content string
}

type UpdateTweetInput struct {
	UserID  uint
	TweetID uint
	Content string
}

func NewTweetService(tweetRepo repository.TweetRepository, userRepo repository.UserRepository) *TweetService {
	return &TweetService{tweetRepo: tweetRepo, userRepo: userRepo}
}

func tweetContent(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return "", models.NewValidationError("Tweet content is required")
	}
	if utf8.RuneCountInString(content) > maxTweetLen {
		return "", models.NewValidationError("Tweet too long (max 280 characters)")
	}
	return content, nil
}

func (s *TweetService) requireUser(ctx context.Context, userID uint) error {
	ok, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("User", userID)
	}
	return nil
}

func (s *TweetService) CreateTweet(ctx context.Context, in CreateTweetInput) (*models.Tweet, error) {
	content, err := tweetContent(in.Content)
	if err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, in.UserID); err != nil {
		return nil, err
	}

	tweet := &models.Tweet{Content: content, OwnerID: in.UserID}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

func (s *TweetService) ListUserTweets(ctx context.Context, userID uint, search string, q pipeline.PageQuery) (*pipeline.Page[models.TweetView], error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.tweetRepo.ListByUser(ctx, userID, search, q)
}

func (s *TweetService) UpdateTweet(ctx context.Context, in UpdateTweetInput) (*models.Tweet, error) {
	tweet, err := s.tweetRepo.GetByID(ctx, in.TweetID)
	if err != nil {
		return nil, err
	}
	if tweet.OwnerID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own tweets")
	}
	content, err := tweetContent(in.Content)
	if err != nil {
		return nil, err
	}

	tweet.Content = content
	if err := s.tweetRepo.Update(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

func (s *TweetService) DeleteTweet(ctx context.Context, userID, tweetID uint) error {
	tweet, err := s.tweetRepo.GetByID(ctx, tweetID)
	if err != nil {
		return err
	}
	if tweet.OwnerID != userID {
		return models.NewForbiddenError("You can only delete your own tweets")
	}
	return s.tweetRepo.Delete(ctx, tweetID)
}
