package service

import (
	"context"
	"strings"

	"videotube/internal/models"
	"videotube/internal/pipeline"
	"videotube/internal/repository"
)

const maxCommentLen = 10000

type CommentService struct {
	commentRepo repository.CommentRepository
	videoRepo   repository.VideoRepository
	userRepo    repository.UserRepository
}

type AddCommentInput struct {
	UserID  uint
	VideoID uint
	Content string
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	videoRepo repository.VideoRepository,
	userRepo repository.UserRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		videoRepo:   videoRepo,
		userRepo:    userRepo,
	}
}

func commentContent(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return "", models.NewValidationError("Content is required")
	}
	if len(content) > maxCommentLen {
		return "", models.NewValidationError("Comment too long (max 10000 characters)")
	}
	return content, nil
}

func (s *CommentService) requireVideo(ctx context.Context, videoID uint) error {
	ok, err := s.videoRepo.Exists(ctx, videoID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("Video", videoID)
	}
	return nil
}

func (s *CommentService) requireUser(ctx context.Context, userID uint) error {
	ok, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("User", userID)
	}
	return nil
}

func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	content, err := commentContent(in.Content)
	if err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, in.UserID); err != nil {
		return nil, err
	}
	if err := s.requireVideo(ctx, in.VideoID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content: content,
		VideoID: in.VideoID,
		OwnerID: in.UserID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, videoID uint, q pipeline.PageQuery) (*pipeline.Page[models.CommentView], error) {
	if err := s.requireVideo(ctx, videoID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByVideo(ctx, videoID, q)
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.OwnerID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own comments")
	}
	content, err := commentContent(in.Content)
	if err != nil {
		return nil, err
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment lets the comment's author or the owner of the video it was
// left on remove it.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if comment.OwnerID != in.UserID {
		video, err := s.videoRepo.GetByID(ctx, comment.VideoID)
		if err != nil && !models.IsCode(err, models.CodeNotFound) {
			return nil, err
		}
		if video == nil || video.OwnerID != in.UserID {
			return nil, models.NewForbiddenError("You can only delete your own comments")
		}
	}

	if err := s.commentRepo.Delete(ctx, in.CommentID); err != nil {
		return nil, err
	}
	return comment, nil
}
