package service

import (
	"context"
	"strings"
	"testing"

	"videotube/internal/models"
	"videotube/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddComment(t *testing.T) {
	comments := noopCommentRepo()
	var created *models.Comment
	comments.createFn = func(_ context.Context, c *models.Comment) error {
		c.ID = 11
		created = c
		return nil
	}
	comments.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) { return created, nil }
	svc := NewCommentService(comments, noopVideoRepo(), noopUserRepo())

	comment, err := svc.AddComment(context.Background(), AddCommentInput{UserID: 2, VideoID: 5, Content: "  nice  "})
	require.NoError(t, err)
	assert.Equal(t, uint(11), comment.ID)
	assert.Equal(t, "nice", comment.Content)
	assert.Equal(t, uint(2), comment.OwnerID)
	assert.Equal(t, uint(5), comment.VideoID)
}

func TestAddComment_Validation(t *testing.T) {
	svc := NewCommentService(noopCommentRepo(), noopVideoRepo(), noopUserRepo())

	_, err := svc.AddComment(context.Background(), AddCommentInput{UserID: 1, VideoID: 1, Content: " "})
	assertValidationError(t, err)

	_, err = svc.AddComment(context.Background(), AddCommentInput{UserID: 1, VideoID: 1, Content: strings.Repeat("a", maxCommentLen+1)})
	assertValidationError(t, err)
}

func TestAddComment_VideoMissing(t *testing.T) {
	videos := noopVideoRepo()
	videos.existsFn = func(_ context.Context, _ uint) (bool, error) { return false, nil }
	svc := NewCommentService(noopCommentRepo(), videos, noopUserRepo())

	_, err := svc.AddComment(context.Background(), AddCommentInput{UserID: 1, VideoID: 9, Content: "hi"})
	assertNotFoundError(t, err)

	_, err = svc.ListComments(context.Background(), 9, pipeline.PageQuery{})
	assertNotFoundError(t, err)
}

func TestAddComment_UserMissing(t *testing.T) {
	comments := noopCommentRepo()
	comments.createFn = func(_ context.Context, _ *models.Comment) error {
		t.Fatal("comment must not be stored for an unknown user")
		return nil
	}
	users := noopUserRepo()
	users.existsFn = func(_ context.Context, _ uint) (bool, error) { return false, nil }
	svc := NewCommentService(comments, noopVideoRepo(), users)

	_, err := svc.AddComment(context.Background(), AddCommentInput{UserID: 404, VideoID: 1, Content: "hi"})
	assertNotFoundError(t, err)
	assert.Contains(t, err.Error(), "User")
}

func TestListComments_PassesQuery(t *testing.T) {
	comments := noopCommentRepo()
	var got pipeline.PageQuery
	comments.listByVideoFn = func(_ context.Context, _ uint, q pipeline.PageQuery) (*pipeline.Page[models.CommentView], error) {
		got = q
		return pipeline.NewPage[models.CommentView](nil, 0, q, pipeline.LabelComments), nil
	}
	svc := NewCommentService(comments, noopVideoRepo(), noopUserRepo())

	page, err := svc.ListComments(context.Background(), 3, pipeline.PageQuery{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 5, got.Limit)
	assert.Empty(t, page.Items)
}

func TestUpdateComment_OwnerOnly(t *testing.T) {
	comments := noopCommentRepo()
	stored := &models.Comment{ID: 4, OwnerID: 1, Content: "old"}
	comments.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) { return stored, nil }
	svc := NewCommentService(comments, noopVideoRepo(), noopUserRepo())

	_, err := svc.UpdateComment(context.Background(), UpdateCommentInput{UserID: 2, CommentID: 4, Content: "hijack"})
	assertForbiddenError(t, err)
	assert.Equal(t, "old", stored.Content)

	updated, err := svc.UpdateComment(context.Background(), UpdateCommentInput{UserID: 1, CommentID: 4, Content: "new"})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Content)
}

func TestDeleteComment(t *testing.T) {
	tests := []struct {
		name       string
		actor      uint
		videoOwner uint
		videoErr   error
		allowed    bool
	}{
		{"author", 1, 3, nil, true},
		{"video owner", 3, 3, nil, true},
		{"stranger", 2, 3, nil, false},
		{"stranger on deleted video", 2, 0, models.NewNotFoundError("Video", 5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comments := noopCommentRepo()
			comments.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
				return &models.Comment{ID: id, OwnerID: 1, VideoID: 5}, nil
			}
			deleted := false
			comments.deleteFn = func(_ context.Context, _ uint) error {
				deleted = true
				return nil
			}
			videos := noopVideoRepo()
			videos.getByIDFn = func(_ context.Context, id uint) (*models.Video, error) {
				if tt.videoErr != nil {
					return nil, tt.videoErr
				}
				return &models.Video{ID: id, OwnerID: tt.videoOwner}, nil
			}
			svc := NewCommentService(comments, videos, noopUserRepo())

			comment, err := svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: tt.actor, CommentID: 8})
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, uint(8), comment.ID)
				assert.True(t, deleted)
			} else {
				assertForbiddenError(t, err)
				assert.False(t, deleted)
			}
		})
	}
}
