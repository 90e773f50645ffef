package service

import (
	"context"
	"errors"
	"testing"

	"videotube/internal/models"
	"videotube/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// relationStoreStub is a stub for repository.RelationStore.
type relationStoreStub struct {
	findFn   func(context.Context, uint, models.Target) (*models.Relation, error)
	createFn func(context.Context, uint, models.Target) (*models.Relation, error)
	deleteFn func(context.Context, models.TargetKind, uint) (bool, error)
	toggleFn func(context.Context, uint, models.Target) (bool, error)
}

func (s *relationStoreStub) Find(ctx context.Context, actorID uint, target models.Target) (*models.Relation, error) {
	return s.findFn(ctx, actorID, target)
}
func (s *relationStoreStub) Create(ctx context.Context, actorID uint, target models.Target) (*models.Relation, error) {
	return s.createFn(ctx, actorID, target)
}
func (s *relationStoreStub) Delete(ctx context.Context, kind models.TargetKind, id uint) (bool, error) {
	return s.deleteFn(ctx, kind, id)
}
func (s *relationStoreStub) Toggle(ctx context.Context, actorID uint, target models.Target) (bool, error) {
	return s.toggleFn(ctx, actorID, target)
}

func noopRelationStore() *relationStoreStub {
	return &relationStoreStub{
		findFn:   func(_ context.Context, _ uint, _ models.Target) (*models.Relation, error) { return nil, nil },
		createFn: func(_ context.Context, _ uint, _ models.Target) (*models.Relation, error) { return &models.Relation{}, nil },
		deleteFn: func(_ context.Context, _ models.TargetKind, _ uint) (bool, error) { return true, nil },
		toggleFn: func(_ context.Context, _ uint, _ models.Target) (bool, error) { return true, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn  func(context.Context, *models.User) error
	getByIDFn func(context.Context, uint) (*models.User, error)
	existsFn  func(context.Context, uint) (bool, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:  func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		existsFn:  func(_ context.Context, _ uint) (bool, error) { return true, nil },
	}
}

// videoRepoStub is a stub for repository.VideoRepository.
type videoRepoStub struct {
	createFn  func(context.Context, *models.Video) error
	getByIDFn func(context.Context, uint) (*models.Video, error)
	existsFn  func(context.Context, uint) (bool, error)
	updateFn  func(context.Context, *models.Video) error
	deleteFn  func(context.Context, uint) error
	detailFn  func(context.Context, uint) (*models.VideoView, error)
	listFn    func(context.Context, pipeline.VideoFilter, pipeline.PageQuery) (*pipeline.Page[models.VideoView], error)
	likedByFn func(context.Context, uint) ([]models.VideoView, error)
}

func (s *videoRepoStub) Create(ctx context.Context, video *models.Video) error {
	return s.createFn(ctx, video)
}
func (s *videoRepoStub) GetByID(ctx context.Context, id uint) (*models.Video, error) {
	return s.getByIDFn(ctx, id)
}
func (s *videoRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *videoRepoStub) Update(ctx context.Context, video *models.Video) error {
	return s.updateFn(ctx, video)
}
func (s *videoRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *videoRepoStub) Detail(ctx context.Context, id uint) (*models.VideoView, error) {
	return s.detailFn(ctx, id)
}
func (s *videoRepoStub) List(ctx context.Context, f pipeline.VideoFilter, q pipeline.PageQuery) (*pipeline.Page[models.VideoView], error) {
	return s.listFn(ctx, f, q)
}
func (s *videoRepoStub) LikedBy(ctx context.Context, actorID uint) ([]models.VideoView, error) {
	return s.likedByFn(ctx, actorID)
}

func noopVideoRepo() *videoRepoStub {
	return &videoRepoStub{
		createFn:  func(_ context.Context, _ *models.Video) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Video, error) { return &models.Video{ID: id}, nil },
		existsFn:  func(_ context.Context, _ uint) (bool, error) { return true, nil },
		updateFn:  func(_ context.Context, _ *models.Video) error { return nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
		detailFn: func(_ context.Context, id uint) (*models.VideoView, error) {
			return &models.VideoView{ID: id, IsPublished: true}, nil
		},
		listFn: func(_ context.Context, _ pipeline.VideoFilter, q pipeline.PageQuery) (*pipeline.Page[models.VideoView], error) {
			return pipeline.NewPage[models.VideoView](nil, 0, q, pipeline.LabelVideos), nil
		},
		likedByFn: func(_ context.Context, _ uint) ([]models.VideoView, error) { return []models.VideoView{}, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, uint) (*models.Comment, error)
	existsFn      func(context.Context, uint) (bool, error)
	updateFn      func(context.Context, *models.Comment) error
	deleteFn      func(context.Context, uint) error
	listByVideoFn func(context.Context, uint, pipeline.PageQuery) (*pipeline.Page[models.CommentView], error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) ListByVideo(ctx context.Context, videoID uint, q pipeline.PageQuery) (*pipeline.Page[models.CommentView], error) {
	return s.listByVideoFn(ctx, videoID, q)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:  func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		existsFn:  func(_ context.Context, _ uint) (bool, error) { return true, nil },
		updateFn:  func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
		listByVideoFn: func(_ context.Context, _ uint, q pipeline.PageQuery) (*pipeline.Page[models.CommentView], error) {
			return pipeline.NewPage[models.CommentView](nil, 0, q, pipeline.LabelComments), nil
		},
	}
}

// tweetRepoStub is a stub for repository.TweetRepository.
type tweetRepoStub struct {
	createFn     func(context.Context, *models.Tweet) error
	getByIDFn    func(context.Context, uint) (*models.Tweet, error)
	existsFn     func(context.Context, uint) (bool, error)
	updateFn     func(context.Context, *models.Tweet) error
	deleteFn     func(context.Context, uint) error
	listByUserFn func(context.Context, uint, string, pipeline.PageQuery) (*pipeline.Page[models.TweetView], error)
}

func (s *tweetRepoStub) Create(ctx context.Context, tweet *models.Tweet) error {
	return s.createFn(ctx, tweet)
}
func (s *tweetRepoStub) GetByID(ctx context.Context, id uint) (*models.Tweet, error) {
	return s.getByIDFn(ctx, id)
}
func (s *tweetRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *tweetRepoStub) Update(ctx context.Context, tweet *models.Tweet) error {
	return s.updateFn(ctx, tweet)
}
func (s *tweetRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *tweetRepoStub) ListByUser(ctx context.Context, userID uint, search string, q pipeline.PageQuery) (*pipeline.Page[models.TweetView], error) {
	return s.listByUserFn(ctx, userID, search, q)
}

func noopTweetRepo() *tweetRepoStub {
	return &tweetRepoStub{
		createFn:  func(_ context.Context, _ *models.Tweet) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Tweet, error) { return &models.Tweet{ID: id}, nil },
		existsFn:  func(_ context.Context, _ uint) (bool, error) { return true, nil },
		updateFn:  func(_ context.Context, _ *models.Tweet) error { return nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
		listByUserFn: func(_ context.Context, _ uint, _ string, q pipeline.PageQuery) (*pipeline.Page[models.TweetView], error) {
			return pipeline.NewPage[models.TweetView](nil, 0, q, pipeline.LabelTweets), nil
		},
	}
}

// recordingPublisher captures emitted events.
type recordingPublisher struct {
	toggled   []bool
	published []uint
	deleted   []uint
}

func (p *recordingPublisher) RelationToggled(_ context.Context, _ uint, _ models.Target, active bool) {
	p.toggled = append(p.toggled, active)
}
func (p *recordingPublisher) VideoPublished(_ context.Context, video *models.Video) {
	p.published = append(p.published, video.ID)
}
func (p *recordingPublisher) VideoDeleted(_ context.Context, videoID, _ uint) {
	p.deleted = append(p.deleted, videoID)
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeNotFound)
}

func assertForbiddenError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeForbidden)
}
