// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"strings"

	"videotube/internal/models"
	"videotube/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password every seeded user can log in with.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them through the
// repositories. It is a thin helper used by the seeder and tests.
type Factory struct {
	faker      *gofakeit.Faker
	users      repository.UserRepository
	videos     repository.VideoRepository
	comments   repository.CommentRepository
	tweets     repository.TweetRepository
	relations  repository.RelationStore
	skipBcrypt bool
	password   string
}

// NewFactory creates a Factory bound to db. A zero seed picks a random one.
func NewFactory(db *gorm.DB, seed int64, skipBcrypt bool) *Factory {
	return &Factory{
		faker:      gofakeit.New(seed),
		users:      repository.NewUserRepository(db),
		videos:     repository.NewVideoRepository(db),
		comments:   repository.NewCommentRepository(db),
		tweets:     repository.NewTweetRepository(db),
		relations:  repository.NewRelationStore(db),
		skipBcrypt: skipBcrypt,
	}
}

// passwordHash hashes DefaultPassword once per factory.
func (f *Factory) passwordHash() (string, error) {
	if f.skipBcrypt {
		return DefaultPassword, nil
	}
	if f.password == "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		f.password = string(hashed)
	}
	return f.password, nil
}

// CreateUser persists a sample user. Overrides may adjust it before saving.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	password, err := f.passwordHash()
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	person := f.faker.Person()
	username := strings.ToLower(fmt.Sprintf("%s%d", f.faker.Username(), f.faker.Number(100, 99999)))
	user := &models.User{
		Username:   username,
		Email:      username + "@" + f.faker.DomainName(),
		FullName:   person.FirstName + " " + person.LastName,
		Avatar:     fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
		CoverImage: fmt.Sprintf("https://picsum.photos/seed/%s/1200/300", f.faker.UUID()),
		Password:   password,
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateVideo persists a video owned by owner. Seeded assets point at
// placeholder URLs and never exist in a media store.
func (f *Factory) CreateVideo(ctx context.Context, owner *models.User, overrides ...func(*models.Video)) (*models.Video, error) {
	assetID := f.faker.UUID()
	video := &models.Video{
		VideoFile:        fmt.Sprintf("https://cdn.example.com/seed/video/%s.mp4", assetID),
		VideoAssetID:     "seed/video/" + assetID + ".mp4",
		Thumbnail:        fmt.Sprintf("https://picsum.photos/seed/%s/640/360", assetID),
		ThumbnailAssetID: "seed/image/" + assetID + ".jpg",
		Title:            strings.TrimSuffix(f.faker.Sentence(f.faker.Number(3, 7)), "."),
		Description:      f.faker.Paragraph(1, 3, 12, "\n"),
		Duration:         float64(f.faker.Number(15, 1800)),
		Views:            int64(f.faker.Number(0, 50000)),
		IsPublished:      f.faker.Number(1, 10) > 2,
		OwnerID:          owner.ID,
	}
	for _, override := range overrides {
		override(video)
	}

	if err := f.videos.Create(ctx, video); err != nil {
		return nil, err
	}
	return video, nil
}

// CreateTweet persists a tweet of at most 280 characters.
func (f *Factory) CreateTweet(ctx context.Context, owner *models.User) (*models.Tweet, error) {
	content := f.faker.Sentence(f.faker.Number(4, 20))
	if runes := []rune(content); len(runes) > 280 {
		content = string(runes[:280])
	}
	tweet := &models.Tweet{Content: content, OwnerID: owner.ID}
	if err := f.tweets.Create(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

// CreateComment persists a comment by author on video.
func (f *Factory) CreateComment(ctx context.Context, video *models.Video, author *models.User) (*models.Comment, error) {
	comment := &models.Comment{
		Content: f.faker.Sentence(f.faker.Number(3, 15)),
		VideoID: video.ID,
		OwnerID: author.ID,
	}
	if err := f.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Like makes actor like target. Repeating it is harmless.
func (f *Factory) Like(ctx context.Context, actor *models.User, target models.Target) error {
	_, err := f.relations.Create(ctx, actor.ID, target)
	return err
}

// Subscribe makes subscriber follow channel.
func (f *Factory) Subscribe(ctx context.Context, subscriber, channel *models.User) error {
	if subscriber.ID == channel.ID {
		return nil
	}
	_, err := f.relations.Create(ctx, subscriber.ID, models.Target{Kind: models.TargetChannel, ID: channel.ID})
	return err
}

// Chance reports true with probability percent/100.
func (f *Factory) Chance(percent int) bool {
	return f.faker.Number(1, 100) <= percent
}

// Pick returns a random index below n.
func (f *Factory) Pick(n int) int {
	return f.faker.Number(0, n-1)
}
