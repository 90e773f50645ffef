package media

import (
	"context"
	"fmt"

	"videotube/internal/config"
)

// NewFromConfig creates the Store selected by MEDIA_BACKEND.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Store, error) {
	var (
		store Store
		err   error
	)
	switch cfg.MediaBackend {
	case "memory":
		store = NewMemoryStore(cfg.MediaPublicBaseURL)
	case "filesystem", "":
		store, err = NewFileSystemStore(cfg.MediaRoot, cfg.MediaPublicBaseURL)
	case "s3":
		store, err = NewS3Store(ctx, S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Prefix:          cfg.S3Prefix,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   cfg.MediaPublicBaseURL,
		})
	default:
		return nil, fmt.Errorf("unknown media backend: %s", cfg.MediaBackend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(store), nil
}
