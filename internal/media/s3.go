package media

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config selects the bucket and credentials used by S3Store.
type S3Config struct {
	Bucket          string
	Region          string
	Prefix          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

type s3Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type s3Deleter interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps assets in an S3 bucket. Large videos go through the
// multipart upload manager.
type S3Store struct {
	cfg      S3Config
	uploader s3Uploader
	deleter  s3Deleter
}

// NewS3Store loads AWS configuration and builds the client. Static
// credentials are used when given, otherwise the default chain applies.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 media store requires a bucket")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Store(cfg, manager.NewUploader(client), client), nil
}

func newS3Store(cfg S3Config, uploader s3Uploader, deleter s3Deleter) *S3Store {
	return &S3Store{cfg: cfg, uploader: uploader, deleter: deleter}
}

func (s *S3Store) Name() string { return "s3" }

func (s *S3Store) key(assetID string) string {
	if s.cfg.Prefix == "" {
		return assetID
	}
	return path.Join(s.cfg.Prefix, assetID)
}

func (s *S3Store) url(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return joinURL(s.cfg.PublicBaseURL, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}

func (s *S3Store) Upload(ctx context.Context, localPath string, kind Kind) (*Asset, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	assetID := newAssetID(localPath, kind)
	key := s.key(assetID)

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(localPath))); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to upload %s to s3: %w", kind, err)
	}

	return &Asset{
		URL:          s.url(key),
		AssetID:      assetID,
		ResourceType: kind,
		Duration:     durationFor(localPath, kind),
	}, nil
}

func (s *S3Store) Destroy(ctx context.Context, assetID string, kind Kind) error {
	if err := validAssetID(assetID, kind); err != nil {
		return err
	}
	_, err := s.deleter.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(s.key(assetID)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from s3: %w", assetID, err)
	}
	return nil
}
