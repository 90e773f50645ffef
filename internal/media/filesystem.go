package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileSystemStore keeps assets under a root directory that is served
// statically at baseURL:
//
//	<root>/
//	  image/<uuid>.<ext>
//	  video/<uuid>.<ext>
type FileSystemStore struct {
	root    string
	baseURL string
}

// NewFileSystemStore creates the directory layout below root.
func NewFileSystemStore(root, baseURL string) (*FileSystemStore, error) {
	if root == "" {
		return nil, fmt.Errorf("filesystem media store requires MEDIA_ROOT to be set")
	}
	for _, kind := range []Kind{KindImage, KindVideo} {
		if err := os.MkdirAll(filepath.Join(root, string(kind)), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", kind, err)
		}
	}
	return &FileSystemStore{root: root, baseURL: baseURL}, nil
}

func (s *FileSystemStore) Name() string { return "filesystem" }

// Root is the directory served as public media.
func (s *FileSystemStore) Root() string { return s.root }

func (s *FileSystemStore) Upload(ctx context.Context, localPath string, kind Kind) (*Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	assetID := newAssetID(localPath, kind)
	destPath := filepath.Join(s.root, filepath.FromSlash(assetID))

	// Write to a temp file and rename so readers never see a partial asset.
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to write asset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to close asset: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to store asset: %w", err)
	}

	return &Asset{
		URL:          joinURL(s.baseURL, assetID),
		AssetID:      assetID,
		ResourceType: kind,
		Duration:     durationFor(destPath, kind),
	}, nil
}

// Destroy removes the asset. Destroying an asset that is already gone is
// not an error.
func (s *FileSystemStore) Destroy(ctx context.Context, assetID string, kind Kind) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validAssetID(assetID, kind); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(assetID)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove asset: %w", err)
	}
	return nil
}
