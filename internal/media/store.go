// Package media stores uploaded video and image files and hands back the
// public URL together with the identifier needed to delete them later.
package media

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Kind is the resource type of an asset.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Asset describes a stored file. AssetID is opaque to callers and must be
// persisted next to URL; it is never derived from the URL.
type Asset struct {
	URL          string  `json:"url"`
	AssetID      string  `json:"assetId"`
	ResourceType Kind    `json:"resourceType"`
	Duration     float64 `json:"duration,omitempty"`
}

// Store uploads local files and destroys previously uploaded ones.
type Store interface {
	Name() string
	Upload(ctx context.Context, localPath string, kind Kind) (*Asset, error)
	Destroy(ctx context.Context, assetID string, kind Kind) error
}

// newAssetID builds a collision-free identifier that keeps the source
// extension so served files get a sensible content type.
func newAssetID(localPath string, kind Kind) string {
	ext := strings.ToLower(filepath.Ext(localPath))
	return fmt.Sprintf("%s/%s%s", kind, uuid.NewString(), ext)
}

// validAssetID rejects identifiers that could escape the store's namespace.
func validAssetID(assetID string, kind Kind) error {
	if assetID == "" {
		return fmt.Errorf("empty asset id")
	}
	if !strings.HasPrefix(assetID, string(kind)+"/") {
		return fmt.Errorf("asset %q is not a %s", assetID, kind)
	}
	if strings.Contains(assetID, "..") || strings.HasPrefix(assetID, "/") {
		return fmt.Errorf("invalid asset id %q", assetID)
	}
	return nil
}

func joinURL(base, assetID string) string {
	return strings.TrimRight(base, "/") + "/" + assetID
}

func durationFor(localPath string, kind Kind) float64 {
	if kind != KindVideo {
		return 0
	}
	d, err := ProbeDuration(localPath)
	if err != nil {
		return 0
	}
	return d
}
