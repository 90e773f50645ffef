package media

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"net/http"
	"os"
	"strings"

	_ "golang.org/x/image/webp" // Register WebP decoder
)

// MaxImageDimension bounds thumbnails to keep decoding cheap.
const MaxImageDimension = 8192

var (
	ErrNotImage = errors.New("file is not a supported image")
	ErrNotVideo = errors.New("file is not a supported video")
)

// ValidateImage checks that path holds a decodable image and returns its
// format name.
func ValidateImage(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return "", ErrNotImage
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > MaxImageDimension || cfg.Height > MaxImageDimension {
		return "", fmt.Errorf("%w: dimensions %dx%d out of range", ErrNotImage, cfg.Width, cfg.Height)
	}
	return format, nil
}

// ValidateVideo sniffs the first bytes of path and returns the detected
// content type.
func ValidateVideo(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open video: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", ErrNotVideo
	}
	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "video/") {
		return "", ErrNotVideo
	}
	return contentType, nil
}
