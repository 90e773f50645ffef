package server

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"videotube/internal/models"
	"videotube/internal/pipeline"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive id.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := pipeline.ParseRef(humanizeParam(param), c.Params(param))
	if err != nil {
		_ = models.RespondWithAppError(c, err)
		return 0, errResponseWritten
	}
	return id, nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "videoId" -> "video ID", "subscriberId" -> "subscriber ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		words := splitCamel(param[:len(param)-2])
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	return append(words, s[start:])
}

// pageQuery reads page, limit and the optional sortBy/sortType pair.
func pageQuery(c *fiber.Ctx) pipeline.PageQuery {
	return pipeline.ParsePageQuery(c.Query("page"), c.Query("limit"), c.Query("sortBy"), c.Query("sortType"))
}

func currentUserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals("userID").(uint)
	return userID
}

// saveUpload stores the multipart file under field in the upload temp dir.
// An absent field yields an empty path. The returned cleanup removes the
// temp file and is always safe to call.
func (s *Server) saveUpload(c *fiber.Ctx, field string) (string, func(), error) {
	noop := func() {}
	file, err := c.FormFile(field)
	if err != nil {
		return "", noop, nil
	}

	dir := s.config.UploadTmpDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", noop, models.NewInternalError(err)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	path := filepath.Join(dir, uuid.NewString()+ext)
	if err := c.SaveFile(file, path); err != nil {
		return "", noop, models.NewInternalError(err)
	}
	return path, func() { _ = os.Remove(path) }, nil
}
