package reports

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// screenshotExtensions maps the accepted sniffed content types to the
// stored file extension.
var screenshotExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
}

// ScreenshotStore writes uploaded screenshots to disk under
// uuid-derived names in date-sharded directories.
type ScreenshotStore struct {
	baseDir string
}

// NewScreenshotStore creates a store rooted at baseDir.
func NewScreenshotStore(baseDir string) *ScreenshotStore {
	return &ScreenshotStore{baseDir: baseDir}
}

// Save validates the image by sniffing its content and writes it under
// <baseDir>/<prefix>/<yyyy>/<mm>/<dd>/<uuid><ext>. It returns the path
// relative to baseDir. The original filename is discarded.
func (s *ScreenshotStore) Save(prefix string, data []byte, now time.Time) (string, error) {
	contentType := http.DetectContentType(data)
	ext, ok := screenshotExtensions[contentType]
	if !ok {
		return "", ErrUnsupportedFile
	}

	rel := filepath.Join(prefix, now.Format("2006/01/02"), uuid.New().String()+ext)
	abs := filepath.Join(s.baseDir, rel)

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}

	return rel, nil
}

// Remove deletes a stored screenshot. A missing file is not an error.
func (s *ScreenshotStore) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.baseDir, rel)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove screenshot: %w", err)
	}
	return nil
}
