package raster

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Screenshot writes the current frame to dir as <timestamp>_<label>.png and
// returns the file path. The directory is created if missing.
func (r *Renderer) Screenshot(dir, label string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot: mkdir %s: %w", dir, err)
	}
	stamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("screenshot: create %s: %w", path, err)
	}
	if err := r.WritePNG(f); err != nil {
		f.Close()
		return "", fmt.Errorf("screenshot: %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("screenshot: close %s: %w", path, err)
	}
	return path, nil
}

// sanitizeLabel replaces characters unsafe in file names with underscores
// and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}
