// Package media classifies inputs by content and wraps gocv image and video I/O.
package media

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/somikoronAI-Source/smretrofit/internal/models"
)

// Sniff detects the media type of a file from its content
func Sniff(path string) (*mimetype.MIME, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", models.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return mt, nil
}

// IsImageType reports whether the detected type is a still image
func IsImageType(mt *mimetype.MIME) bool {
	return hasTopLevel(mt, "image/")
}

// IsVideoType reports whether the detected type is a video container
func IsVideoType(mt *mimetype.MIME) bool {
	return hasTopLevel(mt, "video/")
}

func hasTopLevel(mt *mimetype.MIME, prefix string) bool {
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), prefix) {
			return true
		}
	}
	return false
}

// RequireImage fails with ErrFileNotFound or ErrInvalidMediaType unless path holds an image
func RequireImage(path string) (*mimetype.MIME, error) {
	return requireKind(path, "image", IsImageType)
}

// RequireVideo fails with ErrFileNotFound or ErrInvalidMediaType unless path holds a video
func RequireVideo(path string) (*mimetype.MIME, error) {
	return requireKind(path, "video", IsVideoType)
}

func requireKind(path, want string, ok func(*mimetype.MIME) bool) (*mimetype.MIME, error) {
	mt, err := Sniff(path)
	if err != nil {
		return nil, err
	}
	if !ok(mt) {
		return nil, fmt.Errorf("%w: %s is %s, want %s", models.ErrInvalidMediaType, path, mt.String(), want)
	}
	return mt, nil
}

// RequireImageData is RequireImage for in-memory uploads
func RequireImageData(name string, data []byte) (*mimetype.MIME, error) {
	mt := mimetype.Detect(data)
	if !IsImageType(mt) {
		return nil, fmt.Errorf("%w: %s is %s, want image", models.ErrInvalidMediaType, name, mt.String())
	}
	return mt, nil
}
