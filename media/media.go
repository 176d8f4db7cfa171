// Package media validates uploaded files and hands them to the external image
// and video services.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"encore/constants"
	"encore/types"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file is too large")
	ErrEmpty           = errors.New("file is empty")
)

var imageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

var videoTypes = []string{"video/mp4", "video/quicktime", "video/x-msvideo", "video/webm"}

// Asset is the stored form of one uploaded file.
type Asset struct {
	Item  types.MediaItem
	Ready bool
}

//go:generate go run go.uber.org/mock/mockgen -source=media.go -destination=mock_uploader.go -package=media

// Uploader stores media bytes with an external provider.
type Uploader interface {
	UploadImage(ctx context.Context, name string, r io.Reader) (*Asset, error)
	UploadVideo(ctx context.Context, name string, r io.Reader) (*Asset, error)
}

// Detect sniffs the content type of r and rewinds it.
func Detect(r io.ReadSeeker) (*mimetype.MIME, error) {
	m, err := mimetype.DetectReader(r)
	if err != nil {
		return nil, err
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	return m, nil
}

// Classify checks a sniffed type and size against the per-kind limits.
func Classify(m *mimetype.MIME, size int64) (types.MediaType, error) {
	if size <= 0 {
		return "", ErrEmpty
	}

	for _, t := range imageTypes {
		if m.Is(t) {
			if size > constants.MaxImageSize {
				return "", fmt.Errorf("%w: images may be at most %d MB", ErrTooLarge, constants.MaxImageSize>>20)
			}
			return types.MediaTypeImage, nil
		}
	}

	for _, t := range videoTypes {
		if m.Is(t) {
			if size > constants.MaxVideoSize {
				return "", fmt.Errorf("%w: videos may be at most %d MB", ErrTooLarge, constants.MaxVideoSize>>20)
			}
			return types.MediaTypeVideo, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, m.String())
}
