// Package image turns raw bytes into board items: content sniffing,
// decoding, display sizing and placement.
package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"path/filepath"
	"strings"

	"image-board/internal/items"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Import error categories. Returned errors wrap one of these.
var (
	ErrInvalidInput  = errors.New("not an image")
	ErrDecodeFailure = errors.New("image could not be decoded")
)

// Limits checked against the image header before any pixels are decoded.
const (
	MaxSide   = 1 << 15
	MaxPixels = 64 << 20
)

// Decoded is a successfully decoded image ready to become an item.
type Decoded struct {
	Width   int
	Height  int
	Payload items.Payload
}

// Sniff returns the image MIME type of data, or an error wrapping
// ErrInvalidInput for anything that is not a supported image.
func Sniff(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty payload: %w", ErrInvalidInput)
	}

	// http.DetectContentType does not know TIFF
	if bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")) {
		return "image/tiff", nil
	}

	mime := http.DetectContentType(data)
	switch mime {
	case "image/png", "image/jpeg", "image/gif", "image/bmp", "image/webp":
		return mime, nil
	}
	return "", fmt.Errorf("unsupported content type %q: %w", mime, ErrInvalidInput)
}

// Decode validates and decodes data. name is kept as the display name.
func Decode(name string, data []byte) (*Decoded, error) {
	mime, err := Sniff(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", name, err, ErrDecodeFailure)
	}
	if err := checkDimensions(cfg.Width, cfg.Height); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", name, err, ErrDecodeFailure)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", name, err, ErrDecodeFailure)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%s: empty image: %w", name, ErrDecodeFailure)
	}

	return &Decoded{
		Width:  b.Dx(),
		Height: b.Dy(),
		Payload: items.Payload{
			Name:  name,
			MIME:  mime,
			Data:  data,
			Image: img,
		},
	}, nil
}

func checkDimensions(w, h int) error {
	switch {
	case w <= 0 || h <= 0:
		return fmt.Errorf("empty image %dx%d", w, h)
	case w > MaxSide || h > MaxSide:
		return fmt.Errorf("image %dx%d exceeds %d pixels per side", w, h, MaxSide)
	case int64(w)*int64(h) > MaxPixels:
		return fmt.Errorf("image %dx%d exceeds %d pixels", w, h, MaxPixels)
	}
	return nil
}

// SupportedFormats returns the file extensions offered in file dialogs.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image extension.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
