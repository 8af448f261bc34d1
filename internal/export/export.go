// Package export writes board items out: to files and to the clipboard.
package export

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"image-board/internal/items"
)

// Clipboard errors.
var (
	// ErrClipboardUnsupported is returned by a Clipboard that cannot hold
	// binary image data at all.
	ErrClipboardUnsupported = errors.New("clipboard does not accept images")

	// ErrClipboardWriteRejected means every write method failed.
	ErrClipboardWriteRejected = errors.New("clipboard write rejected")
)

// DefaultCopyDelay separates consecutive clipboard writes. Most platforms
// only handle one image write in flight.
const DefaultCopyDelay = 500 * time.Millisecond

// Method says how an item reached the clipboard.
type Method int

const (
	MethodNone Method = iota
	MethodImage
	MethodText
)

func (m Method) String() string {
	switch m {
	case MethodImage:
		return "image"
	case MethodText:
		return "text"
	default:
		return "none"
	}
}

// Clipboard is a platform clipboard.
type Clipboard interface {
	WriteImage(mime string, data []byte) error
	WriteText(text string) error
}

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
	"image/tiff": ".tiff",
	"image/webp": ".webp",
}

// FileName returns the name to save an item under: its display name, with an
// extension matching its content type added when missing.
func FileName(it *items.Item) string {
	name := strings.TrimSpace(filepath.Base(it.Payload.Name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = fmt.Sprintf("image-%d", it.ID)
	}
	if filepath.Ext(name) == "" {
		if ext, ok := extensions[it.Payload.MIME]; ok {
			name += ext
		}
	}
	return name
}

// WriteTo writes the item's original bytes to w.
func WriteTo(w io.Writer, it *items.Item) error {
	if len(it.Payload.Data) == 0 {
		return fmt.Errorf("%s has no data", FileName(it))
	}
	if _, err := w.Write(it.Payload.Data); err != nil {
		return fmt.Errorf("failed to write %s: %w", FileName(it), err)
	}
	return nil
}

// DataURL encodes the item as a base64 data URL.
func DataURL(it *items.Item) string {
	mime := it.Payload.MIME
	if mime == "" {
		mime = "application/octet-stream"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(it.Payload.Data)
}

// Copy puts an item on the clipboard. The raw image is tried first, then a
// data URL as text. If both fail the error wraps ErrClipboardWriteRejected.
func Copy(cb Clipboard, it *items.Item) (Method, error) {
	imgErr := cb.WriteImage(it.Payload.MIME, it.Payload.Data)
	if imgErr == nil {
		return MethodImage, nil
	}
	textErr := cb.WriteText(DataURL(it))
	if textErr == nil {
		return MethodText, nil
	}
	return MethodNone, fmt.Errorf("%s: image: %v, text: %v: %w",
		FileName(it), imgErr, textErr, ErrClipboardWriteRejected)
}

// Result is the outcome of copying one item.
type Result struct {
	Item   items.ID
	Name   string
	Method Method
	Err    error
}

// CopySequence copies items one after another, waiting delay between writes,
// and calls report after each one. It stops early if ctx is cancelled and
// returns the results gathered so far.
func CopySequence(ctx context.Context, cb Clipboard, list []*items.Item, delay time.Duration, report func(Result)) []Result {
	results := make([]Result, 0, len(list))
	for i, it := range list {
		if i > 0 && delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return results
			case <-timer.C:
			}
		} else if ctx.Err() != nil {
			return results
		}

		method, err := Copy(cb, it)
		r := Result{Item: it.ID, Name: FileName(it), Method: method, Err: err}
		results = append(results, r)
		if report != nil {
			report(r)
		}
	}
	return results
}
