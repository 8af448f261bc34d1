package mainwindow

import (
	"io"
	"net/url"
	"os"
	"strings"

	"image-board/internal/app"
	"image-board/internal/export"
	boardimage "image-board/internal/image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
)

// fyneClipboard adapts the window clipboard, which only carries text.
type fyneClipboard struct {
	cb fyne.Clipboard
}

func (c fyneClipboard) WriteImage(mime string, data []byte) error {
	return export.ErrClipboardUnsupported
}

func (c fyneClipboard) WriteText(text string) error {
	if c.cb == nil {
		return export.ErrClipboardUnsupported
	}
	c.cb.SetContent(text)
	return nil
}

// pasteSources turns clipboard text into import sources: a data URL, or
// one image path or file URI per line.
func pasteSources(text string) []app.Source {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if strings.HasPrefix(text, "data:") {
		data, err := boardimage.ParseDataURL(text)
		if err != nil {
			return nil
		}
		return []app.Source{app.BytesSource("clipboard", data)}
	}

	var sources []app.Source
	for _, line := range strings.Split(text, "\n") {
		path := strings.TrimSpace(line)
		if u, err := url.Parse(path); err == nil && u.Scheme == "file" {
			path = u.Path
		}
		if path == "" || !boardimage.IsSupportedFormat(path) {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		sources = append(sources, app.FileSource(path))
	}
	return sources
}

// uriSources turns dropped URIs into import sources. Local files are read
// directly; anything else goes through fyne's storage repositories.
func uriSources(uris []fyne.URI) []app.Source {
	sources := make([]app.Source, 0, len(uris))
	for _, u := range uris {
		u := u
		if u.Scheme() == "file" {
			sources = append(sources, app.FileSource(u.Path()))
			continue
		}
		sources = append(sources, app.Source{
			Name: u.Name(),
			Read: func() ([]byte, error) {
				r, err := storage.Reader(u)
				if err != nil {
					return nil, err
				}
				defer r.Close()
				return io.ReadAll(r)
			},
		})
	}
	return sources
}
