package app

import (
	"context"
	"fmt"
	"io"
	"log"

	"image-board/internal/export"
	"image-board/internal/items"
)

// SaveItem writes one item's original bytes to w.
func (s *State) SaveItem(id items.ID, w io.Writer) error {
	it, ok := s.Item(id)
	if !ok {
		return fmt.Errorf("image %d is no longer on the board", id)
	}
	return export.WriteTo(w, &it)
}

// CopyItem puts one item on the clipboard and reports the outcome.
func (s *State) CopyItem(cb export.Clipboard, id items.ID) error {
	it, ok := s.Item(id)
	if !ok {
		return nil
	}
	method, err := export.Copy(cb, &it)
	s.reportCopy(export.Result{Item: id, Name: export.FileName(&it), Method: method, Err: err})
	return err
}

// CopySelected copies the selected items to the clipboard one at a time,
// back to front, pausing between writes. It blocks; run it off the UI
// goroutine.
func (s *State) CopySelected(ctx context.Context, cb export.Clipboard) []export.Result {
	list := s.Selected()
	if len(list) == 0 {
		s.Notify(NoticeInfo, "Nothing selected to copy")
		return nil
	}
	return export.CopySequence(ctx, cb, list, s.opts.CopyDelay, s.reportCopy)
}

func (s *State) reportCopy(r export.Result) {
	switch {
	case r.Err != nil:
		log.Printf("export: copy %s: %v", r.Name, r.Err)
		s.Notify(NoticeError, "Could not copy %s", r.Name)
	case r.Method == export.MethodText:
		s.Notify(NoticeInfo, "Copied %s as a data URL", r.Name)
	default:
		s.Notify(NoticeInfo, "Copied %s", r.Name)
	}
}
