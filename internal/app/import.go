package app

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	boardimage "image-board/internal/image"
	"image-board/internal/interact"
	"image-board/internal/items"
	"image-board/pkg/geometry"
)

// cascadeStep offsets each further item of a multi-file drop or paste so
// they do not land exactly on top of each other.
const cascadeStep = 24

// Source is one thing to import. Read runs off the event goroutine.
type Source struct {
	Name string
	Read func() ([]byte, error)
}

// FileSource reads an image file.
func FileSource(path string) Source {
	return Source{
		Name: filepath.Base(path),
		Read: func() ([]byte, error) { return os.ReadFile(path) },
	}
}

// BytesSource wraps bytes already in memory.
func BytesSource(name string, data []byte) Source {
	return Source{
		Name: name,
		Read: func() ([]byte, error) { return data, nil },
	}
}

// ImportResult is the outcome for one source.
type ImportResult struct {
	Name string
	ID   items.ID // 0 on failure
	Err  error
}

// ImportJob tracks one batch of imports.
type ImportJob struct {
	wg      sync.WaitGroup
	mu      sync.Mutex
	results []ImportResult
}

// Wait blocks until every source has been added or rejected and returns the
// results in source order.
func (j *ImportJob) Wait() []ImportResult {
	j.wg.Wait()
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]ImportResult, len(j.results))
	copy(out, j.results)
	return out
}

// Import adds images to the board. Placement is decided now from the current
// viewport: centred on the pointer position at when given, random inside
// the view otherwise. Random placement needs the view's size, so such an
// import made before the board is first laid out is held until
// SetViewportSize reports a non-empty size. Reading and decoding run in the
// background; items are added and failures reported in source order.
func (s *State) Import(sources []Source, at *geometry.Point2D) *ImportJob {
	job := &ImportJob{results: make([]ImportResult, len(sources))}
	job.wg.Add(len(sources))

	s.mu.Lock()
	if at == nil && !hasArea(s.viewportSize) {
		s.held = append(s.held, func() { s.startImport(job, sources, nil) })
		s.mu.Unlock()
		log.Printf("import: holding %d source(s) until the board is laid out", len(sources))
		return job
	}
	s.mu.Unlock()

	s.startImport(job, sources, at)
	return job
}

// startImport captures the placement and launches one worker per source.
// Each worker waits for its predecessor before touching the board.
func (s *State) startImport(job *ImportJob, sources []Source, at *geometry.Point2D) {
	s.mu.RLock()
	placement := boardimage.NewPlacement(*s.view, s.viewportSize, s.opts.TopMargin, s.opts.PlacementMargin)
	if s.opts.Rand != nil {
		placement.Rand = s.opts.Rand
	}
	var anchor *geometry.Point2D
	if at != nil {
		c := s.machine.ToCanvas(*at)
		anchor = &c
	}
	step := cascadeStep / s.view.Zoom
	maxDim := s.opts.MaxItemDimension
	s.mu.RUnlock()

	prev := make(chan struct{})
	close(prev)
	for i, src := range sources {
		var target *geometry.Point2D
		if anchor != nil {
			p := anchor.Add(geometry.Point2D{X: float64(i) * step, Y: float64(i) * step})
			target = &p
		}

		done := make(chan struct{})
		s.pending.Add(1)
		go func(i int, src Source, prev <-chan struct{}, done chan<- struct{}) {
			defer s.pending.Done()
			defer job.wg.Done()
			defer close(done)

			it, err := s.prepare(src, placement, target, maxDim)
			<-prev
			id := s.commit(src.Name, it, err)
			job.mu.Lock()
			job.results[i] = ImportResult{Name: src.Name, ID: id, Err: err}
			job.mu.Unlock()
		}(i, src, prev, done)
		prev = done
	}
}

func hasArea(size geometry.Size) bool {
	return size.Width > 0 && size.Height > 0
}

// Paste imports at the last pointer position seen by the board, which is the
// origin until the pointer first moves.
func (s *State) Paste(sources []Source) *ImportJob {
	s.mu.RLock()
	at := s.machine.LastPointer()
	s.mu.RUnlock()
	return s.Import(sources, &at)
}

// prepare reads, decodes and places one source without touching the board.
func (s *State) prepare(src Source, pl boardimage.Placement, target *geometry.Point2D, maxDim float64) (*items.Item, error) {
	data, err := src.Read()
	if err != nil {
		log.Printf("import: read %s: %v", src.Name, err)
		return nil, fmt.Errorf("read %s: %w", src.Name, err)
	}

	decoded, err := boardimage.Decode(src.Name, data)
	if err != nil {
		log.Printf("import: %v", err)
		return nil, err
	}

	size := boardimage.FitSize(decoded.Width, decoded.Height, maxDim)
	var pos geometry.Point2D
	if target != nil {
		pos = pl.At(*target, size)
	} else {
		pos = pl.Random(size)
	}
	return &items.Item{Pos: pos, Size: size, Payload: decoded.Payload}, nil
}

// commit adds a prepared item, or raises the notice for a failed one.
func (s *State) commit(name string, it *items.Item, err error) items.ID {
	switch {
	case errors.Is(err, boardimage.ErrInvalidInput):
		s.Notify(NoticeError, "%s is not an image", name)
		return 0
	case errors.Is(err, boardimage.ErrDecodeFailure):
		s.Notify(NoticeError, "Could not decode %s", name)
		return 0
	case err != nil:
		s.Notify(NoticeError, "Could not read %s", name)
		return 0
	}

	var id items.ID
	s.update(func() interact.Effect {
		id = s.store.Add(it)
		return interact.EffectItems
	})
	return id
}

// WaitImports blocks until every import started so far has finished. Imports
// still held for layout have not started.
func (s *State) WaitImports() {
	s.pending.Wait()
}
