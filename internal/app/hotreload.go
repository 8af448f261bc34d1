package app

import (
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"
)

// HotReloader watches the running binary and reports when a newer build
// replaces it. Each check also runs the tick callback, which the window uses
// to flush preferences.
type HotReloader struct {
	execPath      string
	checkInterval time.Duration

	mu          sync.Mutex
	startupTime time.Time
	stopCh      chan struct{}
	onNewBinary func()
	onTick      func()
}

// NewHotReloader watches the current executable. Returns nil if its path
// cannot be determined.
func NewHotReloader(checkInterval time.Duration) *HotReloader {
	execPath, err := os.Executable()
	if err != nil {
		return nil
	}
	return NewFileWatcher(execPath, checkInterval)
}

// NewFileWatcher watches an arbitrary file. Returns nil if it cannot be
// stat'ed.
func NewFileWatcher(path string, checkInterval time.Duration) *HotReloader {
	// go build writes a new file; follow symlinks to the real one
	if realPath, err := filepath.EvalSymlinks(path); err == nil {
		path = realPath
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil
	}

	return &HotReloader{
		execPath:      path,
		startupTime:   info.ModTime(),
		checkInterval: checkInterval,
	}
}

// OnNewBinary sets the callback for a detected rebuild. It runs on the
// watcher goroutine.
func (h *HotReloader) OnNewBinary(callback func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onNewBinary = callback
}

// OnTick sets a callback run on every check.
func (h *HotReloader) OnTick(callback func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onTick = callback
}

// Start begins watching in a background goroutine.
func (h *HotReloader) Start() {
	h.mu.Lock()
	h.stopCh = make(chan struct{})
	stop := h.stopCh
	h.mu.Unlock()
	go h.watchLoop(stop)
}

// Stop stops the watcher goroutine. It is safe to call more than once.
func (h *HotReloader) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopCh != nil {
		close(h.stopCh)
		h.stopCh = nil
	}
}

func (h *HotReloader) watchLoop(stop chan struct{}) {
	ticker := time.NewTicker(h.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			h.mu.Lock()
			tick, newBinary := h.onTick, h.onNewBinary
			h.mu.Unlock()

			if tick != nil {
				tick()
			}
			if h.checkForUpdate() && newBinary != nil {
				newBinary()
				// Only trigger once; ResetBaseline and Start to resume
				return
			}
		}
	}
}

// checkForUpdate reports whether the file changed since the baseline.
func (h *HotReloader) checkForUpdate() bool {
	info, err := os.Stat(h.execPath)
	if err != nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return info.ModTime().After(h.startupTime)
}

// ExecPath returns the watched path.
func (h *HotReloader) ExecPath() string {
	return h.execPath
}

// StartupTime returns the baseline modification time.
func (h *HotReloader) StartupTime() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.startupTime
}

// ResetBaseline accepts the current file as the new baseline, so a declined
// restart is not offered again for the same build.
func (h *HotReloader) ResetBaseline() {
	if info, err := os.Stat(h.execPath); err == nil {
		h.mu.Lock()
		h.startupTime = info.ModTime()
		h.mu.Unlock()
	}
}

// Restart replaces the current process with the watched binary, keeping
// arguments and environment. It does not return on success.
func (h *HotReloader) Restart() error {
	return syscall.Exec(h.execPath, os.Args, os.Environ())
}
