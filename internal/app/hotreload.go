package app

import (
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// HotReloader watches the running binary and reports when a newer build
// appears, so a development session can restart into fresh code without
// hunting down the window. It is harmless in production: the binary never
// changes, the callback never fires.
type HotReloader struct {
	execPath    string
	baseline    time.Time
	interval    time.Duration
	stopCh      chan struct{}
	onNewBinary func()
}

// NewHotReloader watches the current executable, checking at the given
// interval. It returns nil when the executable path cannot be resolved.
func NewHotReloader(interval time.Duration) *HotReloader {
	execPath, err := os.Executable()
	if err != nil {
		return nil
	}
	// go build replaces the file behind the symlink, so resolve it first.
	if realPath, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = realPath
	}
	info, err := os.Stat(execPath)
	if err != nil {
		return nil
	}
	return &HotReloader{
		execPath: execPath,
		baseline: info.ModTime(),
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// ExecPath returns the watched executable path.
func (h *HotReloader) ExecPath() string { return h.execPath }

// OnNewBinary sets the callback invoked, from a background goroutine, when a
// newer binary is detected. It fires at most once per Start.
func (h *HotReloader) OnNewBinary(callback func()) {
	h.onNewBinary = callback
}

// Start begins watching in a background goroutine.
func (h *HotReloader) Start() {
	h.stopCh = make(chan struct{})
	go h.watchLoop()
}

// Stop ends the watch.
func (h *HotReloader) Stop() {
	close(h.stopCh)
}

func (h *HotReloader) watchLoop() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stopCh:
			return
		case <-ticker.C:
			info, err := os.Stat(h.execPath)
			if err != nil {
				continue
			}
			if info.ModTime().After(h.baseline) && h.onNewBinary != nil {
				h.onNewBinary()
				return
			}
		}
	}
}

// ResetBaseline accepts the current binary as the baseline, for when the
// user declines a restart.
func (h *HotReloader) ResetBaseline() {
	if info, err := os.Stat(h.execPath); err == nil {
		h.baseline = info.ModTime()
	}
}

// Restart replaces the current process with a fresh instance of the watched
// binary, preserving arguments and environment. It does not return on
// success.
func (h *HotReloader) Restart() error {
	return syscall.Exec(h.execPath, os.Args, os.Environ())
}
