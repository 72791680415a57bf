package app

import (
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// HotReloader watches the running binary and invokes a callback when a
// recompiled version appears, so a development session can offer to
// restart into the new build.
type HotReloader struct {
	execPath string
	baseline time.Time
	interval time.Duration
	stopCh   chan struct{}
	onNew    func()
}

// NewHotReloader watches the current executable. Returns nil if the
// executable path cannot be resolved.
func NewHotReloader(interval time.Duration) *HotReloader {
	execPath, err := os.Executable()
	if err != nil {
		return nil
	}
	// go build replaces the file behind the symlink
	if real, err := filepath.EvalSymlinks(execPath); err == nil {
		execPath = real
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

// OnNewBinary sets the callback invoked (from a background goroutine)
// when a newer binary is detected.
func (h *HotReloader) OnNewBinary(fn func()) {
	h.onNew = fn
}

// ExecPath returns the watched executable path.
func (h *HotReloader) ExecPath() string { return h.execPath }

// Start begins polling in a background goroutine.
func (h *HotReloader) Start() {
	h.stopCh = make(chan struct{})
	go func() {
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
				if info.ModTime().After(h.baseline) {
					if h.onNew != nil {
						h.onNew()
					}
					return
				}
			}
		}
	}()
}

// Stop halts the watcher.
func (h *HotReloader) Stop() {
	close(h.stopCh)
}

// ResetBaseline accepts the current binary as the baseline, for when
// the user declines a restart.
func (h *HotReloader) ResetBaseline() {
	if info, err := os.Stat(h.execPath); err == nil {
		h.baseline = info.ModTime()
	}
}

// Restart replaces the current process with the new binary, keeping
// arguments and environment. Does not return on success.
func (h *HotReloader) Restart() error {
	return syscall.Exec(h.execPath, os.Args, os.Environ())
}
