package workers

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// UploadSweeper removes spooled uploads left behind by failed offloads.
// A file is removed once older than ttl.
type UploadSweeper struct {
	log      *slog.Logger
	dir      string
	interval time.Duration
	ttl      time.Duration
	now      func() time.Time
}

func NewUploadSweeper(log *slog.Logger, dir string, interval, ttl time.Duration) *UploadSweeper {
	return &UploadSweeper{log: log, dir: dir, interval: interval, ttl: ttl, now: time.Now}
}

func (w *UploadSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep returns the number of removed files.
func (w *UploadSweeper) Sweep() int {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.log.Warn("Unable to list upload directory", "dir", w.dir, "error", err)
		return 0
	}
	deadline := w.now().Add(-w.ttl)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(deadline) {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if err = os.Remove(path); err != nil {
			w.log.Warn("Unable to remove stale upload", "path", path, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		w.log.Info("Stale uploads removed", "count", removed)
	} else {
		w.log.Debug("No stale upload, waiting for next sweep...")
	}
	return removed
}
