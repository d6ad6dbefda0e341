package workers

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestUploadSweeper_Removes_Only_Stale_Files(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	dir := t.TempDir()

	stale := filepath.Join(dir, "stale")
	fresh := filepath.Join(dir, "fresh")
	req.NoError(os.WriteFile(stale, []byte("x"), 0o600))
	req.NoError(os.WriteFile(fresh, []byte("y"), 0o600))
	req.NoError(os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	// Given a file left by a failed upload two hours ago
	old := time.Now().Add(-2 * time.Hour)
	req.NoError(os.Chtimes(stale, old, old))

	sweeper := NewUploadSweeper(log, dir, time.Minute, time.Hour)

	// When sweeping
	removed := sweeper.Sweep()

	// Then only the stale file is gone
	req.Equal(1, removed)
	_, err := os.Stat(stale)
	req.True(os.IsNotExist(err))
	_, err = os.Stat(fresh)
	req.NoError(err)
}

func TestUploadSweeper_Missing_Directory(t *testing.T) {
	req := require.New(t)
	sweeper := NewUploadSweeper(slog.Default(), filepath.Join(t.TempDir(), "missing"), time.Minute, time.Hour)

	req.Equal(0, sweeper.Sweep())
}

func TestUploadSweeper_Run_Stops_On_Cancel(t *testing.T) {
	req := require.New(t)
	sweeper := NewUploadSweeper(slog.Default(), t.TempDir(), 5*time.Millisecond, time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := sweeper.Run(ctx)

	req.ErrorIs(err, context.DeadlineExceeded)
}
