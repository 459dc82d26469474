package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"testtrail/internal/recorder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ConsumeHandlesCompleteLinesOnly(t *testing.T) {
	spool := t.TempDir()
	out := t.TempDir()
	path := filepath.Join(spool, "run"+SpoolExt)

	w := NewWatcher(spool, fileFactory(t, out))
	var handled []int
	w.Notify = func(_ string, lines int) { handled = append(handled, lines) }

	lines := strings.SplitAfter(authStream, "\n")
	// first two lines plus half of the third
	third := lines[2]
	first := lines[0] + lines[1] + third[:10]
	require.NoError(t, os.WriteFile(path, []byte(first), 0644))
	require.NoError(t, w.consume(path))
	assert.Equal(t, []int{2}, handled)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(third[10:] + strings.Join(lines[3:], ""))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, w.consume(path))
	assert.Equal(t, []int{2, 3}, handled)

	report, err := recorder.ReadReport(filepath.Join(out, "auth.json"))
	require.NoError(t, err)
	require.Len(t, report.Tests, 1)
	assert.Equal(t, []string{"visit /login", "get #user"}, report.Tests[0].Commands)

	// nothing new
	require.NoError(t, w.consume(path))
	assert.Len(t, handled, 2)
}

func TestWatcher_ConsumeTruncatedFile(t *testing.T) {
	spool := t.TempDir()
	path := filepath.Join(spool, "run"+SpoolExt)
	w := NewWatcher(spool, fileFactory(t, t.TempDir()))

	require.NoError(t, os.WriteFile(path, []byte(authStream), 0644))
	require.NoError(t, w.consume(path))
	require.Greater(t, w.files[path].offset, int64(0))

	require.NoError(t, os.WriteFile(path, []byte("\n"), 0644))
	require.NoError(t, w.consume(path))
	assert.Equal(t, int64(1), w.files[path].offset)
}

func TestWatcher_ConsumeMissingFile(t *testing.T) {
	w := NewWatcher(t.TempDir(), fileFactory(t, t.TempDir()))
	assert.NoError(t, w.consume(filepath.Join(t.TempDir(), "gone"+SpoolExt)))
}

func TestWatcher_RunPicksUpFiles(t *testing.T) {
	spool := t.TempDir()
	out := t.TempDir()

	// present before the watcher starts
	require.NoError(t, os.WriteFile(filepath.Join(spool, "early"+SpoolExt), []byte(authStream), 0644))

	notified := make(chan string, 8)
	w := NewWatcher(spool, fileFactory(t, out))
	w.Notify = func(path string, _ int) {
		select {
		case notified <- filepath.Base(path):
		default:
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case name := <-notified:
		assert.Equal(t, "early"+SpoolExt, name)
	case <-time.After(5 * time.Second):
		t.Fatal("existing spool file was not processed")
	}

	late := strings.ReplaceAll(authStream, "auth.cy.js", "late.cy.js")
	require.NoError(t, os.WriteFile(filepath.Join(spool, "late"+SpoolExt), []byte(late), 0644))
	// not a spool file
	require.NoError(t, os.WriteFile(filepath.Join(spool, "notes.txt"), []byte("hello\n"), 0644))

	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(out, "late.json"))
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestIsSpoolFile(t *testing.T) {
	assert.True(t, isSpoolFile("a/b.jsonl"))
	assert.True(t, isSpoolFile("B.JSONL"))
	assert.False(t, isSpoolFile("b.json"))
	assert.False(t, isSpoolFile("b"))
}
