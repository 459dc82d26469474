package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"testtrail/pkg/logging"
)

// SpoolExt is the extension of the stream files a Watcher follows.
const SpoolExt = ".jsonl"

// Watcher follows a spool directory. Every *.jsonl file gets its own Stream
// and is read from where the previous read stopped. Only complete lines are
// handled; a trailing partial line waits for the next write.
type Watcher struct {
	dir     string
	factory Factory
	files   map[string]*spoolFile

	// Notify, when set, is called after new lines of a file were handled.
	Notify func(path string, lines int)
}

type spoolFile struct {
	offset  int64
	partial []byte
	stream  *Stream
}

// NewWatcher creates a watcher for dir.
func NewWatcher(dir string, factory Factory) *Watcher {
	return &Watcher{
		dir:     dir,
		factory: factory,
		files:   make(map[string]*spoolFile),
	}
}

// Run reads the files already in the directory, then follows changes until
// ctx is done. It returns nil on cancellation and the first recorder error
// otherwise.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create spool directory %s: %w", w.dir, err)
	}
	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	logging.Info(subsystem, "Watching %s for event streams", w.dir)

	existing, err := filepath.Glob(filepath.Join(w.dir, "*"+SpoolExt))
	if err != nil {
		return err
	}
	for _, path := range existing {
		if err := w.consume(path); err != nil {
			return err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSpoolFile(event.Name) {
				continue
			}
			switch {
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				if err := w.consume(event.Name); err != nil {
					return err
				}
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				delete(w.files, event.Name)
				logging.Debug(subsystem, "stopped following %s", event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error(subsystem, err, "Filesystem watcher error")
		}
	}
}

// consume handles the lines appended to path since the last call.
func (w *Watcher) consume(path string) error {
	sf, ok := w.files[path]
	if !ok {
		sf = &spoolFile{stream: NewStream(w.factory)}
		w.files[path] = sf
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() < sf.offset {
		logging.Warn(subsystem, "%s was truncated, reading from the start", path)
		sf.offset = 0
		sf.partial = nil
	}

	if _, err := f.Seek(sf.offset, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek %s: %w", path, err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil
	}
	sf.offset += int64(len(data))

	buf := append(sf.partial, data...)
	lines := 0
	for {
		i := bytes.IndexByte(buf, '\n')
		if i < 0 {
			break
		}
		if err := sf.stream.HandleLine(buf[:i]); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		buf = buf[i+1:]
		lines++
	}
	sf.partial = append([]byte(nil), buf...)

	if lines > 0 && w.Notify != nil {
		w.Notify(path, lines)
	}
	return nil
}

func isSpoolFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), SpoolExt)
}
