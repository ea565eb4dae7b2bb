package knowledge

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceInterval lets bursts of events from editors and atomic renames
// settle before the file is hashed.
const DebounceInterval = 100 * time.Millisecond

// Watcher calls OnChange when a file in Dir changes content.
type Watcher struct {
	Dir      string
	OnChange func(ctx context.Context, path string)
	Debounce time.Duration

	mu     sync.Mutex
	hashes map[string][sha256.Size]byte
}

func NewWatcher(dir string, onChange func(ctx context.Context, path string)) *Watcher {
	return &Watcher{
		Dir:      dir,
		OnChange: onChange,
		Debounce: DebounceInterval,
		hashes:   make(map[string][sha256.Size]byte),
	}
}

// Run watches Dir until ctx is done. The directory is watched instead of
// single files so atomic replaces, which change the inode, are seen.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.Dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", w.Dir, err)
	}
	w.prime()
	slog.InfoContext(ctx, "watching knowledge directory", "dir", w.Dir)

	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			name := event.Name
			if t, ok := timers[name]; ok {
				t.Stop()
			}
			timers[name] = time.AfterFunc(w.Debounce, func() {
				if w.changed(name) {
					slog.DebugContext(ctx, "knowledge file changed", "path", name, "op", event.Op.String())
					w.OnChange(ctx, name)
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.WarnContext(ctx, "fsnotify error", "error", err)
		}
	}
}

func (w *Watcher) prime() {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		w.changed(filepath.Join(w.Dir, e.Name()))
	}
}

// changed records the current hash of path and reports whether it differs
// from the last one seen. A removed file counts as a change once.
func (w *Watcher) changed(path string) bool {
	sum, err := HashFile(path)
	w.mu.Lock()
	defer w.mu.Unlock()
	prev, seen := w.hashes[path]
	if err != nil {
		delete(w.hashes, path)
		return seen
	}
	w.hashes[path] = sum
	return !seen || prev != sum
}

// HashFile computes the SHA256 hash of the file at path.
func HashFile(path string) ([sha256.Size]byte, error) {
	var zero [sha256.Size]byte
	f, err := os.Open(path)
	if err != nil {
		return zero, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return zero, err
	}
	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	return sum, nil
}
