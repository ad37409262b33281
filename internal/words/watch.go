package words

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the corpus whenever one of its backing files changes.
// Blocks until ctx is cancelled. Matches already in flight keep the words
// they were created with; only new matches see the reloaded lists.
func (c *Corpus) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the parent directories: editors typically replace files via
	// rename, which drops a watch on the file itself.
	dirs := map[string]struct{}{}
	for _, p := range c.Paths() {
		dirs[filepath.Dir(p)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	watched := map[string]struct{}{}
	for _, p := range c.Paths() {
		watched[filepath.Clean(p)] = struct{}{}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if _, ours := watched[filepath.Clean(event.Name)]; !ours {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := c.Reload(); err != nil {
				slog.Warn("word corpus reload failed, keeping previous lists",
					"file", event.Name, "error", err)
				continue
			}
			slog.Info("word corpus reloaded", "file", event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("word file watcher error", "error", err)
		}
	}
}
