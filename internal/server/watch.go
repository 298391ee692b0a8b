package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SourceChanged is the SSE event name sent when the source file changes.
const SourceChanged = "source-changed"

// watchSource watches the source file's directory so that editors which
// replace the file by rename are seen too. Bursts of events are debounced
// into one broadcast.
func (s *Server) watchSource(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	source, err := filepath.Abs(s.cfg.Dataset.SourcePath)
	if err != nil {
		source = filepath.Clean(s.cfg.Dataset.SourcePath)
	}
	if err := watcher.Add(filepath.Dir(source)); err != nil {
		// Don't fail - continue without watching
		s.logger.Error("failed to watch source directory", slog.String("path", source), slog.String("error", err.Error()))
	} else {
		s.logger.Debug("watching source", slog.String("path", source))
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
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
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != source {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounce, func() {
				s.logger.Debug("source changed", slog.String("file", source))
				s.metrics.changes.Inc()
				data, _ := json.Marshal(map[string]string{"path": source})
				s.notifier.Broadcast(Event{Name: SourceChanged, Data: string(data)})
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", slog.String("error", err.Error()))
		}
	}
}
