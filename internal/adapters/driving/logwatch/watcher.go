// Package logwatch tails the game's notification logs and records quest
// completions through the progress engine, so finishing a quest in-game
// needs no manual entry.
//
// The game writes one directory per session under its log root, named
// with a "log_" prefix, and appends push notifications to a
// "*notifications*.log" file inside it. The watcher follows the root and
// every session directory, coalesces filesystem events into small
// batches, and parses only log lines appended while it was running.
package logwatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tracklight-labs/tracklight-cli/internal/core/domain"
	"github.com/tracklight-labs/tracklight-cli/internal/core/ports/driving"
	"github.com/tracklight-labs/tracklight-cli/internal/logger"
)

const (
	// batchWindow coalesces filesystem event bursts; the game appends
	// notification lines in rapid clusters.
	batchWindow = 100 * time.Millisecond

	// sessionDirPrefix names the per-session directories under the log
	// root.
	sessionDirPrefix = "log_"
)

// Watcher follows the game's log directory and records quest completions.
type Watcher struct {
	progress driving.ProgressService
	logDir   string

	// offsets and pending are touched only by the Start loop goroutine.
	offsets map[string]int64
	pending map[string]struct{}

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

// New creates a watcher for logDir. The directory must already look like
// the game's log root.
func New(progress driving.ProgressService, logDir string) (*Watcher, error) {
	if progress == nil {
		return nil, errors.New("progress service is required")
	}
	if err := ValidateLogDir(logDir); err != nil {
		return nil, err
	}
	return &Watcher{
		progress: progress,
		logDir:   logDir,
		offsets:  make(map[string]int64),
		pending:  make(map[string]struct{}),
	}, nil
}

// Start begins following the log directory. It blocks until Stop is
// called or the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil // Already running
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return fmt.Errorf("failed to create filesystem watcher: %w", err)
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.mu.Unlock()

	defer func() {
		fsw.Close() //nolint:errcheck
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	if err := w.addWatches(fsw); err != nil {
		return err
	}

	logger.Info("Watching game logs in %s", w.logDir)

	ticker := time.NewTicker(batchWindow)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Error("Log watcher error: %v", err)
		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// Stop unblocks Start. Safe to call when not running.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return nil
	}
	w.running = false
	close(w.stopCh)
	return nil
}

// addWatches registers the log root and its existing session directories,
// then seeds read offsets so history written before the watcher started is
// never replayed.
func (w *Watcher) addWatches(fsw *fsnotify.Watcher) error {
	if err := fsw.Add(w.logDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.logDir, err)
	}

	entries, err := os.ReadDir(w.logDir)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", w.logDir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), sessionDirPrefix) {
			continue
		}
		dir := filepath.Join(w.logDir, entry.Name())
		if err := fsw.Add(dir); err != nil {
			logger.Warn("Cannot watch session directory %s: %v", dir, err)
			continue
		}
		w.seedOffsets(dir)
	}
	w.seedOffsets(w.logDir)
	return nil
}

// seedOffsets records the current size of every notification log in dir.
func (w *Watcher) seedOffsets(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !isNotificationLog(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if info, err := os.Stat(path); err == nil {
			w.offsets[path] = info.Size()
		}
	}
}

// handleEvent routes one filesystem event: new session directories gain a
// watch, notification log writes are marked pending for the next batch.
func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if strings.HasPrefix(filepath.Base(event.Name), sessionDirPrefix) {
				w.watchSessionDir(fsw, event.Name)
			}
			return
		}
	}

	if !isNotificationLog(event.Name) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if event.Has(fsnotify.Create) {
		// Created while watching, so everything in it is unread.
		w.offsets[event.Name] = 0
	}
	w.pending[event.Name] = struct{}{}
}

// watchSessionDir follows a session directory created while running.
// Files written between the directory's creation and the watch
// registration would otherwise be missed, so they are marked pending.
func (w *Watcher) watchSessionDir(fsw *fsnotify.Watcher, dir string) {
	if err := fsw.Add(dir); err != nil {
		logger.Warn("Cannot watch session directory %s: %v", dir, err)
		return
	}
	logger.Debug("New game session: %s", filepath.Base(dir))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !isNotificationLog(entry.Name()) {
			continue
		}
		w.pending[filepath.Join(dir, entry.Name())] = struct{}{}
	}
}

// flushPending consumes every file marked by the last batch window.
func (w *Watcher) flushPending(ctx context.Context) {
	for path := range w.pending {
		delete(w.pending, path)
		w.consume(ctx, path)
	}
}

// consume parses the unread suffix of one notification log and records
// any quest completions it carries.
func (w *Watcher) consume(ctx context.Context, path string) {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("Cannot read %s: %v", path, err)
		return
	}
	defer f.Close() //nolint:errcheck

	info, err := f.Stat()
	if err != nil {
		logger.Warn("Cannot stat %s: %v", path, err)
		return
	}

	offset := w.offsets[path]
	if info.Size() < offset {
		// Truncated and rewritten; everything present is unread.
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		logger.Warn("Cannot seek %s: %v", path, err)
		return
	}
	data, err := io.ReadAll(f)
	if err != nil {
		logger.Warn("Cannot read %s: %v", path, err)
		return
	}

	// Only whole lines are parsed; a partially written tail stays unread
	// for the next window.
	end := bytes.LastIndexByte(data, '\n')
	if end < 0 {
		return
	}
	chunk := data[:end+1]
	w.offsets[path] = offset + int64(len(chunk))

	for _, line := range strings.Split(strings.TrimRight(string(chunk), "\n"), "\n") {
		questID, ok := parseQuestFinished(line)
		if !ok {
			continue
		}
		w.recordQuest(ctx, questID)
	}
}

// recordQuest marks a quest complete unless it already is. Re-marking
// would bump the record's stamp and could overwrite a newer reopen from
// another device.
func (w *Watcher) recordQuest(ctx context.Context, questID string) {
	if rec, err := w.progress.Read(domain.DomainQuest, questID); err == nil && rec.Done() {
		return
	}
	if err := w.progress.Mutate(ctx, domain.DomainQuest, questID, 1); err != nil {
		logger.Warn("Recording quest %s from game log failed: %v", questID, err)
		return
	}
	logger.Info("Quest completed (from game log): %s", questID)
}

// isNotificationLog reports whether path names a per-session notification
// log.
func isNotificationLog(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, ".log") && strings.Contains(base, "notifications")
}
