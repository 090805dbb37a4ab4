package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"podcast-catalog/internal/metadata"
)

// Store watches a catalog directory and keeps the latest valid snapshot in
// memory. A reload that fails leaves the previous snapshot in place.
type Store struct {
	root    string
	known   []string
	watcher *fsnotify.Watcher
	logger  *log.Logger

	mu       sync.RWMutex
	snapshot *Snapshot

	refreshMu    sync.Mutex
	refreshTimer *time.Timer
	refreshDelay time.Duration

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// NewStore loads the catalog under root and starts watching it for changes.
func NewStore(root string, known []string, debounce time.Duration, logger *log.Logger) (*Store, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = log.Default()
	}

	s := &Store{
		root:         root,
		known:        append([]string(nil), known...),
		watcher:      watcher,
		logger:       logger,
		refreshDelay: debounce,
		done:         make(chan struct{}),
	}

	s.addWatchRecursive(root)

	if err := s.Reload(); err != nil {
		watcher.Close()
		return nil, err
	}

	s.wg.Add(1)
	go s.run()

	return s, nil
}

// Snapshot returns the current catalog.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Root returns the watched catalog directory.
func (s *Store) Root() string {
	return s.root
}

// Reload rebuilds the snapshot from disk.
func (s *Store) Reload() error {
	snap, err := Load(s.root, s.known, s.logger)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	s.logger.Info("catalog loaded", "podcasts", snap.Len(), "categories", snap.Vocabulary().Len())
	return nil
}

// Close stops the watcher and any pending reload.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)

		s.refreshMu.Lock()
		if s.refreshTimer != nil {
			s.refreshTimer.Stop()
			s.refreshTimer = nil
		}
		s.refreshMu.Unlock()

		s.closeErr = s.watcher.Close()
		s.wg.Wait()
	})
	return s.closeErr
}

func (s *Store) run() {
	defer s.wg.Done()

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.handleEvent(event)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("watcher error", "err", err)
		case <-s.done:
			return
		}
	}
}

func (s *Store) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create == fsnotify.Create {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			s.addWatchRecursive(event.Name)
		}
	}

	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if isHidden(event.Name) {
		return
	}
	if isCatalogFile(event.Name) || metadata.IsAudioFile(event.Name) || event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		s.scheduleRefresh()
	}
}

func (s *Store) scheduleRefresh() {
	select {
	case <-s.done:
		return
	default:
	}

	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if s.refreshTimer != nil {
		s.refreshTimer.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(s.refreshDelay, func() {
		if err := s.Reload(); err != nil {
			s.logger.Error("catalog reload failed, keeping previous snapshot", "err", err)
		}

		s.refreshMu.Lock()
		if s.refreshTimer == timer {
			s.refreshTimer = nil
		}
		s.refreshMu.Unlock()
	})

	s.refreshTimer = timer
}

func (s *Store) addWatchRecursive(path string) {
	filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("walk error", "path", p, "err", err)
			return nil
		}

		if d.IsDir() {
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if err := s.watcher.Add(p); err != nil {
				s.logger.Warn("watcher add failure", "path", p, "err", err)
			}
		}
		return nil
	})
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
