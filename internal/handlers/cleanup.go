package handlers

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"brief-portal/internal/logger"
)

// IdleEvictor drops in-memory state nobody has used for a while.
type IdleEvictor interface {
	EvictIdle(idle time.Duration) int
}

// FileCleanupService periodically removes staged uploads left behind by
// interrupted requests and evicts idle fill-in editors.
type FileCleanupService struct {
	stagingDir string
	maxAge     time.Duration
	editorIdle time.Duration
	interval   time.Duration
	editors    IdleEvictor
	log        *logger.Logger
	ticker     *time.Ticker
	done       chan struct{}
	stopOnce   sync.Once
	now        func() time.Time
}

func NewFileCleanupService(stagingDir string, maxAge, editorIdle time.Duration, editors IdleEvictor, log *logger.Logger) *FileCleanupService {
	if log == nil {
		log = logger.NewNop()
	}
	return &FileCleanupService{
		stagingDir: stagingDir,
		maxAge:     maxAge,
		editorIdle: editorIdle,
		interval:   time.Hour,
		editors:    editors,
		log:        log.With("service", "cleanup"),
		done:       make(chan struct{}),
		now:        time.Now,
	}
}

func (fcs *FileCleanupService) Start() {
	fcs.ticker = time.NewTicker(fcs.interval)
	go func() {
		for {
			select {
			case <-fcs.done:
				return
			case <-fcs.ticker.C:
				fcs.RunOnce()
			}
		}
	}()
	fcs.log.Info("file cleanup service started", "staging_dir", fcs.stagingDir, "max_age", fcs.maxAge.String())
}

func (fcs *FileCleanupService) Stop() {
	fcs.stopOnce.Do(func() {
		if fcs.ticker != nil {
			fcs.ticker.Stop()
		}
		close(fcs.done)
		fcs.log.Info("file cleanup service stopped")
	})
}

// RunOnce performs a single cleanup pass and reports how many staged files
// and editors were dropped.
func (fcs *FileCleanupService) RunOnce() (files, editors int) {
	files = fcs.cleanupDirectory(fcs.stagingDir)
	if fcs.editors != nil && fcs.editorIdle > 0 {
		editors = fcs.editors.EvictIdle(fcs.editorIdle)
	}
	if files > 0 || editors > 0 {
		fcs.log.Info("cleanup pass finished", "files_removed", files, "editors_evicted", editors)
	}
	return files, editors
}

func (fcs *FileCleanupService) cleanupDirectory(dir string) int {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0
	}

	removed := 0
	now := fcs.now()
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() && now.Sub(info.ModTime()) > fcs.maxAge {
			fcs.log.Debug("removing stale staged file", "path", path)
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return err
			}
			removed++
		}

		return nil
	})

	if err != nil {
		fcs.log.Warn("error during cleanup", "dir", dir, "error", err)
	}
	return removed
}
