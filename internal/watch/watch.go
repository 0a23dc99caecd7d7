// Package watch re-generates the context document whenever files under the
// project root change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Runner observes the project root and invokes the regenerate callback after
// a quiet period following each burst of filesystem events.
type Runner struct {
	projectRoot  string
	skipPrefixes []string
	delay        time.Duration
	regenerate   func() error
	logger       *zap.Logger
}

// NewRunner builds a watch runner. skipPrefixes are project-relative
// directory prefixes whose events are ignored, such as the output directory.
func NewRunner(projectRoot string, skipPrefixes []string, delay time.Duration, regenerate func() error, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		projectRoot:  projectRoot,
		skipPrefixes: skipPrefixes,
		delay:        delay,
		regenerate:   regenerate,
		logger:       logger,
	}
}

// Run generates once, then blocks watching for changes until the context is
// cancelled. Each event burst is debounced by the configured delay before the
// document is regenerated.
func (runner *Runner) Run(executionContext context.Context) error {
	if regenerateError := runner.regenerate(); regenerateError != nil {
		return regenerateError
	}

	watcher, watcherError := fsnotify.NewWatcher()
	if watcherError != nil {
		return fmt.Errorf("creating filesystem watcher: %w", watcherError)
	}
	defer watcher.Close()

	if addError := runner.addDirectories(watcher, runner.projectRoot); addError != nil {
		return addError
	}

	debounce := time.NewTimer(runner.delay)
	if !debounce.Stop() {
		<-debounce.C
	}
	pending := false

	for {
		select {
		case <-executionContext.Done():
			return executionContext.Err()
		case watchError, open := <-watcher.Errors:
			if !open {
				return nil
			}
			runner.logger.Warn("filesystem watcher error", zap.Error(watchError))
		case event, open := <-watcher.Events:
			if !open {
				return nil
			}
			if runner.skipped(event.Name) {
				continue
			}
			runner.logger.Debug("filesystem event", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			if event.Op.Has(fsnotify.Create) {
				runner.watchIfDirectory(watcher, event.Name)
			}
			if !pending {
				pending = true
			} else if !debounce.Stop() {
				<-debounce.C
			}
			debounce.Reset(runner.delay)
		case <-debounce.C:
			pending = false
			if regenerateError := runner.regenerate(); regenerateError != nil {
				runner.logger.Warn("context regeneration failed", zap.Error(regenerateError))
			}
		}
	}
}

// addDirectories registers every directory under root with the watcher,
// honoring the skip prefixes.
func (runner *Runner) addDirectories(watcher *fsnotify.Watcher, root string) error {
	walkError := filepath.WalkDir(root, func(walkedPath string, directoryEntry fs.DirEntry, entryError error) error {
		if entryError != nil {
			runner.logger.Debug("skipping unreadable path", zap.String("path", walkedPath), zap.Error(entryError))
			return nil
		}
		if !directoryEntry.IsDir() {
			return nil
		}
		if directoryEntry.Name() == ".git" && walkedPath != root {
			return filepath.SkipDir
		}
		if runner.skipped(walkedPath) {
			return filepath.SkipDir
		}
		if addError := watcher.Add(walkedPath); addError != nil {
			runner.logger.Warn("cannot watch directory", zap.String("path", walkedPath), zap.Error(addError))
		}
		return nil
	})
	if walkError != nil {
		return fmt.Errorf("registering watch directories: %w", walkError)
	}
	return nil
}

func (runner *Runner) watchIfDirectory(watcher *fsnotify.Watcher, createdPath string) {
	pathInfo, statError := os.Stat(createdPath)
	if statError != nil || !pathInfo.IsDir() {
		return
	}
	if addError := runner.addDirectories(watcher, createdPath); addError != nil {
		runner.logger.Warn("cannot watch created directory", zap.String("path", createdPath), zap.Error(addError))
	}
}

// skipped reports whether the path falls under a skip prefix or a .git
// directory.
func (runner *Runner) skipped(eventPath string) bool {
	relativePath, relativeError := filepath.Rel(runner.projectRoot, eventPath)
	if relativeError != nil {
		return false
	}
	relativePath = filepath.ToSlash(relativePath)
	if relativePath == ".git" || strings.HasPrefix(relativePath, ".git/") || strings.Contains(relativePath, "/.git/") {
		return true
	}
	for _, skipPrefix := range runner.skipPrefixes {
		if relativePath == skipPrefix || strings.HasPrefix(relativePath, skipPrefix+"/") {
			return true
		}
	}
	return false
}
