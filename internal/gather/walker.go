package gather

import (
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// maxWalkerWorkerCount bounds traversal parallelism to avoid
	// oversubscribing the filesystem.
	maxWalkerWorkerCount = 12
	// gitDirectoryName is skipped wherever it appears, regardless of
	// gitignore settings.
	gitDirectoryName = ".git"
	// walkedPathChannelCapacity buffers producer-to-collector handoff.
	walkedPathChannelCapacity = 256
)

// WalkedPath is one filesystem entry discovered during traversal. The
// relative path is slash-separated relative to the project root.
type WalkedPath struct {
	AbsolutePath string
	RelativePath string
	IsDirectory  bool
}

// walker performs one parallel traversal of a project root. Hidden entries
// are always traversed; gitignore handling, when enabled, filters entries
// before they are ever emitted.
type walker struct {
	projectRoot     string
	skipPrefixes    []string
	gitignoreActive bool
	matcher         gitignore.Matcher
	logger          *zap.Logger

	emitChannel chan<- WalkedPath
	stopChannel <-chan struct{}
	workerGroup *errgroup.Group
}

// newWalker prepares a traversal of projectRoot. When useGitignore is set it
// loads, in precedence order, the user's global git excludes, the repository
// exclude file, and every .gitignore beneath the root. A missing repository
// is not an error; the walker functions in plain directories.
func newWalker(projectRoot string, useGitignore bool, skipPrefixes []string, logger *zap.Logger) *walker {
	instance := &walker{
		projectRoot:  projectRoot,
		skipPrefixes: skipPrefixes,
		logger:       logger,
	}
	if !useGitignore {
		return instance
	}

	var patterns []gitignore.Pattern
	if globalPatterns, globalError := gitignore.LoadGlobalPatterns(osfs.New("/")); globalError == nil {
		patterns = append(patterns, globalPatterns...)
	} else {
		logger.Debug("no global git excludes loaded", zap.Error(globalError))
	}
	rootFilesystem := osfs.New(projectRoot)
	repositoryPatterns, readError := gitignore.ReadPatterns(rootFilesystem, nil)
	if readError != nil {
		logger.Warn("failed to read gitignore patterns; continuing without them", zap.Error(readError))
	} else {
		patterns = append(patterns, repositoryPatterns...)
	}
	if len(patterns) > 0 {
		instance.matcher = gitignore.NewMatcher(patterns)
		instance.gitignoreActive = true
	}
	return instance
}

// run traverses the project root and returns every discovered path as an
// unordered collection. The root itself is never emitted. Traversal errors
// are logged and skipped.
func (walkerInstance *walker) run() []WalkedPath {
	emitChannel := make(chan WalkedPath, walkedPathChannelCapacity)
	stopChannel := make(chan struct{})
	walkerInstance.emitChannel = emitChannel
	walkerInstance.stopChannel = stopChannel

	var walkedPaths []WalkedPath
	var collectorWait sync.WaitGroup
	collectorWait.Add(1)
	go func() {
		defer collectorWait.Done()
		for walkedPath := range emitChannel {
			walkedPaths = append(walkedPaths, walkedPath)
		}
	}()

	workerGroup := &errgroup.Group{}
	workerCount := runtime.GOMAXPROCS(0)
	if workerCount > maxWalkerWorkerCount {
		workerCount = maxWalkerWorkerCount
	}
	workerGroup.SetLimit(workerCount)
	walkerInstance.workerGroup = workerGroup

	walkerInstance.scanDirectory(walkerInstance.projectRoot, "")
	_ = workerGroup.Wait()
	close(emitChannel)
	collectorWait.Wait()
	return walkedPaths
}

// scanDirectory lists one directory and emits its entries. Subdirectories are
// handed to the worker pool; when the pool is saturated they are scanned
// inline so the walk never deadlocks on its own limit.
func (walkerInstance *walker) scanDirectory(absoluteDirectory, relativeDirectory string) {
	entries, readDirectoryError := os.ReadDir(absoluteDirectory)
	if readDirectoryError != nil {
		walkerInstance.logger.Warn("error walking directory",
			zap.String("path", absoluteDirectory), zap.Error(readDirectoryError))
		return
	}

	for _, entry := range entries {
		entryName := entry.Name()
		relativePath := path.Join(relativeDirectory, entryName)
		absolutePath := filepath.Join(absoluteDirectory, entryName)
		isDirectory := entry.IsDir()

		if isDirectory && entryName == gitDirectoryName {
			continue
		}
		if walkerInstance.hasSkippedPrefix(relativePath) {
			continue
		}
		if walkerInstance.gitignoreActive &&
			walkerInstance.matcher.Match(strings.Split(relativePath, "/"), isDirectory) {
			continue
		}

		if !walkerInstance.emit(WalkedPath{
			AbsolutePath: absolutePath,
			RelativePath: relativePath,
			IsDirectory:  isDirectory,
		}) {
			return
		}

		if isDirectory {
			scheduled := walkerInstance.workerGroup.TryGo(func() error {
				walkerInstance.scanDirectory(absolutePath, relativePath)
				return nil
			})
			if !scheduled {
				walkerInstance.scanDirectory(absolutePath, relativePath)
			}
		}
	}
}

// emit hands one walked path to the collector. A closed stop channel means
// the consumer is gone and the producer loop should terminate early.
func (walkerInstance *walker) emit(walkedPath WalkedPath) bool {
	select {
	case <-walkerInstance.stopChannel:
		return false
	case walkerInstance.emitChannel <- walkedPath:
		return true
	}
}

// hasSkippedPrefix reports whether the relative path is the tool's own
// cache/output directory or lies beneath it.
func (walkerInstance *walker) hasSkippedPrefix(relativePath string) bool {
	for _, skipPrefix := range walkerInstance.skipPrefixes {
		if relativePath == skipPrefix || strings.HasPrefix(relativePath, skipPrefix+"/") {
			return true
		}
	}
	return false
}
