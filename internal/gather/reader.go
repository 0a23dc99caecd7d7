package gather

import (
	"os"
	"runtime"
	"sort"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FileInfo describes one successfully read, UTF-8-valid file. Immutable
// after creation.
type FileInfo struct {
	Path    string
	Content string
	Size    int
}

// readFileContents reads every path in parallel, validating content as
// UTF-8. An I/O failure is collected as a per-file warning without stopping
// the other reads; non-UTF-8 content is an expected skip, logged at debug
// level and excluded from both results and warnings. The surviving records
// are sorted by absolute path for determinism.
func readFileContents(absolutePaths []string, logger *zap.Logger) ([]FileInfo, []error) {
	type readOutcome struct {
		file FileInfo
		ok   bool
		err  error
	}
	outcomes := make([]readOutcome, len(absolutePaths))

	readerGroup := &errgroup.Group{}
	readerGroup.SetLimit(runtime.GOMAXPROCS(0))
	for pathIndex, absolutePath := range absolutePaths {
		pathIndex, absolutePath := pathIndex, absolutePath
		readerGroup.Go(func() error {
			contentBytes, readError := os.ReadFile(absolutePath)
			if readError != nil {
				outcomes[pathIndex] = readOutcome{err: &FileReadError{Path: absolutePath, Err: readError}}
				return nil
			}
			if !utf8.Valid(contentBytes) {
				logger.Debug("skipping non-UTF-8 file", zap.String("path", absolutePath))
				return nil
			}
			outcomes[pathIndex] = readOutcome{
				file: FileInfo{Path: absolutePath, Content: string(contentBytes), Size: len(contentBytes)},
				ok:   true,
			}
			return nil
		})
	}
	_ = readerGroup.Wait()

	var files []FileInfo
	var readErrors []error
	for _, outcome := range outcomes {
		switch {
		case outcome.ok:
			files = append(files, outcome.file)
		case outcome.err != nil:
			readErrors = append(readErrors, outcome.err)
		}
	}

	sort.Slice(files, func(firstIndex, secondIndex int) bool {
		return files[firstIndex].Path < files[secondIndex].Path
	})
	return files, readErrors
}
