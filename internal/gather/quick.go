package gather

import (
	"go.uber.org/zap"

	"github.com/temirov/xcontext/internal/config"
)

// GatherMatching walks projectRoot once and reads every regular file whose
// relative path matches rawPattern. The walk honors the global gitignore
// toggle exactly like Gather; the per-section filters and built-in ignore
// lists do not apply to an ad-hoc pattern. Read failures are collected as
// warnings without failing the call; only an invalid pattern does.
func GatherMatching(projectRoot string, rawPattern string, configuration *config.Config, logger *zap.Logger) ([]FileInfo, []error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	patterns, compileError := compilePatternSet([]string{rawPattern})
	if compileError != nil {
		return nil, nil, compileError
	}

	walkerInstance := newWalker(projectRoot, configuration.UseGitignore(),
		[]string{config.DefaultCacheDirectory}, logger)
	walkedPaths := walkerInstance.run()

	var matchedFilePaths []string
	for _, walkedPath := range walkedPaths {
		if walkedPath.IsDirectory {
			continue
		}
		if patterns.matchesFile(walkedPath.RelativePath) {
			matchedFilePaths = append(matchedFilePaths, walkedPath.AbsolutePath)
		}
	}
	logger.Debug("ad-hoc pattern match complete",
		zap.String("pattern", rawPattern), zap.Int("files", len(matchedFilePaths)))

	matchedFiles, readErrors := readFileContents(matchedFilePaths, logger)
	return matchedFiles, readErrors, nil
}
