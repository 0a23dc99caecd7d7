package gather

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// directoryMatchProbeName is the synthetic child filename appended to a
// directory path before matching. The pattern sets are defined over file-like
// paths, so a directory "docs" must be probed as "docs/<name>" for a pattern
// such as "docs/**" to match it.
const directoryMatchProbeName = "__xcontext_directory_probe__"

// recursiveMatchSuffix turns a trailing-slash pattern into "everything
// beneath this directory". The directory itself still matches through the
// synthetic-child probe; "docs/**" alone is unsuitable because doublestar
// lets it match the bare path "docs", so a plain file named "docs" would
// wrongly match a directory pattern.
const recursiveMatchSuffix = "**/*"

// patternSet is an immutable set of compiled glob patterns tested against
// slash-separated paths relative to the project root.
type patternSet struct {
	patterns []string
}

// compilePatternSet validates and normalizes an ordered list of glob
// patterns. Each pattern is trimmed of surrounding whitespace; a pattern
// ending in a path separator gains a recursive-match suffix. Any single
// invalid pattern fails the whole batch with a GlobError naming both the
// original literal and the processed text.
func compilePatternSet(rawPatterns []string) (*patternSet, error) {
	compiled := make([]string, 0, len(rawPatterns))
	for _, rawPattern := range rawPatterns {
		processedPattern := strings.TrimSpace(rawPattern)
		if processedPattern == "" {
			continue
		}
		if strings.HasSuffix(processedPattern, "/") && len(processedPattern) > 1 {
			processedPattern += recursiveMatchSuffix
		}
		if !doublestar.ValidatePattern(processedPattern) {
			return nil, &GlobError{
				Pattern:   rawPattern,
				Processed: processedPattern,
				Err:       doublestar.ErrBadPattern,
			}
		}
		compiled = append(compiled, processedPattern)
	}
	return &patternSet{patterns: compiled}, nil
}

// isEmpty reports whether the set contains no patterns.
func (set *patternSet) isEmpty() bool {
	return len(set.patterns) == 0
}

// matchesFile tests a slash-separated relative file path against the set.
// A pattern without a separator applies at any depth, so "*.log" also
// matches "sub/app.log".
func (set *patternSet) matchesFile(relativePath string) bool {
	baseName := path.Base(relativePath)
	for _, pattern := range set.patterns {
		matched, matchError := doublestar.Match(pattern, relativePath)
		if matchError == nil && matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			matched, matchError = doublestar.Match(pattern, baseName)
			if matchError == nil && matched {
				return true
			}
		}
	}
	return false
}

// matchesPath tests a relative path against the set. Directory paths are
// additionally probed with a synthetic child filename appended, since the
// patterns are defined over file-like paths.
func (set *patternSet) matchesPath(relativePath string, isDirectory bool) bool {
	if set.matchesFile(relativePath) {
		return true
	}
	if isDirectory {
		return set.matchesFile(path.Join(relativePath, directoryMatchProbeName))
	}
	return false
}
