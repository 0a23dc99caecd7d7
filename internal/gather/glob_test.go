package gather

import (
	"errors"
	"testing"
)

// TestCompilePatternSetTrailingSlash verifies that a trailing slash pattern
// matches the directory itself and everything beneath it.
func TestCompilePatternSetTrailingSlash(testingInstance *testing.T) {
	patterns, compileError := compilePatternSet([]string{"docs/"})
	if compileError != nil {
		testingInstance.Fatalf("unexpected error: %v", compileError)
	}

	testCases := []struct {
		testName     string
		relativePath string
		isDirectory  bool
		expected     bool
	}{
		{testName: "directory itself", relativePath: "docs", isDirectory: true, expected: true},
		{testName: "nested file", relativePath: "docs/guide.md", isDirectory: false, expected: true},
		{testName: "deeply nested file", relativePath: "docs/api/v1.md", isDirectory: false, expected: true},
		{testName: "sibling file", relativePath: "docs.md", isDirectory: false, expected: false},
		{testName: "plain file named like the directory", relativePath: "docs", isDirectory: false, expected: false},
	}
	for _, testCase := range testCases {
		if actual := patterns.matchesPath(testCase.relativePath, testCase.isDirectory); actual != testCase.expected {
			testingInstance.Errorf("%s: expected %v for %q, got %v", testCase.testName, testCase.expected, testCase.relativePath, actual)
		}
	}
}

// TestPatternSetBasenameMatching verifies that patterns without a separator
// match against the file name at any depth.
func TestPatternSetBasenameMatching(testingInstance *testing.T) {
	patterns, compileError := compilePatternSet([]string{"*.log"})
	if compileError != nil {
		testingInstance.Fatalf("unexpected error: %v", compileError)
	}

	if !patterns.matchesFile("app.log") {
		testingInstance.Errorf("expected a root-level match")
	}
	if !patterns.matchesFile("sub/dir/app.log") {
		testingInstance.Errorf("expected a nested basename match")
	}
	if patterns.matchesFile("sub/app.log.txt") {
		testingInstance.Errorf("unexpected match for a different extension")
	}

	anchoredPatterns, anchoredError := compilePatternSet([]string{"sub/*.log"})
	if anchoredError != nil {
		testingInstance.Fatalf("unexpected error: %v", anchoredError)
	}
	if !anchoredPatterns.matchesFile("sub/app.log") {
		testingInstance.Errorf("expected a path match")
	}
	if anchoredPatterns.matchesFile("other/sub/app.log") {
		testingInstance.Errorf("patterns with separators must stay anchored to the root")
	}
}

// TestCompilePatternSetInvalidPattern verifies that a malformed pattern is
// reported as a GlobError naming the offending pattern.
func TestCompilePatternSetInvalidPattern(testingInstance *testing.T) {
	_, compileError := compilePatternSet([]string{"valid/**", "["})
	if compileError == nil {
		testingInstance.Fatalf("expected an error")
	}
	var globError *GlobError
	if !errors.As(compileError, &globError) {
		testingInstance.Fatalf("expected a GlobError, got %T", compileError)
	}
	if globError.Pattern != "[" {
		testingInstance.Errorf("expected the offending pattern to be reported, got %q", globError.Pattern)
	}
}

// TestPatternSetBlankPatternsIgnored verifies that blank entries do not
// contribute matches.
func TestPatternSetBlankPatternsIgnored(testingInstance *testing.T) {
	patterns, compileError := compilePatternSet([]string{"", "   "})
	if compileError != nil {
		testingInstance.Fatalf("unexpected error: %v", compileError)
	}
	if !patterns.isEmpty() {
		testingInstance.Errorf("blank patterns must leave the set empty")
	}
	if patterns.matchesFile("anything.txt") {
		testingInstance.Errorf("an empty set must match nothing")
	}
}
