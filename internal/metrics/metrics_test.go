package metrics

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/temirov/xcontext/internal/gather"
)

// offlineCalculator builds a calculator without a token encoding, matching
// the degraded mode used when the vocabulary cannot be fetched.
func offlineCalculator() *Calculator {
	return &Calculator{logger: zap.NewNop()}
}

// TestCountLines verifies line counting with and without a trailing
// newline.
func TestCountLines(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		content  string
		expected int
	}{
		{testName: "empty", content: "", expected: 0},
		{testName: "single line no newline", content: "package main", expected: 1},
		{testName: "single line with newline", content: "package main\n", expected: 1},
		{testName: "multiple lines", content: "a\nb\nc\n", expected: 3},
		{testName: "multiple lines no trailing newline", content: "a\nb\nc", expected: 3},
	}
	for _, testCase := range testCases {
		if actual := countLines(testCase.content); actual != testCase.expected {
			testingInstance.Errorf("%s: expected %d, got %d", testCase.testName, testCase.expected, actual)
		}
	}
}

// TestComputeTotalsAndOrdering verifies aggregation and path ordering.
func TestComputeTotalsAndOrdering(testingInstance *testing.T) {
	files := []gather.FileInfo{
		{Path: "/project/zeta.go", Content: "package zeta\n"},
		{Path: "/project/alpha.go", Content: "package alpha\nvar X = 1\n"},
	}

	projectMetrics := offlineCalculator().Compute(files, "/project")

	if projectMetrics.TotalFiles != 2 {
		testingInstance.Fatalf("expected two files, got %d", projectMetrics.TotalFiles)
	}
	if projectMetrics.Files[0].Path != "alpha.go" {
		testingInstance.Errorf("expected files sorted by relative path, got %s first", projectMetrics.Files[0].Path)
	}
	if projectMetrics.TotalLines != 3 {
		testingInstance.Errorf("expected three total lines, got %d", projectMetrics.TotalLines)
	}
	expectedBytes := len(files[0].Content) + len(files[1].Content)
	if projectMetrics.TotalBytes != expectedBytes {
		testingInstance.Errorf("expected %d total bytes, got %d", expectedBytes, projectMetrics.TotalBytes)
	}
	if projectMetrics.TokensAvailable {
		testingInstance.Errorf("the offline calculator must not report tokens")
	}
	if projectMetrics.ReadableSize == "" {
		testingInstance.Errorf("expected a readable total size")
	}
}

// TestRenderTable verifies the table layout with totals and without a
// tokens column in degraded mode.
func TestRenderTable(testingInstance *testing.T) {
	files := []gather.FileInfo{
		{Path: "/project/main.go", Content: "package main\n"},
	}
	projectMetrics := offlineCalculator().Compute(files, "/project")

	table := projectMetrics.RenderTable()
	if !strings.Contains(table, "FILE") || !strings.Contains(table, "LINES") {
		testingInstance.Errorf("expected the table header, got:\n%s", table)
	}
	if strings.Contains(table, "TOKENS") {
		testingInstance.Errorf("degraded mode must omit the tokens column")
	}
	if !strings.Contains(table, "TOTAL") {
		testingInstance.Errorf("expected a totals row")
	}
	if !strings.Contains(table, "main.go") {
		testingInstance.Errorf("expected the file row")
	}
}
