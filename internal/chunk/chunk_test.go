package chunk_test

import (
	"strings"
	"testing"

	"github.com/temirov/xcontext/internal/chunk"
	"github.com/temirov/xcontext/internal/project"
)

// contextFile builds a file entry with content of the given size.
func contextFile(path string, size int) project.FileContextInfo {
	return project.FileContextInfo{Path: path, Content: strings.Repeat("a", size)}
}

// TestParseSizeLimit verifies human readable size parsing.
func TestParseSizeLimit(testingInstance *testing.T) {
	testCases := []struct {
		testName      string
		specification string
		expected      int
		expectError   bool
	}{
		{testName: "kilobytes", specification: "64KB", expected: 64000},
		{testName: "kibibytes", specification: "64KiB", expected: 65536},
		{testName: "plain bytes", specification: "512", expected: 512},
		{testName: "invalid text", specification: "huge", expectError: true},
		{testName: "zero", specification: "0", expectError: true},
	}
	for _, testCase := range testCases {
		actual, parseError := chunk.ParseSizeLimit(testCase.specification)
		if testCase.expectError {
			if parseError == nil {
				testingInstance.Errorf("%s: expected an error", testCase.testName)
			}
			continue
		}
		if parseError != nil {
			testingInstance.Errorf("%s: unexpected error: %v", testCase.testName, parseError)
			continue
		}
		if actual != testCase.expected {
			testingInstance.Errorf("%s: expected %d, got %d", testCase.testName, testCase.expected, actual)
		}
	}
}

// TestSplitFilesGreedyPacking verifies that files fill a chunk up to the
// limit before a new chunk starts, preserving input order.
func TestSplitFilesGreedyPacking(testingInstance *testing.T) {
	sourceFiles := []project.FileContextInfo{
		contextFile("a.go", 40),
		contextFile("b.go", 40),
		contextFile("c.go", 40),
	}

	chunkFiles := chunk.SplitFiles(sourceFiles, 100)
	if len(chunkFiles) != 2 {
		testingInstance.Fatalf("expected two chunks, got %d", len(chunkFiles))
	}
	if len(chunkFiles[0].Files) != 2 || len(chunkFiles[1].Files) != 1 {
		testingInstance.Fatalf("expected a 2+1 split, got %d+%d", len(chunkFiles[0].Files), len(chunkFiles[1].Files))
	}
	if chunkFiles[0].Files[0].Path != "a.go" || chunkFiles[1].Files[0].Path != "c.go" {
		testingInstance.Errorf("input order must be preserved across chunks")
	}
}

// TestSplitFilesOversizeFile verifies that a file larger than the limit
// becomes a chunk of its own without splitting its content.
func TestSplitFilesOversizeFile(testingInstance *testing.T) {
	sourceFiles := []project.FileContextInfo{
		contextFile("small.go", 10),
		contextFile("huge.go", 500),
		contextFile("trailing.go", 10),
	}

	chunkFiles := chunk.SplitFiles(sourceFiles, 100)
	if len(chunkFiles) != 3 {
		testingInstance.Fatalf("expected three chunks, got %d", len(chunkFiles))
	}
	if len(chunkFiles[1].Files) != 1 || chunkFiles[1].Files[0].Path != "huge.go" {
		testingInstance.Errorf("the oversize file must occupy its own chunk")
	}
	if len(chunkFiles[1].Files[0].Content) != 500 {
		testingInstance.Errorf("oversize file content must stay whole")
	}
}

// TestSplitFilesSkipsEmptyFiles verifies that empty files never occupy
// chunk space.
func TestSplitFilesSkipsEmptyFiles(testingInstance *testing.T) {
	sourceFiles := []project.FileContextInfo{
		contextFile("empty.go", 0),
		contextFile("real.go", 10),
	}

	chunkFiles := chunk.SplitFiles(sourceFiles, 100)
	if len(chunkFiles) != 1 {
		testingInstance.Fatalf("expected one chunk, got %d", len(chunkFiles))
	}
	if len(chunkFiles[0].Files) != 1 || chunkFiles[0].Files[0].Path != "real.go" {
		testingInstance.Errorf("empty files must be dropped, got %v", chunkFiles[0].Files)
	}
}

// TestSplitFilesPartNumbering verifies one-based part numbering with a
// consistent total.
func TestSplitFilesPartNumbering(testingInstance *testing.T) {
	sourceFiles := []project.FileContextInfo{
		contextFile("a.go", 90),
		contextFile("b.go", 90),
		contextFile("c.go", 90),
	}

	chunkFiles := chunk.SplitFiles(sourceFiles, 100)
	if len(chunkFiles) != 3 {
		testingInstance.Fatalf("expected three chunks, got %d", len(chunkFiles))
	}
	for chunkIndex, chunkFile := range chunkFiles {
		if chunkFile.ChunkInfo.CurrentPart != chunkIndex+1 {
			testingInstance.Errorf("chunk %d: expected part %d, got %d", chunkIndex, chunkIndex+1, chunkFile.ChunkInfo.CurrentPart)
		}
		if chunkFile.ChunkInfo.TotalParts != 3 {
			testingInstance.Errorf("chunk %d: expected total 3, got %d", chunkIndex, chunkFile.ChunkInfo.TotalParts)
		}
	}
}

// TestSplitFilesNoInput verifies that no chunks are produced for empty
// input.
func TestSplitFilesNoInput(testingInstance *testing.T) {
	if chunkFiles := chunk.SplitFiles(nil, 100); len(chunkFiles) != 0 {
		testingInstance.Errorf("expected no chunks, got %d", len(chunkFiles))
	}
}
