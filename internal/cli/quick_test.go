package cli

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

// TestResolveQuickPattern verifies the directory-input convenience and the
// trailing-separator fallback.
func TestResolveQuickPattern(testingInstance *testing.T) {
	projectRoot := testingInstance.TempDir()
	if directoryError := os.MkdirAll(filepath.Join(projectRoot, "docs"), 0o755); directoryError != nil {
		testingInstance.Fatalf("creating directory: %v", directoryError)
	}
	state := &applicationState{quiet: true, logger: zap.NewNop()}

	if resolved := resolveQuickPattern(state, projectRoot, "docs"); resolved != "docs/" {
		testingInstance.Errorf("a directory input must match everything beneath it, got %q", resolved)
	}
	if resolved := resolveQuickPattern(state, projectRoot, "docs/"); resolved != "docs/" {
		testingInstance.Errorf("a trailing slash on an existing directory must be kept, got %q", resolved)
	}
	if resolved := resolveQuickPattern(state, projectRoot, "missing/"); resolved != "missing" {
		testingInstance.Errorf("a trailing slash on a missing directory must be dropped, got %q", resolved)
	}
	if resolved := resolveQuickPattern(state, projectRoot, "**/*.go"); resolved != "**/*.go" {
		testingInstance.Errorf("a plain glob must pass through unchanged, got %q", resolved)
	}
}
