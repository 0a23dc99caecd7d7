package cli

import (
	"path/filepath"
	"testing"

	"github.com/temirov/xcontext/internal/config"
)

// TestApplyOverridesSectionToggles verifies that disable flags switch the
// matching sections off.
func TestApplyOverridesSectionToggles(testingInstance *testing.T) {
	configuration := config.Default()
	options := &generateOptions{
		disableTree:   true,
		disableSource: true,
		disableDocs:   true,
		disableMeta:   true,
		disableRules:  true,
	}

	if overrideError := options.applyOverrides(configuration); overrideError != nil {
		testingInstance.Fatalf("unexpected error: %v", overrideError)
	}

	if config.SectionEnabled(&configuration.Tree) || config.SectionEnabled(&configuration.Source) || config.SectionEnabled(&configuration.Docs) {
		testingInstance.Errorf("disable flags must switch the sections off")
	}
	if configuration.MetaEnabled() || configuration.RulesEnabled() {
		testingInstance.Errorf("disable flags must switch meta and rules off")
	}
}

// TestApplyOverridesPatternsAndFormat verifies the pattern list, format,
// and output directory overrides.
func TestApplyOverridesPatternsAndFormat(testingInstance *testing.T) {
	configuration := config.Default()
	options := &generateOptions{
		sourceInclude:   []string{"**/*.go", "**/*.go"},
		docsExclude:     []string{"CHANGELOG.md"},
		formatName:      "yaml",
		outputDirectory: "artifacts",
	}

	if overrideError := options.applyOverrides(configuration); overrideError != nil {
		testingInstance.Fatalf("unexpected error: %v", overrideError)
	}

	if configuration.Source.Include == nil || (*configuration.Source.Include)[0] != "**/*.go" {
		testingInstance.Errorf("expected the source include override, got %v", configuration.Source.Include)
	}
	if configuration.Source.Include != nil && len(*configuration.Source.Include) != 1 {
		testingInstance.Errorf("repeated override patterns must be deduplicated, got %v", *configuration.Source.Include)
	}
	if configuration.Docs.Exclude == nil || (*configuration.Docs.Exclude)[0] != "CHANGELOG.md" {
		testingInstance.Errorf("expected the docs exclude override, got %v", configuration.Docs.Exclude)
	}
	if configuration.Source.Exclude == nil {
		testingInstance.Errorf("untouched lists must keep their defaults")
	}
	if configuration.Output.Format != "yaml" {
		testingInstance.Errorf("expected the format override, got %q", configuration.Output.Format)
	}
	if configuration.Save.OutputDirectory != "artifacts" {
		testingInstance.Errorf("expected the output directory override, got %q", configuration.Save.OutputDirectory)
	}
}

// TestApplyOverridesMetaEntries verifies key=value parsing.
func TestApplyOverridesMetaEntries(testingInstance *testing.T) {
	configuration := config.Default()
	options := &generateOptions{metaEntries: []string{"team=platform", "stage=rc=1"}}

	if overrideError := options.applyOverrides(configuration); overrideError != nil {
		testingInstance.Fatalf("unexpected error: %v", overrideError)
	}
	if configuration.Meta.Values["team"] != "platform" {
		testingInstance.Errorf("expected the team entry, got %v", configuration.Meta.Values)
	}
	if configuration.Meta.Values["stage"] != "rc=1" {
		testingInstance.Errorf("values must keep embedded separators, got %q", configuration.Meta.Values["stage"])
	}

	invalidOptions := &generateOptions{metaEntries: []string{"noseparator"}}
	if invalidError := invalidOptions.applyOverrides(config.Default()); invalidError == nil {
		testingInstance.Errorf("expected an error for a malformed meta entry")
	}
}

// TestResolveOutputDirectory verifies anchoring of relative directories at
// the project root.
func TestResolveOutputDirectory(testingInstance *testing.T) {
	configuration := config.Default()
	projectRoot := testingInstance.TempDir()

	defaultDirectory := resolveOutputDirectory(configuration, projectRoot)
	if defaultDirectory != filepath.Join(projectRoot, config.DefaultCacheDirectory) {
		testingInstance.Errorf("expected the cache directory under the project root, got %s", defaultDirectory)
	}

	configuration.Save.OutputDirectory = "/absolute/out"
	if absoluteDirectory := resolveOutputDirectory(configuration, projectRoot); absoluteDirectory != "/absolute/out" {
		testingInstance.Errorf("absolute directories must pass through, got %s", absoluteDirectory)
	}
}
