// Package assets exposes the static data shipped with the tool: built-in
// ignore pattern lists, predefined prompts, the AI readme text, and static
// rule files. Everything is embedded at build time, parsed once, and
// immutable for the process lifetime.
package assets

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/builtin_ignores.yaml data/prompts.yaml data/ai_readme.yaml data/rules
var embeddedData embed.FS

const (
	builtinIgnoresAssetPath = "data/builtin_ignores.yaml"
	promptsAssetPath        = "data/prompts.yaml"
	aiReadmeAssetPath       = "data/ai_readme.yaml"
	ruleAssetPathFormat     = "data/rules/%s.org"
)

// BuiltinIgnores holds the fixed ignore pattern lists applied in addition to
// user configuration. The common list applies to every section.
type BuiltinIgnores struct {
	Common []string `yaml:"common"`
	Tree   []string `yaml:"tree"`
	Source []string `yaml:"source"`
	Docs   []string `yaml:"docs"`
}

// AIReadmeText holds the fragments composed into the aiReadme context field.
type AIReadmeText struct {
	Intro             string `yaml:"intro"`
	KeySectionsHeader string `yaml:"key_sections_header"`
	ProjectNameDesc   string `yaml:"project_name_desc"`
	ProjectRootDesc   string `yaml:"project_root_desc"`
	SystemInfoDesc    string `yaml:"system_info_desc"`
	MetaDesc          string `yaml:"meta_desc"`
	DocsDesc          string `yaml:"docs_desc"`
	TreeDesc          string `yaml:"tree_desc"`
	SourceFilesDesc   string `yaml:"source_files_desc"`
	SourceChunksDesc  string `yaml:"source_chunks_desc"`
	SourceMissingDesc string `yaml:"source_missing_desc"`
	RulesDesc         string `yaml:"rules_desc"`
	RulesMissingDesc  string `yaml:"rules_missing_desc"`
	TimestampDesc     string `yaml:"timestamp_desc"`
}

var (
	builtinIgnoresOnce  sync.Once
	builtinIgnoresValue BuiltinIgnores

	promptsOnce  sync.Once
	promptsValue map[string]string

	aiReadmeOnce  sync.Once
	aiReadmeValue AIReadmeText
)

// BuiltinIgnorePatterns returns the embedded built-in ignore pattern lists.
// The returned value is shared and must not be mutated.
func BuiltinIgnorePatterns() *BuiltinIgnores {
	builtinIgnoresOnce.Do(func() {
		mustUnmarshalAsset(builtinIgnoresAssetPath, &builtinIgnoresValue)
	})
	return &builtinIgnoresValue
}

// PredefinedPrompts returns the embedded prompt texts keyed by prompt name.
// The returned map is shared and must not be mutated.
func PredefinedPrompts() map[string]string {
	promptsOnce.Do(func() {
		mustUnmarshalAsset(promptsAssetPath, &promptsValue)
	})
	return promptsValue
}

// AIReadme returns the embedded AI readme text fragments.
func AIReadme() *AIReadmeText {
	aiReadmeOnce.Do(func() {
		mustUnmarshalAsset(aiReadmeAssetPath, &aiReadmeValue)
	})
	return &aiReadmeValue
}

// StaticRuleContent returns the content of the embedded static rule file for
// the given stem, for example "go" for data/rules/go.org.
func StaticRuleContent(ruleStem string) (string, error) {
	assetPath := fmt.Sprintf(ruleAssetPathFormat, ruleStem)
	contentBytes, readError := embeddedData.ReadFile(assetPath)
	if readError != nil {
		return "", fmt.Errorf("static rule %q not found in embedded data: %w", ruleStem, readError)
	}
	return string(contentBytes), nil
}

// StaticRuleStems lists the stems of every embedded static rule file.
func StaticRuleStems() []string {
	entries, readError := embeddedData.ReadDir("data/rules")
	if readError != nil {
		return nil
	}
	stems := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".org") {
			stems = append(stems, strings.TrimSuffix(name, ".org"))
		}
	}
	return stems
}

// mustUnmarshalAsset panics on failure: the embedded data is part of the
// binary, so a parse error is a build defect, not a runtime condition.
func mustUnmarshalAsset(assetPath string, target any) {
	contentBytes, readError := embeddedData.ReadFile(assetPath)
	if readError != nil {
		panic(fmt.Sprintf("embedded asset %s missing: %v", assetPath, readError))
	}
	if unmarshalError := yaml.Unmarshal(contentBytes, target); unmarshalError != nil {
		panic(fmt.Sprintf("embedded asset %s malformed: %v", assetPath, unmarshalError))
	}
}
