// Package project assembles the generated context document from gathered
// files, detected characteristics, resolved rules, and system information.
package project

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/xcontext/internal/assets"
	"github.com/temirov/xcontext/internal/config"
	"github.com/temirov/xcontext/internal/gather"
	"github.com/temirov/xcontext/internal/utils"
)

// FileContextInfo is one file entry of the docs or source section, with its
// path relative to the project root.
type FileContextInfo struct {
	Path    string `json:"path" yaml:"path" xml:"path"`
	Content string `json:"content" yaml:"content" xml:"content"`
}

// SourceRepresentation holds either inline source files or references to
// chunk files, never both.
type SourceRepresentation struct {
	Files  []FileContextInfo `json:"files,omitempty" yaml:"files,omitempty" xml:"files>file,omitempty"`
	Chunks []string          `json:"chunks,omitempty" yaml:"chunks,omitempty" xml:"chunks>chunk,omitempty"`
}

// Context is the assembled context document handed to serialization.
type Context struct {
	AIReadme            string                `json:"aiReadme,omitempty" yaml:"aiReadme,omitempty" xml:"aiReadme,omitempty"`
	ProjectName         string                `json:"projectName,omitempty" yaml:"projectName,omitempty" xml:"projectName,omitempty"`
	ProjectRoot         string                `json:"projectRoot,omitempty" yaml:"projectRoot,omitempty" xml:"projectRoot,omitempty"`
	SystemInfo          *SystemInfo           `json:"systemInfo,omitempty" yaml:"systemInfo,omitempty" xml:"systemInfo,omitempty"`
	Meta                map[string]string     `json:"meta,omitempty" yaml:"meta,omitempty" xml:"-"`
	Docs                []FileContextInfo     `json:"docs,omitempty" yaml:"docs,omitempty" xml:"docs>file,omitempty"`
	Tree                []*gather.TreeNode    `json:"tree,omitempty" yaml:"tree,omitempty" xml:"tree>node,omitempty"`
	Source              *SourceRepresentation `json:"source,omitempty" yaml:"source,omitempty" xml:"source,omitempty"`
	Rules               map[string][]string   `json:"rules,omitempty" yaml:"rules,omitempty" xml:"-"`
	Prompts             map[string]string     `json:"prompts,omitempty" yaml:"prompts,omitempty" xml:"-"`
	GenerationTimestamp *time.Time            `json:"generationTimestamp,omitempty" yaml:"generationTimestamp,omitempty" xml:"generationTimestamp,omitempty"`

	// ResolvedRules keeps resolution order and origins for the debug
	// command; it is not serialized with the context.
	ResolvedRules *ResolvedRules `json:"-" yaml:"-" xml:"-"`

	configuration *config.Config
	sourceEnabled bool
	rulesEnabled  bool
}

// Build assembles the context skeleton: everything except the docs and
// source sections, which are attached afterwards by AddDocs and AddFiles or
// AddChunkPaths.
func Build(projectRoot string, configuration *config.Config, treeNodes []*gather.TreeNode, characteristics *Characteristics, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}

	instance := &Context{
		configuration: configuration,
		sourceEnabled: config.SectionEnabled(&configuration.Source),
		rulesEnabled:  configuration.RulesEnabled(),
	}

	if boolSetting(configuration.Output.IncludeProjectName) {
		instance.ProjectName = effectiveProjectName(configuration, projectRoot, characteristics)
	}
	if boolSetting(configuration.Output.IncludeProjectRoot) {
		instance.ProjectRoot = projectRoot
	}
	if boolSetting(configuration.Output.IncludeSystemInfo) {
		instance.SystemInfo = GatherSystemInfo()
	}
	if configuration.MetaEnabled() && len(configuration.Meta.Values) > 0 {
		instance.Meta = configuration.Meta.Values
	}
	if config.SectionEnabled(&configuration.Tree) {
		instance.Tree = treeNodes
	}

	resolvedRules := ResolveRules(&configuration.Rules, projectRoot, characteristics, instance.rulesEnabled, logger)
	instance.ResolvedRules = resolvedRules
	if len(resolvedRules.RuleSets) > 0 {
		instance.Rules = resolvedRules.AsMap()
	}

	prompts := ResolvePrompts(&configuration.Prompts, projectRoot, logger)
	if len(prompts) > 0 {
		instance.Prompts = prompts
	}

	if boolSetting(configuration.Output.IncludeTimestamp) {
		now := time.Now().UTC()
		instance.GenerationTimestamp = &now
	}

	instance.populateAIReadme()
	return instance
}

// AddDocs attaches the documentation files.
func (contextDocument *Context) AddDocs(docsFiles []FileContextInfo) *Context {
	if config.SectionEnabled(&contextDocument.configuration.Docs) && len(docsFiles) > 0 {
		contextDocument.Docs = docsFiles
	}
	contextDocument.populateAIReadme()
	return contextDocument
}

// AddFiles attaches the source files inline.
func (contextDocument *Context) AddFiles(sourceFiles []FileContextInfo) *Context {
	if contextDocument.sourceEnabled && len(sourceFiles) > 0 {
		contextDocument.Source = &SourceRepresentation{Files: sourceFiles}
	}
	contextDocument.populateAIReadme()
	return contextDocument
}

// AddChunkPaths attaches chunk file references instead of inline sources.
// Paths are stored relative to the save directory when possible.
func (contextDocument *Context) AddChunkPaths(chunkPaths []string, saveDirectory string) *Context {
	if contextDocument.sourceEnabled && len(chunkPaths) > 0 {
		relativePaths := make([]string, 0, len(chunkPaths))
		for _, chunkPath := range chunkPaths {
			relativePaths = append(relativePaths, utils.RelativePathOrSelf(chunkPath, saveDirectory))
		}
		contextDocument.Source = &SourceRepresentation{Chunks: relativePaths}
	}
	contextDocument.populateAIReadme()
	return contextDocument
}

// populateAIReadme rebuilds the aiReadme description so it always reflects
// the sections currently present in the document.
func (contextDocument *Context) populateAIReadme() {
	readmeText := assets.AIReadme()
	parts := []string{readmeText.Intro}

	var details []string
	if contextDocument.ProjectName != "" {
		details = append(details, readmeText.ProjectNameDesc)
	}
	if contextDocument.ProjectRoot != "" {
		details = append(details, readmeText.ProjectRootDesc)
	}
	if contextDocument.SystemInfo != nil {
		details = append(details, readmeText.SystemInfoDesc)
	}
	if contextDocument.Meta != nil {
		details = append(details, readmeText.MetaDesc)
	}
	if contextDocument.Docs != nil {
		details = append(details, readmeText.DocsDesc)
	}
	if contextDocument.Tree != nil {
		details = append(details, readmeText.TreeDesc)
	}
	switch {
	case contextDocument.Source != nil && contextDocument.Source.Files != nil:
		details = append(details, readmeText.SourceFilesDesc)
	case contextDocument.Source != nil && contextDocument.Source.Chunks != nil:
		details = append(details, readmeText.SourceChunksDesc)
	case contextDocument.sourceEnabled:
		details = append(details, readmeText.SourceMissingDesc)
	}
	if len(contextDocument.Rules) > 0 {
		details = append(details, readmeText.RulesDesc)
	} else if contextDocument.rulesEnabled {
		details = append(details, readmeText.RulesMissingDesc)
	}
	if contextDocument.GenerationTimestamp != nil {
		details = append(details, readmeText.TimestampDesc)
	}

	if len(details) == 0 {
		contextDocument.AIReadme = readmeText.Intro
		return
	}
	parts = append(parts, readmeText.KeySectionsHeader)
	parts = append(parts, details...)
	contextDocument.AIReadme = joinLines(parts)
}

// effectiveProjectName prefers the configured name, then the Go module base
// name detected from go.mod, then the project root's base name.
func effectiveProjectName(configuration *config.Config, projectRoot string, characteristics *Characteristics) string {
	if configuration.General.ProjectName != "" {
		return configuration.General.ProjectName
	}
	if characteristics != nil && characteristics.ModuleName != "" {
		return characteristics.ModuleName
	}
	return configuration.EffectiveProjectName(projectRoot)
}

// FileContextList converts gathered files into context entries with paths
// relative to the project root.
func FileContextList(files []gather.FileInfo, projectRoot string) []FileContextInfo {
	entries := make([]FileContextInfo, 0, len(files))
	for _, file := range files {
		entries = append(entries, FileContextInfo{
			Path:    utils.RelativePathOrSelf(file.Path, projectRoot),
			Content: file.Content,
		})
	}
	return entries
}

// boolSetting treats an unset output flag as enabled.
func boolSetting(pointer *bool) bool {
	return pointer == nil || *pointer
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
