package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/xcontext/internal/chunk"
	"github.com/temirov/xcontext/internal/config"
	"github.com/temirov/xcontext/internal/gather"
	"github.com/temirov/xcontext/internal/output"
	"github.com/temirov/xcontext/internal/project"
	"github.com/temirov/xcontext/internal/services/clipboard"
	"github.com/temirov/xcontext/internal/utils"
)

const (
	generateUse              = "generate"
	generateAlias            = "gen"
	generateShortDescription = "generate the context document (" + generateAlias + ")"
	generateLongDescription  = `Scan the project and generate the context document.
By default the document is written into the configured output directory.
Use --stdout to print it instead, --chunks to split source files into
size-bounded chunk files, and --copy to place the result on the clipboard.`
	generateUsageExample = `  # Write the context document into the output directory
  xcontext generate

  # Print YAML to standard output
  xcontext generate --stdout --format yaml

  # Split source files into 64KB chunks
  xcontext generate --chunks 64KB`

	stdoutFlagName              = "stdout"
	stdoutFlagDescription       = "print the document to standard output instead of saving it"
	saveFlagName                = "save"
	saveFlagDescription         = "also save the document when printing to standard output"
	outputDirectoryFlagName     = "output-dir"
	outputDirectoryDescription  = "directory to write generated files into"
	chunksFlagName              = "chunks"
	chunksFlagDescription       = "split source files into chunks of at most this size, for example 64KB"
	copyFlagName                = "copy"
	copyFlagDescription         = "copy the document to the system clipboard"
	formatFlagName              = "format"
	formatFlagDescription       = "output format: json, yaml, or xml"
	noTreeFlagName              = "no-tree"
	noTreeFlagDescription       = "omit the directory tree section"
	noSourceFlagName            = "no-source"
	noSourceFlagDescription     = "omit the source files section"
	noDocsFlagName              = "no-docs"
	noDocsFlagDescription       = "omit the documentation section"
	noMetaFlagName              = "no-meta"
	noMetaFlagDescription       = "omit the meta section"
	noRulesFlagName             = "no-rules"
	noRulesFlagDescription      = "omit the rules section"
	noGitignoreFlagName         = "no-gitignore"
	noGitignoreFlagDescription  = "do not honor gitignore files"
	noBuiltinIgnoreFlagName     = "no-builtin-ignore"
	noBuiltinIgnoreDescription  = "do not apply the builtin ignore patterns"
	sourceIncludeFlagName       = "source-include"
	sourceIncludeDescription    = "override source include patterns"
	sourceExcludeFlagName       = "source-exclude"
	sourceExcludeDescription    = "override source exclude patterns"
	docsIncludeFlagName         = "docs-include"
	docsIncludeDescription      = "override docs include patterns"
	docsExcludeFlagName         = "docs-exclude"
	docsExcludeDescription      = "override docs exclude patterns"
	treeIncludeFlagName         = "tree-include"
	treeIncludeDescription      = "override tree include patterns"
	treeExcludeFlagName         = "tree-exclude"
	treeExcludeDescription      = "override tree exclude patterns"
	metaFlagName                = "meta"
	metaFlagDescription         = "add a meta entry as key=value (repeatable)"
	invalidMetaEntryFormat      = "invalid meta entry %q: expected key=value"
	documentSavedMessageFormat  = "Context written to %s\n"
	chunksWrittenMessageFormat  = "%d chunk file(s) written to %s\n"
	documentCopiedMessage       = "Context copied to clipboard\n"
)

// generateOptions holds the generate command's flag values.
type generateOptions struct {
	toStdout             bool
	saveWithStdout       bool
	outputDirectory      string
	chunkSize            string
	copyToClipboard      bool
	formatName           string
	disableTree          bool
	disableSource        bool
	disableDocs          bool
	disableMeta          bool
	disableRules         bool
	disableGitignore     bool
	disableBuiltinIgnore bool
	sourceInclude        []string
	sourceExclude        []string
	docsInclude          []string
	docsExclude          []string
	treeInclude          []string
	treeExclude          []string
	metaEntries          []string
}

func createGenerateCommand(state *applicationState) *cobra.Command {
	options := &generateOptions{}
	generateCommand := &cobra.Command{
		Use:     generateUse,
		Aliases: []string{generateAlias},
		Short:   generateShortDescription,
		Long:    generateLongDescription,
		Example: generateUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			projectRoot, _, configuration, loadError := state.loadConfiguration()
			if loadError != nil {
				return loadError
			}
			if overrideError := options.applyOverrides(configuration); overrideError != nil {
				return overrideError
			}
			return runGenerate(state, options, configuration, projectRoot)
		},
	}
	registerGenerateFlags(generateCommand, options)
	return generateCommand
}

func registerGenerateFlags(generateCommand *cobra.Command, options *generateOptions) {
	commandFlags := generateCommand.Flags()
	commandFlags.BoolVar(&options.toStdout, stdoutFlagName, false, stdoutFlagDescription)
	commandFlags.BoolVar(&options.saveWithStdout, saveFlagName, false, saveFlagDescription)
	commandFlags.StringVar(&options.outputDirectory, outputDirectoryFlagName, "", outputDirectoryDescription)
	commandFlags.StringVar(&options.chunkSize, chunksFlagName, "", chunksFlagDescription)
	commandFlags.BoolVar(&options.copyToClipboard, copyFlagName, false, copyFlagDescription)
	commandFlags.StringVar(&options.formatName, formatFlagName, "", formatFlagDescription)
	commandFlags.BoolVar(&options.disableTree, noTreeFlagName, false, noTreeFlagDescription)
	commandFlags.BoolVar(&options.disableSource, noSourceFlagName, false, noSourceFlagDescription)
	commandFlags.BoolVar(&options.disableDocs, noDocsFlagName, false, noDocsFlagDescription)
	commandFlags.BoolVar(&options.disableMeta, noMetaFlagName, false, noMetaFlagDescription)
	commandFlags.BoolVar(&options.disableRules, noRulesFlagName, false, noRulesFlagDescription)
	commandFlags.BoolVar(&options.disableGitignore, noGitignoreFlagName, false, noGitignoreFlagDescription)
	commandFlags.BoolVar(&options.disableBuiltinIgnore, noBuiltinIgnoreFlagName, false, noBuiltinIgnoreDescription)
	commandFlags.StringArrayVar(&options.sourceInclude, sourceIncludeFlagName, nil, sourceIncludeDescription)
	commandFlags.StringArrayVar(&options.sourceExclude, sourceExcludeFlagName, nil, sourceExcludeDescription)
	commandFlags.StringArrayVar(&options.docsInclude, docsIncludeFlagName, nil, docsIncludeDescription)
	commandFlags.StringArrayVar(&options.docsExclude, docsExcludeFlagName, nil, docsExcludeDescription)
	commandFlags.StringArrayVar(&options.treeInclude, treeIncludeFlagName, nil, treeIncludeDescription)
	commandFlags.StringArrayVar(&options.treeExclude, treeExcludeFlagName, nil, treeExcludeDescription)
	commandFlags.StringArrayVar(&options.metaEntries, metaFlagName, nil, metaFlagDescription)
}

// applyOverrides maps flag values onto the loaded configuration before the
// gathering pipeline runs.
func (options *generateOptions) applyOverrides(configuration *config.Config) error {
	disabled := false
	if options.disableTree {
		configuration.Tree.Enabled = &disabled
	}
	if options.disableSource {
		configuration.Source.Enabled = &disabled
	}
	if options.disableDocs {
		configuration.Docs.Enabled = &disabled
	}
	if options.disableMeta {
		configuration.Meta.Enabled = &disabled
	}
	if options.disableRules {
		configuration.Rules.Enabled = &disabled
	}
	if options.disableGitignore {
		configuration.General.UseGitignore = &disabled
	}
	if options.disableBuiltinIgnore {
		configuration.General.EnableBuiltinIgnore = &disabled
	}
	applyPatternOverride(&configuration.Source.Include, options.sourceInclude)
	applyPatternOverride(&configuration.Source.Exclude, options.sourceExclude)
	applyPatternOverride(&configuration.Docs.Include, options.docsInclude)
	applyPatternOverride(&configuration.Docs.Exclude, options.docsExclude)
	applyPatternOverride(&configuration.Tree.Include, options.treeInclude)
	applyPatternOverride(&configuration.Tree.Exclude, options.treeExclude)
	if options.formatName != "" {
		configuration.Output.Format = options.formatName
	}
	if options.outputDirectory != "" {
		configuration.Save.OutputDirectory = options.outputDirectory
	}
	for _, metaEntry := range options.metaEntries {
		entryKey, entryValue, separatorFound := strings.Cut(metaEntry, "=")
		if !separatorFound || strings.TrimSpace(entryKey) == "" {
			return fmt.Errorf(invalidMetaEntryFormat, metaEntry)
		}
		if configuration.Meta.Values == nil {
			configuration.Meta.Values = map[string]string{}
		}
		configuration.Meta.Values[strings.TrimSpace(entryKey)] = entryValue
	}
	return nil
}

func applyPatternOverride(target **[]string, patterns []string) {
	if len(patterns) > 0 {
		overridden := utils.DeduplicatePatterns(patterns)
		*target = &overridden
	}
}

// runGenerate executes the full pipeline: gather files, assemble the context
// document, write chunk files when requested, then save, print, or copy the
// rendered result.
func runGenerate(state *applicationState, options *generateOptions, configuration *config.Config, projectRoot string) error {
	format, formatError := output.ParseFormat(configuration.Output.Format)
	if formatError != nil {
		return formatError
	}
	renderer := output.NewRenderer(format, configuration)

	gatherResult, gatherError := gather.Gather(projectRoot, configuration, state.quiet, state.logger)
	if gatherError != nil {
		return gatherError
	}
	treeNodes, treeError := gather.BuildTree(gatherResult.TreeEntries, state.logger)
	if treeError != nil {
		return treeError
	}

	characteristics := project.DetectCharacteristics(projectRoot, state.logger)
	contextDocument := project.Build(projectRoot, configuration, treeNodes, characteristics, state.logger)
	contextDocument.AddDocs(project.FileContextList(gatherResult.DocsFiles, projectRoot))

	outputDirectory := resolveOutputDirectory(configuration, projectRoot)
	sourceEntries := project.FileContextList(gatherResult.SourceFiles, projectRoot)

	if options.chunkSize != "" {
		chunkLimit, chunkLimitError := chunk.ParseSizeLimit(options.chunkSize)
		if chunkLimitError != nil {
			return chunkLimitError
		}
		chunkFiles := chunk.SplitFiles(sourceEntries, chunkLimit)
		writtenChunkPaths, chunkWriteError := renderer.WriteChunks(chunkFiles, outputDirectory, &configuration.Save)
		if chunkWriteError != nil {
			return chunkWriteError
		}
		contextDocument.AddChunkPaths(writtenChunkPaths, outputDirectory)
		if !state.quiet && len(writtenChunkPaths) > 0 {
			fmt.Printf(chunksWrittenMessageFormat, len(writtenChunkPaths), outputDirectory)
		}
	} else {
		contextDocument.AddFiles(sourceEntries)
	}

	renderedDocument, renderError := renderer.RenderContext(contextDocument)
	if renderError != nil {
		return renderError
	}

	if options.toStdout {
		fmt.Println(renderedDocument)
	}
	if !options.toStdout || options.saveWithStdout {
		writtenPath, saveError := output.SaveToFile(outputDirectory, output.ContextFileName(&configuration.Save, format), renderedDocument)
		if saveError != nil {
			return saveError
		}
		if !state.quiet && !options.toStdout {
			fmt.Printf(documentSavedMessageFormat, writtenPath)
		}
	}
	if options.copyToClipboard {
		if copyError := clipboard.NewService().Copy(renderedDocument); copyError != nil {
			return copyError
		}
		if !state.quiet {
			fmt.Print(documentCopiedMessage)
		}
	}
	return nil
}

// resolveOutputDirectory anchors a relative output directory at the project
// root.
func resolveOutputDirectory(configuration *config.Config, projectRoot string) string {
	outputDirectory := configuration.Save.OutputDirectory
	if outputDirectory == "" {
		outputDirectory = config.DefaultCacheDirectory
	}
	if !filepath.IsAbs(outputDirectory) {
		outputDirectory = filepath.Join(projectRoot, outputDirectory)
	}
	return outputDirectory
}
