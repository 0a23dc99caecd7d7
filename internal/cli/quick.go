package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/xcontext/internal/config"
	"github.com/temirov/xcontext/internal/gather"
	"github.com/temirov/xcontext/internal/output"
	"github.com/temirov/xcontext/internal/utils"
)

const (
	quickUse              = "quick <pattern>"
	quickAlias            = "q"
	quickShortDescription = "dump the contents of files matching one glob pattern (" + quickAlias + ")"
	quickLongDescription  = `Dump the contents of every file whose path matches the given glob pattern,
honoring the gitignore rules of the project. A directory argument is a
convenience for matching everything beneath that directory.`
	quickUsageExample = `  # Dump every Go file
  xcontext quick '**/*.go'

  # Dump everything under the docs directory as YAML
  xcontext quick docs --format yaml`

	directoryPatternMessageFormat   = "Interpreting directory input %q as glob %q\n"
	missingDirectoryWarningFormat   = "Warning: directory pattern %q matches no existing directory, using the pattern without the trailing slash.\n"
	noMatchingFilesMessageFormat    = "No files matched the pattern %q.\n"
	quickReadWarningsHeadingMessage = "Warning: errors encountered during file reading:"
	quickReadWarningLineFormat      = " - %v\n"
)

// quickOptions holds the quick command's flag values.
type quickOptions struct {
	formatName string
}

func createQuickCommand(state *applicationState) *cobra.Command {
	options := &quickOptions{}
	quickCommand := &cobra.Command{
		Use:     quickUse,
		Aliases: []string{quickAlias},
		Short:   quickShortDescription,
		Long:    quickLongDescription,
		Example: quickUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			projectRoot, _, configuration, loadError := state.loadConfiguration()
			if loadError != nil {
				return loadError
			}
			if options.formatName != "" {
				configuration.Output.Format = options.formatName
			}
			return runQuick(state, configuration, projectRoot, arguments[0])
		},
	}
	quickCommand.Flags().StringVar(&options.formatName, formatFlagName, "", formatFlagDescription)
	return quickCommand
}

// runQuick gathers the files matching rawPattern and prints them as a flat
// path-to-content document in the configured format.
func runQuick(state *applicationState, configuration *config.Config, projectRoot string, rawPattern string) error {
	format, formatError := output.ParseFormat(configuration.Output.Format)
	if formatError != nil {
		return formatError
	}
	renderer := output.NewRenderer(format, configuration)

	effectivePattern := resolveQuickPattern(state, projectRoot, rawPattern)
	matchedFiles, readWarnings, gatherError := gather.GatherMatching(projectRoot, effectivePattern, configuration, state.logger)
	if gatherError != nil {
		return gatherError
	}

	if len(readWarnings) > 0 && !state.quiet {
		fmt.Fprintln(os.Stderr, quickReadWarningsHeadingMessage)
		for _, readWarning := range readWarnings {
			fmt.Fprintf(os.Stderr, quickReadWarningLineFormat, readWarning)
		}
	}
	if len(matchedFiles) == 0 {
		if !state.quiet {
			fmt.Printf(noMatchingFilesMessageFormat, rawPattern)
		}
		return nil
	}

	dump := &output.FileDump{Files: make(map[string]string, len(matchedFiles))}
	for _, matchedFile := range matchedFiles {
		dump.Files[utils.RelativePathOrSelf(matchedFile.Path, projectRoot)] = matchedFile.Content
	}
	renderedDump, renderError := renderer.RenderFileDump(dump)
	if renderError != nil {
		return renderError
	}
	fmt.Println(renderedDump)
	return nil
}

// resolveQuickPattern applies the directory-input convenience: an argument
// naming an existing directory matches everything beneath it, and a trailing
// separator on a non-existent directory is dropped rather than matching
// nothing.
func resolveQuickPattern(state *applicationState, projectRoot string, rawPattern string) string {
	trimmedPattern := strings.TrimRight(rawPattern, "/\\")
	candidatePath := filepath.Join(projectRoot, filepath.FromSlash(trimmedPattern))
	if pathInfo, statError := os.Stat(candidatePath); statError == nil && pathInfo.IsDir() {
		if !state.quiet && state.verbosity > 0 {
			fmt.Fprintf(os.Stderr, directoryPatternMessageFormat, rawPattern, trimmedPattern+"/**/*")
		}
		return trimmedPattern + "/"
	}
	if trimmedPattern != rawPattern {
		if !state.quiet {
			fmt.Fprintf(os.Stderr, missingDirectoryWarningFormat, rawPattern)
		}
		state.logger.Debug("dropping trailing separator from pattern",
			zap.String("pattern", rawPattern))
		return trimmedPattern
	}
	return rawPattern
}
