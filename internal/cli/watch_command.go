package cli

import (
	"context"
	"errors"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/xcontext/internal/config"
	"github.com/temirov/xcontext/internal/watch"
)

const (
	watchUse              = "watch"
	watchShortDescription = "regenerate the context document on file changes"
	watchLongDescription  = `Generate the context document, then keep watching the project root and
regenerate it after each burst of file changes. The quiet period between a
change and regeneration is configured by [watch].delay. Stop with Ctrl-C.`
)

func createWatchCommand(state *applicationState) *cobra.Command {
	options := &generateOptions{}
	watchCommand := &cobra.Command{
		Use:   watchUse,
		Short: watchShortDescription,
		Long:  watchLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			projectRoot, _, configuration, loadError := state.loadConfiguration()
			if loadError != nil {
				return loadError
			}
			if overrideError := options.applyOverrides(configuration); overrideError != nil {
				return overrideError
			}
			watchDelay, delayError := configuration.WatchDelay()
			if delayError != nil {
				return delayError
			}

			regenerate := func() error {
				return runGenerate(state, options, configuration, projectRoot)
			}
			runner := watch.NewRunner(projectRoot, watchSkipPrefixes(configuration, projectRoot), watchDelay, regenerate, state.logger)

			signalContext, stopSignals := signal.NotifyContext(command.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stopSignals()
			state.logger.Info("watching for changes", zap.String("projectRoot", projectRoot), zap.Duration("delay", watchDelay))

			runError := runner.Run(signalContext)
			if errors.Is(runError, context.Canceled) {
				return nil
			}
			return runError
		},
	}
	registerGenerateFlags(watchCommand, options)
	return watchCommand
}

// watchSkipPrefixes lists the project-relative directories whose events must
// not retrigger generation, chiefly the directory the documents are written
// into.
func watchSkipPrefixes(configuration *config.Config, projectRoot string) []string {
	skipPrefixes := []string{config.DefaultCacheDirectory}
	outputDirectory := resolveOutputDirectory(configuration, projectRoot)
	if relativeOutput, relativeError := filepath.Rel(projectRoot, outputDirectory); relativeError == nil {
		relativeOutput = filepath.ToSlash(relativeOutput)
		if !strings.HasPrefix(relativeOutput, "..") && relativeOutput != "." {
			skipPrefixes = append(skipPrefixes, relativeOutput)
		}
	}
	return skipPrefixes
}
