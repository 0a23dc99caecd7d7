// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/xcontext/internal/config"
	"github.com/temirov/xcontext/internal/utils"
)

const (
	rootUse              = "xcontext"
	rootShortDescription = "xcontext generates structured project context for AI tools"
	rootLongDescription  = `xcontext scans a project directory and produces a structured context
document with project metadata, a directory tree, documentation, source file
contents, coding rules, and prompts.
Use --format to select json, yaml, or xml output, and --project-root to point
at a project other than the current directory.`

	projectRootFlagName        = "project-root"
	projectRootFlagDescription = "project root directory (defaults to PROJECT_ROOT or the current directory)"
	configFileFlagName         = "config"
	configFileFlagDescription  = "configuration file path or name"
	disableConfigFlagName      = "no-config"
	disableConfigDescription   = "ignore configuration files and use defaults"
	projectNameFlagName        = "project-name"
	projectNameFlagDescription = "override the project name"
	quietFlagName              = "quiet"
	quietFlagDescription       = "suppress warnings and informational output"
	verboseFlagName            = "verbose"
	verboseFlagShorthand       = "v"
	verboseFlagDescription     = "increase logging verbosity (repeatable)"
	versionFlagName            = "version"
	versionFlagDescription     = "display application version"
	versionTemplate            = "xcontext version: %s\n"
)

// applicationState carries persistent flag values and the resolved logger
// shared by every command.
type applicationState struct {
	projectRootFlag string
	configFileFlag  string
	disableConfig   bool
	projectNameFlag string
	quiet           bool
	verbosity       int

	logger *zap.Logger
}

// initializeLogger builds the application logger from the quiet and
// verbosity flags.
func (state *applicationState) initializeLogger() error {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(state.quiet, state.verbosity)
	if loggerInitializationError != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError)
	}
	state.logger = loggerInstance
	return nil
}

// loadConfiguration resolves the project root and configuration file, loads
// the configuration, and applies persistent flag overrides.
func (state *applicationState) loadConfiguration() (string, string, *config.Config, error) {
	projectRoot, projectRootError := config.DetermineProjectRoot(state.projectRootFlag)
	if projectRootError != nil {
		return "", "", nil, projectRootError
	}
	configPath, configPathError := config.ResolveConfigPath(projectRoot, state.configFileFlag, state.disableConfig)
	if configPathError != nil {
		return "", "", nil, configPathError
	}
	configuration, loadError := config.Load(configPath)
	if loadError != nil {
		return "", "", nil, loadError
	}
	if state.projectNameFlag != "" {
		configuration.General.ProjectName = state.projectNameFlag
	}
	return projectRoot, configPath, configuration, nil
}

// Execute runs the xcontext application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	state := &applicationState{}
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
			return state.initializeLogger()
		},
	}

	persistentFlags := rootCommand.PersistentFlags()
	persistentFlags.StringVar(&state.projectRootFlag, projectRootFlagName, "", projectRootFlagDescription)
	persistentFlags.StringVar(&state.configFileFlag, configFileFlagName, "", configFileFlagDescription)
	persistentFlags.BoolVar(&state.disableConfig, disableConfigFlagName, false, disableConfigDescription)
	persistentFlags.StringVar(&state.projectNameFlag, projectNameFlagName, "", projectNameFlagDescription)
	persistentFlags.BoolVar(&state.quiet, quietFlagName, false, quietFlagDescription)
	persistentFlags.CountVarP(&state.verbosity, verboseFlagName, verboseFlagShorthand, verboseFlagDescription)
	persistentFlags.BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(
		createGenerateCommand(state),
		createQuickCommand(state),
		createWatchCommand(state),
		createMetricsCommand(state),
		createShowCommand(state),
		createDebugCommand(state),
		createInitCommand(state),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}
