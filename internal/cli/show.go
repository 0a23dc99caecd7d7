package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/temirov/xcontext/internal/config"
	"github.com/temirov/xcontext/internal/project"
)

const (
	showUse                      = "show"
	showShortDescription         = "display configuration and prompt resources"
	showDefaultsUse              = "defaults"
	showDefaultsShortDescription = "print the default configuration file"
	showConfigUse                = "config"
	showConfigShortDescription   = "print the configuration file in effect"
	showPromptUse                = "prompt [name]"
	showPromptShortDescription   = "print a prompt, or list available prompts"
	noConfigInEffectMessage      = "No configuration file in effect; defaults apply. Run 'xcontext init' to create one.\n"
	configInEffectMessageFormat  = "# %s\n"
	unknownPromptMessageFormat   = "unknown prompt %q"
)

func createShowCommand(state *applicationState) *cobra.Command {
	showCommand := &cobra.Command{
		Use:   showUse,
		Short: showShortDescription,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	showCommand.AddCommand(
		createShowDefaultsCommand(),
		createShowConfigCommand(state),
		createShowPromptCommand(state),
	)
	return showCommand
}

func createShowDefaultsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   showDefaultsUse,
		Short: showDefaultsShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			fmt.Print(config.DefaultConfigTOML())
			return nil
		},
	}
}

func createShowConfigCommand(state *applicationState) *cobra.Command {
	return &cobra.Command{
		Use:   showConfigUse,
		Short: showConfigShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			projectRoot, projectRootError := config.DetermineProjectRoot(state.projectRootFlag)
			if projectRootError != nil {
				return projectRootError
			}
			configPath, configPathError := config.ResolveConfigPath(projectRoot, state.configFileFlag, state.disableConfig)
			if configPathError != nil {
				return configPathError
			}
			if configPath == "" {
				fmt.Print(noConfigInEffectMessage)
				return nil
			}
			configContent, readError := os.ReadFile(configPath)
			if readError != nil {
				return fmt.Errorf("reading configuration file %s: %w", configPath, readError)
			}
			fmt.Printf(configInEffectMessageFormat, configPath)
			fmt.Print(string(configContent))
			return nil
		},
	}
}

func createShowPromptCommand(state *applicationState) *cobra.Command {
	return &cobra.Command{
		Use:   showPromptUse,
		Short: showPromptShortDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			projectRoot, _, configuration, loadError := state.loadConfiguration()
			if loadError != nil {
				return loadError
			}
			prompts := project.ResolvePrompts(&configuration.Prompts, projectRoot, state.logger)
			if len(arguments) == 0 {
				promptNames := make([]string, 0, len(prompts))
				for promptName := range prompts {
					promptNames = append(promptNames, promptName)
				}
				sort.Strings(promptNames)
				for _, promptName := range promptNames {
					fmt.Println(promptName)
				}
				return nil
			}

			promptText, promptFound := prompts[arguments[0]]
			if !promptFound {
				// Allow bare names for the predefined prompts.
				promptText, promptFound = prompts["static:"+arguments[0]]
			}
			if !promptFound {
				return fmt.Errorf(unknownPromptMessageFormat, arguments[0])
			}
			fmt.Println(promptText)
			return nil
		},
	}
}
