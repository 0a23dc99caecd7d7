package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/xcontext/internal/config"
)

const (
	initUse              = "init"
	initShortDescription = "write the default configuration file"
	initLongDescription  = `Write the default configuration into ` + config.DefaultConfigDirectory + `/` + config.DefaultConfigFileName + `
under the project root. Refuses to overwrite an existing file unless --force
is given.`
	forceFlagName             = "force"
	forceFlagDescription      = "overwrite an existing configuration file"
	configWrittenFormat       = "Configuration written to %s\n"
)

func createInitCommand(state *applicationState) *cobra.Command {
	var overwriteExisting bool
	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			projectRoot, projectRootError := config.DetermineProjectRoot(state.projectRootFlag)
			if projectRootError != nil {
				return projectRootError
			}
			writtenPath, writeError := config.WriteDefaultConfig(projectRoot, overwriteExisting)
			if writeError != nil {
				return writeError
			}
			if !state.quiet {
				fmt.Printf(configWrittenFormat, writtenPath)
			}
			return nil
		},
	}
	initCommand.Flags().BoolVar(&overwriteExisting, forceFlagName, false, forceFlagDescription)
	return initCommand
}
