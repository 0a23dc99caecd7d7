package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/temirov/xcontext/internal/project"
)

const (
	debugUse                            = "debug"
	debugShortDescription               = "inspect detected project state"
	debugCharacteristicsUse             = "characteristics"
	debugCharacteristicsDescription     = "list detected project characteristics"
	debugRulesUse                       = "rules"
	debugRulesDescription               = "list resolved rule sets and their origins"
	debugConfigUse                      = "config"
	debugConfigDescription              = "dump the effective configuration after merging defaults and overrides"
	debugModuleNameMessageFormat        = "module: %s\n"
	debugRuleSetHeaderFormat            = "%s (%s, %d rules)\n"
	effectiveConfigSerializationFailure = "serializing effective configuration: %w"
)

func createDebugCommand(state *applicationState) *cobra.Command {
	debugCommand := &cobra.Command{
		Use:   debugUse,
		Short: debugShortDescription,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	debugCommand.AddCommand(
		createDebugCharacteristicsCommand(state),
		createDebugRulesCommand(state),
		createDebugConfigCommand(state),
	)
	return debugCommand
}

func createDebugCharacteristicsCommand(state *applicationState) *cobra.Command {
	return &cobra.Command{
		Use:   debugCharacteristicsUse,
		Short: debugCharacteristicsDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			projectRoot, _, _, loadError := state.loadConfiguration()
			if loadError != nil {
				return loadError
			}
			characteristics := project.DetectCharacteristics(projectRoot, state.logger)
			if characteristics.ModuleName != "" {
				fmt.Printf(debugModuleNameMessageFormat, characteristics.ModuleName)
			}
			for _, trait := range characteristics.Sorted() {
				fmt.Println(trait)
			}
			return nil
		},
	}
}

func createDebugRulesCommand(state *applicationState) *cobra.Command {
	return &cobra.Command{
		Use:   debugRulesUse,
		Short: debugRulesDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			projectRoot, _, configuration, loadError := state.loadConfiguration()
			if loadError != nil {
				return loadError
			}
			characteristics := project.DetectCharacteristics(projectRoot, state.logger)
			resolvedRules := project.ResolveRules(&configuration.Rules, projectRoot, characteristics, configuration.RulesEnabled(), state.logger)

			ruleSetNames := make([]string, 0, len(resolvedRules.RuleSets))
			ruleSetsByName := make(map[string]project.RuleSet, len(resolvedRules.RuleSets))
			for _, ruleSet := range resolvedRules.RuleSets {
				ruleSetNames = append(ruleSetNames, ruleSet.Name)
				ruleSetsByName[ruleSet.Name] = ruleSet
			}
			sort.Strings(ruleSetNames)
			for _, ruleSetName := range ruleSetNames {
				ruleSet := ruleSetsByName[ruleSetName]
				fmt.Printf(debugRuleSetHeaderFormat, ruleSetName, resolvedRules.Origins[ruleSetName], len(ruleSet.Rules))
			}
			return nil
		},
	}
}

func createDebugConfigCommand(state *applicationState) *cobra.Command {
	return &cobra.Command{
		Use:   debugConfigUse,
		Short: debugConfigDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			_, configPath, configuration, loadError := state.loadConfiguration()
			if loadError != nil {
				return loadError
			}
			if configPath != "" {
				fmt.Printf(configInEffectMessageFormat, configPath)
			}
			serialized, marshalError := yaml.Marshal(configuration)
			if marshalError != nil {
				return fmt.Errorf(effectiveConfigSerializationFailure, marshalError)
			}
			fmt.Print(string(serialized))
			return nil
		},
	}
}
