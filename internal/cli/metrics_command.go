package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/temirov/xcontext/internal/gather"
	"github.com/temirov/xcontext/internal/metrics"
)

const (
	metricsUse              = "metrics"
	metricsShortDescription = "report size and token statistics for gathered files"
	metricsLongDescription  = `Gather the project's source and documentation files and report line, byte,
and token counts per file, with totals. Token counts use the cl100k_base
encoding and are omitted when the encoding cannot be loaded.`
	metricsFormatDescription   = "metrics output format: table, json, or yaml"
	metricsFormatTable         = "table"
	unsupportedMetricsFormat   = "unsupported metrics format %q (expected table, json, or yaml)"
	metricsSerializationFailed = "serializing metrics: %w"
)

func createMetricsCommand(state *applicationState) *cobra.Command {
	var metricsFormat string
	metricsCommand := &cobra.Command{
		Use:   metricsUse,
		Short: metricsShortDescription,
		Long:  metricsLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			projectRoot, _, configuration, loadError := state.loadConfiguration()
			if loadError != nil {
				return loadError
			}
			gatherResult, gatherError := gather.Gather(projectRoot, configuration, state.quiet, state.logger)
			if gatherError != nil {
				return gatherError
			}

			measuredFiles := make([]gather.FileInfo, 0, len(gatherResult.SourceFiles)+len(gatherResult.DocsFiles))
			measuredFiles = append(measuredFiles, gatherResult.SourceFiles...)
			measuredFiles = append(measuredFiles, gatherResult.DocsFiles...)

			calculator := metrics.NewCalculator(state.logger)
			projectMetrics := calculator.Compute(measuredFiles, projectRoot)

			switch metricsFormat {
			case metricsFormatTable:
				fmt.Print(projectMetrics.RenderTable())
			case "json":
				serialized, marshalError := json.MarshalIndent(projectMetrics, "", "  ")
				if marshalError != nil {
					return fmt.Errorf(metricsSerializationFailed, marshalError)
				}
				fmt.Println(string(serialized))
			case "yaml":
				serialized, marshalError := yaml.Marshal(projectMetrics)
				if marshalError != nil {
					return fmt.Errorf(metricsSerializationFailed, marshalError)
				}
				fmt.Print(string(serialized))
			default:
				return fmt.Errorf(unsupportedMetricsFormat, metricsFormat)
			}
			return nil
		},
	}
	metricsCommand.Flags().StringVar(&metricsFormat, formatFlagName, metricsFormatTable, metricsFormatDescription)
	return metricsCommand
}
