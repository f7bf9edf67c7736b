package commands

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/b2bi-client/internal/constants"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect CLI configuration",
		Long:  "Inspect the B2Bi CLI configuration resolved from the config file, environment and flags",
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the resolved configuration with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := LoadSettings().Masked()

			switch output := viper.GetString("output"); output {
			case constants.FormatJSON, constants.FormatYAML:
				return renderValue(cmd.OutOrStdout(), output, settings)
			default:
				return displayConfigTable(cmd.OutOrStdout(), settings, viper.ConfigFileUsed())
			}
		},
	}
}

func displayConfigTable(w io.Writer, settings *Settings, configFile string) error {
	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")

	rows := [][]string{
		{"Config File", valueOrNA(configFile)},
		{"REST URL", valueOrNA(settings.RESTURL)},
		{"WS URL", valueOrNA(settings.WSURL)},
		{"Username", valueOrNA(settings.Username)},
		{"Password", valueOrNA(settings.Password)},
		{"Token", valueOrNA(settings.Token)},
		{"Page Size", fmt.Sprintf("%d", settings.PageSize)},
		{"Timeout", settings.Timeout.String()},
		{"Dry Run", fmt.Sprintf("%t", settings.DryRun)},
		{"Output", valueOrNA(settings.Output)},
		{"Cache Type", valueOrNA(settings.Cache.Type)},
		{"Cache Dir", valueOrNA(settings.Cache.Dir)},
		{"Cache TTL", settings.Cache.TTL.String()},
	}

	for _, row := range rows {
		_ = table.Append(row)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render config table: %w", err)
	}

	return nil
}

func valueOrNA(value string) string {
	if value == "" {
		return NotAvailable
	}

	return value
}
