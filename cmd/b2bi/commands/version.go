package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// VersionInfo describes the CLI build.
type VersionInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit"  yaml:"commit"`
	Built   string `json:"built"   yaml:"built"`
}

// NewVersionCommand creates the version command
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display detailed version information about the B2Bi CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderValue(cmd.OutOrStdout(), viper.GetString("output"), VersionInfo{
				Version: version,
				Commit:  commit,
				Built:   date,
			})
		},
	}
}
