package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/b2bi-client/pkg/b2bi"
)

// NewWSCommand creates the ws command.
func NewWSCommand() *cobra.Command {
	var array bool

	cmd := &cobra.Command{
		Use:   "ws API [KEY=VALUE...]",
		Short: "Call a WS gateway API",
		Long: `Call an API on the WS gateway with the given parameters.

The result/row envelope is removed from the response. By default a single
object is expected; use --array when the API returns rows.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseKeyValueArgs(args[1:])
			if err != nil {
				return err
			}

			shape := b2bi.ShapeObject
			if array {
				shape = b2bi.ShapeArray
			}

			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			payload, err := client.CallWS(commandContext(cmd), args[0], params, shape)
			if err != nil {
				return err
			}

			return renderPayload(cmd.OutOrStdout(), viper.GetString("output"), payload)
		},
	}

	cmd.Flags().BoolVar(&array, "array", false, "expect an array of rows")

	return cmd
}
