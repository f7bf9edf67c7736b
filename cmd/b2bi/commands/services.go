package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/b2bi-client/internal/constants"
	"github.com/fivetwenty-io/b2bi-client/pkg/b2bi"
)

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get SERVICE KEY",
		Short: "Get an item",
		Long:  "Fetch one item of a REST service by key",
		Args:  cobra.ExactArgs(2), //nolint:mnd // service and key
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			payload, err := client.Get(commandContext(cmd), args[0], args[1])
			if err != nil {
				return err
			}

			return renderPayload(cmd.OutOrStdout(), viper.GetString("output"), payload)
		},
	}
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var (
		sortKeys   []string
		include    []string
		exclude    []string
		filters    []string
		singlePage bool
		offset     int
	)

	cmd := &cobra.Command{
		Use:   "list SERVICE",
		Short: "List items",
		Long:  "List the items of a REST service, following pagination unless --single-page is set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := buildQueryParams(sortKeys, include, exclude, filters)
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)
			service := args[0]

			var items []json.RawMessage

			if singlePage {
				page, err := client.FetchPage(ctx, service, params.WithOffset(offset))
				if err != nil {
					return err
				}

				items = page.Items
				if page.More {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "More items available, next offset: %d\n", page.Offset+len(page.Items))
				}
			} else {
				items, err = client.FetchAll(ctx, service, params)
				if err != nil {
					return err
				}
			}

			if items == nil {
				items = []json.RawMessage{}
			}

			return renderValue(cmd.OutOrStdout(), viper.GetString("output"), items)
		},
	}

	cmd.Flags().StringSliceVar(&sortKeys, "sort", nil, "sort keys")
	cmd.Flags().StringSliceVar(&include, "include", nil, "fields to include")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "fields to exclude")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "filter as key=value (repeatable)")
	cmd.Flags().BoolVar(&singlePage, "single-page", false, "fetch a single page only")
	cmd.Flags().IntVar(&offset, "offset", 0, "offset of the page when --single-page is set")

	return cmd
}

// NewCreateCommand creates the create command.
func NewCreateCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create SERVICE",
		Short: "Create an item",
		Long:  "Create an item of a REST service from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readBody(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			resp, err := client.Create(commandContext(cmd), args[0], body)
			if err != nil {
				return err
			}

			return renderMutation(cmd, constants.OperationCreate, args[0], resp)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON or YAML file with the item (- for stdin)")

	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "update SERVICE KEY",
		Short: "Update an item",
		Long:  "Replace an item of a REST service with the content of a JSON or YAML file",
		Args:  cobra.ExactArgs(2), //nolint:mnd // service and key
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readBody(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			resp, err := client.Update(commandContext(cmd), args[0], args[1], body)
			if err != nil {
				return err
			}

			return renderMutation(cmd, constants.OperationUpdate, args[0], resp)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON or YAML file with the item (- for stdin)")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete SERVICE KEY",
		Short: "Delete an item",
		Long:  "Delete an item of a REST service by key",
		Args:  cobra.ExactArgs(2), //nolint:mnd // service and key
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := CreateClient(cmd)
			if err != nil {
				return err
			}

			resp, err := client.Delete(commandContext(cmd), args[0], args[1])
			if err != nil {
				return err
			}

			return renderMutation(cmd, constants.OperationDelete, args[0], resp)
		},
	}
}

func renderMutation(cmd *cobra.Command, operation, service string, resp *b2bi.ServiceResponse) error {
	if resp.DryRun {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Dry run: %s %s not sent\n", operation, service)
	}

	if len(strings.TrimSpace(string(resp.Payload))) == 0 {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s: status %d\n", operation, service, resp.StatusCode)

		return err
	}

	return renderPayload(cmd.OutOrStdout(), viper.GetString("output"), resp.Payload)
}

// buildQueryParams converts list flags to query parameters.
func buildQueryParams(sortKeys, include, exclude, filters []string) (*b2bi.QueryParams, error) {
	params := b2bi.NewQueryParams().
		WithSort(sortKeys...).
		WithIncludeFields(include...).
		WithExcludeFields(exclude...)

	pairs, err := parseKeyValueArgs(filters)
	if err != nil {
		return nil, err
	}

	for key, value := range pairs {
		params.WithFilter(key, value)
	}

	return params, nil
}

// parseKeyValueArgs parses key=value arguments.
func parseKeyValueArgs(args []string) (map[string]string, error) {
	pairs := make(map[string]string, len(args))

	for _, arg := range args {
		parts := strings.SplitN(arg, "=", constants.KeyValueSplitParts)
		if len(parts) != constants.KeyValueSplitParts || parts[0] == "" {
			return nil, fmt.Errorf("%w: %s", constants.ErrInvalidKeyValueArg, arg)
		}

		pairs[parts[0]] = parts[1]
	}

	return pairs, nil
}

// readBody reads a request body from file, or from stdin when file is "-".
// YAML files (.yml, .yaml) are converted to JSON.
func readBody(stdin io.Reader, file string) ([]byte, error) {
	if file == "" {
		return nil, constants.ErrBodyRequired
	}

	var (
		data []byte
		err  error
	)

	if file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		// file is the user's own input path
		// #nosec G304
		data, err = os.ReadFile(file)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".yml", ".yaml":
		return yamlToJSON(data)
	default:
		if !json.Valid(data) {
			return nil, fmt.Errorf("%w: %s", b2bi.ErrMalformedJSON, file)
		}

		return data, nil
	}
}

func yamlToJSON(data []byte) ([]byte, error) {
	var value interface{}

	err := yaml.Unmarshal(data, &value)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	body, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML to JSON: %w", err)
	}

	return body, nil
}
