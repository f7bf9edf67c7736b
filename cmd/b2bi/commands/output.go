package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/b2bi-client/internal/constants"
)

// NotAvailable is shown for missing table cells.
const NotAvailable = "N/A"

// validateOutput checks the output format.
func validateOutput(format string) error {
	switch format {
	case constants.FormatJSON, constants.FormatYAML, constants.FormatTable, "":
		return nil
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownOutput, format)
	}
}

// renderValue writes any value in the requested format. Tables render the
// value's JSON form.
func renderValue(w io.Writer, format string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	return renderPayload(w, format, data)
}

// renderPayload writes a JSON payload in the requested format.
func renderPayload(w io.Writer, format string, payload json.RawMessage) error {
	err := validateOutput(format)
	if err != nil {
		return err
	}

	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil
	}

	switch format {
	case constants.FormatJSON:
		var indented bytes.Buffer

		err := json.Indent(&indented, trimmed, "", strings.Repeat(" ", constants.JSONIndentSize))
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}

		indented.WriteByte('\n')

		_, err = indented.WriteTo(w)

		return err
	case constants.FormatYAML:
		var value interface{}

		err := json.Unmarshal(trimmed, &value)
		if err != nil {
			return fmt.Errorf("failed to decode payload: %w", err)
		}

		encoder := yaml.NewEncoder(w)
		defer func() { _ = encoder.Close() }()

		return encoder.Encode(value)
	default:
		return renderTable(w, trimmed)
	}
}

func renderTable(w io.Writer, payload []byte) error {
	var value interface{}

	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	err := decoder.Decode(&value)
	if err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}

	table := tablewriter.NewWriter(w)

	switch typed := value.(type) {
	case []interface{}:
		if len(typed) == 0 {
			_, _ = io.WriteString(w, "No items found.\n")

			return nil
		}

		columns := collectColumns(typed)

		header := make([]any, 0, len(columns))
		for _, column := range columns {
			header = append(header, column)
		}

		table.Header(header...)

		for _, item := range typed {
			_ = table.Append(buildRow(item, columns))
		}
	case map[string]interface{}:
		table.Header("Property", "Value")

		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		title := cases.Title(language.English, cases.NoLower)
		for _, key := range keys {
			_ = table.Append([]string{title.String(key), formatCell(typed[key])})
		}
	default:
		_, err := fmt.Fprintln(w, formatCell(typed))

		return err
	}

	err = table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// collectColumns returns the keys of every object row in first-seen order.
func collectColumns(items []interface{}) []string {
	seen := make(map[string]bool)

	var columns []string

	for _, item := range items {
		object, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		keys := make([]string, 0, len(object))
		for key := range object {
			keys = append(keys, key)
		}

		sort.Strings(keys)

		for _, key := range keys {
			if !seen[key] {
				seen[key] = true
				columns = append(columns, key)
			}
		}
	}

	if len(columns) == 0 {
		columns = []string{"Value"}
	}

	return columns
}

func buildRow(item interface{}, columns []string) []string {
	row := make([]string, len(columns))

	object, ok := item.(map[string]interface{})
	if !ok {
		row[0] = formatCell(item)

		return row
	}

	for i, column := range columns {
		value, exists := object[column]
		if !exists {
			row[i] = NotAvailable

			continue
		}

		row[i] = formatCell(value)
	}

	return row
}

// formatCell renders a JSON value as a single table cell.
func formatCell(value interface{}) string {
	var text string

	switch typed := value.(type) {
	case nil:
		text = ""
	case string:
		text = typed
	case json.Number:
		text = typed.String()
	case bool:
		text = fmt.Sprintf("%t", typed)
	default:
		data, err := json.Marshal(typed)
		if err != nil {
			text = fmt.Sprintf("%v", typed)
		} else {
			text = string(data)
		}
	}

	if len(text) > constants.StringTruncationLength {
		text = text[:constants.StringTruncationLength-3] + "..."
	}

	return text
}
