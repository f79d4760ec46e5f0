// Package format renders resolved configuration values in the output
// formats the CLI exposes: yaml, json, a newline list, or a quoted
// command-line fragment.
package format

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// PrintFormat names an output format.
type PrintFormat string

// Supported output formats.
const (
	FormatList PrintFormat = "list"
	FormatCLI  PrintFormat = "cli"
	FormatYAML PrintFormat = "yaml"
	FormatJSON PrintFormat = "json"
)

// Parse validates a format name.
func Parse(name string) (PrintFormat, error) {
	switch PrintFormat(name) {
	case FormatList, FormatCLI, FormatYAML, FormatJSON:
		return PrintFormat(name), nil
	default:
		return "", fmt.Errorf("unknown format %q (expected list, cli, yaml or json)", name)
	}
}

// Sprint renders val in the given format. Mappings render as flattened
// key/value pairs in the list and cli formats (keys sorted for
// determinism); nested values inside a list render as compact JSON. The
// cli format quotes each element when quote is true.
func Sprint(f PrintFormat, val any, quote bool) (string, error) {
	if m, ok := val.(map[string]any); ok && (f == FormatList || f == FormatCLI) {
		val = flattenMap(m)
	}

	switch f {
	case FormatList:
		items, err := listItems(val)
		if err != nil {
			return "", err
		}
		return strings.Join(items, "\n"), nil
	case FormatCLI:
		items, err := listItems(val)
		if err != nil {
			return "", err
		}
		if quote {
			for i, item := range items {
				items[i] = Quote(item)
			}
		}
		return strings.Join(items, " "), nil
	case FormatYAML:
		out, err := yaml.Marshal(val)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(out), "\n"), nil
	case FormatJSON:
		out, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unknown format %q", f)
	}
}

func flattenMap(m map[string]any) []any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	flat := make([]any, 0, len(m)*2)
	for _, k := range keys {
		flat = append(flat, k, m[k])
	}
	return flat
}

func listItems(val any) ([]string, error) {
	list, ok := val.([]any)
	if !ok {
		return []string{printValue(val)}, nil
	}
	items := make([]string, len(list))
	for i, v := range list {
		items[i] = printValue(v)
	}
	return items, nil
}

// printValue renders a single list element: nested collections as compact
// JSON, scalars as plain strings.
func printValue(v any) string {
	switch v.(type) {
	case map[string]any, []any:
		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(out)
	case nil:
		return "null"
	default:
		return fmt.Sprint(v)
	}
}
