package config

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/orca-network/orca/cli/helpers"
	"github.com/orca-network/orca/pkg/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// NewConfigCommand creates the config command.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management and diagnostics",
	}
	cmd.AddCommand(
		newShowCommand(),
		newValidateCommand(),
	)
	return cmd
}

func newShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration values and their sources",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			showSources, err := cmd.Flags().GetBool("sources")
			if err != nil {
				return fmt.Errorf("failed to get sources flag: %w", err)
			}
			cfg, loader, err := helpers.LoadConfig(cmd)
			if err != nil {
				return err
			}
			var sourceOf func(string) config.SourceType
			if showSources {
				sourceOf = loader.SourceOf
			}
			return formatConfigOutput(cmd.OutOrStdout(), cfg, sourceOf, format)
		},
	}
	cmd.Flags().StringP("format", "f", formatTable, "Output format (json, yaml, table)")
	cmd.Flags().Bool("sources", false, "Show which source provided each value")
	return cmd
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, _, err := helpers.LoadConfig(cmd); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
			return err
		},
	}
}

// formatConfigOutput renders cfg with secrets redacted. sourceOf may be nil.
func formatConfigOutput(w io.Writer, cfg *config.Config, sourceOf func(string) config.SourceType, format string) error {
	tree := configTree(reflect.ValueOf(cfg).Elem())
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tree)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return err
		}
		return enc.Close()
	case formatTable:
		return writeTable(w, tree, sourceOf)
	default:
		return fmt.Errorf("unsupported format %q: use json, yaml or table", format)
	}
}

// configTree walks the koanf tags so output keys match the YAML keys.
func configTree(v reflect.Value) map[string]any {
	out := make(map[string]any)
	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		key := field.Tag.Get("koanf")
		if key == "" || !field.IsExported() {
			continue
		}
		fv := v.Field(i)
		if fv.Kind() == reflect.Struct && fv.Type().PkgPath() == t.PkgPath() {
			out[key] = configTree(fv)
			continue
		}
		out[key] = leafValue(fv)
	}
	return out
}

func leafValue(v reflect.Value) any {
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return v.Interface()
}

func writeTable(w io.Writer, tree map[string]any, sourceOf func(string) config.SourceType) error {
	flat := make(map[string]any)
	flatten("", tree, flat)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := "KEY\tVALUE"
	if sourceOf != nil {
		header += "\tSOURCE"
	}
	fmt.Fprintln(tw, header)
	for _, k := range keys {
		line := fmt.Sprintf("%s\t%v", k, flat[k])
		if sourceOf != nil {
			src := sourceOf(k)
			if src == "" {
				src = config.SourceDefault
			}
			line += "\t" + string(src)
		}
		fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}

func flatten(prefix string, m map[string]any, out map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = strings.Join([]string{prefix, k}, ".")
		}
		if nested, ok := v.(map[string]any); ok {
			flatten(key, nested, out)
			continue
		}
		out[key] = v
	}
}
