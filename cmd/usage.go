package cmd

import (
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var usageCmdOutput string

var usageCmd = &cobra.Command{
	Use:   "usage <name>",
	Short: "Get usage information for a toximcp tool",
	Args:  cobra.ExactArgs(1),
	RunE:  runGetToolUsage,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "3",
	},
}

func init() {
	usageCmd.Flags().StringVarP(
		&usageCmdOutput,
		"output",
		"o",
		"text",
		"output format: 'text', 'json' or 'yaml'",
	)
	rootCmd.AddCommand(usageCmd)
}

func runGetToolUsage(cmd *cobra.Command, args []string) error {
	s, _, err := newCatalog()
	if err != nil {
		return err
	}
	t, err := s.GetTool(args[0])
	if err != nil {
		return fmt.Errorf("failed to get tool '%s': %w", args[0], err)
	}

	switch usageCmdOutput {
	case "json":
		j, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal tool '%s': %w", t.Name, err)
		}
		cmd.Println(string(j))
		return nil
	case "yaml":
		y, err := yaml.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to marshal tool '%s': %w", t.Name, err)
		}
		cmd.Print(string(y))
		return nil
	case "text":
	default:
		return fmt.Errorf("invalid output format '%s', valid values are 'text', 'json' and 'yaml'", usageCmdOutput)
	}

	cmd.Println(t.Name)
	if t.Title != "" {
		cmd.Println(t.Title)
	}
	cmd.Println(t.Description)

	if len(t.InputSchema.Properties) == 0 {
		cmd.Println("This tool does not require any input parameters.")
		return nil
	}

	names := make([]string, 0, len(t.InputSchema.Properties))
	for k := range t.InputSchema.Properties {
		names = append(names, k)
	}
	sort.Strings(names)

	cmd.Println()
	cmd.Println("Input Parameters:")
	for _, k := range names {
		v := t.InputSchema.Properties[k]
		requiredOrOptional := "optional"
		if slices.Contains(t.InputSchema.Required, k) {
			requiredOrOptional = "required"
		}

		boundary := strings.Repeat("=", len(k)+len(requiredOrOptional)+20)

		cmd.Println(boundary)
		cmd.Printf("%s (%s)\n", k, requiredOrOptional)

		j, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			// Simply print the raw object if we fail to marshal it
			cmd.Println(v)
		} else {
			cmd.Println(string(j))
		}
		cmd.Println(boundary)

		cmd.Println()
	}

	return nil
}
