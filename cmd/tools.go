package cmd

import (
	"github.com/spf13/cobra"
)

var listToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the MCP tools offered by toximcp",
	Args:  cobra.NoArgs,
	RunE:  runListTools,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "2",
	},
}

func init() {
	rootCmd.AddCommand(listToolsCmd)
}

func runListTools(cmd *cobra.Command, args []string) error {
	s, _, err := newCatalog()
	if err != nil {
		return err
	}
	list, err := s.ListTools()
	if err != nil {
		return err
	}

	for i, t := range list {
		cmd.Printf("%d. %s\n", i+1, t.Name)
		cmd.Printf("   %s\n", t.Description)
	}
	cmd.Println()
	cmd.Println("Run 'toximcp usage <name>' to see a tool's input parameters.")
	return nil
}
