package cmd

import (
	"github.com/spf13/cobra"
	"github.com/toximcp/toximcp/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of toximcp",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("toximcp %s\n", version.GetVersion())
	},
	Annotations: map[string]string{
		"group": string(subCommandGroupAdvanced),
		"order": "5",
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
