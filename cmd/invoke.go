package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toximcp/toximcp/internal/service/tools"
)

var invokeCmdInput string

var invokeToolCmd = &cobra.Command{
	Use:   "invoke <name>",
	Short: "Invoke a toximcp tool against the configured Toxiproxy server",
	Long: "Runs a tool directly, without an MCP client, and prints its report.\n" +
		"Tool arguments are passed as a JSON object, eg:\n\n" +
		"  toximcp invoke add_latency_toxic --input '{\"proxyName\": \"postgres_proxy\", \"latency\": 500}'\n\n" +
		"The command exits with an error if the tool reports a failure.",
	Args: cobra.ExactArgs(1),
	RunE: runInvokeTool,
	Annotations: map[string]string{
		"group": string(subCommandGroupBasic),
		"order": "4",
	},
}

func init() {
	invokeToolCmd.Flags().StringVar(
		&invokeCmdInput,
		"input",
		"{}",
		"JSON object holding the tool arguments",
	)
	rootCmd.AddCommand(invokeToolCmd)
}

func runInvokeTool(cmd *cobra.Command, args []string) error {
	var input map[string]any
	if err := json.Unmarshal([]byte(invokeCmdInput), &input); err != nil {
		return fmt.Errorf("invalid input: %w", err)
	}

	s, logger, err := newCatalog()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	res, err := s.InvokeTool(cmd.Context(), args[0], input)
	if err != nil {
		return fmt.Errorf("failed to invoke tool '%s': %w", args[0], err)
	}

	cmd.Println(tools.ResultText(res))
	if res.IsError {
		return errors.New("the tool reported a failure")
	}
	return nil
}
