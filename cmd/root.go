// Package cmd implements the toximcp command line interface.
package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/toximcp/toximcp/client"
	"github.com/toximcp/toximcp/internal/service/tools"
	"github.com/toximcp/toximcp/internal/telemetry"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ToxiproxyURLEnvVar = "TOXIPROXY_URL"
	LogLevelEnvVar     = "LOG_LEVEL"

	LogLevelDefault = "info"
)

type subCommandGroup string

const (
	subCommandGroupBasic    subCommandGroup = "basic"
	subCommandGroupAdvanced subCommandGroup = "advanced"
)

var (
	rootCmdToxiproxyURL string
	rootCmdLogLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "toximcp",
	Short: "MCP server for network fault injection with Toxiproxy",
	Long: "toximcp exposes a Toxiproxy server to AI agents as a set of MCP tools.\n\n" +
		"Agents can create proxies in front of databases and message brokers, inject latency,\n" +
		"bandwidth limits and timeouts, and get guided troubleshooting of their setup.\n\n" +
		"Configuration is read from flags, then environment variables (optionally from a .env file).",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// a missing .env file is not an error
		_ = godotenv.Load()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&rootCmdToxiproxyURL,
		"toxiproxy-url",
		"",
		fmt.Sprintf(
			"base URL of the Toxiproxy admin API (overrides env var %s, default %s)",
			ToxiproxyURLEnvVar, client.DefaultBaseURL,
		),
	)
	rootCmd.PersistentFlags().StringVar(
		&rootCmdLogLevel,
		"log-level",
		"",
		fmt.Sprintf(
			"log level: debug, info, warn or error (overrides env var %s, default %s)",
			LogLevelEnvVar, LogLevelDefault,
		),
	)
}

// Execute runs the root command.
func Execute() error {
	organizeCommands(rootCmd)
	return rootCmd.Execute()
}

// organizeCommands puts the subcommands into help groups and orders them by their annotations.
func organizeCommands(root *cobra.Command) {
	cobra.EnableCommandSorting = false

	if !root.ContainsGroup(string(subCommandGroupBasic)) {
		root.AddGroup(
			&cobra.Group{ID: string(subCommandGroupBasic), Title: "Basic Commands:"},
			&cobra.Group{ID: string(subCommandGroupAdvanced), Title: "Advanced Commands:"},
		)
	}

	cmds := root.Commands()
	sort.SliceStable(cmds, func(i, j int) bool {
		return commandOrder(cmds[i]) < commandOrder(cmds[j])
	})
	root.ResetCommands()
	for _, c := range cmds {
		if g, ok := c.Annotations["group"]; ok {
			c.GroupID = g
		}
		root.AddCommand(c)
	}
}

func commandOrder(c *cobra.Command) int {
	o, err := strconv.Atoi(c.Annotations["order"])
	if err != nil {
		return 1 << 30
	}
	return o
}

// getToxiproxyURL returns the base URL of the Toxiproxy admin API
// precedence: command line flag > environment variable > default
func getToxiproxyURL() string {
	u := rootCmdToxiproxyURL
	if u == "" {
		u = os.Getenv(ToxiproxyURLEnvVar)
	}
	if u == "" {
		u = client.DefaultBaseURL
	}
	return u
}

// getLogLevel returns the log level
// precedence: command line flag > environment variable > default
func getLogLevel() string {
	l := rootCmdLogLevel
	if l == "" {
		l = os.Getenv(LogLevelEnvVar)
	}
	if l == "" {
		l = LogLevelDefault
	}
	return l
}

// newLogger builds the JSON logger shared by all components.
// Logs go to stderr because stdout carries the MCP stdio transport.
func newLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf(
			"invalid log level '%s', valid values are 'debug', 'info', 'warn' and 'error'", level,
		)
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// newToolService creates the tool catalog backed by the configured Toxiproxy server.
func newToolService(logger *zap.Logger, metrics telemetry.CustomMetrics) (*tools.ToolService, error) {
	c := client.NewClient(getToxiproxyURL(), nil)
	s, err := tools.NewToolService(&tools.ServiceConfig{
		Client:  c,
		Logger:  logger,
		Metrics: metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tool service: %w", err)
	}
	return s, nil
}

// newCatalog creates a logger and a tool catalog for the commands that run tools in-process.
func newCatalog() (*tools.ToolService, *zap.Logger, error) {
	logger, err := newLogger(getLogLevel())
	if err != nil {
		return nil, nil, err
	}
	s, err := newToolService(logger, nil)
	if err != nil {
		return nil, nil, err
	}
	return s, logger, nil
}
