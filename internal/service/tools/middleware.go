package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/toximcp/toximcp/internal/telemetry"
	"go.uber.org/zap"
)

// validated wraps a tool handler so that it only runs with arguments accepted by the tool's input schema.
// Rejected arguments produce a failure report and no Toxiproxy call is made.
func validated(toolName string, schema *jsonschema.Schema, next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := validateArguments(schema, req.GetArguments()); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf(
				"❌ Invalid arguments for tool '%s'!\n\nError: %s", toolName, err,
			)), nil
		}
		return next(ctx, req)
	}
}

// validateArguments checks the arguments of a call against a compiled input schema.
func validateArguments(schema *jsonschema.Schema, args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("arguments are not valid JSON: %w", err)
	}
	// the validator wants the same value shapes it would get from parsing the wire payload
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("arguments are not valid JSON: %w", err)
	}
	return schema.Validate(doc)
}

// instrument wraps a tool handler with logging and metrics.
// Each call gets an id that ties its log lines together.
func (s *ToolService) instrument(toolName string, next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		logger := s.logger.With(
			zap.String("tool", toolName),
			zap.String("call_id", uuid.NewString()),
		)
		logger.Debug("tool call received", zap.Any("arguments", req.GetArguments()))

		start := time.Now()
		res, err := next(ctx, req)
		elapsed := time.Since(start)

		outcome := telemetry.ToolCallOutcomeSuccess
		switch {
		case err != nil:
			outcome = telemetry.ToolCallOutcomeError
			logger.Error("tool call failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		case res == nil || res.IsError:
			outcome = telemetry.ToolCallOutcomeError
			logger.Warn("tool call reported a failure", zap.Duration("elapsed", elapsed))
		default:
			logger.Info("tool call completed", zap.Duration("elapsed", elapsed))
		}
		s.metrics.RecordToolCall(ctx, toolName, outcome, elapsed)

		return res, err
	}
}
