package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/toximcp/toximcp/pkg/types"
)

const defaultToxicity = 1.0

// toxicSpec is a toxic creation request with every default resolved.
type toxicSpec struct {
	proxyName string
	toxic     types.Toxic
}

// resolveToxic resolves the arguments shared by all the toxic creation tools.
// The type-specific attributes are filled in by the caller.
func resolveToxic(args arguments, toxicType types.ToxicType) (*toxicSpec, error) {
	proxyName, err := args.requireString("proxyName")
	if err != nil {
		return nil, err
	}
	direction, err := types.ValidateStreamDirection(args.stringOr("direction", ""))
	if err != nil {
		return nil, err
	}

	return &toxicSpec{
		proxyName: proxyName,
		toxic: types.Toxic{
			Name:       args.stringOr("toxicName", string(toxicType)+"_toxic"),
			Type:       string(toxicType),
			Stream:     string(direction),
			Toxicity:   args.numberOr("toxicity", defaultToxicity),
			Attributes: types.Attributes{},
		},
	}, nil
}

func resolveLatencyToxic(args arguments) (*toxicSpec, error) {
	latency, err := args.requireNumber("latency")
	if err != nil {
		return nil, err
	}
	spec, err := resolveToxic(args, types.ToxicTypeLatency)
	if err != nil {
		return nil, err
	}
	spec.toxic.Attributes["latency"] = int64(latency)
	spec.toxic.Attributes["jitter"] = int64(args.numberOr("jitter", 0))
	return spec, nil
}

func resolveBandwidthToxic(args arguments) (*toxicSpec, error) {
	rate, err := args.requireNumber("rate")
	if err != nil {
		return nil, err
	}
	spec, err := resolveToxic(args, types.ToxicTypeBandwidth)
	if err != nil {
		return nil, err
	}
	spec.toxic.Attributes["rate"] = int64(rate)
	return spec, nil
}

func resolveTimeoutToxic(args arguments) (*toxicSpec, error) {
	timeout, err := args.requireNumber("timeout")
	if err != nil {
		return nil, err
	}
	spec, err := resolveToxic(args, types.ToxicTypeTimeout)
	if err != nil {
		return nil, err
	}
	spec.toxic.Attributes["timeout"] = int64(timeout)
	return spec, nil
}

func (s *ToolService) addLatencyToxic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spec, err := resolveLatencyToxic(req.GetArguments())
	if err != nil {
		return failure("Failed to add latency toxic!", err, ""), nil
	}
	return s.addToxic(ctx, "Latency", spec, func(b *strings.Builder, t *types.Toxic) {
		fmt.Fprintf(b, "- Latency: %dms\n", t.Attributes["latency"])
		fmt.Fprintf(b, "- Jitter: %dms\n", t.Attributes["jitter"])
	}, "will affect"), nil
}

func (s *ToolService) addBandwidthToxic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spec, err := resolveBandwidthToxic(req.GetArguments())
	if err != nil {
		return failure("Failed to add bandwidth toxic!", err, ""), nil
	}
	return s.addToxic(ctx, "Bandwidth", spec, func(b *strings.Builder, t *types.Toxic) {
		fmt.Fprintf(b, "- Rate limit: %d KB/s\n", t.Attributes["rate"])
	}, "will limit"), nil
}

func (s *ToolService) addTimeoutToxic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spec, err := resolveTimeoutToxic(req.GetArguments())
	if err != nil {
		return failure("Failed to add timeout toxic!", err, ""), nil
	}
	return s.addToxic(ctx, "Timeout", spec, func(b *strings.Builder, t *types.Toxic) {
		timeout := t.Attributes["timeout"]
		if timeout == int64(0) {
			fmt.Fprintf(b, "- Timeout: %dms (data will be dropped until removed)\n", timeout)
			return
		}
		fmt.Fprintf(b, "- Timeout: %dms\n", timeout)
	}, "will affect"), nil
}

// addToxic creates the toxic described by spec and renders its details.
// writeAttrs renders the type-specific attribute lines and effect completes the closing sentence.
func (s *ToolService) addToxic(
	ctx context.Context,
	kind string,
	spec *toxicSpec,
	writeAttrs func(b *strings.Builder, t *types.Toxic),
	effect string,
) *mcp.CallToolResult {
	if _, err := s.client.CreateToxic(ctx, spec.proxyName, &spec.toxic); err != nil {
		return failure(
			fmt.Sprintf("Failed to add %s toxic!", strings.ToLower(kind)),
			err,
			proxyHint(err, spec.proxyName),
		)
	}

	t := &spec.toxic
	var b strings.Builder
	fmt.Fprintf(&b, "✅ %s toxic added successfully!\n\n", kind)
	b.WriteString("**Toxic Details:**\n")
	fmt.Fprintf(&b, "- Name: %s\n", t.Name)
	fmt.Fprintf(&b, "- Proxy: %s\n", spec.proxyName)
	fmt.Fprintf(&b, "- Type: %s\n", t.Type)
	fmt.Fprintf(&b, "- Direction: %s\n", t.Stream)
	writeAttrs(&b, t)
	fmt.Fprintf(&b, "- Toxicity: %s%%\n\n", percent(t.Toxicity))

	if t.Type == string(types.ToxicTypeBandwidth) {
		fmt.Fprintf(&b, "The toxic is now active and %s %s bandwidth.", effect, t.Stream)
	} else {
		fmt.Fprintf(&b, "The toxic is now active and %s %s traffic.", effect, t.Stream)
	}
	return mcp.NewToolResultText(b.String())
}

func (s *ToolService) removeToxic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(req.GetArguments())
	proxyName, err := args.requireString("proxyName")
	if err != nil {
		return failure("Failed to remove toxic!", err, ""), nil
	}
	toxicName, err := args.requireString("toxicName")
	if err != nil {
		return failure("Failed to remove toxic!", err, ""), nil
	}

	if err := s.client.DeleteToxic(ctx, proxyName, toxicName); err != nil {
		hint := fmt.Sprintf("Make sure both the proxy '%s' and toxic '%s' exist.", proxyName, toxicName)
		if h := serverHint(err); h != "" {
			hint = h
		}
		return failure("Failed to remove toxic!", err, hint), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"✅ Toxic '%s' removed successfully from proxy '%s'!", toxicName, proxyName,
	)), nil
}

func (s *ToolService) resetProxies(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.client.Reset(ctx); err != nil {
		return failure("Failed to reset proxies!", err, serverHint(err)), nil
	}

	return mcp.NewToolResultText(
		"✅ All proxies have been reset!\n\n" +
			"- All toxics removed\n" +
			"- All proxies enabled\n" +
			"- Network conditions are back to normal",
	), nil
}
