package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/jsondistill/internal/distill"
)

const (
	toolDistill     = "distill_json_content"
	toolFingerprint = "json_shape_fingerprint"
)

const distillDescription = "Reverse engineer arbitrary JSON structures for LLM analysis without context overflow. " +
	"Dramatically increases information density by identifying unique structural patterns and summarizing repetition. " +
	"Shows one representative example per structure type plus summaries - perfect when you care about structure and " +
	"patterns, not individual content. Achieves 99%+ compression on repetitive data while preserving full structural information."

const fingerprintDescription = "Compute the structural fingerprint of a JSON document: an 8-character hex digest " +
	"of its canonical shape. Documents with the same fingerprint have the same structure. " +
	"Returns the fingerprint and the canonical shape text."

type distillInput struct {
	JSONString        string `json:"json_string" jsonschema:"The JSON data as a string"`
	StrictTyping      *bool  `json:"strict_typing,omitempty" jsonschema:"Use strict type checking (default: true)"`
	RepeatThreshold   *int   `json:"repeat_threshold,omitempty" jsonschema:"Minimum repeat count for summarization (default: 2)"`
	PositionDependent *bool  `json:"position_dependent,omitempty" jsonschema:"Show examples at each nesting level instead of only at the shallowest depth (default: false)"`
}

type fingerprintInput struct {
	JSONString   string `json:"json_string" jsonschema:"The JSON data as a string"`
	StrictTyping *bool  `json:"strict_typing,omitempty" jsonschema:"Use strict type checking (default: true)"`
}

type fingerprintOutput struct {
	Fingerprint string `json:"fingerprint" jsonschema:"8-character hex digest of the root shape"`
	Shape       string `json:"shape" jsonschema:"Canonical shape text the fingerprint is computed from"`
}

func (s *Server) registerTools() error {
	tools := []*ToolMetadata{
		{
			Name:        toolDistill,
			Description: distillDescription,
			Category:    CategoryDistill,
			Keywords:    []string{"json", "compress", "summarize", "structure", "schema", "patterns"},
		},
		{
			Name:        toolFingerprint,
			Description: fingerprintDescription,
			Category:    CategoryInspect,
			Keywords:    []string{"json", "shape", "hash", "compare", "structure"},
		},
		{
			Name:        toolSearch,
			Description: toolSearchDescription,
			Category:    CategorySearch,
			Keywords:    []string{"discover", "find", "tools"},
		},
		{
			Name:        toolList,
			Description: toolListDescription,
			Category:    CategorySearch,
			Keywords:    []string{"discover", "tools"},
		},
	}
	for _, tool := range tools {
		if err := s.toolRegistry.Register(tool); err != nil {
			return err
		}
	}

	s.registerDistillTools()
	s.registerSearchTools()
	return nil
}

func (s *Server) registerDistillTools() {
	// distill_json_content
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        toolDistill,
		Description: distillDescription,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args distillInput) (*mcp.CallToolResult, any, error) {
		start := time.Now()
		s.metrics.IncrementActive(ctx, toolDistill)
		var toolErr error
		defer func() {
			s.metrics.DecrementActive(ctx, toolDistill)
			s.metrics.RecordInvocation(ctx, toolDistill, time.Since(start), toolErr)
		}()

		opts := s.resolveOptions(args.StrictTyping, args.RepeatThreshold, args.PositionDependent)
		s.logger.Debug("distilling JSON",
			zap.Bool("strict_typing", opts.StrictTyping),
			zap.Int("repeat_threshold", opts.RepeatThreshold),
			zap.Bool("position_dependent", opts.PositionDependent),
			zap.Int("input_bytes", len(args.JSONString)),
		)

		result, err := s.svc.DistillBytes(ctx, []byte(args.JSONString), opts)
		if err != nil {
			toolErr = err
			return nil, nil, toolError(err)
		}

		return &mcp.CallToolResult{
			Meta: mcp.Meta{
				"run_id":           result.RunID,
				"unique_shapes":    result.Stats.UniqueShapes,
				"folded_items":     result.Stats.FoldedItems,
				"secrets_redacted": result.Secrets.TotalFindings,
			},
			Content: []mcp.Content{
				&mcp.TextContent{Text: string(result.Output)},
			},
		}, nil, nil
	})

	// json_shape_fingerprint
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        toolFingerprint,
		Description: fingerprintDescription,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args fingerprintInput) (*mcp.CallToolResult, fingerprintOutput, error) {
		start := time.Now()
		s.metrics.IncrementActive(ctx, toolFingerprint)
		var toolErr error
		defer func() {
			s.metrics.DecrementActive(ctx, toolFingerprint)
			s.metrics.RecordInvocation(ctx, toolFingerprint, time.Since(start), toolErr)
		}()

		strict := s.defaults.StrictTyping
		if args.StrictTyping != nil {
			strict = *args.StrictTyping
		}

		fp, shape, err := s.svc.Fingerprint(ctx, []byte(args.JSONString), strict)
		if err != nil {
			toolErr = err
			return nil, fingerprintOutput{}, toolError(err)
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fp},
			},
		}, fingerprintOutput{Fingerprint: fp, Shape: shape}, nil
	})
}

// resolveOptions overlays the arguments a client sent on the server
// defaults.
func (s *Server) resolveOptions(strict *bool, threshold *int, positional *bool) distill.Options {
	opts := s.defaults
	if strict != nil {
		opts.StrictTyping = *strict
	}
	if threshold != nil {
		opts.RepeatThreshold = *threshold
	}
	if positional != nil {
		opts.PositionDependent = *positional
	}
	return opts
}

// toolError converts a service error into a JSON-RPC error. Unparseable
// documents and bad arguments are invalid params; anything else is an
// internal error.
func toolError(err error) *jsonrpc.Error {
	var de *distill.Error
	detail := err.Error()
	if errors.As(err, &de) && de.Err != nil {
		detail = de.Err.Error()
	}

	switch {
	case distill.IsParseError(err):
		return &jsonrpc.Error{
			Code:    jsonrpc.CodeInvalidParams,
			Message: fmt.Sprintf("Failed to parse JSON: %s", detail),
		}
	case distill.KindOf(err) == distill.KindInvalidInput:
		return &jsonrpc.Error{
			Code:    jsonrpc.CodeInvalidParams,
			Message: fmt.Sprintf("Invalid arguments: %s", detail),
		}
	default:
		return &jsonrpc.Error{
			Code:    jsonrpc.CodeInternalError,
			Message: fmt.Sprintf("Distillation failed: %s", detail),
		}
	}
}
