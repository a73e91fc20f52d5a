package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	toolSearch = "tool_search"
	toolList   = "tool_list"

	defaultSearchLimit = 5
)

const toolSearchDescription = "Search for available tools by name, description, or keyword. " +
	"Queries that compile as regular expressions are also matched as patterns (e.g., 'json_.*', '(?i)shape')."

const toolListDescription = "List all available tools in the registry with their metadata."

type toolSearchInput struct {
	Query    string `json:"query" jsonschema:"Search query or regular expression matched against tool names, descriptions, and keywords"`
	Category string `json:"category,omitempty" jsonschema:"Filter results to a specific category (distill, inspect, search)"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default: 5)"`
}

type toolSearchOutput struct {
	Query      string          `json:"query" jsonschema:"Search query used"`
	Results    []*SearchResult `json:"results" jsonschema:"Matching tools with metadata, score, and match reason"`
	Count      int             `json:"count" jsonschema:"Number of tools found"`
	TotalTools int             `json:"total_tools" jsonschema:"Total number of tools in registry"`
}

type toolListInput struct {
	Category string `json:"category,omitempty" jsonschema:"Filter to a specific category"`
}

type toolListOutput struct {
	Tools []*ToolMetadata `json:"tools" jsonschema:"Registered tools with metadata"`
	Count int             `json:"count" jsonschema:"Number of tools returned"`
}

func (s *Server) registerSearchTools() {
	// tool_search
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        toolSearch,
		Description: toolSearchDescription,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args toolSearchInput) (*mcp.CallToolResult, toolSearchOutput, error) {
		if args.Query == "" {
			return nil, toolSearchOutput{}, fmt.Errorf("query is required")
		}

		limit := args.Limit
		if limit <= 0 {
			limit = defaultSearchLimit
		}

		var results []*SearchResult
		if args.Category != "" {
			results = s.toolRegistry.SearchByCategory(args.Query, ToolCategory(args.Category))
		} else {
			results = s.toolRegistry.Search(args.Query)
		}
		if len(results) > limit {
			results = results[:limit]
		}
		if results == nil {
			results = []*SearchResult{}
		}

		names := make([]string, 0, len(results))
		for _, r := range results {
			names = append(names, r.Tool.Name)
		}
		text := fmt.Sprintf("No tools found matching: %s", args.Query)
		if len(names) > 0 {
			text = fmt.Sprintf("Found %d tool(s) for query '%s': %s", len(names), args.Query, strings.Join(names, ", "))
		}

		return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{Text: text}},
			}, toolSearchOutput{
				Query:      args.Query,
				Results:    results,
				Count:      len(results),
				TotalTools: s.toolRegistry.Count(),
			}, nil
	})

	// tool_list
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        toolList,
		Description: toolListDescription,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args toolListInput) (*mcp.CallToolResult, toolListOutput, error) {
		var tools []*ToolMetadata
		if args.Category != "" {
			tools = s.toolRegistry.ListByCategory(ToolCategory(args.Category))
		} else {
			tools = s.toolRegistry.List()
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Found %d tools", len(tools))},
			},
		}, toolListOutput{Tools: tools, Count: len(tools)}, nil
	})
}
