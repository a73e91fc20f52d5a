package mcp

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// ToolCategory groups tools by what they do to a document.
type ToolCategory string

const (
	// CategoryDistill is for tools that return a distilled document.
	CategoryDistill ToolCategory = "distill"
	// CategoryInspect is for tools that describe a document without rewriting it.
	CategoryInspect ToolCategory = "inspect"
	// CategorySearch is for tool discovery (tool_search itself).
	CategorySearch ToolCategory = "search"
)

// Registry errors.
var (
	ErrToolRequired      = errors.New("tool metadata is required")
	ErrToolNameRequired  = errors.New("tool name is required")
	ErrToolDescRequired  = errors.New("tool description is required")
	ErrToolAlreadyExists = errors.New("tool already registered")
	ErrToolNotFound      = errors.New("tool not found")
)

// ToolMetadata describes a registered MCP tool.
type ToolMetadata struct {
	// Name is the unique tool name (e.g., "distill_json_content").
	Name string `json:"name"`

	// Description is the text sent to clients in tools/list.
	Description string `json:"description"`

	// Category is the functional category of the tool.
	Category ToolCategory `json:"category"`

	// Keywords are additional searchable terms for this tool.
	Keywords []string `json:"keywords,omitempty"`
}

// ToolRegistry holds metadata about the tools a Server exposes. The HTTP
// API lists it and the tool_search tool queries it.
type ToolRegistry struct {
	mu    sync.RWMutex
	tools map[string]*ToolMetadata
}

// NewToolRegistry creates an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]*ToolMetadata),
	}
}

// Register adds a tool. Names must be unique.
func (r *ToolRegistry) Register(tool *ToolMetadata) error {
	switch {
	case tool == nil:
		return ErrToolRequired
	case tool.Name == "":
		return ErrToolNameRequired
	case tool.Description == "":
		return fmt.Errorf("%w: %s", ErrToolDescRequired, tool.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("%w: %s", ErrToolAlreadyExists, tool.Name)
	}
	r.tools[tool.Name] = tool
	return nil
}

// Get returns the metadata for a specific tool.
func (r *ToolRegistry) Get(name string) (*ToolMetadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return tool, nil
}

// List returns all registered tools sorted by name.
func (r *ToolRegistry) List() []*ToolMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*ToolMetadata, 0, len(r.tools))
	for _, tool := range r.tools {
		result = append(result, tool)
	}
	sortByName(result)
	return result
}

// ListByCategory returns the tools in category sorted by name.
func (r *ToolRegistry) ListByCategory(category ToolCategory) []*ToolMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*ToolMetadata, 0)
	for _, tool := range r.tools {
		if tool.Category == category {
			result = append(result, tool)
		}
	}
	sortByName(result)
	return result
}

// Count returns the total number of registered tools.
func (r *ToolRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// SearchResult is a tool matched by Search.
type SearchResult struct {
	Tool *ToolMetadata `json:"tool"`

	// Score indicates match quality (higher is better).
	// 3 = exact name match
	// 2 = name contains query
	// 1 = description/keywords match
	Score int `json:"score"`

	MatchReason string `json:"match_reason"`
}

// Search finds tools matching query case-insensitively against names,
// descriptions and keywords. A query that compiles as a regular expression
// is also matched as one. Results are ordered by score, then name.
func (r *ToolRegistry) Search(query string) []*SearchResult {
	if query == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	var re *regexp.Regexp
	if compiled, err := regexp.Compile("(?i)" + query); err == nil {
		re = compiled
	}
	matches := func(s string) (bool, bool) {
		lower := strings.ToLower(s)
		if strings.Contains(lower, q) {
			return true, false
		}
		return re != nil && re.MatchString(s), true
	}

	var results []*SearchResult
	for _, tool := range r.tools {
		if strings.ToLower(tool.Name) == q {
			results = append(results, &SearchResult{Tool: tool, Score: 3, MatchReason: "exact name match"})
			continue
		}
		if ok, byPattern := matches(tool.Name); ok {
			reason := "name contains query"
			if byPattern {
				reason = "name matches pattern"
			}
			results = append(results, &SearchResult{Tool: tool, Score: 2, MatchReason: reason})
			continue
		}
		if ok, byPattern := matches(tool.Description); ok {
			reason := "description contains query"
			if byPattern {
				reason = "description matches pattern"
			}
			results = append(results, &SearchResult{Tool: tool, Score: 1, MatchReason: reason})
			continue
		}
		for _, kw := range tool.Keywords {
			if ok, byPattern := matches(kw); ok {
				reason := "keyword contains query"
				if byPattern {
					reason = "keyword matches pattern"
				}
				results = append(results, &SearchResult{Tool: tool, Score: 1, MatchReason: reason})
				break
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Tool.Name < results[j].Tool.Name
	})
	return results
}

// SearchByCategory searches within a single category.
func (r *ToolRegistry) SearchByCategory(query string, category ToolCategory) []*SearchResult {
	filtered := make([]*SearchResult, 0)
	for _, result := range r.Search(query) {
		if result.Tool.Category == category {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

func sortByName(tools []*ToolMetadata) {
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
}
