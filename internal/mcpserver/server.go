// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes oassplit capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oassplit"
)

const serverInstructions = `oassplit MCP server. Splits large OpenAPI specs into self-contained unit documents, merges split directories back, validates documents and summarizes them.

Configuration: defaults come from OASSPLIT_* environment variables set in your MCP client config.

Key settings:
- OASSPLIT_SPLIT_STRATEGY (default: by-path-prefix) - by-tag, by-path-prefix or by-size
- OASSPLIT_MAX_OPERATIONS (default: 30) - operation ceiling per unit
- OASSPLIT_CONFLICT_POLICY (default: keep-first) - keep-first, keep-last, rename or fail
- OASSPLIT_IO_CONCURRENCY (default: number of CPUs) - concurrent unit file reads and writes
- OASSPLIT_CACHE_ENABLED (default: true) - cache decoded specs per session
- OASSPLIT_ISSUE_LIMIT (default: 100) - default page size for validation issues

Start with info on a large spec to choose a strategy, then split. Omit output_dir on split for a dry run that only reports the planned units.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		specCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oassplit", Version: oassplit.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "info",
		Description: "Summarize an OpenAPI Specification document before splitting: version, path and operation counts, operations per method, components per category, declared tags, and whether security and servers are defined. Use it to pick a split strategy and ceiling.",
	}, handleInfo)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "split",
		Description: "Split an OpenAPI Specification document into self-contained unit documents. Strategies: by-tag (first tag), by-path-prefix (first path segment), by-size (fixed operation count). Each unit carries every component its operations reach. Components no operation uses go to a residual 'components' unit. Omit output_dir for a dry run. Defaults are configurable via OASSPLIT_SPLIT_STRATEGY and OASSPLIT_MAX_OPERATIONS.",
	}, handleSplit)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge",
		Description: "Merge a split directory (unit files plus split_mapping.json) back into one OpenAPI document. Identical components are deduplicated. Differing components are resolved by conflict_strategy: keep-first, keep-last, rename (rewrites references of the renamed unit) or fail. Set output to write a file, otherwise the merged document is returned inline. Default policy is configurable via OASSPLIT_CONFLICT_POLICY.",
	}, handleMerge)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate",
		Description: "Validate an OpenAPI Specification document or a single split unit. Reports structural errors, dangling references, circular references and unused components with JSON path locations. Use no_warnings to focus on errors first and offset/limit to paginate.",
	}, handleValidate)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.IssueLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.IssueLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// pathPattern matches absolute filesystem paths in error messages so they
// are not leaked to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
