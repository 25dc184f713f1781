package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oassplit/splitter"
)

type infoInput struct {
	Spec specInput `json:"spec" jsonschema:"The OAS document to summarize"`
}

type infoOutput struct {
	Title          string         `json:"title,omitempty"`
	Stats          splitter.Stats `json:"stats"`
	ComponentTotal int            `json:"component_total"`
}

func handleInfo(_ context.Context, _ *mcp.CallToolRequest, input infoInput) (*mcp.CallToolResult, infoOutput, error) {
	doc, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), infoOutput{}, nil
	}
	stats := splitter.Analyze(doc)
	title, _ := doc.Info.Get("title")
	s, _ := title.AsString()
	return nil, infoOutput{Title: s, Stats: stats, ComponentTotal: stats.ComponentTotal()}, nil
}
