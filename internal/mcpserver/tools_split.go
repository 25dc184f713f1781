package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oassplit/document"
	"github.com/erraggy/oassplit/splitter"
)

type splitInput struct {
	Spec          specInput `json:"spec"                     jsonschema:"The OAS document to split"`
	OutputDir     string    `json:"output_dir,omitempty"     jsonschema:"Directory for unit files and split_mapping.json. Omit for a dry run"`
	Strategy      string    `json:"strategy,omitempty"       jsonschema:"by-tag, by-path-prefix or by-size (aliases tags, path, size)"`
	MaxOperations *int      `json:"max_operations,omitempty" jsonschema:"Maximum operations per unit. 0 disables sub-splitting for by-tag and by-path-prefix"`
	Numbering     string    `json:"numbering,omitempty"      jsonschema:"Sub-unit numbering: per-group (default) or global"`
	Format        string    `json:"format,omitempty"         jsonschema:"Unit file format: json (default) or yaml"`
	NoResidual    bool      `json:"no_residual,omitempty"    jsonschema:"Drop the residual components unit"`
}

type splitUnit struct {
	File       string `json:"file"`
	Name       string `json:"name"`
	Operations int    `json:"operations"`
	Components int    `json:"components"`
	Residual   bool   `json:"residual,omitempty"`
}

type splitOutput struct {
	Strategy  string      `json:"strategy"`
	Units     []splitUnit `json:"units"`
	Cycles    []string    `json:"cycles,omitempty"`
	OutputDir string      `json:"output_dir,omitempty"`
	Written   bool        `json:"written"`
}

func (in splitInput) options() ([]splitter.Option, error) {
	strategy := cfg.SplitStrategy
	if in.Strategy != "" {
		var err error
		if strategy, err = splitter.ParseStrategy(in.Strategy); err != nil {
			return nil, err
		}
	}
	maxOps := cfg.MaxOperations
	if in.MaxOperations != nil {
		maxOps = *in.MaxOperations
	}
	opts := []splitter.Option{
		splitter.WithStrategy(strategy),
		splitter.WithMaxOperations(maxOps),
		splitter.WithResidual(!in.NoResidual),
		splitter.WithSource(in.Spec.source()),
	}
	if in.Numbering != "" {
		n, err := splitter.ParseNumbering(in.Numbering)
		if err != nil {
			return nil, err
		}
		opts = append(opts, splitter.WithNumbering(n))
	}
	if in.Format != "" {
		f, err := document.ParseFormat(in.Format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, splitter.WithFormat(f))
	}
	return opts, nil
}

func handleSplit(ctx context.Context, _ *mcp.CallToolRequest, input splitInput) (*mcp.CallToolResult, splitOutput, error) {
	opts, err := input.options()
	if err != nil {
		return errResult(err), splitOutput{}, nil
	}
	doc, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), splitOutput{}, nil
	}
	res, err := splitter.Split(doc, opts...)
	if err != nil {
		return errResult(err), splitOutput{}, nil
	}

	output := splitOutput{Strategy: res.Manifest.Strategy, Units: make([]splitUnit, 0, len(res.Units))}
	for _, u := range res.Units {
		output.Units = append(output.Units, splitUnit{
			File:       u.File,
			Name:       u.Name,
			Operations: u.Document.OperationCount(),
			Components: u.Document.ComponentCount(),
			Residual:   u.Residual,
		})
	}
	output.Cycles = makeSlice[string](len(res.Cycles))
	for _, c := range res.Cycles {
		output.Cycles = append(output.Cycles, c.String())
	}

	if input.OutputDir != "" {
		if err := splitter.WriteUnits(ctx, input.OutputDir, res, cfg.IOConcurrency); err != nil {
			return errResult(err), splitOutput{}, nil
		}
		output.OutputDir = input.OutputDir
		output.Written = true
	}
	return nil, output, nil
}
