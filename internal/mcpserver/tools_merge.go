package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oassplit/document"
	"github.com/erraggy/oassplit/internal/pathutil"
	"github.com/erraggy/oassplit/merger"
	"github.com/erraggy/oassplit/validator"
)

type mergeInput struct {
	InputDir         string `json:"input_dir"                   jsonschema:"Split directory holding unit files and split_mapping.json"`
	Output           string `json:"output,omitempty"            jsonschema:"File to write the merged document to (format from extension). Omit to return it inline"`
	ConflictStrategy string `json:"conflict_strategy,omitempty" jsonschema:"keep-first, keep-last, rename or fail"`
	RenameTemplate   string `json:"rename_template,omitempty"   jsonschema:"Template for renamed components, e.g. {{.Name}}_{{.Source}}"`
	PreserveExternal bool   `json:"preserve_external,omitempty" jsonschema:"Keep references to files outside the manifest instead of failing"`
	Validate         bool   `json:"validate,omitempty"          jsonschema:"Validate the merged document and report issues"`
}

type mergeConflict struct {
	Component  string   `json:"component"`
	Sources    []string `json:"sources"`
	Resolution string   `json:"resolution"`
	NewName    string   `json:"new_name,omitempty"`
}

type mergeOutput struct {
	State     string          `json:"state"`
	Stats     merger.Stats    `json:"stats"`
	Conflicts []mergeConflict `json:"conflicts,omitempty"`
	Warnings  []string        `json:"warnings,omitempty"`
	Issues    []validateIssue `json:"issues,omitempty"`
	Output    string          `json:"output,omitempty"`
	// Document is the merged document as JSON when no output file was given.
	Document string `json:"document,omitempty"`
}

func (in mergeInput) options() ([]merger.Option, error) {
	policy := cfg.ConflictPolicy
	if in.ConflictStrategy != "" {
		var err error
		if policy, err = merger.ParsePolicy(in.ConflictStrategy); err != nil {
			return nil, err
		}
	}
	opts := []merger.Option{
		merger.WithPolicy(policy),
		merger.WithRenameTemplate(in.RenameTemplate),
		merger.WithPreserveExternal(in.PreserveExternal),
	}
	if in.Validate {
		opts = append(opts, merger.WithValidator(validator.New()))
	}
	return opts, nil
}

func handleMerge(ctx context.Context, _ *mcp.CallToolRequest, input mergeInput) (*mcp.CallToolResult, mergeOutput, error) {
	if input.InputDir == "" {
		return errResult(fmt.Errorf("input_dir is required")), mergeOutput{}, nil
	}
	opts, err := input.options()
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}
	var output string
	if input.Output != "" {
		if output, err = pathutil.SanitizeOutputPath(input.Output); err != nil {
			return errResult(err), mergeOutput{}, nil
		}
	}

	m, inputs, err := merger.LoadDir(ctx, input.InputDir, cfg.IOConcurrency)
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}
	res, err := merger.Merge(m, inputs, opts...)
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}

	out := mergeOutput{State: res.State().String(), Stats: res.Stats}
	out.Conflicts = makeSlice[mergeConflict](len(res.Conflicts))
	for _, c := range res.Conflicts {
		mc := mergeConflict{Component: c.ID.String(), Sources: c.Sources, Resolution: string(c.Resolution)}
		if c.Resolution == merger.ResolutionRenamed {
			mc.NewName = c.NewID.String()
		}
		out.Conflicts = append(out.Conflicts, mc)
	}
	out.Warnings = makeSlice[string](len(res.Warnings))
	for _, w := range res.Warnings {
		out.Warnings = append(out.Warnings, w.String())
	}
	out.Issues = toValidateIssues(res.Issues)

	if output != "" {
		if err := merger.WriteResult(res.Document, output); err != nil {
			return errResult(err), mergeOutput{}, nil
		}
		out.Output = input.Output
		return nil, out, nil
	}
	data, err := document.Encode(res.Document, document.FormatJSON)
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}
	out.Document = string(data)
	return nil, out, nil
}
