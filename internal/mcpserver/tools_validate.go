package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oassplit/validator"
)

type validateInput struct {
	Spec       specInput `json:"spec"                  jsonschema:"The OAS document to validate"`
	Strict     bool      `json:"strict,omitempty"      jsonschema:"Enable strict validation mode"`
	NoWarnings bool      `json:"no_warnings,omitempty" jsonschema:"Suppress warnings from output"`
	Offset     int       `json:"offset,omitempty"      jsonschema:"Skip the first N errors/warnings (for pagination)"`
	Limit      int       `json:"limit,omitempty"       jsonschema:"Maximum number of errors/warnings to return (default 100). Applied independently to errors and warnings arrays."`
}

type validateIssue struct {
	Path     string `json:"path"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Field    string `json:"field,omitempty"`
	Context  string `json:"context,omitempty"`
}

type validateOutput struct {
	Valid        bool            `json:"valid"`
	Version      string          `json:"version"`
	ErrorCount   int             `json:"error_count"`
	WarningCount int             `json:"warning_count"`
	Returned     int             `json:"returned"`
	Errors       []validateIssue `json:"errors,omitempty"`
	Warnings     []validateIssue `json:"warnings,omitempty"`
}

func toValidateIssues(list []validator.Issue) []validateIssue {
	out := makeSlice[validateIssue](len(list))
	for _, i := range list {
		vi := validateIssue{Path: i.Path, Message: i.Message, Severity: i.Severity.String(), Field: i.Field}
		if i.OperationContext != nil {
			vi.Context = i.OperationContext.String()
		}
		out = append(out, vi)
	}
	return out
}

func handleValidate(_ context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	doc, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	result := validator.Validate(doc,
		validator.WithStrictMode(input.Strict),
		validator.WithIncludeWarnings(!input.NoWarnings),
	)

	output := validateOutput{
		Valid:        result.Valid,
		Version:      result.Version,
		ErrorCount:   result.ErrorCount,
		WarningCount: result.WarningCount,
		Errors:       paginate(toValidateIssues(result.Errors), input.Offset, input.Limit),
		Warnings:     paginate(toValidateIssues(result.Warnings), input.Offset, input.Limit),
	}
	output.Returned = len(output.Errors) + len(output.Warnings)
	return nil, output, nil
}
