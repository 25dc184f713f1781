package commands

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/erraggy/oassplit"
	"github.com/erraggy/oassplit/validator"
)

// ErrValidationFailed is returned once a failed validation has been
// reported. Callers exit non-zero without printing it again.
var ErrValidationFailed = errors.New("validation failed")

// ValidateFlags contains flags for the validate command
type ValidateFlags struct {
	Strict     bool
	NoWarnings bool
	Quiet      bool
	Verbose    bool
	Format     string
}

// SetupValidateFlags creates and configures a FlagSet for the validate command.
// Returns the FlagSet and a ValidateFlags struct with bound flag variables.
func SetupValidateFlags() (*flag.FlagSet, *ValidateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags := &ValidateFlags{}

	fs.BoolVar(&flags.Strict, "strict", false, "enable stricter validation beyond spec requirements")
	fs.BoolVar(&flags.NoWarnings, "no-warnings", false, "suppress warning messages (only show errors)")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output validation result, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output validation result, no diagnostic messages")
	fs.BoolVar(&flags.Verbose, "v", false, "verbose mode: debug logging on stderr")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: oasplit validate [flags] <file|->\n\n")
		Writef(fs.Output(), "Validate an OpenAPI specification or a single split unit.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nOutput Formats:\n")
		Writef(fs.Output(), "  text (default)  Human-readable text output\n")
		Writef(fs.Output(), "  json            JSON format for programmatic processing\n")
		Writef(fs.Output(), "  yaml            YAML format for programmatic processing\n")
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  oasplit validate openapi.yaml\n")
		Writef(fs.Output(), "  oasplit validate --strict split_specs/spec_users.json\n")
		Writef(fs.Output(), "  cat merged_spec.json | oasplit validate -q -\n")
		Writef(fs.Output(), "  oasplit validate --format json openapi.yaml | jq '.valid'\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Validation successful\n")
		Writef(fs.Output(), "  1    Validation failed with errors\n")
	}

	return fs, flags
}

// HandleValidate executes the validate command
func HandleValidate(args []string) error {
	fs, flags := SetupValidateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("validate command requires exactly one file path or '-' for stdin")
	}

	specPath := fs.Arg(0)

	// Fail fast before reading the document
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	startTime := time.Now()
	doc, err := LoadSpec(specPath)
	if err != nil {
		return err
	}
	result := validator.Validate(doc,
		validator.WithStrictMode(flags.Strict),
		validator.WithIncludeWarnings(!flags.NoWarnings),
		validator.WithLogger(NewLogger(flags.Verbose, flags.Quiet)),
	)
	totalTime := time.Since(startTime)

	if flags.Format == FormatJSON || flags.Format == FormatYAML {
		if err := OutputStructured(result, flags.Format); err != nil {
			return err
		}
		if !result.Valid {
			return ErrValidationFailed
		}
		return nil
	}

	if !flags.Quiet {
		Writef(os.Stderr, "OpenAPI Specification Validator\n")
		Writef(os.Stderr, "================================\n\n")
		Writef(os.Stderr, "oasplit version: %s\n", oassplit.Version())
		Writef(os.Stderr, "Specification: %s\n", FormatSpecPath(specPath))
		Writef(os.Stderr, "OAS Version: %s\n", result.Version)
		Writef(os.Stderr, "Paths: %d\n", len(doc.Paths))
		Writef(os.Stderr, "Operations: %d\n", doc.OperationCount())
		Writef(os.Stderr, "Components: %d\n", doc.ComponentCount())
		Writef(os.Stderr, "Total Time: %v\n\n", totalTime)

		if len(result.Errors) > 0 {
			Writef(os.Stderr, "Errors (%d):\n", result.ErrorCount)
			for _, e := range result.Errors {
				Writef(os.Stderr, "  %s\n", e.String())
			}
			Writef(os.Stderr, "\n")
		}

		if len(result.Warnings) > 0 {
			Writef(os.Stderr, "Warnings (%d):\n", result.WarningCount)
			for _, w := range result.Warnings {
				Writef(os.Stderr, "  %s\n", w.String())
			}
			Writef(os.Stderr, "\n")
		}
	}

	if !result.Valid {
		if !flags.Quiet {
			Writef(os.Stderr, "✗ Validation failed: %d error(s), %d warning(s)\n", result.ErrorCount, result.WarningCount)
		}
		return ErrValidationFailed
	}
	if !flags.Quiet {
		if result.WarningCount > 0 {
			Writef(os.Stderr, "✓ Validation passed with %d warning(s)\n", result.WarningCount)
		} else {
			Writef(os.Stderr, "✓ Validation passed\n")
		}
	}
	return nil
}
