package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/erraggy/oassplit/document"
	"github.com/erraggy/oassplit/splitter"
)

// SplitFlags contains flags for the split command
type SplitFlags struct {
	OutputDir     string
	Strategy      string
	MaxOperations int
	Format        string
	Numbering     string
	NoResidual    bool
	JSONOutput    bool
	Concurrency   int
	Quiet         bool
	Verbose       bool
}

// SetupSplitFlags creates and configures a FlagSet for the split command.
// Returns the FlagSet and a SplitFlags struct with bound flag variables.
func SetupSplitFlags() (*flag.FlagSet, *SplitFlags) {
	fs := flag.NewFlagSet("split", flag.ContinueOnError)
	flags := &SplitFlags{}

	fs.StringVar(&flags.OutputDir, "output-dir", "split_specs", "directory the unit files and manifest are written to")
	fs.StringVar(&flags.OutputDir, "o", "split_specs", "directory the unit files and manifest are written to")
	fs.StringVar(&flags.Strategy, "strategy", string(splitter.StrategyByPathPrefix),
		"partitioning strategy: "+strings.Join(splitter.ValidStrategies(), ", ")+" (aliases: tags, path, size)")
	fs.IntVar(&flags.MaxOperations, "max-operations", 30, "maximum operations per unit (0 disables sub-splitting for by-tag and by-path-prefix)")
	fs.StringVar(&flags.Format, "format", FormatJSON, "unit file format: json or yaml")
	fs.StringVar(&flags.Numbering, "numbering", string(splitter.NumberingPerGroup), "sub-unit numbering: per-group or global")
	fs.BoolVar(&flags.NoResidual, "no-residual", false, "do not write the residual components unit (unreferenced components are dropped)")
	fs.BoolVar(&flags.JSONOutput, "json-output", false, "print the split manifest as JSON to stdout")
	fs.IntVar(&flags.Concurrency, "concurrency", 0, "maximum concurrent file writes (0 means the number of CPUs)")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: no diagnostic messages")
	fs.BoolVar(&flags.Verbose, "v", false, "verbose mode: debug logging on stderr")
	fs.BoolVar(&flags.Verbose, "verbose", false, "verbose mode: debug logging on stderr")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: oasplit split [flags] <file|->\n\n")
		Writef(fs.Output(), "Split an OpenAPI specification into self-contained unit documents.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nStrategies:\n")
		Writef(fs.Output(), "  by-tag          Group operations by their first tag (untagged operations go to 'untagged')\n")
		Writef(fs.Output(), "  by-path-prefix  Group operations by the first path segment (default)\n")
		Writef(fs.Output(), "  by-size         Close a unit every --max-operations operations\n")
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  oasplit split openapi.yaml\n")
		Writef(fs.Output(), "  oasplit split --strategy by-tag --max-operations 20 openapi.yaml\n")
		Writef(fs.Output(), "  oasplit split --strategy size --max-operations 50 --format yaml -o parts openapi.json\n")
		Writef(fs.Output(), "  cat openapi.yaml | oasplit split --json-output - | jq '.units[].file'\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Split successful\n")
		Writef(fs.Output(), "  1    Split failed; no files were written\n")
	}

	return fs, flags
}

// splitOptions converts flags to splitter options, rejecting invalid values
// before any file is read.
func (f *SplitFlags) splitOptions(source string) ([]splitter.Option, error) {
	strategy, err := splitter.ParseStrategy(f.Strategy)
	if err != nil {
		return nil, err
	}
	numbering, err := splitter.ParseNumbering(f.Numbering)
	if err != nil {
		return nil, err
	}
	format, err := document.ParseFormat(f.Format)
	if err != nil {
		return nil, err
	}
	return []splitter.Option{
		splitter.WithStrategy(strategy),
		splitter.WithMaxOperations(f.MaxOperations),
		splitter.WithNumbering(numbering),
		splitter.WithResidual(!f.NoResidual),
		splitter.WithFormat(format),
		splitter.WithSource(source),
		splitter.WithLogger(NewLogger(f.Verbose, f.Quiet)),
	}, nil
}

// HandleSplit executes the split command
func HandleSplit(args []string) error {
	fs, flags := SetupSplitFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("split command requires exactly one file path or '-' for stdin")
	}

	specPath := fs.Arg(0)
	source := FormatSpecPath(specPath)
	if specPath != StdinFilePath {
		source = filepath.Base(specPath)
	}

	opts, err := flags.splitOptions(source)
	if err != nil {
		return err
	}

	startTime := time.Now()
	doc, err := LoadSpec(specPath)
	if err != nil {
		return err
	}

	res, err := splitter.Split(doc, opts...)
	if err != nil {
		return err
	}
	if err := splitter.WriteUnits(context.Background(), flags.OutputDir, res, flags.Concurrency); err != nil {
		return err
	}
	totalTime := time.Since(startTime)

	if flags.JSONOutput {
		if err := OutputStructured(res.Manifest, FormatJSON); err != nil {
			return err
		}
	}

	if !flags.Quiet {
		Writef(os.Stderr, "Specification: %s\n", FormatSpecPath(specPath))
		Writef(os.Stderr, "OAS Version: %s\n", doc.Version)
		Writef(os.Stderr, "Strategy: %s\n", res.Manifest.Strategy)
		Writef(os.Stderr, "Output Directory: %s\n", flags.OutputDir)
		Writef(os.Stderr, "Total Time: %v\n\n", totalTime)
		for _, u := range res.Units {
			Writef(os.Stderr, "  %-40s %4d operation(s) %4d component(s)\n",
				u.File, u.Document.OperationCount(), u.Document.ComponentCount())
		}
		if len(res.Cycles) > 0 {
			Writef(os.Stderr, "\nCircular references (%d):\n", len(res.Cycles))
			for _, c := range res.Cycles {
				Writef(os.Stderr, "  %s\n", c.String())
			}
		}
		Writef(os.Stderr, "\n✓ Split into %d unit(s)\n", len(res.Units))
	}

	return nil
}
