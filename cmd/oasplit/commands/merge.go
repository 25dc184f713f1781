package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/erraggy/oassplit/internal/issues"
	"github.com/erraggy/oassplit/internal/pathutil"
	"github.com/erraggy/oassplit/merger"
	"github.com/erraggy/oassplit/validator"
)

// MergeFlags contains flags for the merge command
type MergeFlags struct {
	InputDir         string
	Output           string
	ConflictStrategy string
	RenameTemplate   string
	PreserveExternal bool
	Validate         bool
	Format           string
	Concurrency      int
	Quiet            bool
	Verbose          bool
}

// SetupMergeFlags creates and configures a FlagSet for the merge command.
// Returns the FlagSet and a MergeFlags struct with bound flag variables.
func SetupMergeFlags() (*flag.FlagSet, *MergeFlags) {
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	flags := &MergeFlags{}

	fs.StringVar(&flags.InputDir, "input-dir", "split_specs", "directory holding the unit files and manifest")
	fs.StringVar(&flags.InputDir, "i", "split_specs", "directory holding the unit files and manifest")
	fs.StringVar(&flags.Output, "output", "merged_spec.json", "output file; the format follows its extension")
	fs.StringVar(&flags.Output, "o", "merged_spec.json", "output file; the format follows its extension")
	fs.StringVar(&flags.ConflictStrategy, "conflict-strategy", string(merger.PolicyKeepFirst),
		"component conflict policy: "+strings.Join(merger.ValidPolicies(), ", "))
	fs.StringVar(&flags.RenameTemplate, "rename-template", "", "template for renamed components, e.g. '{{.Name}}_{{.Source}}' (default '{{.Name}}_{{.Index}}')")
	fs.BoolVar(&flags.PreserveExternal, "preserve-external", false, "keep references to files outside the manifest instead of failing")
	fs.BoolVar(&flags.Validate, "validate", false, "validate the merged document and report issues")
	fs.StringVar(&flags.Format, "format", FormatText, "report format: text, json, or yaml")
	fs.IntVar(&flags.Concurrency, "concurrency", 0, "maximum concurrent file reads (0 means the number of CPUs)")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: no diagnostic messages")
	fs.BoolVar(&flags.Verbose, "v", false, "verbose mode: debug logging on stderr")
	fs.BoolVar(&flags.Verbose, "verbose", false, "verbose mode: debug logging on stderr")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: oasplit merge [flags]\n\n")
		Writef(fs.Output(), "Merge the unit documents of a split directory back into one specification.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nConflict Strategies:\n")
		Writef(fs.Output(), "  keep-first  Keep the body from the earliest unit (default)\n")
		Writef(fs.Output(), "  keep-last   Keep the body from the latest unit\n")
		Writef(fs.Output(), "  rename      Rename the later body and rewrite its unit's references\n")
		Writef(fs.Output(), "  fail        Abort and list every conflicting component\n")
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  oasplit merge --input-dir split_specs\n")
		Writef(fs.Output(), "  oasplit merge -i split_specs -o merged.yaml --conflict-strategy rename\n")
		Writef(fs.Output(), "  oasplit merge --conflict-strategy rename --rename-template '{{.Name}}_{{.Source}}'\n")
		Writef(fs.Output(), "  oasplit merge --validate --format json | jq '.conflicts'\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Merge successful\n")
		Writef(fs.Output(), "  1    Merge failed or the merged document has validation errors\n")
	}

	return fs, flags
}

// mergeOptions converts flags to a merger configuration, rejecting invalid
// values before any file is read.
func (f *MergeFlags) mergeOptions() ([]merger.Option, error) {
	policy, err := merger.ParsePolicy(f.ConflictStrategy)
	if err != nil {
		return nil, err
	}
	log := NewLogger(f.Verbose, f.Quiet)
	cfg := merger.DefaultConfig()
	cfg.Policy = policy
	cfg.RenameTemplate = f.RenameTemplate
	cfg.PreserveExternal = f.PreserveExternal
	cfg.Logger = log
	if f.Validate {
		cfg.Validator = validator.New(validator.WithLogger(log))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return []merger.Option{merger.WithConfig(cfg)}, nil
}

// mergeReport is the structured form of a merge outcome.
type mergeReport struct {
	Output    string                  `json:"output"`
	State     merger.State            `json:"state"`
	Stats     merger.Stats            `json:"stats"`
	Conflicts []merger.ConflictRecord `json:"conflicts,omitempty"`
	Warnings  []merger.Warning        `json:"warnings,omitempty"`
	Issues    []validator.Issue       `json:"issues,omitempty"`
	Error     string                  `json:"error,omitempty"`
}

// HandleMerge executes the merge command
func HandleMerge(args []string) error {
	fs, flags := SetupMergeFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("merge command takes no positional arguments; use --input-dir")
	}

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	opts, err := flags.mergeOptions()
	if err != nil {
		return err
	}
	output, err := pathutil.SanitizeOutputPath(flags.Output)
	if err != nil {
		return err
	}

	startTime := time.Now()
	m, inputs, err := merger.LoadDir(context.Background(), flags.InputDir, flags.Concurrency)
	if err != nil {
		return err
	}
	res, mergeErr := merger.Merge(m, inputs, opts...)
	if res == nil {
		return mergeErr
	}
	if mergeErr == nil {
		if err := ValidateOutputPath(output, nil); err != nil {
			return err
		}
		if err := merger.WriteResult(res.Document, output); err != nil {
			return err
		}
	}
	totalTime := time.Since(startTime)

	if flags.Format == FormatJSON || flags.Format == FormatYAML {
		report := mergeReport{
			Output:    flags.Output,
			State:     res.State(),
			Stats:     res.Stats,
			Conflicts: res.Conflicts,
			Warnings:  res.Warnings,
			Issues:    res.Issues,
		}
		if mergeErr != nil {
			report.Error = mergeErr.Error()
		}
		if err := OutputStructured(report, flags.Format); err != nil {
			return err
		}
	} else if !flags.Quiet {
		printMergeReport(flags, res, totalTime)
	}

	if mergeErr != nil {
		return mergeErr
	}
	if issues.Count(res.Issues, validator.SeverityError) > 0 {
		return fmt.Errorf("merged document has %d validation error(s)", issues.Count(res.Issues, validator.SeverityError))
	}
	return nil
}

func printMergeReport(flags *MergeFlags, res *merger.Result, totalTime time.Duration) {
	Writef(os.Stderr, "Input Directory: %s\n", flags.InputDir)
	Writef(os.Stderr, "Conflict Strategy: %s\n", flags.ConflictStrategy)
	Writef(os.Stderr, "Units: %d\n", res.Stats.Units)
	Writef(os.Stderr, "Operations: %d\n", res.Stats.Operations)
	Writef(os.Stderr, "Components: %d\n", res.Stats.Components)
	Writef(os.Stderr, "Deduplicated: %d\n", res.Stats.Deduplicated)
	Writef(os.Stderr, "Total Time: %v\n\n", totalTime)

	if len(res.Conflicts) > 0 {
		Writef(os.Stderr, "Conflicts (%d):\n", len(res.Conflicts))
		for _, c := range res.Conflicts {
			Writef(os.Stderr, "  %s\n", c.String())
		}
		Writef(os.Stderr, "\n")
	}
	if len(res.Warnings) > 0 {
		Writef(os.Stderr, "Warnings (%d):\n", len(res.Warnings))
		for _, w := range res.Warnings {
			Writef(os.Stderr, "  ⚠ %s\n", w.String())
		}
		Writef(os.Stderr, "\n")
	}
	if len(res.Issues) > 0 {
		Writef(os.Stderr, "Validation Issues (%d):\n", len(res.Issues))
		for _, issue := range res.Issues {
			Writef(os.Stderr, "  %s\n", issue.String())
		}
		Writef(os.Stderr, "\n")
	}

	if res.State() == merger.StateDone {
		Writef(os.Stderr, "✓ Merged %d unit(s) into %s\n", res.Stats.Units, flags.Output)
	} else {
		Writef(os.Stderr, "✗ Merge failed while %s\n", failedStage(res))
	}
}

// failedStage returns the state the run was in when it failed.
func failedStage(res *merger.Result) string {
	if len(res.Trace) < 2 {
		return merger.StateLoading.String()
	}
	return res.Trace[len(res.Trace)-2].String()
}
