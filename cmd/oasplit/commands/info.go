package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/erraggy/oassplit/document"
	"github.com/erraggy/oassplit/internal/naming"
	"github.com/erraggy/oassplit/splitter"
)

// InfoFlags contains flags for the info command
type InfoFlags struct {
	Format string
}

// SetupInfoFlags creates and configures a FlagSet for the info command.
// Returns the FlagSet and an InfoFlags struct with bound flag variables.
func SetupInfoFlags() (*flag.FlagSet, *InfoFlags) {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	flags := &InfoFlags{}

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: oasplit info [flags] <file|->\n\n")
		Writef(fs.Output(), "Summarize the paths, operations and components of a specification before splitting.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  oasplit info openapi.yaml\n")
		Writef(fs.Output(), "  oasplit info --format json openapi.yaml | jq '.operations'\n")
	}

	return fs, flags
}

// infoReport pairs the document title with its statistics.
type infoReport struct {
	Title          string `json:"title,omitempty"`
	splitter.Stats `yaml:",inline"`
}

// HandleInfo executes the info command
func HandleInfo(args []string) error {
	fs, flags := SetupInfoFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("info command requires exactly one file path or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	doc, err := LoadSpec(fs.Arg(0))
	if err != nil {
		return err
	}
	report := infoReport{Title: docTitle(doc), Stats: splitter.Analyze(doc)}

	if flags.Format == FormatJSON || flags.Format == FormatYAML {
		return OutputStructured(report, flags.Format)
	}
	printInfo(os.Stdout, fs.Arg(0), report)
	return nil
}

func docTitle(doc *document.Document) string {
	v, _ := doc.Info.Get("title")
	s, _ := v.AsString()
	return s
}

func printInfo(w io.Writer, specPath string, r infoReport) {
	title := cases.Title(language.English)
	upper := cases.Upper(language.Und)

	Writef(w, "Specification: %s\n", FormatSpecPath(specPath))
	if r.Title != "" {
		Writef(w, "Title: %s\n", r.Title)
	}
	Writef(w, "OAS Version: %s\n", r.Version)
	Writef(w, "Paths: %d\n", r.Paths)
	Writef(w, "Operations: %d\n", r.Operations)
	for _, method := range slices.Sorted(maps.Keys(r.OperationsByMethod)) {
		Writef(w, "  %-8s %d\n", upper.String(method), r.OperationsByMethod[method])
	}
	Writef(w, "Components: %d\n", r.ComponentTotal())
	for _, category := range slices.Sorted(maps.Keys(r.Components)) {
		Writef(w, "  %-16s %d\n", title.String(strings.ReplaceAll(naming.ToSnakeCase(category), "_", " ")), r.Components[category])
	}
	if len(r.Tags) > 0 {
		Writef(w, "Tags: %s\n", strings.Join(r.Tags, ", "))
	}
	Writef(w, "Security: %s\n", yesNo(r.HasSecurity))
	Writef(w, "Servers: %s\n", yesNo(r.HasServers))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
