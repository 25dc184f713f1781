package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/erraggy/oassplit"
	"github.com/erraggy/oassplit/cmd/oasplit/commands"
)

var handlers = map[string]func([]string) error{
	"split":    commands.HandleSplit,
	"merge":    commands.HandleMerge,
	"validate": commands.HandleValidate,
	"info":     commands.HandleInfo,
	"mcp":      commands.HandleMCP,
}

// commandNames are the names suggestCommand matches against.
var commandNames = []string{"split", "merge", "validate", "info", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("oasplit %s\n", oassplit.Version())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	}

	handle, ok := handlers[command]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if s := suggestCommand(command); s != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", s)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
	if err := handle(os.Args[2:]); err != nil {
		if !errors.Is(err, commands.ErrValidationFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// suggestCommand returns the command closest to input within an edit
// distance of 2, or "".
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := levenshtein(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func printUsage() {
	fmt.Println(`oasplit - split and merge OpenAPI specifications

Usage:
  oasplit <command> [options]

Commands:
  split       Split a specification into self-contained unit documents
  merge       Merge a split directory back into one specification
  validate    Validate a specification or a single unit
  info        Summarize a specification before splitting
  mcp         Serve the tools over the Model Context Protocol on stdio
  version     Show version information
  help        Show this help message

Examples:
  oasplit info openapi.yaml
  oasplit split --strategy by-tag --max-operations 30 openapi.yaml
  oasplit merge --input-dir split_specs -o merged_spec.json
  oasplit validate --strict merged_spec.json

Run 'oasplit <command> --help' for more information on a command.`)
}
