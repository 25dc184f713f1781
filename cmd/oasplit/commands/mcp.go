package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/oassplit/internal/mcpserver"
)

// SetupMCPFlags creates the FlagSet for the mcp command. The server is
// configured through OASSPLIT_* environment variables, not flags.
func SetupMCPFlags() *flag.FlagSet {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.Usage = func() {
		Writef(fs.Output(), "Usage: oasplit mcp\n\n")
		Writef(fs.Output(), "Serve the split, merge, validate and info tools over MCP on stdio.\n\n")
		Writef(fs.Output(), "Environment:\n")
		Writef(fs.Output(), "  OASSPLIT_SPLIT_STRATEGY   default split strategy (default by-path-prefix)\n")
		Writef(fs.Output(), "  OASSPLIT_MAX_OPERATIONS   default operation ceiling per unit (default 30)\n")
		Writef(fs.Output(), "  OASSPLIT_CONFLICT_POLICY  default merge conflict policy (default keep-first)\n")
		Writef(fs.Output(), "  OASSPLIT_IO_CONCURRENCY   maximum concurrent file operations (default: number of CPUs)\n")
	}
	return fs
}

// HandleMCP executes the mcp command and blocks until the client
// disconnects or the process is interrupted.
func HandleMCP(args []string) error {
	fs := SetupMCPFlags()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("mcp command takes no arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}
