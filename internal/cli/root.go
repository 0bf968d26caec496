// Package cli implements the scimwatch command-line interface.
package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/scimtools/scimwatch/internal/config"
	"github.com/scimtools/scimwatch/internal/domain"
	"github.com/scimtools/scimwatch/internal/output"
)

// CLI is the root command structure for scimwatch
type CLI struct {
	// Global flags
	Format  string `short:"f" default:"auto" enum:"auto,ndjson,text" help:"Output format"`
	Level   string `short:"l" help:"Minimum log level (TRACE, DEBUG, INFO, WARN, ERROR, FATAL)"`
	Verbose bool   `short:"v" help:"Show debug output"`

	// Commands
	Serve   ServeCmd   `cmd:"" help:"Run the monitor admin API server"`
	Tail    TailCmd    `cmd:"" help:"Stream log entries live from a running server"`
	Query   QueryCmd   `cmd:"" help:"Fetch recent log entries from a running server"`
	Config  ConfigCmd  `cmd:"" help:"Show or change the server's level configuration"`
	Analyze AnalyzeCmd `cmd:"" help:"Classify SCIM audit records from an NDJSON file"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// Globals holds shared state for all commands
type Globals struct {
	Format  string
	Level   string
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config
}

// NewGlobals creates a Globals instance from CLI flags and loaded config
func NewGlobals(cli *CLI, cfg *config.Config) *Globals {
	if cfg == nil {
		cfg = config.Default()
	}
	g := &Globals{
		Format:  cli.Format,
		Level:   cli.Level,
		Verbose: cli.Verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
	}
	if g.Level == "" {
		g.Level = cfg.Level
	}
	if !g.Verbose {
		g.Verbose = cfg.Verbose
	}
	return g
}

// Writer is the common surface of the NDJSON and text writers
type Writer interface {
	WriteEntry(*domain.LogEntry) error
	WriteActivity(*domain.ActivitySummary) error
	WriteAck(string) error
	WriteError(code, message string) error
}

// NewWriter picks the output writer for the resolved format. "auto"
// selects text on a terminal and NDJSON everywhere else.
func (g *Globals) NewWriter() Writer {
	format := g.Format
	if format == "" || format == "auto" {
		format = g.Config.Format
	}
	if format == "" || format == "auto" {
		format = "ndjson"
		if f, ok := g.Stdout.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			format = "text"
		}
	}
	if format == "text" {
		return output.NewTextWriter(g.Stdout)
	}
	return output.NewNDJSONWriter(g.Stdout)
}

// ServerURL resolves the base URL of the admin API for client commands
func (g *Globals) ServerURL(flag string) string {
	if flag != "" {
		return flag
	}
	return g.Config.Defaults.ServerURL
}
