package cli

import (
	"encoding/json"
	"fmt"
)

// Build metadata, injected via -ldflags at release time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// VersionCmd shows version information
type VersionCmd struct {
	JSON bool `help:"Output as JSON"`
}

// Run prints the version
func (c *VersionCmd) Run(globals *Globals) error {
	if c.JSON {
		enc := json.NewEncoder(globals.Stdout)
		return enc.Encode(map[string]string{
			"version":   Version,
			"commit":    Commit,
			"buildDate": BuildDate,
		})
	}
	_, err := fmt.Fprintf(globals.Stdout, "scimwatch %s (%s, built %s)\n", Version, Commit, BuildDate)
	return err
}
