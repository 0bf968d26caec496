package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/scimtools/scimwatch/internal/activity"
	"github.com/scimtools/scimwatch/internal/domain"
)

// AnalyzeCmd classifies SCIM audit records from an NDJSON file
type AnalyzeCmd struct {
	File          string `arg:"" optional:"" type:"existingfile" help:"NDJSON file of audit records (defaults to stdin)"`
	Names         string `type:"existingfile" optional:"" help:"JSON file mapping user/group ids to display names"`
	SkipKeepalive bool   `help:"Drop keepalive polling requests from the output"`
}

// Run reads one audit record per line and emits one activity summary each.
// Malformed lines are reported and skipped.
func (c *AnalyzeCmd) Run(globals *Globals) error {
	writer := globals.NewWriter()

	resolver, err := loadResolver(c.Names)
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if c.File != "" {
		f, err := os.Open(c.File)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", c.File, err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	classifier := activity.NewClassifier()
	ctx := context.Background()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var record domain.RequestLogRecord
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			if err := writer.WriteError("decode", fmt.Sprintf("line %d: %v", lineNo, err)); err != nil {
				return err
			}
			continue
		}

		summary := classifier.Classify(ctx, record, resolver)
		if c.SkipKeepalive && summary.IsKeepalive {
			continue
		}
		if err := writer.WriteActivity(&summary); err != nil {
			return err
		}
	}
	return scanner.Err()
}
