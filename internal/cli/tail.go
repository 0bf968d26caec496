package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"strings"
	"syscall"

	"github.com/scimtools/scimwatch/internal/domain"
)

// TailCmd streams log entries live from a running server
type TailCmd struct {
	Server     string `short:"s" help:"Admin API base URL"`
	Category   string `short:"c" help:"Only entries of this category"`
	EndpointID string `help:"Only entries for this endpoint"`
}

// Run connects to the SSE stream and prints entries until interrupted
func (c *TailCmd) Run(globals *Globals) error {
	writer := globals.NewWriter()

	streamURL, err := c.buildURL(globals)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return apiErrorFromResponse(resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var event, data string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if err := c.dispatch(writer, event, data); err != nil {
				return err
			}
			event, data = "", ""
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case strings.HasPrefix(line, ":"):
			// Heartbeat comment, nothing to do.
		}
	}
	if ctx.Err() != nil {
		return nil
	}
	return scanner.Err()
}

func (c *TailCmd) buildURL(globals *Globals) (string, error) {
	u, err := url.Parse(globals.ServerURL(c.Server) + "/api/logs/stream")
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	q := u.Query()
	if globals.Level != "" {
		q.Set("level", globals.Level)
	}
	if c.Category != "" {
		q.Set("category", c.Category)
	}
	if c.EndpointID != "" {
		q.Set("endpointId", c.EndpointID)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *TailCmd) dispatch(writer Writer, event, data string) error {
	switch event {
	case "connected":
		return writer.WriteAck("stream connected")
	case "log":
		var entry domain.LogEntry
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			return writer.WriteError("decode", err.Error())
		}
		return writer.WriteEntry(&entry)
	}
	return nil
}
