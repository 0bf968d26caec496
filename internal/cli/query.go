package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/scimtools/scimwatch/internal/domain"
)

// QueryCmd fetches recent log entries from a running server
type QueryCmd struct {
	Server     string `short:"s" help:"Admin API base URL"`
	Limit      int    `short:"n" help:"Maximum number of entries (defaults to config)"`
	Category   string `short:"c" help:"Only entries of this category"`
	RequestID  string `help:"Only entries of this request"`
	EndpointID string `help:"Only entries for this endpoint"`
}

// queryResponse mirrors the recent-entries payload
type queryResponse struct {
	Count   int               `json:"count"`
	Entries []domain.LogEntry `json:"entries"`
}

// Run fetches and prints matching entries, most recent first
func (c *QueryCmd) Run(globals *Globals) error {
	writer := globals.NewWriter()

	limit := c.Limit
	if limit <= 0 {
		limit = globals.Config.Defaults.Limit
	}

	u, err := url.Parse(globals.ServerURL(c.Server) + "/api/logs")
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	if globals.Level != "" {
		q.Set("level", globals.Level)
	}
	if c.Category != "" {
		q.Set("category", c.Category)
	}
	if c.RequestID != "" {
		q.Set("requestId", c.RequestID)
	}
	if c.EndpointID != "" {
		q.Set("endpointId", c.EndpointID)
	}
	u.RawQuery = q.Encode()

	resp, err := http.Get(u.String())
	if err != nil {
		return fmt.Errorf("failed to query: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return apiErrorFromResponse(resp)
	}

	var result queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("invalid response: %w", err)
	}
	for i := range result.Entries {
		if err := writer.WriteEntry(&result.Entries[i]); err != nil {
			return err
		}
	}
	return nil
}

// apiErrorFromResponse turns a non-200 admin API response into an error
func apiErrorFromResponse(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, payload.Error)
	}
	return fmt.Errorf("server returned %d", resp.StatusCode)
}
