package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/scimtools/scimwatch/internal/logstore"
	"github.com/scimtools/scimwatch/internal/output"
)

// ConfigCmd shows or changes the server's level configuration
type ConfigCmd struct {
	Server        string `short:"s" help:"Admin API base URL"`
	SetGlobal     string `placeholder:"LEVEL" help:"Set the global level"`
	SetCategory   string `placeholder:"CATEGORY=LEVEL" help:"Set a category override"`
	ClearCategory string `placeholder:"CATEGORY" help:"Clear a category override"`
	SetEndpoint   string `placeholder:"ENDPOINT=LEVEL" help:"Set an endpoint override"`
	ClearEndpoint string `placeholder:"ENDPOINT" help:"Clear an endpoint override"`
}

// Run applies any requested changes, then prints the resulting config
func (c *ConfigCmd) Run(globals *Globals) error {
	base := globals.ServerURL(c.Server)

	if c.SetGlobal != "" {
		if err := putLevel(base+"/api/logs/config/global", c.SetGlobal); err != nil {
			return err
		}
	}
	if c.SetCategory != "" {
		name, level, err := splitAssignment(c.SetCategory)
		if err != nil {
			return err
		}
		if err := putLevel(base+"/api/logs/config/category/"+url.PathEscape(name), level); err != nil {
			return err
		}
	}
	if c.ClearCategory != "" {
		if err := deleteOverride(base + "/api/logs/config/category/" + url.PathEscape(c.ClearCategory)); err != nil {
			return err
		}
	}
	if c.SetEndpoint != "" {
		id, level, err := splitAssignment(c.SetEndpoint)
		if err != nil {
			return err
		}
		if err := putLevel(base+"/api/logs/config/endpoint/"+url.PathEscape(id), level); err != nil {
			return err
		}
	}
	if c.ClearEndpoint != "" {
		if err := deleteOverride(base + "/api/logs/config/endpoint/" + url.PathEscape(c.ClearEndpoint)); err != nil {
			return err
		}
	}

	view, err := fetchConfig(base)
	if err != nil {
		return err
	}

	if globals.Format == "ndjson" {
		return output.NewNDJSONWriter(globals.Stdout).WriteRaw(view)
	}
	return renderConfig(globals, view)
}

func splitAssignment(arg string) (string, string, error) {
	name, level, ok := strings.Cut(arg, "=")
	if !ok || name == "" || level == "" {
		return "", "", fmt.Errorf("expected NAME=LEVEL, got %q", arg)
	}
	return name, level, nil
}

func putLevel(target, level string) error {
	body, err := json.Marshal(map[string]string{"level": level})
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPut, target, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return apiErrorFromResponse(resp)
	}
	return nil
}

func deleteOverride(target string) error {
	req, err := http.NewRequest(http.MethodDelete, target, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return apiErrorFromResponse(resp)
	}
	return nil
}

func fetchConfig(base string) (*logstore.ConfigView, error) {
	resp, err := http.Get(base + "/api/logs/config")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch config: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, apiErrorFromResponse(resp)
	}

	var view logstore.ConfigView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		return nil, fmt.Errorf("invalid response: %w", err)
	}
	return &view, nil
}

func renderConfig(globals *Globals, view *logstore.ConfigView) error {
	table := tablewriter.NewWriter(globals.Stdout)
	table.Header("SCOPE", "NAME", "LEVEL")
	_ = table.Append([]string{"global", "-", view.GlobalLevel})

	for _, name := range sortedKeys(view.CategoryLevels) {
		_ = table.Append([]string{"category", name, view.CategoryLevels[name]})
	}
	for _, id := range sortedKeys(view.EndpointLevels) {
		_ = table.Append([]string{"endpoint", id, view.EndpointLevels[id]})
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(globals.Stdout, "\nLevels: %s\n", strings.Join(view.AvailableLevels, ", "))
	fmt.Fprintf(globals.Stdout, "Categories: %s\n", strings.Join(view.Categories, ", "))
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
