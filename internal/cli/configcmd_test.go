package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scimtools/scimwatch/internal/domain"
	"github.com/scimtools/scimwatch/internal/logstore"
)

// stubConfigServer serves a canned level configuration and records level
// mutations.
func stubConfigServer(t *testing.T, view *logstore.ConfigView) (*httptest.Server, *[]string) {
	t.Helper()
	var calls []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			calls = append(calls, r.Method+" "+r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(view))
	})
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testConfigView() *logstore.ConfigView {
	return &logstore.ConfigView{
		GlobalLevel:     "INFO",
		CategoryLevels:  map[string]string{"database": "TRACE"},
		EndpointLevels:  map[string]string{"ep1": "ERROR"},
		AvailableLevels: domain.SeverityNames(),
		Categories:      domain.CategoryNames(),
	}
}

func TestConfigCmdNDJSON(t *testing.T) {
	srv, _ := stubConfigServer(t, testConfigView())

	var stdout bytes.Buffer
	cmd := &ConfigCmd{Server: srv.URL}
	require.NoError(t, cmd.Run(testGlobals(&stdout)))

	var view logstore.ConfigView
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &view))
	assert.Equal(t, "INFO", view.GlobalLevel)
	assert.Equal(t, map[string]string{"database": "TRACE"}, view.CategoryLevels)
	assert.Equal(t, map[string]string{"ep1": "ERROR"}, view.EndpointLevels)
}

func TestConfigCmdTable(t *testing.T) {
	srv, _ := stubConfigServer(t, testConfigView())

	var stdout bytes.Buffer
	globals := testGlobals(&stdout)
	globals.Format = "text"
	cmd := &ConfigCmd{Server: srv.URL}
	require.NoError(t, cmd.Run(globals))

	out := stdout.String()
	assert.Contains(t, out, "global")
	assert.Contains(t, out, "database")
	assert.Contains(t, out, "TRACE")
	assert.Contains(t, out, "ep1")
	assert.Contains(t, out, "Levels: TRACE, DEBUG, INFO, WARN, ERROR, FATAL, OFF")
}

func TestConfigCmdMutations(t *testing.T) {
	srv, calls := stubConfigServer(t, testConfigView())

	var stdout bytes.Buffer
	cmd := &ConfigCmd{
		Server:        srv.URL,
		SetGlobal:     "DEBUG",
		SetCategory:   "auth=WARN",
		ClearEndpoint: "ep1",
	}
	require.NoError(t, cmd.Run(testGlobals(&stdout)))

	assert.Equal(t, []string{
		"PUT /api/logs/config/global",
		"PUT /api/logs/config/category/auth",
		"DELETE /api/logs/config/endpoint/ep1",
	}, *calls)
}

func TestConfigCmdBadAssignment(t *testing.T) {
	var stdout bytes.Buffer
	cmd := &ConfigCmd{Server: "http://localhost:1", SetCategory: "no-equals"}
	err := cmd.Run(testGlobals(&stdout))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NAME=LEVEL")
}
