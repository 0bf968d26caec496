package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scimtools/scimwatch/internal/config"
	"github.com/scimtools/scimwatch/internal/domain"
)

func testGlobals(stdout *bytes.Buffer) *Globals {
	return &Globals{
		Format: "ndjson",
		Level:  "INFO",
		Stdout: stdout,
		Stderr: &bytes.Buffer{},
		Config: config.Default(),
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyzeCmd(t *testing.T) {
	records := strings.Join([]string{
		`{"id":"1","method":"POST","url":"/scim/v2/Users","status":201,"responseBody":"{\"id\":\"u1\",\"userName\":\"alice@example.com\"}"}`,
		``,
		`not json at all`,
		`{"id":"2","method":"GET","url":"/Users?filter=userName%20eq%20%2212345678-1234-1234-1234-123456789012%22","status":200}`,
	}, "\n")
	input := writeTempFile(t, "records.ndjson", records)

	var stdout bytes.Buffer
	cmd := &AnalyzeCmd{File: input}
	require.NoError(t, cmd.Run(testGlobals(&stdout)))

	lines := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
	require.Len(t, lines, 3)

	var first domain.ActivitySummary
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "User created: alice@example.com", first.Message)
	assert.Equal(t, domain.ActivityTypeUser, first.Type)

	// The malformed line becomes an error record, not a failure.
	var errOut struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &errOut))
	assert.Equal(t, "error", errOut.Type)
	assert.Equal(t, "decode", errOut.Code)
	assert.Contains(t, errOut.Message, "line 3")

	var last domain.ActivitySummary
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &last))
	assert.True(t, last.IsKeepalive)
}

func TestAnalyzeCmdSkipKeepalive(t *testing.T) {
	input := writeTempFile(t, "records.ndjson",
		`{"id":"1","method":"GET","url":"/Users?filter=userName%20eq%20%2212345678-1234-1234-1234-123456789012%22","status":200}`+"\n"+
			`{"id":"2","method":"DELETE","url":"/Users/u1","status":204,"identifier":"alice@example.com"}`+"\n")

	var stdout bytes.Buffer
	cmd := &AnalyzeCmd{File: input, SkipKeepalive: true}
	require.NoError(t, cmd.Run(testGlobals(&stdout)))

	lines := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "User deleted")
}

func TestAnalyzeCmdWithNames(t *testing.T) {
	names := writeTempFile(t, "names.json", `{"users":{"u1":"Alice Johnson","u2":"Bob Smith"}}`)
	input := writeTempFile(t, "records.ndjson",
		`{"id":"1","method":"PATCH","url":"/Groups/g1","status":200,"identifier":"Engineering","requestBody":"{\"Operations\":[{\"op\":\"add\",\"path\":\"members\",\"value\":[{\"value\":\"u1\"},{\"value\":\"u2\"}]}]}"}`+"\n")

	var stdout bytes.Buffer
	cmd := &AnalyzeCmd{File: input, Names: names}
	require.NoError(t, cmd.Run(testGlobals(&stdout)))

	var summary domain.ActivitySummary
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &summary))
	assert.Equal(t, "Alice Johnson, Bob Smith were added to Engineering", summary.Message)
}

func TestLoadResolver(t *testing.T) {
	// No file: empty but usable resolver.
	resolver, err := loadResolver("")
	require.NoError(t, err)
	_, err = resolver.ResolveUserName(t.Context(), "u1")
	assert.Error(t, err)

	path := writeTempFile(t, "names.json", `{"users":{"u1":"Alice"},"groups":{"g1":"Engineering"}}`)
	resolver, err = loadResolver(path)
	require.NoError(t, err)

	name, err := resolver.ResolveUserName(t.Context(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", name)

	name, err = resolver.ResolveGroupName(t.Context(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "Engineering", name)

	_, err = loadResolver(writeTempFile(t, "bad.json", "{broken"))
	assert.Error(t, err)
}

func TestNewWriterSelection(t *testing.T) {
	var buf bytes.Buffer

	g := testGlobals(&buf)
	g.Format = "text"
	_, ok := g.NewWriter().(interface{ WriteRaw(any) error })
	assert.False(t, ok, "text writer has no raw output")

	g.Format = "ndjson"
	_, ok = g.NewWriter().(interface{ WriteRaw(any) error })
	assert.True(t, ok)

	// auto without a terminal resolves to ndjson.
	g.Format = "auto"
	g.Config.Format = "auto"
	_, ok = g.NewWriter().(interface{ WriteRaw(any) error })
	assert.True(t, ok)
}
