package activity

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func opsFromJSON(t *testing.T, body string) []patchOp {
	t.Helper()
	return decodePatchOps(gjson.Parse(body))
}

func TestRenderFieldDiffs(t *testing.T) {
	resolver := testResolver()

	tests := []struct {
		name     string
		body     string
		expected []string
	}{
		{
			name:     "manager object value resolved",
			body:     `{"Operations":[{"op":"replace","path":"manager","value":{"value":"u1"}}]}`,
			expected: []string{"Manager → Alice Johnson"},
		},
		{
			name:     "manager string value resolved",
			body:     `{"Operations":[{"op":"replace","path":"manager","value":"u2"}]}`,
			expected: []string{"Manager → Bob Smith"},
		},
		{
			name:     "manager unresolvable id falls back",
			body:     `{"Operations":[{"op":"replace","path":"manager","value":"u99"}]}`,
			expected: []string{"Manager → u99"},
		},
		{
			name:     "manager removed",
			body:     `{"Operations":[{"op":"remove","path":"manager"}]}`,
			expected: []string{"Manager removed"},
		},
		{
			name:     "enterprise urn manager path",
			body:     `{"Operations":[{"op":"replace","path":"urn:ietf:params:scim:schemas:extension:enterprise:2.0:User:manager","value":{"value":"u1"}}]}`,
			expected: []string{"Manager → Alice Johnson"},
		},
		{
			name:     "title and department",
			body:     `{"Operations":[{"op":"replace","path":"title","value":"Director"},{"op":"replace","path":"department","value":"Sales"}]}`,
			expected: []string{"Title → Director", "Department → Sales"},
		},
		{
			name:     "display name",
			body:     `{"Operations":[{"op":"replace","path":"displayName","value":"Alice J."}]}`,
			expected: []string{"Display Name → Alice J."},
		},
		{
			name:     "emails array of objects",
			body:     `{"Operations":[{"op":"replace","path":"emails","value":[{"value":"new@example.com","primary":true}]}]}`,
			expected: []string{"Email → new@example.com"},
		},
		{
			name:     "emails single object",
			body:     `{"Operations":[{"op":"replace","path":"emails","value":{"value":"new@example.com"}}]}`,
			expected: []string{"Email → new@example.com"},
		},
		{
			name:     "emails bare string",
			body:     `{"Operations":[{"op":"replace","path":"emails","value":"new@example.com"}]}`,
			expected: []string{"Email → new@example.com"},
		},
		{
			name:     "active as status line",
			body:     `{"Operations":[{"op":"replace","path":"active","value":false}]}`,
			expected: []string{"Status → Inactive"},
		},
		{
			name:     "generic field expanded",
			body:     `{"Operations":[{"op":"replace","path":"preferredLanguage","value":"de-DE"}]}`,
			expected: []string{"Preferred Language → de-DE"},
		},
		{
			name:     "long value collapses",
			body:     `{"Operations":[{"op":"replace","path":"timezone","value":"` + strings.Repeat("x", 60) + `"}]}`,
			expected: []string{"Timezone changed"},
		},
		{
			name:     "remove without special handling skipped",
			body:     `{"Operations":[{"op":"remove","path":"entitlements"}]}`,
			expected: nil,
		},
		{
			name:     "valueless replace skipped",
			body:     `{"Operations":[{"op":"replace","path":"nickName"}]}`,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderFieldDiffs(context.Background(), opsFromJSON(t, tt.body), resolver)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExpandFieldName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"title", "Title"},
		{"phoneNumbers", "Phone Numbers"},
		{"preferredLanguage", "Preferred Language"},
		{"name.givenName", "Name Given Name"},
		{"employee_number", "Employee Number"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, expandFieldName(tt.in), tt.in)
	}
}

func TestDecodePatchOps(t *testing.T) {
	// Both Operations key casings are accepted.
	ops := opsFromJSON(t, `{"operations":[{"op":"add","path":"title","value":"x"}]}`)
	assert.Len(t, ops, 1)

	// Non-array Operations yields nothing.
	assert.Nil(t, opsFromJSON(t, `{"Operations":"bogus"}`))
	assert.Nil(t, opsFromJSON(t, `{}`))
}

func TestPatchValueBoolEquivalent(t *testing.T) {
	tests := []struct {
		raw   string
		value bool
		ok    bool
	}{
		{`true`, true, true},
		{`false`, false, true},
		{`"True"`, true, true},
		{`"FALSE"`, false, true},
		{`"yes"`, false, false},
		{`1`, false, false},
	}
	for _, tt := range tests {
		v := decodeValue(gjson.Parse(tt.raw))
		got, ok := v.boolEquivalent()
		assert.Equal(t, tt.ok, ok, tt.raw)
		if tt.ok {
			assert.Equal(t, tt.value, got, tt.raw)
		}
	}
}
