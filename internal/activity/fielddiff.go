package activity

import (
	"context"
	"fmt"
	"strings"
)

// maxInlineValueLen is the longest stringified value rendered inline in a
// field diff; anything longer collapses to "<Field> changed".
const maxInlineValueLen = 50

// renderFieldDiffs turns PATCH operations into human-readable change
// descriptions. Operations that cannot be rendered are skipped individually
// and never abort the rest of the diff.
func renderFieldDiffs(ctx context.Context, ops []patchOp, resolver NameResolver) []string {
	var lines []string
	for _, op := range ops {
		if line, ok := renderFieldDiff(ctx, op, resolver); ok {
			lines = append(lines, line)
		}
	}
	return lines
}

func renderFieldDiff(ctx context.Context, op patchOp, resolver NameResolver) (string, bool) {
	field := normalizeFieldPath(op.Path)

	switch strings.ToLower(field) {
	case "manager":
		if strings.EqualFold(op.Op, "remove") {
			return "Manager removed", true
		}
		id, ok := op.Value.scalarRef()
		if !ok {
			return "", false
		}
		return fmt.Sprintf("Manager → %s", resolveUser(ctx, resolver, id)), true

	case "displayname":
		return renderLiteral("Display Name", op.Value)

	case "title":
		return renderLiteral("Title", op.Value)

	case "department":
		return renderLiteral("Department", op.Value)

	case "emails":
		addr, ok := op.Value.firstEmail()
		if !ok {
			return "", false
		}
		return fmt.Sprintf("Email → %s", addr), true

	case "active":
		b, ok := op.Value.boolEquivalent()
		if !ok {
			return "", false
		}
		if b {
			return "Status → Active", true
		}
		return "Status → Inactive", true
	}

	// Generic fallback for any other field with a value on add/replace.
	lower := strings.ToLower(op.Op)
	if lower != "add" && lower != "replace" {
		return "", false
	}
	value, ok := op.Value.display()
	if !ok {
		return "", false
	}
	label := expandFieldName(field)
	if len(value) < maxInlineValueLen {
		return fmt.Sprintf("%s → %s", label, value), true
	}
	return fmt.Sprintf("%s changed", label), true
}

func renderLiteral(label string, v patchValue) (string, bool) {
	value, ok := v.display()
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s → %s", label, value), true
}

// normalizeFieldPath strips a leading urn:...: extension prefix down to the
// trailing field name. Display text keeps the original value casing; only
// matching is case-insensitive.
func normalizeFieldPath(path string) string {
	if idx := strings.LastIndex(path, ":"); idx >= 0 {
		path = path[idx+1:]
	}
	return path
}

// expandFieldName turns a camelCase attribute path into a title-cased,
// space-separated label ("phoneNumbers" → "Phone Numbers").
func expandFieldName(field string) string {
	var b strings.Builder
	prevLower := false
	startWord := true
	for _, r := range field {
		if r == '.' || r == '_' {
			b.WriteRune(' ')
			startWord = true
			prevLower = false
			continue
		}
		switch {
		case startWord:
			b.WriteRune(toUpper(r))
			startWord = false
		case r >= 'A' && r <= 'Z' && prevLower:
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
		prevLower = r >= 'a' && r <= 'z'
	}
	return b.String()
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
