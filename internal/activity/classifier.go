// Package activity turns raw HTTP audit records captured by the proxy into
// human-readable provisioning activity summaries, including SCIM PATCH
// diffing and keepalive detection.
package activity

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/scimtools/scimwatch/internal/domain"
)

const (
	iconUser     = "👤"
	iconEdit     = "✏️"
	iconDelete   = "🗑️"
	iconList     = "📋"
	iconDetails  = "🔍"
	iconActive   = "✅"
	iconInactive = "⏸️"
	iconGroup    = "👥"
	iconAdd      = "➕"
	iconRemove   = "➖"
	iconSystem   = "⚙️"
	iconError    = "❌"
)

// Classifier computes activity summaries from audit records. It is
// stateless and safe for concurrent use.
type Classifier struct{}

// NewClassifier creates a classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify produces the activity summary for one audit record. It is a
// total function: malformed bodies, unknown shapes and failed name lookups
// all degrade to a coarser summary instead of an error.
func (c *Classifier) Classify(ctx context.Context, record domain.RequestLogRecord, resolver NameResolver) domain.ActivitySummary {
	reqBody := parseBody(record.RequestBody)
	respBody := parseBody(record.ResponseBody)
	path := pathOf(record.URL)

	summary := domain.ActivitySummary{
		ID:          record.ID,
		Timestamp:   record.CreatedAt,
		IsKeepalive: IsKeepalive(record.Method, record.URL, record.Identifier, record.Status),
	}

	switch {
	case strings.Contains(path, "/Users"):
		c.classifyUser(ctx, &summary, record, reqBody, respBody, path, resolver)
	case strings.Contains(path, "/Groups"):
		c.classifyGroup(ctx, &summary, record, reqBody, respBody, path, resolver)
	default:
		c.classifySystem(&summary, record, path)
	}
	return summary
}

func (c *Classifier) classifyUser(ctx context.Context, summary *domain.ActivitySummary, record domain.RequestLogRecord, reqBody, respBody gjson.Result, path string, resolver NameResolver) {
	ident := record.Identifier
	if ident == "" {
		ident = userIdentifier(respBody, reqBody)
	}
	summary.Type = domain.ActivityTypeUser
	summary.UserIdentifier = ident
	name := ident
	if name == "" {
		name = "unknown user"
	}

	method := strings.ToUpper(record.Method)

	if record.Status >= 400 {
		summary.Type = domain.ActivityTypeError
		summary.Severity = domain.ActivityError
		summary.Icon = iconError
		summary.Message = fmt.Sprintf("User operation failed: %s %s", method, record.URL)
		summary.Details = fmt.Sprintf("HTTP %d", record.Status)
		return
	}

	switch method {
	case "POST":
		summary.Severity = domain.ActivitySuccess
		summary.Icon = iconUser
		summary.Message = fmt.Sprintf("User created: %s", name)
	case "PUT":
		summary.Severity = domain.ActivitySuccess
		summary.Icon = iconEdit
		summary.Message = fmt.Sprintf("User updated: %s", name)
	case "DELETE":
		summary.Severity = domain.ActivityWarning
		summary.Icon = iconDelete
		summary.Message = fmt.Sprintf("User deleted: %s", name)
	case "GET":
		summary.Severity = domain.ActivityInfo
		if isCollectionPath(path, "Users") {
			summary.Icon = iconList
			summary.Message = fmt.Sprintf("Retrieved user list (%d users)", listCount(respBody))
		} else {
			summary.Icon = iconDetails
			summary.Message = fmt.Sprintf("User details retrieved: %s", name)
		}
	case "PATCH":
		c.classifyUserPatch(ctx, summary, reqBody, name, resolver)
	default:
		summary.Severity = domain.ActivityInfo
		summary.Icon = iconUser
		summary.Message = fmt.Sprintf("User operation: %s", method)
	}
}

func (c *Classifier) classifyUserPatch(ctx context.Context, summary *domain.ActivitySummary, reqBody gjson.Result, name string, resolver NameResolver) {
	ops := decodePatchOps(reqBody)

	// Activation toggles get their own summary; providers send the flag as
	// a literal bool or as "true"/"false" strings.
	for _, op := range ops {
		if !strings.EqualFold(normalizeFieldPath(op.Path), "active") {
			continue
		}
		if active, ok := op.Value.boolEquivalent(); ok {
			if active {
				summary.Severity = domain.ActivitySuccess
				summary.Icon = iconActive
				summary.Message = fmt.Sprintf("User activated: %s", name)
			} else {
				summary.Severity = domain.ActivityWarning
				summary.Icon = iconInactive
				summary.Message = fmt.Sprintf("User deactivated: %s", name)
			}
			return
		}
	}

	details := strings.Join(renderFieldDiffs(ctx, ops, resolver), ", ")
	if details == "" {
		details = fmt.Sprintf("%d change(s)", len(ops))
	}
	summary.Severity = domain.ActivitySuccess
	summary.Icon = iconEdit
	summary.Message = fmt.Sprintf("User updated: %s", name)
	summary.Details = details
}

func (c *Classifier) classifyGroup(ctx context.Context, summary *domain.ActivitySummary, record domain.RequestLogRecord, reqBody, respBody gjson.Result, path string, resolver NameResolver) {
	method := strings.ToUpper(record.Method)

	ident := record.Identifier
	if ident == "" {
		ident = groupIdentifier(respBody, reqBody)
	}
	fromURL := false
	if ident == "" && (method == "GET" || method == "DELETE" || method == "PATCH") {
		ident = idFromPath(path, "Groups")
		fromURL = ident != ""
	}
	summary.Type = domain.ActivityTypeGroup
	summary.GroupIdentifier = ident
	name := ident
	if name == "" {
		name = "unknown group"
	} else if fromURL {
		// The URL only carries the raw id; look up the display name.
		name = resolveGroup(ctx, resolver, ident)
	}

	if record.Status >= 400 {
		summary.Type = domain.ActivityTypeError
		summary.Severity = domain.ActivityError
		summary.Icon = iconError
		summary.Message = fmt.Sprintf("Group operation failed: %s %s", method, record.URL)
		summary.Details = fmt.Sprintf("HTTP %d", record.Status)
		return
	}

	switch method {
	case "POST":
		summary.Severity = domain.ActivitySuccess
		summary.Icon = iconGroup
		summary.Message = fmt.Sprintf("Group created: %s", name)
	case "PUT":
		summary.Severity = domain.ActivitySuccess
		summary.Icon = iconEdit
		summary.Message = fmt.Sprintf("Group updated: %s", name)
	case "DELETE":
		summary.Severity = domain.ActivityWarning
		summary.Icon = iconDelete
		summary.Message = fmt.Sprintf("Group deleted: %s", name)
	case "GET":
		summary.Severity = domain.ActivityInfo
		if isCollectionPath(path, "Groups") {
			summary.Icon = iconList
			summary.Message = fmt.Sprintf("Retrieved group list (%d groups)", listCount(respBody))
		} else {
			summary.Icon = iconDetails
			summary.Message = fmt.Sprintf("Group details retrieved: %s", name)
		}
	case "PATCH":
		c.classifyGroupPatch(ctx, summary, reqBody, name, resolver)
	default:
		summary.Severity = domain.ActivityInfo
		summary.Icon = iconGroup
		summary.Message = fmt.Sprintf("Group operation: %s", method)
	}
}

func (c *Classifier) classifyGroupPatch(ctx context.Context, summary *domain.ActivitySummary, reqBody gjson.Result, groupName string, resolver NameResolver) {
	ops := decodePatchOps(reqBody)

	hasMemberOps := false
	for _, op := range ops {
		if isMemberOp(op) {
			hasMemberOps = true
			break
		}
	}
	if !hasMemberOps {
		details := strings.Join(renderFieldDiffs(ctx, ops, resolver), ", ")
		if details == "" {
			details = fmt.Sprintf("%d change(s)", len(ops))
		}
		summary.Severity = domain.ActivitySuccess
		summary.Icon = iconEdit
		summary.Message = fmt.Sprintf("Group updated: %s", groupName)
		summary.Details = details
		return
	}

	diff := diffMembers(ctx, ops, resolver)
	summary.AddedMembers = diff.Added
	summary.RemovedMembers = diff.Removed

	switch {
	case len(diff.Added) > 0 && len(diff.Removed) == 0:
		summary.Severity = domain.ActivitySuccess
		summary.Icon = iconAdd
		summary.Message = fmt.Sprintf("%s %s added to %s", memberNames(diff.Added), wasWere(len(diff.Added)), groupName)
	case len(diff.Removed) > 0 && len(diff.Added) == 0:
		summary.Severity = domain.ActivityWarning
		summary.Icon = iconRemove
		summary.Message = fmt.Sprintf("%s %s removed from %s", memberNames(diff.Removed), wasWere(len(diff.Removed)), groupName)
	case len(diff.Added) > 0 && len(diff.Removed) > 0:
		summary.Severity = domain.ActivityInfo
		summary.Icon = iconGroup
		summary.Message = fmt.Sprintf("%s membership updated", groupName)
		summary.Details = fmt.Sprintf("Added: %s | Removed: %s", memberNames(diff.Added), memberNames(diff.Removed))
	default:
		summary.Severity = domain.ActivityInfo
		summary.Icon = iconGroup
		summary.Message = fmt.Sprintf("Group updated: %s", groupName)
		summary.Details = fmt.Sprintf("%d change(s)", len(ops))
	}
}

func (c *Classifier) classifySystem(summary *domain.ActivitySummary, record domain.RequestLogRecord, path string) {
	summary.Type = domain.ActivityTypeSystem
	summary.Icon = iconSystem
	summary.Severity = domain.ActivityInfo
	if record.Status >= 400 {
		summary.Severity = domain.ActivityError
		summary.Icon = iconError
	}

	switch {
	case strings.Contains(path, "/ServiceProviderConfig"):
		summary.Message = "Service provider configuration retrieved"
	case strings.Contains(path, "/Schemas"):
		summary.Message = "SCIM schemas retrieved"
	case strings.Contains(path, "/ResourceTypes"):
		summary.Message = "Resource types retrieved"
	default:
		summary.Message = fmt.Sprintf("System operation: %s %s", strings.ToUpper(record.Method), record.URL)
	}
}

// parseBody parses a JSON body, substituting an empty object when the body
// is missing or unparsable so classification never aborts.
func parseBody(body string) gjson.Result {
	if !gjson.Valid(body) {
		return gjson.Parse("{}")
	}
	return gjson.Parse(body)
}

// pathOf extracts the URL path, ignoring the query string
func pathOf(rawURL string) string {
	path, _ := splitURL(rawURL)
	return path
}

// isCollectionPath reports whether the final path segment is the resource
// collection itself (no trailing specific-id segment).
func isCollectionPath(path, collection string) bool {
	trimmed := strings.TrimRight(path, "/")
	return trimmed[strings.LastIndex(trimmed, "/")+1:] == collection
}

// idFromPath returns the trailing id segment of a single-resource path
func idFromPath(path, collection string) string {
	trimmed := strings.TrimRight(path, "/")
	seg := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if seg == collection {
		return ""
	}
	return seg
}

// userIdentifier derives a user's display identifier from response and
// request bodies, in priority order.
func userIdentifier(bodies ...gjson.Result) string {
	for _, key := range []string{"userName", "name.formatted", "displayName", "emails.0.value", "id"} {
		for _, body := range bodies {
			if v := body.Get(key); v.Exists() && v.String() != "" {
				return v.String()
			}
		}
	}
	return ""
}

// groupIdentifier derives a group's display identifier
func groupIdentifier(bodies ...gjson.Result) string {
	for _, key := range []string{"displayName", "id"} {
		for _, body := range bodies {
			if v := body.Get(key); v.Exists() && v.String() != "" {
				return v.String()
			}
		}
	}
	return ""
}

// listCount extracts the result count of a SCIM list response
func listCount(respBody gjson.Result) int {
	if total := respBody.Get("totalResults"); total.Exists() {
		return int(total.Int())
	}
	return int(respBody.Get("Resources.#").Int())
}

func wasWere(n int) string {
	if n == 1 {
		return "was"
	}
	return "were"
}
