package activity

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/scimtools/scimwatch/internal/domain"
)

// memberPathRe matches filter-style paths like members[value eq "id"],
// tolerating either quote style and any operator casing.
var memberPathRe = regexp.MustCompile(`(?i)^members\[\s*value\s+eq\s+(?:"([^"]*)"|'([^']*)')\s*\]$`)

// isMemberOp reports whether a PATCH operation touches group membership
func isMemberOp(op patchOp) bool {
	lower := strings.ToLower(op.Path)
	return lower == "members" || strings.HasPrefix(lower, "members[")
}

// memberDiff holds resolved membership changes of one group PATCH
type memberDiff struct {
	Added   []domain.MemberChange
	Removed []domain.MemberChange
}

// diffMembers partitions member operations into additions and removals and
// resolves every member id to a display name. All lookups for one diff run
// concurrently; a failed lookup falls back to the id.
func diffMembers(ctx context.Context, ops []patchOp, resolver NameResolver) memberDiff {
	var addIDs, removeIDs []string
	for _, op := range ops {
		if !isMemberOp(op) {
			continue
		}
		ids := op.Value.memberIDs()
		if len(ids) == 0 && op.Value.kind == valueAbsent {
			if id, ok := memberIDFromPath(op.Path); ok {
				ids = []string{id}
			}
		}
		switch strings.ToLower(op.Op) {
		case "add":
			addIDs = append(addIDs, ids...)
		case "remove":
			removeIDs = append(removeIDs, ids...)
		}
	}

	diff := memberDiff{
		Added:   make([]domain.MemberChange, len(addIDs)),
		Removed: make([]domain.MemberChange, len(removeIDs)),
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range addIDs {
		diff.Added[i].ID = id
		g.Go(func() error {
			diff.Added[i].Name = resolveUser(gctx, resolver, id)
			return nil
		})
	}
	for i, id := range removeIDs {
		diff.Removed[i].ID = id
		g.Go(func() error {
			diff.Removed[i].Name = resolveUser(gctx, resolver, id)
			return nil
		})
	}
	// Lookups never return errors; Wait only synchronizes the fan-out.
	_ = g.Wait()

	return diff
}

// memberIDFromPath parses the member id out of a filter-style path
func memberIDFromPath(path string) (string, bool) {
	m := memberPathRe.FindStringSubmatch(path)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], true
}

// memberNames joins the display names of a change set
func memberNames(members []domain.MemberChange) string {
	names := make([]string, len(members))
	for i, m := range members {
		names[i] = m.Name
	}
	return strings.Join(names, ", ")
}
