package activity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scimtools/scimwatch/internal/domain"
)

func TestDiffMembers(t *testing.T) {
	resolver := testResolver()

	tests := []struct {
		name    string
		body    string
		added   []domain.MemberChange
		removed []domain.MemberChange
	}{
		{
			name:  "array of value objects",
			body:  `{"Operations":[{"op":"add","path":"members","value":[{"value":"u1"},{"value":"u2"}]}]}`,
			added: []domain.MemberChange{{ID: "u1", Name: "Alice Johnson"}, {ID: "u2", Name: "Bob Smith"}},
		},
		{
			name:  "array of bare strings",
			body:  `{"Operations":[{"op":"add","path":"members","value":["u1","u2"]}]}`,
			added: []domain.MemberChange{{ID: "u1", Name: "Alice Johnson"}, {ID: "u2", Name: "Bob Smith"}},
		},
		{
			name:  "single value object",
			body:  `{"Operations":[{"op":"add","path":"members","value":{"value":"u1"}}]}`,
			added: []domain.MemberChange{{ID: "u1", Name: "Alice Johnson"}},
		},
		{
			name:  "bare string value",
			body:  `{"Operations":[{"op":"add","path":"members","value":"u1"}]}`,
			added: []domain.MemberChange{{ID: "u1", Name: "Alice Johnson"}},
		},
		{
			name:    "filter path remove double quotes",
			body:    `{"Operations":[{"op":"remove","path":"members[value eq \"u2\"]"}]}`,
			removed: []domain.MemberChange{{ID: "u2", Name: "Bob Smith"}},
		},
		{
			name:    "filter path remove single quotes",
			body:    `{"Operations":[{"op":"Remove","path":"members[value eq 'u1']"}]}`,
			removed: []domain.MemberChange{{ID: "u1", Name: "Alice Johnson"}},
		},
		{
			name:    "mixed add and remove",
			body:    `{"Operations":[{"op":"add","path":"members","value":[{"value":"u1"}]},{"op":"remove","path":"members","value":[{"value":"u2"}]}]}`,
			added:   []domain.MemberChange{{ID: "u1", Name: "Alice Johnson"}},
			removed: []domain.MemberChange{{ID: "u2", Name: "Bob Smith"}},
		},
		{
			name:  "unresolvable id keeps id as name",
			body:  `{"Operations":[{"op":"add","path":"members","value":[{"value":"u99"}]}]}`,
			added: []domain.MemberChange{{ID: "u99", Name: "u99"}},
		},
		{
			name: "non-member ops ignored",
			body: `{"Operations":[{"op":"replace","path":"displayName","value":"x"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := diffMembers(context.Background(), opsFromJSON(t, tt.body), resolver)
			assert.Equal(t, tt.added, nonEmpty(diff.Added))
			assert.Equal(t, tt.removed, nonEmpty(diff.Removed))
		})
	}
}

// nonEmpty normalizes empty slices to nil for comparison
func nonEmpty(members []domain.MemberChange) []domain.MemberChange {
	if len(members) == 0 {
		return nil
	}
	return members
}

func TestIsMemberOp(t *testing.T) {
	assert.True(t, isMemberOp(patchOp{Path: "members"}))
	assert.True(t, isMemberOp(patchOp{Path: `Members[value eq "u1"]`}))
	assert.False(t, isMemberOp(patchOp{Path: "displayName"}))
	assert.False(t, isMemberOp(patchOp{Path: "membersOfSomething"}))
}

func TestMemberNames(t *testing.T) {
	names := memberNames([]domain.MemberChange{
		{ID: "u1", Name: "Alice Johnson"},
		{ID: "u2", Name: "Bob Smith"},
	})
	assert.Equal(t, "Alice Johnson, Bob Smith", names)
}
