package activity

import (
	"context"
	"fmt"
)

// NameResolver looks up display names for user and group ids. The
// classifier treats every failure as "resolution failed" and falls back to
// the raw id, so implementations are free to time out or error.
type NameResolver interface {
	ResolveUserName(ctx context.Context, id string) (string, error)
	ResolveGroupName(ctx context.Context, id string) (string, error)
}

// StaticResolver resolves names from in-memory maps. Used by tests and by
// the analyze command when a mapping file is supplied.
type StaticResolver struct {
	Users  map[string]string
	Groups map[string]string
}

// ResolveUserName implements NameResolver
func (r *StaticResolver) ResolveUserName(_ context.Context, id string) (string, error) {
	if name, ok := r.Users[id]; ok {
		return name, nil
	}
	return "", fmt.Errorf("unknown user %q", id)
}

// ResolveGroupName implements NameResolver
func (r *StaticResolver) ResolveGroupName(_ context.Context, id string) (string, error) {
	if name, ok := r.Groups[id]; ok {
		return name, nil
	}
	return "", fmt.Errorf("unknown group %q", id)
}

// ResolverFuncs adapts plain lookup functions to NameResolver. A nil
// function reports the id as unresolvable.
type ResolverFuncs struct {
	UserFn  func(ctx context.Context, id string) (string, error)
	GroupFn func(ctx context.Context, id string) (string, error)
}

// ResolveUserName implements NameResolver
func (r ResolverFuncs) ResolveUserName(ctx context.Context, id string) (string, error) {
	if r.UserFn == nil {
		return "", fmt.Errorf("no user lookup configured")
	}
	return r.UserFn(ctx, id)
}

// ResolveGroupName implements NameResolver
func (r ResolverFuncs) ResolveGroupName(ctx context.Context, id string) (string, error) {
	if r.GroupFn == nil {
		return "", fmt.Errorf("no group lookup configured")
	}
	return r.GroupFn(ctx, id)
}

// resolveUser swallows lookup failures, returning the id itself
func resolveUser(ctx context.Context, resolver NameResolver, id string) string {
	if resolver == nil || id == "" {
		return id
	}
	name, err := resolver.ResolveUserName(ctx, id)
	if err != nil || name == "" {
		return id
	}
	return name
}

// resolveGroup swallows lookup failures, returning the id itself
func resolveGroup(ctx context.Context, resolver NameResolver, id string) string {
	if resolver == nil || id == "" {
		return id
	}
	name, err := resolver.ResolveGroupName(ctx, id)
	if err != nil || name == "" {
		return id
	}
	return name
}
