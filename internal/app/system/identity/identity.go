// internal/app/system/identity/identity.go

// Package identity carries the resolved caller through a request. The
// caller's id/email come from the authentication layer and the access
// set from the upstream membership aggregation; domain code never
// computes either on its own.
package identity

import (
	"context"
)

// Caller is the resolved identity of the requestor plus the set of group
// scopes the caller can act within.
type Caller struct {
	ID     string
	Email  string
	Access []string
}

// Authenticated reports whether both identity halves are present.
// Group operations require id and email; token operations only id.
func (c Caller) Authenticated() bool { return c.ID != "" && c.Email != "" }

// HasScope reports whether scope is in the caller's resolved access set.
func (c Caller) HasScope(scope string) bool {
	for _, s := range c.Access {
		if s == scope {
			return true
		}
	}
	return false
}

type ctxKey struct{}

// WithCaller returns a context carrying the caller.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the caller stored by WithCaller, if any.
func FromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(ctxKey{}).(Caller)
	return c, ok
}
