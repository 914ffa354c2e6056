// internal/app/system/authz/authz.go

// Package authz holds the ownership guard used by services that store
// records on behalf of a group. A caller may act on a record only when
// the owning scope is in their resolved access.
package authz

import (
	"net/http"

	"github.com/scopehub/scopehub/internal/app/system/autherr"
	"github.com/scopehub/scopehub/internal/app/system/identity"
)

// Authorize checks a caller against the owner scope of a record.
// Returns nil only when the scope is in the caller's resolved access;
// a record with no owner scope is denied to everyone, never open.
func Authorize(caller identity.Caller, owner string) error {
	if !caller.Authenticated() {
		return autherr.NewNotAuthenticated()
	}
	if !caller.HasScope(owner) {
		return autherr.NewNotAuthorized(caller.ID, owner)
	}
	return nil
}

// Require wraps Authorize for handlers: it extracts the caller from the
// request context and authorizes against the owner scope.
func Require(r *http.Request, owner string) (identity.Caller, error) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		return identity.Caller{}, autherr.NewNotAuthenticated()
	}
	if err := Authorize(caller, owner); err != nil {
		return identity.Caller{}, err
	}
	return caller, nil
}
