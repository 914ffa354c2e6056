package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/scopehub/scopehub/internal/app/system/autherr"
	"github.com/scopehub/scopehub/internal/app/system/authz"
	"github.com/scopehub/scopehub/internal/app/system/identity"
	"github.com/scopehub/scopehub/internal/testutil"
)

func caller(scopes ...string) identity.Caller {
	return identity.Caller{ID: "user-1", Email: "one@test.local", Access: scopes}
}

func TestAuthorize_NotAuthenticated(t *testing.T) {
	err := authz.Authorize(identity.Caller{}, "group-1")
	if !autherr.IsKind(err, autherr.NotAuthenticated) {
		t.Errorf("expected NotAuthenticated, got %v", err)
	}

	// An id without an email is not an authenticated caller.
	err = authz.Authorize(identity.Caller{ID: "user-1"}, "group-1")
	if !autherr.IsKind(err, autherr.NotAuthenticated) {
		t.Errorf("expected NotAuthenticated, got %v", err)
	}
}

func TestAuthorize_OwnIDIsNotAScope(t *testing.T) {
	// The caller's own user id grants nothing; only resolved access
	// scopes do.
	err := authz.Authorize(caller(), "user-1")
	if !autherr.IsKind(err, autherr.NotAuthorized) {
		t.Errorf("expected NotAuthorized, got %v", err)
	}
}

func TestAuthorize_ByScope(t *testing.T) {
	if err := authz.Authorize(caller("group-1", "group-2"), "group-2"); err != nil {
		t.Errorf("caller with scope should be authorized: %v", err)
	}

	err := authz.Authorize(caller("group-1"), "group-9")
	if !autherr.IsKind(err, autherr.NotAuthorized) {
		t.Errorf("expected NotAuthorized, got %v", err)
	}
}

func TestAuthorize_UnownedRecord(t *testing.T) {
	// A record with no owner scope is denied, not open.
	err := authz.Authorize(caller("group-1"), "")
	if !autherr.IsKind(err, autherr.NotAuthorized) {
		t.Errorf("expected NotAuthorized for empty owner scope, got %v", err)
	}
}

func TestRequire(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req = testutil.WithCaller(req, caller("group-1"))

	got, err := authz.Require(req, "group-1")
	if err != nil {
		t.Fatalf("Require failed: %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("caller: got %+v", got)
	}
}

func TestRequire_NoCaller(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)

	_, err := authz.Require(req, "group-1")
	if !autherr.IsKind(err, autherr.NotAuthenticated) {
		t.Errorf("expected NotAuthenticated, got %v", err)
	}
}
