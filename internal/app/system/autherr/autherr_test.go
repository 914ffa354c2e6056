package autherr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/scopehub/scopehub/internal/app/system/autherr"
)

func TestKindOf(t *testing.T) {
	err := autherr.NewGroupNotFound("abc123", nil)
	if got := autherr.KindOf(err); got != autherr.GroupNotFound {
		t.Errorf("KindOf: got %q, want %q", got, autherr.GroupNotFound)
	}

	if got := autherr.KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain error): got %q, want empty", got)
	}
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("handler: %w", autherr.NewNotAuthenticated())
	if !autherr.IsKind(err, autherr.NotAuthenticated) {
		t.Error("expected NotAuthenticated kind through wrapping")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := autherr.NewGroupsDbUpdate("db insert failed", "g1", cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the wrapped cause")
	}
}

func TestIs_ByKind(t *testing.T) {
	err := autherr.NewGroupNotFound("g1", nil)
	if !errors.Is(err, &autherr.Error{Kind: autherr.GroupNotFound}) {
		t.Error("expected kind-based match")
	}
	if errors.Is(err, &autherr.Error{Kind: autherr.GroupsDbUpdate}) {
		t.Error("kinds should not cross-match")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{autherr.NewNotAuthenticated(), http.StatusUnauthorized},
		{autherr.NewNotAuthorized("u1", "g1"), http.StatusForbidden},
		{autherr.NewNotAuthorizedByToken("u1", "g1"), http.StatusForbidden},
		{autherr.NewUnvalidToken(nil), http.StatusUnauthorized},
		{autherr.NewGroupNotFound("g1", nil), http.StatusNotFound},
		{autherr.NewGroupsDbUpdate("no match", "g1", nil), http.StatusConflict},
		{autherr.NewNoGroupsFound("u1", "a@b.c"), http.StatusNotFound},
		{autherr.NewUserNotCreated("user already exist!", "a@b.c", nil), http.StatusConflict},
		{autherr.NewUserAuthentication("wrong password", "a@b.c", nil), http.StatusUnauthorized},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := autherr.HTTPStatus(c.err); got != c.want {
			t.Errorf("HTTPStatus(%v): got %d, want %d", c.err, got, c.want)
		}
	}
}

func TestErrorString(t *testing.T) {
	err := autherr.NewUnvalidToken(errors.New("token is expired"))
	if err.Error() != "unvalid token: token is expired" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	bare := autherr.NewNotAuthenticated()
	if bare.Error() != "not authenticated" {
		t.Errorf("unexpected message: %q", bare.Error())
	}
}
