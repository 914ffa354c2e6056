package tokens_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/scopehub/scopehub/internal/app/features/tokens"
	"github.com/scopehub/scopehub/internal/app/system/captoken"
	"github.com/scopehub/scopehub/internal/app/system/identity"
	"github.com/scopehub/scopehub/internal/testutil"
)

func newHandler() *tokens.Handler {
	return tokens.NewHandler(captoken.New("test-secret", time.Hour), zap.NewNop())
}

func sign(t *testing.T, h *tokens.Handler, caller identity.Caller, audience string) string {
	t.Helper()
	req := testutil.NewJSONRequest(t, "POST", "/tokens/sign", map[string]any{
		"audience": audience,
		"payload":  map[string]any{"action": "read"},
	})
	req = testutil.WithCaller(req, caller)
	rec := httptest.NewRecorder()
	h.HandleSign(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("sign status: got %d (body %s)", rec.Code, rec.Body.String())
	}
	var body struct {
		Token string `json:"token"`
	}
	testutil.DecodeJSON(t, rec, &body)
	if body.Token == "" {
		t.Fatal("expected a token")
	}
	return body.Token
}

func TestSignAndVerify(t *testing.T) {
	h := newHandler()
	issuer := identity.Caller{ID: "user-1", Email: "one@test.local"}

	token := sign(t, h, issuer, "group-42")

	req := testutil.NewJSONRequest(t, "POST", "/tokens/verify", map[string]string{"token": token})
	req = testutil.WithCaller(req, issuer)
	rec := httptest.NewRecorder()
	h.HandleVerify(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status: got %d (body %s)", rec.Code, rec.Body.String())
	}
	var claims map[string]any
	testutil.DecodeJSON(t, rec, &claims)
	if claims["aud"] != "group-42" || claims["action"] != "read" {
		t.Errorf("claims: %v", claims)
	}
}

func TestVerify_ForbiddenWithoutAccess(t *testing.T) {
	h := newHandler()
	issuer := identity.Caller{ID: "user-1", Email: "one@test.local"}
	stranger := identity.Caller{ID: "user-2", Email: "two@test.local"}

	token := sign(t, h, issuer, "group-42")

	req := testutil.NewJSONRequest(t, "POST", "/tokens/verify", map[string]string{"token": token})
	req = testutil.WithCaller(req, stranger)
	rec := httptest.NewRecorder()
	h.HandleVerify(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestVerify_GarbageToken(t *testing.T) {
	h := newHandler()
	caller := identity.Caller{ID: "user-1", Email: "one@test.local"}

	req := testutil.NewJSONRequest(t, "POST", "/tokens/verify", map[string]string{"token": "garbage"})
	req = testutil.WithCaller(req, caller)
	rec := httptest.NewRecorder()
	h.HandleVerify(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestSign_WithoutAudience(t *testing.T) {
	h := newHandler()
	issuer := identity.Caller{ID: "user-1", Email: "one@test.local"}
	stranger := identity.Caller{ID: "user-2", Email: "two@test.local"}

	// The audience is optional; an audience-less token is still signed.
	token := sign(t, h, issuer, "")

	// The issuer redeems it themselves.
	req := testutil.NewJSONRequest(t, "POST", "/tokens/verify", map[string]string{"token": token})
	req = testutil.WithCaller(req, issuer)
	rec := httptest.NewRecorder()
	h.HandleVerify(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status: got %d (body %s)", rec.Code, rec.Body.String())
	}
	var claims map[string]any
	testutil.DecodeJSON(t, rec, &claims)
	if claims["action"] != "read" {
		t.Errorf("claims: %v", claims)
	}
	if _, found := claims["aud"]; found {
		t.Errorf("audience-less token should carry no aud claim, got %v", claims["aud"])
	}

	// Nobody else can.
	req = testutil.NewJSONRequest(t, "POST", "/tokens/verify", map[string]string{"token": token})
	req = testutil.WithCaller(req, stranger)
	rec = httptest.NewRecorder()
	h.HandleVerify(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}
