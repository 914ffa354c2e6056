package accounts_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/scopehub/scopehub/internal/app/features/accounts"
	userstore "github.com/scopehub/scopehub/internal/app/store/users"
	"github.com/scopehub/scopehub/internal/app/system/auth"
	"github.com/scopehub/scopehub/internal/app/system/identity"
	"github.com/scopehub/scopehub/internal/app/system/mailer"
	"github.com/scopehub/scopehub/internal/domain/models"
	"github.com/scopehub/scopehub/internal/testutil"
)

func setup(t *testing.T) (*accounts.Handler, *userstore.Store) {
	db := testutil.SetupTestDB(t)
	users := userstore.New(db)
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	mail := mailer.New(mailer.Config{}, zap.NewNop()) // disabled, sends are logged drops
	h := accounts.NewHandler(users, tokens, mail, accounts.Links{
		SiteName: "ScopeHub",
		Confirm:  "https://example.com/confirm",
		Reset:    "https://example.com/reset",
	}, zap.NewNop())
	return h, users
}

func register(t *testing.T, h *accounts.Handler, email, password string) models.User {
	t.Helper()
	req := testutil.NewJSONRequest(t, "POST", "/accounts/register", map[string]string{
		"email":    email,
		"password": password,
	})
	rec := httptest.NewRecorder()
	h.HandleRegister(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status: got %d (body %s)", rec.Code, rec.Body.String())
	}
	var u models.User
	testutil.DecodeJSON(t, rec, &u)
	return u
}

func TestHandleRegister(t *testing.T) {
	h, _ := setup(t)

	u := register(t, h, "NEW@Example.com", "secret123")
	if u.Email != "new@example.com" {
		t.Errorf("email: got %q", u.Email)
	}
	if u.Verified {
		t.Error("fresh accounts must be unverified")
	}
}

func TestHandleRegister_NoPasswordInResponse(t *testing.T) {
	h, _ := setup(t)

	req := testutil.NewJSONRequest(t, "POST", "/accounts/register", map[string]string{
		"email":    "hidden@example.com",
		"password": "secret123",
	})
	rec := httptest.NewRecorder()
	h.HandleRegister(rec, req)

	var raw map[string]any
	testutil.DecodeJSON(t, rec, &raw)
	if _, leaked := raw["password"]; leaked {
		t.Error("password hash must not appear in responses")
	}
}

func TestLoginFlow(t *testing.T) {
	h, users := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := register(t, h, "login@example.com", "secret123")

	// Login before confirmation fails.
	req := testutil.NewJSONRequest(t, "POST", "/accounts/login", map[string]string{
		"email":    "login@example.com",
		"password": "secret123",
	})
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unconfirmed login status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	if err := users.SetVerified(ctx, u.ID.Hex()); err != nil {
		t.Fatalf("SetVerified failed: %v", err)
	}

	req = testutil.NewJSONRequest(t, "POST", "/accounts/login", map[string]string{
		"email":    "login@example.com",
		"password": "secret123",
	})
	rec = httptest.NewRecorder()
	h.HandleLogin(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status: got %d (body %s)", rec.Code, rec.Body.String())
	}
	var body struct {
		Token string `json:"token"`
	}
	testutil.DecodeJSON(t, rec, &body)
	if body.Token == "" {
		t.Fatal("expected an access token")
	}

	// The token resolves back to the account.
	req = testutil.NewJSONRequest(t, "POST", "/accounts/resolve", map[string]string{"token": body.Token})
	rec = httptest.NewRecorder()
	h.HandleResolve(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("resolve status: got %d (body %s)", rec.Code, rec.Body.String())
	}
	var resolved models.User
	testutil.DecodeJSON(t, rec, &resolved)
	if resolved.ID != u.ID {
		t.Errorf("resolved wrong account: %s", resolved.ID.Hex())
	}
}

func TestConfirmFlow(t *testing.T) {
	h, users := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	register(t, h, "confirm@example.com", "secret123")
	u, err := users.GetByEmail(ctx, "confirm@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}

	// Mint the same kind of token the mailed link carries.
	token, err := h.Tokens.VerificationToken(u)
	if err != nil {
		t.Fatalf("VerificationToken failed: %v", err)
	}

	req := testutil.NewJSONRequest(t, "POST", "/accounts/confirm", map[string]string{"token": token})
	rec := httptest.NewRecorder()
	h.HandleConfirm(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm status: got %d (body %s)", rec.Code, rec.Body.String())
	}

	got, err := users.GetByEmail(ctx, "confirm@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if !got.Verified {
		t.Error("account should be verified after confirmation")
	}
}

func TestConfirm_AccessTokenRejected(t *testing.T) {
	h, users := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	register(t, h, "sneaky@example.com", "secret123")
	u, err := users.GetByEmail(ctx, "sneaky@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}

	// An access token must not confirm an account.
	token, err := h.Tokens.AccessToken(u)
	if err != nil {
		t.Fatalf("AccessToken failed: %v", err)
	}
	req := testutil.NewJSONRequest(t, "POST", "/accounts/confirm", map[string]string{"token": token})
	rec := httptest.NewRecorder()
	h.HandleConfirm(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	h, users := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := register(t, h, "reset@example.com", "oldpass")
	if err := users.SetVerified(ctx, u.ID.Hex()); err != nil {
		t.Fatalf("SetVerified failed: %v", err)
	}

	// Request a reset; with the mailer disabled this only needs to 200.
	req := testutil.NewJSONRequest(t, "POST", "/accounts/password/request", map[string]string{
		"email": "reset@example.com",
	})
	rec := httptest.NewRecorder()
	h.HandlePasswordRequest(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("password request status: got %d (body %s)", rec.Code, rec.Body.String())
	}

	full, err := users.GetByEmail(ctx, "reset@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	token, err := h.Tokens.ResetToken(full)
	if err != nil {
		t.Fatalf("ResetToken failed: %v", err)
	}

	req = testutil.NewJSONRequest(t, "POST", "/accounts/password/reset", map[string]string{
		"token":    token,
		"password": "newpass",
	})
	rec = httptest.NewRecorder()
	h.HandlePasswordReset(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("password reset status: got %d (body %s)", rec.Code, rec.Body.String())
	}

	if _, err := users.Authenticate(ctx, "reset@example.com", "newpass"); err != nil {
		t.Errorf("new password should authenticate: %v", err)
	}
	if _, err := users.Authenticate(ctx, "reset@example.com", "oldpass"); err == nil {
		t.Error("old password should be dead")
	}
}

func TestHandleMe(t *testing.T) {
	h, users := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := register(t, h, "me@example.com", "secret123")
	if err := users.SetVerified(ctx, u.ID.Hex()); err != nil {
		t.Fatalf("SetVerified failed: %v", err)
	}

	req := testutil.NewJSONRequest(t, "GET", "/accounts/me", nil)
	req = testutil.WithCaller(req, identity.Caller{ID: u.ID.Hex(), Email: u.Email})
	rec := httptest.NewRecorder()
	h.HandleMe(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status: got %d (body %s)", rec.Code, rec.Body.String())
	}
	var got models.User
	testutil.DecodeJSON(t, rec, &got)
	if got.ID != u.ID {
		t.Errorf("wrong account: %s", got.ID.Hex())
	}
}

func TestHandleMe_Anonymous(t *testing.T) {
	h, _ := setup(t)

	req := testutil.NewJSONRequest(t, "GET", "/accounts/me", nil)
	rec := httptest.NewRecorder()
	h.HandleMe(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
