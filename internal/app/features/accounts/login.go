// internal/app/features/accounts/login.go
package accounts

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/scopehub/scopehub/internal/app/features/shared/render"
	"github.com/scopehub/scopehub/internal/app/system/auth"
	"github.com/scopehub/scopehub/internal/app/system/autherr"
	"github.com/scopehub/scopehub/internal/app/system/identity"
	"github.com/scopehub/scopehub/internal/app/system/timeouts"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

// HandleLogin serves POST /accounts/login. On success the response
// carries a bearer token and the cookie session is established too.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := render.Decode(r, &req); err != nil {
		render.BadRequest(w, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		render.BadRequest(w, "email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}

	token, err := h.Tokens.AccessToken(u)
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}
	if err := auth.SignIn(w, r, u.ID.Hex(), u.Email); err != nil {
		h.Log.Warn("session sign-in failed", zap.Error(err))
	}

	render.JSON(w, http.StatusOK, loginResponse{Token: token, User: u})
}

// HandleLogout serves POST /accounts/logout. Clears the cookie session;
// bearer tokens stay valid until they expire.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := auth.SignOut(w, r); err != nil {
		h.Log.Warn("session sign-out failed", zap.Error(err))
	}
	render.JSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// HandleMe serves GET /accounts/me.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok || !caller.Authenticated() {
		render.Err(w, h.Log, autherr.NewNotAuthenticated())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, caller.ID)
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}
	render.JSON(w, http.StatusOK, u)
}

type resolveRequest struct {
	Token string `json:"token"`
}

// HandleResolve serves POST /accounts/resolve. Other services hand in
// a bearer token and get the account behind it.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := render.Decode(r, &req); err != nil {
		render.BadRequest(w, "invalid request body")
		return
	}
	claims, err := h.Tokens.Parse(req.Token, auth.TypeAccess)
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}
	render.JSON(w, http.StatusOK, u)
}
