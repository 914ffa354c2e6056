// internal/app/features/accounts/password.go
package accounts

import (
	"context"
	"net/http"

	"github.com/scopehub/scopehub/internal/app/features/shared/render"
	"github.com/scopehub/scopehub/internal/app/system/auth"
	"github.com/scopehub/scopehub/internal/app/system/mailer"
	"github.com/scopehub/scopehub/internal/app/system/timeouts"
)

// HandlePasswordRequest serves POST /accounts/password/request. Mails
// a reset link to the account's address.
func (h *Handler) HandlePasswordRequest(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := render.Decode(r, &req); err != nil {
		render.BadRequest(w, "invalid request body")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}

	token, err := h.Tokens.ResetToken(u)
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}
	e := mailer.BuildResetEmail(mailer.AccountEmailData{
		SiteName:  h.Links.SiteName,
		Link:      h.Links.Reset + "?token=" + token,
		ExpiresIn: "1 hour",
	})
	e.To = u.Email
	h.Mail.SendAsync(e)

	render.JSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

type passwordResetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// HandlePasswordReset serves POST /accounts/password/reset. Redeems a
// mailed reset token and stores the new password.
func (h *Handler) HandlePasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if err := render.Decode(r, &req); err != nil {
		render.BadRequest(w, "invalid request body")
		return
	}
	if req.Password == "" {
		render.BadRequest(w, "password is required")
		return
	}

	claims, err := h.Tokens.Parse(req.Token, auth.TypeReset)
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.SetPassword(ctx, claims.UserID, req.Password); err != nil {
		render.Err(w, h.Log, err)
		return
	}
	render.JSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}
