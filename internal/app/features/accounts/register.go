// internal/app/features/accounts/register.go
package accounts

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/scopehub/scopehub/internal/app/features/shared/render"
	"github.com/scopehub/scopehub/internal/app/system/auth"
	"github.com/scopehub/scopehub/internal/app/system/mailer"
	"github.com/scopehub/scopehub/internal/app/system/timeouts"
	"github.com/scopehub/scopehub/internal/domain/models"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Locale   string `json:"locale"`
}

// HandleRegister serves POST /accounts/register. The new account is
// unverified until the mailed confirmation link is redeemed.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
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

	u, err := h.Users.Create(ctx, req.Email, req.Password, req.Locale)
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}

	h.sendConfirmation(&u)
	render.JSON(w, http.StatusCreated, u)
}

type confirmRequest struct {
	Token string `json:"token"`
}

// HandleConfirm serves POST /accounts/confirm. Redeems a mailed
// verification token.
func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := render.Decode(r, &req); err != nil {
		render.BadRequest(w, "invalid request body")
		return
	}
	claims, err := h.Tokens.Parse(req.Token, auth.TypeVerification)
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.SetVerified(ctx, claims.UserID); err != nil {
		render.Err(w, h.Log, err)
		return
	}
	render.JSON(w, http.StatusOK, map[string]string{"status": "confirmed"})
}

type emailRequest struct {
	Email string `json:"email"`
}

// HandleConfirmRequest serves POST /accounts/confirm/request. Mails a
// fresh confirmation link for an unverified account.
func (h *Handler) HandleConfirmRequest(w http.ResponseWriter, r *http.Request) {
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
	if u.Verified {
		render.JSON(w, http.StatusOK, map[string]string{"status": "already confirmed"})
		return
	}

	h.sendConfirmation(u)
	render.JSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

func (h *Handler) sendConfirmation(u *models.User) {
	token, err := h.Tokens.VerificationToken(u)
	if err != nil {
		h.Log.Error("verification token signing failed",
			zap.String("email", u.Email), zap.Error(err))
		return
	}
	e := mailer.BuildConfirmationEmail(mailer.AccountEmailData{
		SiteName:  h.Links.SiteName,
		Link:      h.Links.Confirm + "?token=" + token,
		ExpiresIn: "1 hour",
	})
	e.To = u.Email
	h.Mail.SendAsync(e)
}
