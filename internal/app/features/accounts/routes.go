// internal/app/features/accounts/routes.go
package accounts

import (
	"github.com/go-chi/chi/v5"

	"github.com/scopehub/scopehub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Open endpoints: everything needed to get an account and a token.
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)
	r.Post("/confirm", h.HandleConfirm)
	r.Post("/confirm/request", h.HandleConfirmRequest)
	r.Post("/password/request", h.HandlePasswordRequest)
	r.Post("/password/reset", h.HandlePasswordReset)
	r.Post("/resolve", h.HandleResolve)

	// Authenticated
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/me", h.HandleMe)
	})

	return r
}
