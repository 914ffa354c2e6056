// internal/app/features/tokens/routes.go
package tokens

import (
	"github.com/go-chi/chi/v5"

	"github.com/scopehub/scopehub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		pr.Post("/sign", h.HandleSign)
		pr.Post("/verify", h.HandleVerify)
	})

	return r
}
