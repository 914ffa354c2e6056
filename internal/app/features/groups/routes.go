// internal/app/features/groups/routes.go
package groups

import (
	"github.com/go-chi/chi/v5"

	"github.com/scopehub/scopehub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Everything under /groups requires authentication
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)

		// LIST / CREATE
		pr.Get("/", h.HandleList)
		pr.Post("/", h.HandleCreate)

		// VIEW
		pr.Get("/{id}", h.HandleGet)
		pr.Get("/{id}/members", h.HandleMembers)

		// ADMIN MUTATIONS
		pr.Put("/{id}/name", h.HandleRename)
		pr.Post("/{id}/invite", h.HandleInvite)
		pr.Put("/{id}/members/role", h.HandleSetRole)
		pr.Post("/{id}/members/remove", h.HandleRemove)

		// MEMBER SELF-SERVICE
		pr.Post("/{id}/join", h.HandleJoin)
		pr.Post("/{id}/leave", h.HandleLeave)
		pr.Put("/{id}/hide", h.HandleHide)
		pr.Put("/{id}/alias", h.HandleAlias)

		// DELEGATION
		pr.Post("/{id}/access", h.HandleAddAccess)
		pr.Post("/{id}/access/remove", h.HandleRemoveAccess)
	})

	return r
}
