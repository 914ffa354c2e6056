// internal/app/features/groups/access.go
package groups

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scopehub/scopehub/internal/app/features/shared/render"
	"github.com/scopehub/scopehub/internal/app/system/timeouts"
)

type accessRequest struct {
	GroupID string `json:"group_id"`
}

// HandleAddAccess serves POST /groups/{id}/access. Admin only. Grants
// the named foreign group one-hop access to this group's scope.
func (h *Handler) HandleAddAccess(w http.ResponseWriter, r *http.Request) {
	var req accessRequest
	if err := render.Decode(r, &req); err != nil {
		render.BadRequest(w, "invalid request body")
		return
	}
	if req.GroupID == "" {
		render.BadRequest(w, "group_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.Store.AddAccess(ctx, h.caller(r), id, req.GroupID); err != nil {
		render.Err(w, h.Log, err)
		return
	}
	render.JSON(w, http.StatusOK, updateBody{ID: id, Status: "updated"})
}

// HandleRemoveAccess serves POST /groups/{id}/access/remove. Admin only.
func (h *Handler) HandleRemoveAccess(w http.ResponseWriter, r *http.Request) {
	var req accessRequest
	if err := render.Decode(r, &req); err != nil {
		render.BadRequest(w, "invalid request body")
		return
	}
	if req.GroupID == "" {
		render.BadRequest(w, "group_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.Store.RemoveAccess(ctx, h.caller(r), id, req.GroupID); err != nil {
		render.Err(w, h.Log, err)
		return
	}
	render.JSON(w, http.StatusOK, updateBody{ID: id, Status: "updated"})
}

// HandleAccess serves GET /access: the caller's resolved scopes, their
// member groups plus every group delegated to one of them.
func (h *Handler) HandleAccess(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	access, err := h.Store.AccessFor(ctx, h.caller(r))
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}
	if access == nil {
		access = []string{}
	}
	render.JSON(w, http.StatusOK, map[string][]string{"access": access})
}
