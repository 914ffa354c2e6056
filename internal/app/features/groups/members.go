// internal/app/features/groups/members.go
package groups

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scopehub/scopehub/internal/app/features/shared/render"
	"github.com/scopehub/scopehub/internal/app/system/normalize"
	"github.com/scopehub/scopehub/internal/app/system/timeouts"
	"github.com/scopehub/scopehub/internal/domain/models"
)

type inviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// HandleInvite serves POST /groups/{id}/invite. Admin only. Role
// defaults to member.
func (h *Handler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := render.Decode(r, &req); err != nil {
		render.BadRequest(w, "invalid request body")
		return
	}
	email := normalize.Email(req.Email)
	if email == "" {
		render.BadRequest(w, "email is required")
		return
	}
	if req.Role != "" && !models.ValidRole(req.Role) {
		render.BadRequest(w, "unknown role")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Store.Invite(ctx, h.caller(r), chi.URLParam(r, "id"), email, req.Role)
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}
	render.JSON(w, http.StatusOK, res)
}

type setRoleRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// HandleSetRole serves PUT /groups/{id}/members/role. Admin only, and
// never against the caller's own row.
func (h *Handler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	var req setRoleRequest
	if err := render.Decode(r, &req); err != nil {
		render.BadRequest(w, "invalid request body")
		return
	}
	email := normalize.Email(req.Email)
	if email == "" {
		render.BadRequest(w, "email is required")
		return
	}
	if !models.ValidRole(req.Role) {
		render.BadRequest(w, "unknown role")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Store.SetRole(ctx, h.caller(r), chi.URLParam(r, "id"), email, req.Role)
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}
	render.JSON(w, http.StatusOK, updateResponse(res))
}

type removeRequest struct {
	Email string `json:"email"`
}

// HandleRemove serves POST /groups/{id}/members/remove. Admin only,
// and never against the caller's own row.
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	var req removeRequest
	if err := render.Decode(r, &req); err != nil {
		render.BadRequest(w, "invalid request body")
		return
	}
	email := normalize.Email(req.Email)
	if email == "" {
		render.BadRequest(w, "email is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.Store.Remove(ctx, h.caller(r), id, email); err != nil {
		render.Err(w, h.Log, err)
		return
	}
	render.JSON(w, http.StatusOK, updateBody{ID: id, Status: "updated"})
}
