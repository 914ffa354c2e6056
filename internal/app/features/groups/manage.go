// internal/app/features/groups/manage.go
package groups

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scopehub/scopehub/internal/app/features/shared/render"
	"github.com/scopehub/scopehub/internal/app/system/htmlsanitize"
	"github.com/scopehub/scopehub/internal/app/system/normalize"
	"github.com/scopehub/scopehub/internal/app/system/timeouts"
)

type renameRequest struct {
	Name string `json:"name"`
}

// HandleRename serves PUT /groups/{id}/name. Admin only.
func (h *Handler) HandleRename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := render.Decode(r, &req); err != nil {
		render.BadRequest(w, "invalid request body")
		return
	}
	name := normalize.Name(htmlsanitize.Strip(req.Name))
	if name == "" {
		render.BadRequest(w, "name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Store.Rename(ctx, h.caller(r), chi.URLParam(r, "id"), name)
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}
	render.JSON(w, http.StatusOK, updateResponse(res))
}

// HandleJoin serves POST /groups/{id}/join. Writes the caller's user id
// into their invited member row.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Store.Join(ctx, h.caller(r), chi.URLParam(r, "id"))
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}
	render.JSON(w, http.StatusOK, updateResponse(res))
}

// HandleLeave serves POST /groups/{id}/leave. Clears the caller's user
// id but keeps the invited email row.
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Store.Leave(ctx, h.caller(r), chi.URLParam(r, "id"))
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}
	render.JSON(w, http.StatusOK, updateResponse(res))
}

type hideRequest struct {
	Hide bool `json:"hide"`
}

// HandleHide serves PUT /groups/{id}/hide. A per-member display flag.
func (h *Handler) HandleHide(w http.ResponseWriter, r *http.Request) {
	var req hideRequest
	if err := render.Decode(r, &req); err != nil {
		render.BadRequest(w, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Store.Hide(ctx, h.caller(r), chi.URLParam(r, "id"), req.Hide)
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}
	render.JSON(w, http.StatusOK, updateResponse(res))
}

type aliasRequest struct {
	Alias string `json:"alias"`
}

// HandleAlias serves PUT /groups/{id}/alias. An empty alias clears the
// caller's stored alias.
func (h *Handler) HandleAlias(w http.ResponseWriter, r *http.Request) {
	var req aliasRequest
	if err := render.Decode(r, &req); err != nil {
		render.BadRequest(w, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	alias := normalize.Name(htmlsanitize.Strip(req.Alias))
	res, err := h.Store.Alias(ctx, h.caller(r), chi.URLParam(r, "id"), alias)
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}
	render.JSON(w, http.StatusOK, updateResponse(res))
}
