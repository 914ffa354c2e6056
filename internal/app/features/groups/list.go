// internal/app/features/groups/list.go
package groups

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/scopehub/scopehub/internal/app/features/shared/render"
	"github.com/scopehub/scopehub/internal/app/system/htmlsanitize"
	"github.com/scopehub/scopehub/internal/app/system/normalize"
	"github.com/scopehub/scopehub/internal/app/system/timeouts"
)

// HandleList serves GET /groups. Supports limit and offset query
// parameters for paging.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 0)
	offset := parseQueryInt(r, "offset", 0)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groups, err := h.Store.List(ctx, h.caller(r), limit, offset)
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}
	render.JSON(w, http.StatusOK, groups)
}

type createRequest struct {
	Name string `json:"name"`
}

// HandleCreate serves POST /groups.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
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

	g, err := h.Store.Create(ctx, h.caller(r), name)
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}
	render.JSON(w, http.StatusCreated, g)
}

// HandleGet serves GET /groups/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Store.GetByID(ctx, h.caller(r), chi.URLParam(r, "id"))
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}
	render.JSON(w, http.StatusOK, g)
}

// HandleMembers serves GET /groups/{id}/members.
func (h *Handler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	members, err := h.Store.Members(ctx, h.caller(r), chi.URLParam(r, "id"))
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}
	render.JSON(w, http.StatusOK, members)
}

func parseQueryInt(r *http.Request, key string, fallback int64) int64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
