// internal/app/features/tokens/handler.go

// Package tokens exposes the capability-token endpoints: sign a token
// for an audience, verify a presented one.
package tokens

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/scopehub/scopehub/internal/app/features/shared/render"
	"github.com/scopehub/scopehub/internal/app/system/captoken"
	"github.com/scopehub/scopehub/internal/app/system/identity"
)

type Handler struct {
	Service *captoken.Service
	Log     *zap.Logger
}

func NewHandler(service *captoken.Service, logger *zap.Logger) *Handler {
	return &Handler{Service: service, Log: logger}
}

type signRequest struct {
	Audience string         `json:"audience"`
	Payload  map[string]any `json:"payload"`
}

type signResponse struct {
	Token string `json:"token"`
}

// HandleSign serves POST /tokens/sign. The audience is optional: a
// token signed without one is redeemable only by its issuer.
func (h *Handler) HandleSign(w http.ResponseWriter, r *http.Request) {
	var req signRequest
	if err := render.Decode(r, &req); err != nil {
		render.BadRequest(w, "invalid request body")
		return
	}

	caller, _ := identity.FromContext(r.Context())
	token, err := h.Service.Sign(caller, req.Audience, req.Payload)
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}
	render.JSON(w, http.StatusOK, signResponse{Token: token})
}

type verifyRequest struct {
	Token string `json:"token"`
}

// HandleVerify serves POST /tokens/verify. The response body is the
// token's decoded claims.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := render.Decode(r, &req); err != nil {
		render.BadRequest(w, "invalid request body")
		return
	}
	if req.Token == "" {
		render.BadRequest(w, "token is required")
		return
	}

	caller, _ := identity.FromContext(r.Context())
	claims, err := h.Service.Verify(caller, req.Token)
	if err != nil {
		render.Err(w, h.Log, err)
		return
	}
	render.JSON(w, http.StatusOK, claims)
}
