// internal/app/features/shared/render/render.go

// Package render writes the JSON bodies shared by every feature.
package render

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/scopehub/scopehub/internal/app/system/autherr"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the wire shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// Err maps a service error onto its HTTP status and writes it out.
// Unknown errors become an opaque 500 so internals never leak.
func Err(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := autherr.HTTPStatus(err)
	kind := autherr.KindOf(err)

	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
		JSON(w, status, errorBody{Error: "internal error"})
		return
	}
	JSON(w, status, errorBody{Error: err.Error(), Kind: string(kind)})
}

// Decode parses a JSON request body into dst.
func Decode(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// BadRequest writes a 400 with the given message.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorBody{Error: msg})
}
