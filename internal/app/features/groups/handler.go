// internal/app/features/groups/handler.go
package groups

import (
	"net/http"

	"go.uber.org/zap"

	groupstore "github.com/scopehub/scopehub/internal/app/store/groups"
	"github.com/scopehub/scopehub/internal/app/system/identity"
)

// Handler is the shared dependency container for the groups feature.
type Handler struct {
	Store *groupstore.Store
	Log   *zap.Logger
}

// NewHandler constructs a groups Handler. It is typically called from
// the bootstrap BuildHandler function, where the store and logger are
// already initialized.
func NewHandler(store *groupstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Store: store,
		Log:   logger,
	}
}

func (h *Handler) caller(r *http.Request) identity.Caller {
	c, _ := identity.FromContext(r.Context())
	return c
}

// updateBody is the wire shape of every conditional-update response.
type updateBody struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func updateResponse(res groupstore.UpdateResult) updateBody {
	status := "updated"
	if res.UpToDate {
		status = "up-to-date"
	}
	return updateBody{ID: res.ID, Status: status}
}
