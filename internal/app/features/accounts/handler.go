// internal/app/features/accounts/handler.go

// Package accounts implements registration, login, confirmation, and
// password recovery.
package accounts

import (
	"go.uber.org/zap"

	userstore "github.com/scopehub/scopehub/internal/app/store/users"
	"github.com/scopehub/scopehub/internal/app/system/auth"
	"github.com/scopehub/scopehub/internal/app/system/mailer"
)

// Links carries the outward-facing URLs that account emails point at.
// The token is appended as a query parameter.
type Links struct {
	SiteName string
	Confirm  string
	Reset    string
}

type Handler struct {
	Users  *userstore.Store
	Tokens *auth.TokenIssuer
	Mail   *mailer.Mailer
	Links  Links
	Log    *zap.Logger
}

func NewHandler(users *userstore.Store, tokens *auth.TokenIssuer, mail *mailer.Mailer, links Links, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  users,
		Tokens: tokens,
		Mail:   mail,
		Links:  links,
		Log:    logger,
	}
}
