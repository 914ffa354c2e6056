package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	groupstore "github.com/scopehub/scopehub/internal/app/store/groups"
	userstore "github.com/scopehub/scopehub/internal/app/store/users"
	"github.com/scopehub/scopehub/internal/app/system/identity"
	"github.com/scopehub/scopehub/internal/app/system/timeouts"
)

// CallerLoader resolves the caller behind a request: a bearer access
// token or a cookie session names the account, and the group store
// supplies the access scopes the caller may act under.
type CallerLoader struct {
	Users  *userstore.Store
	Groups *groupstore.Store
	Tokens *TokenIssuer
	Logger *zap.Logger
}

// Load injects the resolved caller into the request context. Requests
// without usable credentials pass through anonymous; the guards behind
// this middleware reject them when authentication is required.
func (l *CallerLoader) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, email, ok := l.credentials(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		caller := identity.Caller{ID: userID, Email: email}
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		access, err := l.Groups.AccessFor(ctx, caller)
		cancel()
		if err != nil {
			l.Logger.Warn("access resolution failed",
				zap.String("user_id", userID),
				zap.Error(err))
		} else {
			caller.Access = access
		}

		next.ServeHTTP(w, r.WithContext(identity.WithCaller(r.Context(), caller)))
	})
}

func (l *CallerLoader) credentials(r *http.Request) (userID, email string, ok bool) {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		raw := strings.TrimPrefix(header, "Bearer ")
		claims, err := l.Tokens.Parse(raw, TypeAccess)
		if err != nil {
			l.Logger.Debug("rejected bearer token", zap.Error(err))
			return "", "", false
		}
		// The token names the account; the database is the source of
		// truth for its current email.
		u, err := l.Users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			l.Logger.Debug("bearer token for unknown account",
				zap.String("user_id", claims.UserID))
			return "", "", false
		}
		return u.ID.Hex(), u.Email, true
	}

	return sessionUser(r)
}

// RequireSignedIn rejects requests that carry no resolved caller.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := identity.FromContext(r.Context())
		if !ok || !caller.Authenticated() {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"not authenticated"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
