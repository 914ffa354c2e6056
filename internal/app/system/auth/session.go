package auth

import (
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants & globals                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	SessionName = "scopehub-session"

	isAuthKey    = "is_authenticated"
	userIDKey    = "user_id"
	userEmailKey = "user_email"
)

// Store is initialised once via InitSessionStore.
var Store *sessions.CookieStore

// InitSessionStore initializes the global session Store using the provided
// session key and domain. The `secure` flag controls whether cookies are
// marked Secure and which SameSite mode is used.
//
// In production (secure=true), cookies are Secure + SameSite=None so they
// survive cross-site use over HTTPS. In local dev over http://localhost,
// use secure=false so cookies are accepted. An empty session key gets a
// random one, which invalidates all sessions on restart.
func InitSessionStore(sessionKey, domain string, secure bool, logger *zap.Logger) error {
	key := []byte(sessionKey)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
		logger.Warn("no session key configured; generated a volatile random key")
	} else if len(key) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(key)))
	}

	store := sessions.NewCookieStore(key)
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts
	Store = store

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return nil
}

// SignIn records the account in the cookie session.
func SignIn(w http.ResponseWriter, r *http.Request, userID, email string) error {
	if Store == nil {
		return nil
	}
	sess, _ := Store.Get(r, SessionName)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = userID
	sess.Values[userEmailKey] = email
	return sess.Save(r, w)
}

// SignOut clears the cookie session.
func SignOut(w http.ResponseWriter, r *http.Request) error {
	if Store == nil {
		return nil
	}
	sess, _ := Store.Get(r, SessionName)
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// sessionUser reads the signed-in account out of the cookie session.
func sessionUser(r *http.Request) (userID, email string, ok bool) {
	if Store == nil {
		return "", "", false
	}
	sess, _ := Store.Get(r, SessionName)
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return "", "", false
	}
	userID, _ = sess.Values[userIDKey].(string)
	email, _ = sess.Values[userEmailKey].(string)
	return userID, email, userID != "" && email != ""
}
