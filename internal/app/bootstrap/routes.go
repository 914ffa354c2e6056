// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	accountsfeature "github.com/scopehub/scopehub/internal/app/features/accounts"
	groupsfeature "github.com/scopehub/scopehub/internal/app/features/groups"
	healthfeature "github.com/scopehub/scopehub/internal/app/features/health"
	tokensfeature "github.com/scopehub/scopehub/internal/app/features/tokens"
	groupstore "github.com/scopehub/scopehub/internal/app/store/groups"
	userstore "github.com/scopehub/scopehub/internal/app/store/users"
	"github.com/scopehub/scopehub/internal/app/system/auth"
	"github.com/scopehub/scopehub/internal/app/system/captoken"
	"github.com/scopehub/scopehub/internal/app/system/mailer"
	"github.com/scopehub/scopehub/internal/app/system/metrics"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It wires the stores, token services,
// and mailer into the feature routers and stacks the global middleware:
// metrics first, then caller resolution, then the features.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	groups := groupstore.New(deps.MongoDatabase)
	users := userstore.New(deps.MongoDatabase)
	capTokens := captoken.New(appCfg.TokenSecret, appCfg.TokenTTL)
	accountTokens := auth.NewTokenIssuer(appCfg.AccountTokenSecret, appCfg.AccountTokenTTL)
	mail := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		Username: appCfg.MailSMTPUser,
		Password: appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
	}, logger)

	loader := &auth.CallerLoader{
		Users:  users,
		Groups: groups,
		Tokens: accountTokens,
		Logger: logger,
	}

	r := chi.NewRouter()

	r.Use(metrics.Middleware)

	// Global auth middleware: resolves the caller (bearer token or
	// cookie session) and their access scopes into the request context.
	r.Use(loader.Load)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Prometheus scrape endpoint
	r.Handle("/metrics", metrics.Handler())

	// Accounts: registration, login, confirmation, password recovery
	accountsHandler := accountsfeature.NewHandler(users, accountTokens, mail, accountsfeature.Links{
		SiteName: appCfg.SiteName,
		Confirm:  appCfg.BaseURL + "/confirm",
		Reset:    appCfg.BaseURL + "/reset",
	}, logger)
	r.Mount("/accounts", accountsfeature.Routes(accountsHandler))

	// Groups and memberships
	groupsHandler := groupsfeature.NewHandler(groups, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler))

	// The caller's resolved access scopes
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/access", groupsHandler.HandleAccess)
	})

	// Capability tokens
	tokensHandler := tokensfeature.NewHandler(capTokens, logger)
	r.Mount("/tokens", tokensfeature.Routes(tokensHandler))

	return r, nil
}
