// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const devSecret = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for ScopeHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, token_secret, etc.
//   - Environment variables: SCOPEHUB_MONGO_URI, SCOPEHUB_TOKEN_SECRET, etc.
//   - Command-line flags: --mongo_uri, --token_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "scopehub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Token signing
	{Name: "token_secret", Default: devSecret, Desc: "HMAC secret for capability tokens (must be strong in production)"},
	{Name: "token_ttl", Default: "1h", Desc: "Capability token lifetime (e.g., 1h, 30m)"},
	{Name: "account_token_secret", Default: devSecret, Desc: "HMAC secret for account tokens (must be strong in production)"},
	{Name: "account_token_ttl", Default: "1440h", Desc: "Access token lifetime (default 60 days)"},

	// Sessions
	{Name: "session_key", Default: devSecret, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "", Desc: "SMTP server host (blank disables outbound mail)"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@scopehub.local", Desc: "From email address"},

	// Outward identity for email links
	{Name: "site_name", Default: "ScopeHub", Desc: "Display name used in account emails"},
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for email links"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, SCOPEHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SCOPEHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		TokenSecret:        appValues.String("token_secret"),
		TokenTTL:           parseTTL(appValues.String("token_ttl"), time.Hour),
		AccountTokenSecret: appValues.String("account_token_secret"),
		AccountTokenTTL:    parseTTL(appValues.String("account_token_ttl"), 60*24*time.Hour),

		SessionKey:    appValues.String("session_key"),
		SessionDomain: appValues.String("session_domain"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),

		SiteName: appValues.String("site_name"),
		BaseURL:  appValues.String("base_url"),
	}

	return coreCfg, appCfg, nil
}

// parseTTL reads a duration string, falling back when it is blank or
// malformed. ValidateConfig still rejects non-positive results.
func parseTTL(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// ScopeHub validates the MongoDB URI format to catch configuration
// errors early, and refuses the dev secrets outside of dev.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if coreCfg.Env == "prod" {
		if appCfg.TokenSecret == devSecret || appCfg.AccountTokenSecret == devSecret {
			return fmt.Errorf("token secrets must be set in production")
		}
		if appCfg.SessionKey == devSecret {
			return fmt.Errorf("session_key must be set in production")
		}
	}

	if appCfg.TokenTTL <= 0 || appCfg.AccountTokenTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}

	return nil
}
