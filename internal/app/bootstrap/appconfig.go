// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, and request limits. AppConfig is where
// everything specific to this service lives: the Mongo connection, the
// token secrets, session cookies, and the SMTP settings for account
// emails.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Capability tokens
	TokenSecret string        // HMAC secret for capability tokens
	TokenTTL    time.Duration // Capability token lifetime

	// Account tokens (login, confirmation, password reset)
	AccountTokenSecret string        // HMAC secret for account tokens
	AccountTokenTTL    time.Duration // Access token lifetime

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionDomain string // Cookie domain (blank means current host)

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address

	// Outward-facing identity for email links
	SiteName string
	BaseURL  string // e.g., "https://scopehub.example.com" or "http://localhost:3000"
}
