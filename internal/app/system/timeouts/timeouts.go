// Package timeouts provides centralized timeout values for handler
// operations. They are used with context.WithTimeout around database
// work so every endpoint degrades the same way under a slow backend.
//
// Guidelines for choosing a timeout:
//   - Ping: health checks and connectivity verification
//   - Short: single-document reads and conditional updates
//   - Medium: list queries and access resolution
package timeouts

import "time"

const (
	ping   = 2 * time.Second
	short  = 5 * time.Second
	medium = 10 * time.Second
)

// Ping returns the timeout for health checks.
func Ping() time.Duration { return ping }

// Short returns the timeout for single-document operations.
func Short() time.Duration { return short }

// Medium returns the timeout for list queries and multi-step reads.
func Medium() time.Duration { return medium }
