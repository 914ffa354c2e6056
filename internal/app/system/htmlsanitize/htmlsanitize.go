// Package htmlsanitize strips dangerous markup from user-supplied
// strings before they are stored.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

var strict = bluemonday.StrictPolicy()

// Strip removes all markup. Used for single-line fields like group
// names and member aliases, which are never rendered as HTML.
func Strip(s string) string {
	return strict.Sanitize(s)
}
