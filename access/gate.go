// Package access decides which identities hold catalog-mutation capability.
// The allow-list is resolved once at startup and injected into handlers; it
// is never re-read from the environment per request.
package access

import (
	"os"
	"strings"
)

// Gate answers whether an authenticated email is elevated (admin).
type Gate struct {
	allowed map[string]bool
}

// NewGate builds a gate from a comma-separated email list. Entries are
// trimmed and lowercased; membership checks are case-insensitive.
func NewGate(emails string) *Gate {
	g := &Gate{allowed: make(map[string]bool)}
	for _, e := range strings.Split(emails, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			g.allowed[e] = true
		}
	}
	return g
}

// NewGateFromEnv reads ADMIN_EMAILS, falling back to admin@example.com when
// unset.
func NewGateFromEnv() *Gate {
	emails := os.Getenv("ADMIN_EMAILS")
	if emails == "" {
		emails = "admin@example.com"
	}
	return NewGate(emails)
}

func (g *Gate) IsElevated(email string) bool {
	return g.allowed[strings.ToLower(strings.TrimSpace(email))]
}
