// Package cookie models client-side cookie storage: named values with
// independent expirations, session-versus-persistent lifetime, and the
// secure/samesite/path attributes the console sets on its credentials.
// It stores cookies, it does not transmit them; the API client reads
// tokens out of the jar and sends them as bearer credentials.
package cookie

import "time"

// SameSite policies a cookie can carry.
const (
	SameSiteLax    = "lax"
	SameSiteStrict = "strict"
	SameSiteNone   = "none"
)

// Cookie is a single stored value. A cookie with Session set has no
// expiration of its own and survives only until the jar's session ends.
type Cookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Expires  time.Time `json:"expires"`
	Session  bool      `json:"session"`
	Secure   bool      `json:"secure"`
	SameSite string    `json:"sameSite"`
	Path     string    `json:"path"`
}

// Expired reports whether the cookie is past its expiration at the given
// instant. Session cookies never expire by time.
func (c Cookie) Expired(now time.Time) bool {
	if c.Session {
		return false
	}
	return !c.Expires.After(now)
}

// Jar is the storage surface the token store writes through.
type Jar interface {
	// Set stores the cookie, replacing any cookie of the same name.
	// Writing an already-expired cookie deletes it, which is how callers
	// clear a cookie deterministically regardless of its prior lifetime.
	Set(c Cookie)
	// Get returns the named cookie, or ok=false if it is absent or has
	// expired.
	Get(name string) (Cookie, bool)
	// Delete removes the named cookie if present.
	Delete(name string)
	// EndSession drops all session-scoped cookies, modelling the end of a
	// browser session. Persistent cookies are kept until they expire.
	EndSession()
}
