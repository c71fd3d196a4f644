package websession

import (
	"fmt"
	"net/url"
)

// ResolveURL resolves ref against origin. Absolute references are returned
// as-is; relative references (e.g. "/api/auth/me") take the scheme and host
// of origin.
func ResolveURL(origin *url.URL, ref string) (*url.URL, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("websession: cannot parse url %q: %w", ref, err)
	}

	// absolute urls and requests with no configured origin go out unchanged
	if u.IsAbs() || origin == nil {
		return u, nil
	}

	return origin.ResolveReference(u), nil
}

// MustParseOrigin parses the configured API origin.
//
// origin must be valid; an invalid url will panic.
func MustParseOrigin(origin string) *url.URL {
	u, err := url.Parse(origin)
	if err != nil || !u.IsAbs() {
		// origins come from configuration validated at startup
		panic("websession: cannot parse origin " + origin)
	}
	return u
}
