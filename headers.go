package websession

import (
	"net/http"

	"github.com/shoenig/go-conceal"
)

// MIMEType are correct identifier strings for various MIME types.
//
// Consider using one of the pre-defined types.
type MIMEType string

const (
	ContentTypeJSON MIMEType = "application/json"
)

// SetDefaultContentType sets the Content-Type header on r to the given MIME
// type, unless the caller already chose one.
func SetDefaultContentType(r *http.Request, filetype MIMEType) {
	if r.Header.Get("Content-Type") != "" {
		return
	}
	r.Header.Set("Content-Type", string(filetype))
}

// SetBearerAuth sets the Authorization header on r, using the given access
// token.
//
// NOTE: if the token is missing or empty, or the caller already set an
// Authorization header, no header is set.
func SetBearerAuth(r *http.Request, token *conceal.Text) {
	// the remote authority decides what to do with anonymous requests
	if token == nil || token.Unveil() == "" {
		return
	}

	// caller supplied headers win over defaults
	if r.Header.Get("Authorization") != "" {
		return
	}

	r.Header.Set("Authorization", "Bearer "+token.Unveil())
}

// BearerToken returns the token carried in the Authorization header of r, or
// the empty string if there is no bearer credential.
func BearerToken(r *http.Request) string {
	const prefix = "Bearer "
	value := r.Header.Get("Authorization")
	if len(value) <= len(prefix) || value[:len(prefix)] != prefix {
		return ""
	}
	return value[len(prefix):]
}
