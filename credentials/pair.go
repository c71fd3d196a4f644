package credentials

import (
	"github.com/shoenig/go-conceal"
)

// State is the session state derived from the contents of a Store.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Pair is the client-held credential pair. Tokens are opaque strings only the
// remote authority understands; they are concealed so they never end up in
// log output by accident.
type Pair struct {
	Access  *conceal.Text
	Refresh *conceal.Text
}

// NewPair creates a Pair from raw token strings. Empty strings become absent
// credentials.
func NewPair(access, refresh string) Pair {
	return Pair{
		Access:  wrap(access),
		Refresh: wrap(refresh),
	}
}

// State returns Authenticated iff the access credential is present.
func (p Pair) State() State {
	if present(p.Access) {
		return Authenticated
	}
	return Anonymous
}

// HasRefresh reports whether a refresh credential is present.
func (p Pair) HasRefresh() bool {
	return present(p.Refresh)
}

// Empty reports whether neither credential is present.
func (p Pair) Empty() bool {
	return !present(p.Access) && !present(p.Refresh)
}

// Holds reports whether token is the access credential of p. An absent token
// matches an absent access credential.
func (p Pair) Holds(token *conceal.Text) bool {
	return reveal(p.Access) == reveal(token)
}

func (p Pair) String() string {
	return "access=" + redacted(p.Access) + " refresh=" + redacted(p.Refresh)
}

func wrap(s string) *conceal.Text {
	if s == "" {
		return nil
	}
	return conceal.New(s)
}

func reveal(t *conceal.Text) string {
	if t == nil {
		return ""
	}
	return t.Unveil()
}

func present(t *conceal.Text) bool {
	return reveal(t) != ""
}

func redacted(t *conceal.Text) string {
	if !present(t) {
		return "<none>"
	}
	return "<concealed>"
}
