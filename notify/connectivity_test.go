package notify

import (
	"testing"

	"github.com/shoenig/test/must"
)

// sink records shown messages.
type sink struct {
	messages   []string
	severities []Severity
}

func (s *sink) Show(message string, severity Severity) string {
	s.messages = append(s.messages, message)
	s.severities = append(s.severities, severity)
	return ""
}

func TestConnectivity(t *testing.T) {
	t.Parallel()

	s := new(sink)
	c := NewConnectivity(s)
	must.True(t, c.IsOnline())

	c.Online() // no change
	must.SliceEmpty(t, s.messages)

	c.Offline()
	c.Offline() // no change
	must.False(t, c.IsOnline())

	c.Online()
	must.True(t, c.IsOnline())

	must.Eq(t, []string{LostMessage, RestoredMessage}, s.messages)
	must.Eq(t, []Severity{Warning, Success}, s.severities)
}
