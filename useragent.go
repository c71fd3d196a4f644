package websession

import (
	"github.com/mileusna/useragent"
)

// Page describes the page being entered; the route path and the user agent
// of the browser (or host) loading it.
type Page struct {
	Path      string
	UserAgent string
}

// Client returns the parsed user agent, including only the name and type of
// device being used (or bot).
func (p Page) Client() string {
	return Describe(p.UserAgent)
}

// Describe reduces a User-Agent header value to "name/device", suitable for
// log lines.
func Describe(agent string) string {
	if agent == "" {
		return "-"
	}

	ua := useragent.Parse(agent)

	var mode string
	switch {
	case ua.Bot:
		mode = "bot"
	case ua.Mobile:
		mode = "phone"
	case ua.Tablet:
		mode = "tablet"
	case ua.Desktop:
		mode = "desktop"
	default:
		mode = "unknown"
	}

	name := ua.Name
	if name == "" {
		name = "unknown"
	}
	return name + "/" + mode
}
