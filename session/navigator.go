package session

// Navigator is the host's page location, e.g. window.location in a browser.
//
// Navigate is terminal for the calling code path; the host is expected to
// leave the current page.
type Navigator interface {
	Location() string
	Navigate(path string)
}

// View receives the presentational updates for a signed in user.
type View interface {
	// HideNavigation hides navigation entries linking to the given paths.
	HideNavigation(paths ...string)

	// ShowIdentity fills user-identifying text on the page.
	ShowIdentity(Profile)
}
