package session

import (
	"context"
	"fmt"
	"log/slog"

	"cattlecloud.net/go/websession"
	"cattlecloud.net/go/websession/credentials"
	"cattlecloud.net/go/websession/routes"
)

// Outcome of evaluating a page entry.
type Outcome int

const (
	// OutcomeProceed means page initialization may continue.
	OutcomeProceed Outcome = iota

	// OutcomeRedirected means the page has been navigated away from; the
	// caller must not continue initializing it.
	OutcomeRedirected
)

func (o Outcome) String() string {
	if o == OutcomeRedirected {
		return "redirected"
	}
	return "proceed"
}

// Gate runs once on page entry.
type Gate struct {
	store     *credentials.Store
	client    *Client
	handler   *Handler
	nav       Navigator
	view      View
	protected *routes.Set
	guestOnly *routes.Set
	log       *slog.Logger

	loginRoute    string
	registerRoute string
	afterLogin    string
}

// NewGate creates a Gate for the given protected routes. Routes in guestOnly
// (e.g. the login form) send an already signed in user to the after-login
// route; guestOnly may be nil.
func NewGate(
	store *credentials.Store,
	client *Client,
	handler *Handler,
	nav Navigator,
	view View,
	protected *routes.Set,
	guestOnly *routes.Set,
	opts ...OptionFunc,
) *Gate {
	options := newOptions(opts)
	return &Gate{
		store:         store,
		client:        client,
		handler:       handler,
		nav:           nav,
		view:          view,
		protected:     protected,
		guestOnly:     guestOnly,
		log:           options.log,
		loginRoute:    options.loginRoute,
		registerRoute: options.registerRoute,
		afterLogin:    options.afterLogin,
	}
}

// Evaluate decides whether page may be shown.
//
// An anonymous visit to a protected route navigates to the login route and
// returns OutcomeRedirected without contacting the identity endpoint. A
// signed in visit confirms the session through the identity endpoint; if
// that fails the Handler tears the session down and the returned error wraps
// ErrProfileFetchFailed.
func (g *Gate) Evaluate(ctx context.Context, page websession.Page) (Outcome, error) {
	pair := g.store.Get(ctx)
	path := routes.Normalize(page.Path)

	switch {
	case pair.State() == credentials.Anonymous && g.protected.Contains(path):
		g.log.Info("protected route requires a session", "path", path, "client", page.Client())
		g.nav.Navigate(g.loginRoute)
		return OutcomeRedirected, nil
	case pair.State() == credentials.Anonymous:
		return OutcomeProceed, nil
	case g.guestOnly.Contains(path):
		g.nav.Navigate(g.afterLogin)
		return OutcomeRedirected, nil
	}

	profile, err := g.client.Profile(ctx)
	if err != nil {
		// a 401 from the identity endpoint has already been torn down by the
		// Client under TriggerUnauthorized; this delegation is then absorbed,
		// so TriggerProfile counts only non-401 failures
		g.handler.ProfileFailed(ctx, pair.Access, err)
		return OutcomeRedirected, fmt.Errorf("%w: %w", ErrProfileFetchFailed, err)
	}

	g.view.HideNavigation(g.loginRoute, g.registerRoute)
	g.view.ShowIdentity(profile)
	return OutcomeProceed, nil
}
