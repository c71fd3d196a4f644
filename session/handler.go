package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"cattlecloud.net/go/websession"
	"cattlecloud.net/go/websession/credentials"
	"cattlecloud.net/go/websession/routes"
	"github.com/shoenig/go-conceal"
)

// Trigger is what started a teardown.
type Trigger string

const (
	TriggerUnauthorized Trigger = "unauthorized"
	TriggerProfile      Trigger = "profile"
	TriggerLogout       Trigger = "logout"
)

// Handler performs the single canonical teardown: notify the remote
// authority (best effort), clear the credentials, navigate away.
//
// Handler is either Active or TearingDown. A trigger received while
// TearingDown is a no-op, so concurrent 401s from several in-flight requests
// collapse into one teardown. A 401 for a credential that is no longer
// stored belongs to an episode that has already been torn down and is
// absorbed as well.
type Handler struct {
	store   *credentials.Store
	nav     Navigator
	http    *http.Client
	origin  *url.URL
	log     *slog.Logger
	metrics *Metrics
	clock   func() time.Time

	loginRoute    string
	homeRoute     string
	logoutTimeout time.Duration

	tearingDown atomic.Bool
}

// NewHandler creates the Handler. Construct exactly one per process and hand
// it to the Client and Gate.
func NewHandler(store *credentials.Store, nav Navigator, opts ...OptionFunc) *Handler {
	options := newOptions(opts)
	return &Handler{
		store:         store,
		nav:           nav,
		http:          options.httpClient,
		origin:        options.origin,
		log:           options.log,
		metrics:       options.metrics,
		clock:         options.clock,
		loginRoute:    options.loginRoute,
		homeRoute:     options.homeRoute,
		logoutTimeout: options.logoutTimeout,
	}
}

// TearingDown reports whether a teardown is in flight.
func (h *Handler) TearingDown() bool {
	return h.tearingDown.Load()
}

// Unauthorized receives the signal raised by a Client for a 401 response to
// a request that carried the rejected credential.
func (h *Handler) Unauthorized(ctx context.Context, rejected *conceal.Text) {
	h.teardown(ctx, TriggerUnauthorized, rejected)
}

// ProfileFailed is called by the Gate when the identity endpoint could not
// confirm the session that was using the rejected credential.
func (h *Handler) ProfileFailed(ctx context.Context, rejected *conceal.Text, cause error) {
	h.log.Warn("unable to fetch current user", "error", cause)
	h.teardown(ctx, TriggerProfile, rejected)
}

// Logout is the explicit, user initiated logout.
func (h *Handler) Logout(ctx context.Context) {
	h.teardown(ctx, TriggerLogout, nil)
}

// teardown returns whether a teardown actually ran.
func (h *Handler) teardown(ctx context.Context, trigger Trigger, rejected *conceal.Text) bool {
	if !h.tearingDown.CompareAndSwap(false, true) {
		h.metrics.absorb()
		h.log.Debug("teardown already in progress", "trigger", trigger)
		return false
	}
	defer h.tearingDown.Store(false)

	pair, err := h.store.Lookup(ctx)
	if err != nil {
		// cannot tell whether the episode was already handled; tear down
		h.log.Warn("credential medium unavailable during teardown", "trigger", trigger, "error", err)
	}

	// an explicit logout always proceeds; failure signals must belong to the
	// credential that is still stored
	if err == nil && trigger != TriggerLogout && !pair.Holds(rejected) {
		h.metrics.absorb()
		h.log.Debug("credential already replaced or cleared", "trigger", trigger)
		return false
	}

	h.logEpisode(trigger, rejected)

	// only meaningful when there is a server-side session to end
	if pair.HasRefresh() {
		h.notifyLogout(ctx, pair)
	}

	// local state is cleared no matter what the remote authority said
	if err := h.store.Clear(ctx); err != nil {
		h.log.Error("unable to clear credentials", "error", err)
	}

	h.metrics.teardown(trigger)
	h.navigate(trigger)
	return true
}

func (h *Handler) navigate(trigger Trigger) {
	if trigger == TriggerLogout {
		h.nav.Navigate(h.homeRoute)
		return
	}

	// already on the login page; navigating again would loop
	if routes.Normalize(h.nav.Location()) == routes.Normalize(h.loginRoute) {
		return
	}

	h.nav.Navigate(h.loginRoute)
}

func (h *Handler) logEpisode(trigger Trigger, rejected *conceal.Text) {
	attrs := []any{"trigger", trigger}
	if claims, ok := credentials.Inspect(rejected); ok {
		attrs = append(attrs, "expired", claims.Expired(h.clock()))
	}
	h.log.Info("tearing down session", attrs...)
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// notifyLogout tells the remote authority the session is over. Failures are
// logged and otherwise ignored.
func (h *Handler) notifyLogout(ctx context.Context, pair credentials.Pair) {
	if err := h.postLogout(ctx, pair); err != nil {
		h.metrics.logoutFailed()
		h.log.Warn("logout notification failed", "error", err)
	}
}

func (h *Handler) postLogout(ctx context.Context, pair credentials.Pair) error {
	if h.logoutTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.logoutTimeout)
		defer cancel()
	}

	u, err := websession.ResolveURL(h.origin, LogoutEndpoint)
	if err != nil {
		return err
	}

	b, err := json.Marshal(&logoutRequest{RefreshToken: pair.Refresh.Unveil()})
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(b))
	if err != nil {
		return err
	}
	websession.SetDefaultContentType(request, websession.ContentTypeJSON)
	websession.SetBearerAuth(request, pair.Access)

	// not through the Client; a 401 here must not raise another signal
	response, err := h.http.Do(request)
	if err != nil {
		return err
	}
	drain(response)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("logout endpoint returned %d", response.StatusCode)
	}
	return nil
}
