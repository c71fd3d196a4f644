package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"cattlecloud.net/go/scope"
	"cattlecloud.net/go/websession"
	"cattlecloud.net/go/websession/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shoenig/go-conceal"
	"github.com/shoenig/test/must"
)

// navigator records navigations the way a browser location would.
type navigator struct {
	lock     *sync.Mutex
	location string
	visits   []string
}

func newNavigator(location string) *navigator {
	return &navigator{
		lock:     new(sync.Mutex),
		location: location,
	}
}

func (n *navigator) Location() string {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.location
}

func (n *navigator) Navigate(path string) {
	n.lock.Lock()
	defer n.lock.Unlock()
	n.location = path
	n.visits = append(n.visits, path)
}

func (n *navigator) Visits() []string {
	n.lock.Lock()
	defer n.lock.Unlock()
	return append([]string(nil), n.visits...)
}

// view records presentational updates.
type view struct {
	hidden   []string
	identity *Profile
}

func (v *view) HideNavigation(paths ...string) {
	v.hidden = append(v.hidden, paths...)
}

func (v *view) ShowIdentity(p Profile) {
	v.identity = &p
}

// signals counts unauthorized signals delivered by a Client.
type signals struct {
	count    atomic.Int64
	rejected atomic.Pointer[conceal.Text]
}

func (s *signals) Unauthorized(_ context.Context, rejected *conceal.Text) {
	s.count.Add(1)
	s.rejected.Store(rejected)
}

// logoutEndpoint records calls to the logout endpoint.
type logoutEndpoint struct {
	lock    *sync.Mutex
	calls   int
	bearer  string
	refresh string
	status  int
}

func (l *logoutEndpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l.lock.Lock()
	defer l.lock.Unlock()

	var body logoutRequest
	_ = json.NewDecoder(r.Body).Decode(&body)

	l.calls++
	l.bearer = websession.BearerToken(r)
	l.refresh = body.RefreshToken

	status := l.status
	if status == 0 {
		status = http.StatusNoContent
	}
	w.WriteHeader(status)
}

func (l *logoutEndpoint) Last() (string, string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.bearer, l.refresh
}

func (l *logoutEndpoint) SetStatus(status int) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.status = status
}

func (l *logoutEndpoint) Calls() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.calls
}

// flakyMedium is a Medium that stops working once broken, as when a shared
// redis instance goes away.
type flakyMedium struct {
	*credentials.Volatile
	broken atomic.Bool
}

var errMediumGone = errors.New("medium gone")

func (f *flakyMedium) Load(ctx context.Context, slot string) (string, bool, error) {
	if f.broken.Load() {
		return "", false, errMediumGone
	}
	return f.Volatile.Load(ctx, slot)
}

func (f *flakyMedium) Save(ctx context.Context, slot, value string) error {
	if f.broken.Load() {
		return errMediumGone
	}
	return f.Volatile.Save(ctx, slot, value)
}

func (f *flakyMedium) Delete(ctx context.Context, slot string) error {
	if f.broken.Load() {
		return errMediumGone
	}
	return f.Volatile.Delete(ctx, slot)
}

type harness struct {
	server  *httptest.Server
	store   *credentials.Store
	nav     *navigator
	handler *Handler
	client  *Client
	metrics *Metrics
	logout  *logoutEndpoint
}

func newHarness(t *testing.T, mux *http.ServeMux, location string, pair credentials.Pair) *harness {
	t.Helper()
	return newHarnessMedium(t, mux, location, pair, credentials.NewVolatile())
}

func newHarnessMedium(t *testing.T, mux *http.ServeMux, location string, pair credentials.Pair, medium credentials.Medium) *harness {
	t.Helper()

	logout := &logoutEndpoint{lock: new(sync.Mutex)}
	mux.Handle("POST "+LogoutEndpoint, logout)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	store := credentials.New(medium, nil)
	must.NoError(t, store.Set(scope.New(), pair))

	metrics := NewMetrics(prometheus.NewRegistry())
	opts := []OptionFunc{
		SetOrigin(websession.MustParseOrigin(server.URL)),
		SetHTTP(server.Client()),
		SetMetrics(metrics),
	}

	nav := newNavigator(location)
	handler := NewHandler(store, nav, opts...)
	client := NewClient(store, handler, opts...)

	return &harness{
		server:  server,
		store:   store,
		nav:     nav,
		handler: handler,
		client:  client,
		metrics: metrics,
		logout:  logout,
	}
}
