package session

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Well-known application routes and API endpoints.
const (
	LoginRoute      = "/login"
	RegisterRoute   = "/register"
	HomeRoute       = "/"
	AfterLoginRoute = "/dashboard"

	ProfileEndpoint = "/api/auth/me"
	LogoutEndpoint  = "/api/auth/logout"
)

// Options shared by the Client, Handler and Gate.
type Options struct {
	origin        *url.URL
	httpClient    *http.Client
	log           *slog.Logger
	metrics       *Metrics
	loginRoute    string
	registerRoute string
	homeRoute     string
	afterLogin    string
	logoutTimeout time.Duration
	clock         func() time.Time
}

type OptionFunc func(*Options)

// SetOrigin sets the API origin relative request URLs are resolved against.
func SetOrigin(u *url.URL) OptionFunc {
	return func(o *Options) { o.origin = u }
}

// SetHTTP sets the underlying transport; its timeouts are the only ones
// applied to API requests.
func SetHTTP(client *http.Client) OptionFunc {
	return func(o *Options) { o.httpClient = client }
}

func SetLogger(log *slog.Logger) OptionFunc {
	return func(o *Options) { o.log = log }
}

func SetMetrics(m *Metrics) OptionFunc {
	return func(o *Options) { o.metrics = m }
}

// SetRoutes overrides the login, register, home and after-login routes.
// Empty values keep the defaults.
func SetRoutes(login, register, home, afterLogin string) OptionFunc {
	return func(o *Options) {
		if login != "" {
			o.loginRoute = login
		}
		if register != "" {
			o.registerRoute = register
		}
		if home != "" {
			o.homeRoute = home
		}
		if afterLogin != "" {
			o.afterLogin = afterLogin
		}
	}
}

// SetLogoutTimeout bounds the best-effort logout notification. Zero leaves
// it to the transport.
func SetLogoutTimeout(d time.Duration) OptionFunc {
	return func(o *Options) { o.logoutTimeout = d }
}

// SetClock sets the time source used to judge credential expiry in logs.
func SetClock(clock func() time.Time) OptionFunc {
	return func(o *Options) { o.clock = clock }
}

func newOptions(opts []OptionFunc) *Options {
	options := &Options{
		httpClient:    http.DefaultClient,
		log:           slog.Default(),
		loginRoute:    LoginRoute,
		registerRoute: RegisterRoute,
		homeRoute:     HomeRoute,
		afterLogin:    AfterLoginRoute,
		clock:         time.Now,
	}

	for _, opt := range opts {
		opt(options)
	}

	return options
}
