package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"cattlecloud.net/go/scope"
	"cattlecloud.net/go/websession"
	"cattlecloud.net/go/websession/config"
	"cattlecloud.net/go/websession/credentials"
	"cattlecloud.net/go/websession/notify"
	"cattlecloud.net/go/websession/routes"
	"cattlecloud.net/go/websession/session"
	"github.com/redis/go-redis/v9"
)

// host wires the session components the way a page would on load.
type host struct {
	cfg     config.Config
	log     *slog.Logger
	stdout  io.Writer
	page    websession.Page
	store   *credentials.Store
	nav     *terminal
	handler *session.Handler
	client  *session.Client
	gates   *session.Gate
	online  *notify.Connectivity
	closers []func() error
}

func newHost(configPath, location string, stdout, stderr io.Writer) (*host, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log := config.NewLogger(cfg.LogLevel, stderr)

	h := &host{
		cfg:    cfg,
		log:    log,
		stdout: stdout,
		page:   websession.Page{Path: location, UserAgent: cfg.HTTP.UserAgent},
		nav:    &terminal{lock: new(sync.Mutex), location: location, out: stdout},
	}

	medium, err := h.medium()
	if err != nil {
		return nil, err
	}
	h.store = credentials.New(medium, log)

	httpClient := &http.Client{
		Timeout:   cfg.HTTP.Timeout,
		Transport: &agent{name: cfg.HTTP.UserAgent, next: http.DefaultTransport},
	}

	opts := []session.OptionFunc{
		session.SetOrigin(websession.MustParseOrigin(cfg.Origin)),
		session.SetHTTP(httpClient),
		session.SetLogger(log),
		session.SetRoutes(cfg.Routes.Login, cfg.Routes.Register, cfg.Routes.Home, cfg.Routes.AfterLogin),
		session.SetLogoutTimeout(cfg.HTTP.LogoutTimeout),
	}

	h.handler = session.NewHandler(h.store, h.nav, opts...)
	h.client = session.NewClient(h.store, h.handler, opts...)
	h.gates = session.NewGate(
		h.store,
		h.client,
		h.handler,
		h.nav,
		&printer{out: stdout},
		routes.New(cfg.Routes.Protected...),
		routes.New(cfg.Routes.GuestOnly...),
		opts...,
	)

	board := notify.New(&notify.LogRenderer{Log: log}, log)
	h.online = notify.NewConnectivity(board)
	return h, nil
}

func (h *host) medium() (credentials.Medium, error) {
	switch h.cfg.Medium {
	case config.MediumRedis:
		client := redis.NewClient(&redis.Options{
			Addr: h.cfg.Redis.Addr,
			DB:   h.cfg.Redis.DB,
		})
		h.closers = append(h.closers, client.Close)
		return credentials.NewRedis(client, h.cfg.Redis.Prefix), nil
	case config.MediumMemory:
		return credentials.NewVolatile(), nil
	default:
		return credentials.NewFile(h.cfg.ProfileDir), nil
	}
}

func (h *host) Close() {
	for _, closer := range h.closers {
		_ = closer()
	}
}

func (h *host) status() error {
	ctx := scope.New()
	pair := h.store.Get(ctx)

	fmt.Fprintln(h.stdout, pair.State())
	if claims, ok := credentials.Inspect(pair.Access); ok && !claims.ExpiresAt.IsZero() {
		fmt.Fprintf(h.stdout, "access expires %s\n", claims.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

func (h *host) login(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("login requires <access> [refresh]")
	}

	refresh := ""
	if len(args) == 2 {
		refresh = args[1]
	}

	return h.store.Set(scope.New(), credentials.NewPair(args[0], refresh))
}

func (h *host) gate(args []string) error {
	if len(args) != 1 {
		return errors.New("gate requires <path>")
	}

	h.page.Path = args[0]
	h.nav.location = args[0]

	outcome, err := h.gates.Evaluate(scope.New(), h.page)
	fmt.Fprintf(h.stdout, "%s %s\n", outcome, h.nav.Location())
	return err
}

func (h *host) call(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return errors.New("call requires <method> <path> [json]")
	}

	var body io.Reader
	if len(args) == 3 {
		body = strings.NewReader(args[2])
	}

	ctx, cancel := scope.TTL(h.cfg.HTTP.Timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, strings.ToUpper(args[0]), args[1], body)
	if err != nil {
		return err
	}

	response, err := h.client.Do(request)
	switch {
	case errors.Is(err, session.ErrTransport):
		h.online.Offline()
		return err
	case err != nil:
		return err
	}
	defer func() { _ = response.Body.Close() }()

	h.online.Online()
	fmt.Fprintln(h.stdout, response.Status)
	_, err = io.Copy(h.stdout, response.Body)
	return err
}

func (h *host) logout() error {
	h.handler.Logout(scope.New())
	return nil
}

// terminal is a Navigator for a host without pages; navigations are printed.
type terminal struct {
	lock     *sync.Mutex
	location string
	out      io.Writer
}

func (t *terminal) Location() string {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.location
}

func (t *terminal) Navigate(path string) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.location = path
	fmt.Fprintf(t.out, "navigate %s\n", path)
}

// printer is a View for the terminal.
type printer struct {
	out io.Writer
}

func (p *printer) HideNavigation(...string) {}

func (p *printer) ShowIdentity(profile session.Profile) {
	fmt.Fprintf(p.out, "signed in as %s\n", profile.Email)
}

// agent sets the User-Agent header on every request.
type agent struct {
	name string
	next http.RoundTripper
}

func (a *agent) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Header.Get("User-Agent") == "" {
		r = r.Clone(r.Context())
		r.Header.Set("User-Agent", a.name)
	}
	return a.next.RoundTrip(r)
}

var _ session.Navigator = (*terminal)(nil)
