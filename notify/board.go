// Package notify renders transient, user-visible notices.
package notify

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-set/v3"
)

// Horizon is how long a notice stays up before it is dismissed.
const Horizon = 5 * time.Second

// Notice is one transient message.
type Notice struct {
	ID       string
	Message  string
	Severity Severity
	Shown    time.Time
}

// Renderer draws and removes notices, e.g. alert elements in a fixed
// container at the top of the page.
type Renderer interface {
	Render(Notice)
	Remove(id string)
}

// Sink accepts notices.
type Sink interface {
	Show(message string, severity Severity) string
}

// Board is a Sink that auto-dismisses every notice after Horizon.
//
// Show never blocks on the dismissal and never panics into its caller; a
// misbehaving Renderer is logged and otherwise ignored.
type Board struct {
	lock     *sync.Mutex
	active   *set.Set[string]
	seq      uint64
	renderer Renderer
	horizon  time.Duration
	after    func(time.Duration, func())
	clock    func() time.Time
	log      *slog.Logger
}

// New creates a Board drawing through renderer.
func New(renderer Renderer, log *slog.Logger) *Board {
	if log == nil {
		log = slog.Default()
	}
	return &Board{
		lock:     new(sync.Mutex),
		active:   set.New[string](4),
		renderer: renderer,
		horizon:  Horizon,
		after:    func(d time.Duration, f func()) { time.AfterFunc(d, f) },
		clock:    time.Now,
		log:      log,
	}
}

// Show renders message and schedules its dismissal, returning the notice id.
func (b *Board) Show(message string, severity Severity) string {
	b.lock.Lock()
	b.seq++
	id := "notice-" + strconv.FormatUint(b.seq, 10)
	b.active.Insert(id)
	b.lock.Unlock()

	b.safely("render", func() {
		b.renderer.Render(Notice{
			ID:       id,
			Message:  message,
			Severity: severity,
			Shown:    b.clock(),
		})
	})

	b.after(b.horizon, func() { b.Dismiss(id) })
	return id
}

// Dismiss removes the notice early (e.g. its close button was clicked).
// Dismissing a notice twice is a no-op.
func (b *Board) Dismiss(id string) {
	b.lock.Lock()
	removed := b.active.Remove(id)
	b.lock.Unlock()

	if !removed {
		return
	}

	b.safely("remove", func() { b.renderer.Remove(id) })
}

// Active returns the number of notices currently shown.
func (b *Board) Active() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.active.Size()
}

func (b *Board) safely(op string, f func()) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("notice renderer failed", "op", op, "panic", r)
		}
	}()
	f()
}

// LogRenderer renders notices as log lines; useful for terminal hosts.
type LogRenderer struct {
	Log *slog.Logger
}

func (l *LogRenderer) Render(n Notice) {
	level := slog.LevelInfo
	switch n.Severity {
	case Warning:
		level = slog.LevelWarn
	case Error:
		level = slog.LevelError
	}
	l.Log.Log(context.Background(), level, n.Message, "notice", n.ID, "severity", n.Severity.String())
}

func (l *LogRenderer) Remove(string) {}
