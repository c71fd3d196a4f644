package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/shoenig/test/must"
	"github.com/shoenig/test/wait"
)

// recorder is a Renderer that remembers what is on screen.
type recorder struct {
	lock    sync.Mutex
	shown   map[string]Notice
	removed []string
}

func newRecorder() *recorder {
	return &recorder{shown: make(map[string]Notice)}
}

func (r *recorder) Render(n Notice) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.shown[n.ID] = n
}

func (r *recorder) Remove(id string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.shown, id)
	r.removed = append(r.removed, id)
}

// timers captures scheduled dismissals so tests can fire them.
type timers struct {
	delays []time.Duration
	funcs  []func()
}

func (tm *timers) after(d time.Duration, f func()) {
	tm.delays = append(tm.delays, d)
	tm.funcs = append(tm.funcs, f)
}

func (tm *timers) fire() {
	for _, f := range tm.funcs {
		f()
	}
}

func newTestBoard(r Renderer) (*Board, *timers) {
	tm := new(timers)
	b := New(r, nil)
	b.after = tm.after
	b.clock = func() time.Time {
		return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	}
	return b, tm
}

func TestBoard_Show(t *testing.T) {
	t.Parallel()

	r := newRecorder()
	b, tm := newTestBoard(r)

	id := b.Show("file uploaded", Success)
	must.Eq(t, "notice-1", id)
	must.Eq(t, 1, b.Active())

	n := r.shown[id]
	must.Eq(t, "file uploaded", n.Message)
	must.Eq(t, Success, n.Severity)

	// dismissal scheduled at the fixed horizon
	must.Eq(t, []time.Duration{5 * time.Second}, tm.delays)

	tm.fire()
	must.Eq(t, 0, b.Active())
	must.MapEmpty(t, r.shown)
	must.Eq(t, []string{"notice-1"}, r.removed)
}

func TestBoard_Dismiss_twice(t *testing.T) {
	t.Parallel()

	r := newRecorder()
	b, tm := newTestBoard(r)

	id := b.Show("hello", Info)
	b.Dismiss(id)
	tm.fire()

	must.Eq(t, []string{id}, r.removed)
}

func TestBoard_Show_many(t *testing.T) {
	t.Parallel()

	r := newRecorder()
	b, tm := newTestBoard(r)

	first := b.Show("one", Info)
	second := b.Show("two", Warning)
	must.NotEq(t, first, second)
	must.Eq(t, 2, b.Active())
	must.MapLen(t, 2, r.shown)

	tm.fire()
	must.Eq(t, 0, b.Active())
}

// panics is a Renderer that always panics.
type panics struct{}

func (panics) Render(Notice) { panic("boom") }
func (panics) Remove(string) { panic("boom") }

func TestBoard_rendererPanics(t *testing.T) {
	t.Parallel()

	b, tm := newTestBoard(panics{})

	id := b.Show("still fine", Error)
	must.Eq(t, "notice-1", id)
	tm.fire()
	must.Eq(t, 0, b.Active())
}

func TestBoard_realTimer(t *testing.T) {
	t.Parallel()

	r := newRecorder()
	b := New(r, nil)
	b.horizon = 10 * time.Millisecond

	b.Show("soon gone", Info)
	must.Wait(t, wait.InitialSuccess(
		wait.BoolFunc(func() bool { return b.Active() == 0 }),
		wait.Timeout(2*time.Second),
		wait.Gap(5*time.Millisecond),
	))
}

func TestParseSeverity(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		exp   Severity
	}{
		{"info", Info},
		{"", Info},
		{"success", Success},
		{"WARNING", Warning},
		{"danger", Error},
		{"error", Error},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			s, err := ParseSeverity(tc.input)
			must.NoError(t, err)
			must.Eq(t, tc.exp, s)
		})
	}

	_, err := ParseSeverity("loud")
	must.Error(t, err)
}

func TestSeverity_String(t *testing.T) {
	t.Parallel()

	must.Eq(t, "info", Info.String())
	must.Eq(t, "success", Success.String())
	must.Eq(t, "warning", Warning.String())
	must.Eq(t, "error", Error.String())
}
