package notify

import "sync"

// Messages shown on connectivity transitions.
const (
	RestoredMessage = "connection restored"
	LostMessage     = "no internet connection"
)

// Connectivity turns online/offline transitions into notices. Repeated
// reports of the same state show nothing.
type Connectivity struct {
	lock   *sync.Mutex
	sink   Sink
	online bool
}

// NewConnectivity creates a Connectivity that starts out online.
func NewConnectivity(sink Sink) *Connectivity {
	return &Connectivity{
		lock:   new(sync.Mutex),
		sink:   sink,
		online: true,
	}
}

// Online reports the network came back.
func (c *Connectivity) Online() {
	c.set(true)
}

// Offline reports the network went away.
func (c *Connectivity) Offline() {
	c.set(false)
}

// IsOnline returns the last reported state.
func (c *Connectivity) IsOnline() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.online
}

func (c *Connectivity) set(online bool) {
	c.lock.Lock()
	changed := c.online != online
	c.online = online
	c.lock.Unlock()

	switch {
	case !changed:
		return
	case online:
		c.sink.Show(RestoredMessage, Success)
	default:
		c.sink.Show(LostMessage, Warning)
	}
}
