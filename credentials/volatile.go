package credentials

import (
	"context"
	"sync"
)

// NewVolatile creates an in-memory implementation of Medium.
func NewVolatile() *Volatile {
	return &Volatile{
		lock: new(sync.Mutex),
		data: make(map[string]string, 2),
	}
}

// Volatile is an in-memory implementation of Medium.
//
// Credentials live only as long as the process; a restart is the equivalent
// of closing the browser profile. Useful for tests and short-lived tools.
type Volatile struct {
	lock *sync.Mutex
	data map[string]string
}

func (v *Volatile) Load(_ context.Context, slot string) (string, bool, error) {
	v.lock.Lock()
	defer v.lock.Unlock()

	value, exists := v.data[slot]
	return value, exists, nil
}

func (v *Volatile) Save(_ context.Context, slot, value string) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	v.data[slot] = value
	return nil
}

func (v *Volatile) Delete(_ context.Context, slot string) error {
	v.lock.Lock()
	defer v.lock.Unlock()

	delete(v.data, slot)
	return nil
}
