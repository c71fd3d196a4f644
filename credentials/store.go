package credentials

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// The two named slots of the persistence medium.
const (
	AccessSlot  = "access_token"
	RefreshSlot = "refresh_token"
)

var (
	// ErrStorageUnavailable indicates the persistence medium could not be
	// read or written.
	ErrStorageUnavailable = errors.New("credentials: storage unavailable")
)

// Medium is a persistent key-value medium, e.g. a file in a browser-like
// profile directory or a shared redis instance.
//
// Load returns false (and no error) when the slot holds nothing.
type Medium interface {
	Load(ctx context.Context, slot string) (string, bool, error)
	Save(ctx context.Context, slot, value string) error
	Delete(ctx context.Context, slot string) error
}

// Store holds at most one access credential and one refresh credential.
//
// Session state is never cached; every Get goes to the medium so that all
// readers observe the most recently completed write.
type Store struct {
	medium Medium
	log    *slog.Logger
}

// New creates a Store backed by medium.
func New(medium Medium, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		medium: medium,
		log:    log,
	}
}

// Get returns the stored credential pair.
//
// If the medium is unavailable the empty pair is returned, which callers
// observe as Anonymous.
func (s *Store) Get(ctx context.Context) Pair {
	p, err := s.Lookup(ctx)
	if err != nil {
		s.log.Warn("credential medium unavailable; treating session as anonymous", "error", err)
		return Pair{}
	}
	return p
}

// Lookup returns the stored credential pair, or an error wrapping
// ErrStorageUnavailable if the medium could not be read. Unlike Get, callers
// can tell an unreadable medium apart from an empty one.
func (s *Store) Lookup(ctx context.Context) (Pair, error) {
	access, err := s.load(ctx, AccessSlot)
	if err != nil {
		return Pair{}, err
	}

	refresh, err := s.load(ctx, RefreshSlot)
	if err != nil {
		return Pair{}, err
	}

	return NewPair(access, refresh), nil
}

// State returns the session state derived from the stored pair.
func (s *Store) State(ctx context.Context) State {
	return s.Get(ctx).State()
}

// Set replaces the stored pair. Absent credentials in p clear their slot.
func (s *Store) Set(ctx context.Context, p Pair) error {
	if err := s.put(ctx, AccessSlot, reveal(p.Access)); err != nil {
		return err
	}
	return s.put(ctx, RefreshSlot, reveal(p.Refresh))
}

// Clear removes both credentials. Both slots are attempted even if the first
// removal fails.
func (s *Store) Clear(ctx context.Context) error {
	return errors.Join(
		s.remove(ctx, AccessSlot),
		s.remove(ctx, RefreshSlot),
	)
}

func (s *Store) load(ctx context.Context, slot string) (string, error) {
	value, exists, err := s.medium.Load(ctx, slot)
	switch {
	case err != nil:
		return "", fmt.Errorf("%w: load %s: %w", ErrStorageUnavailable, slot, err)
	case !exists:
		return "", nil
	default:
		return value, nil
	}
}

func (s *Store) put(ctx context.Context, slot, value string) error {
	if value == "" {
		return s.remove(ctx, slot)
	}
	if err := s.medium.Save(ctx, slot, value); err != nil {
		return fmt.Errorf("%w: save %s: %w", ErrStorageUnavailable, slot, err)
	}
	return nil
}

func (s *Store) remove(ctx context.Context, slot string) error {
	if err := s.medium.Delete(ctx, slot); err != nil {
		return fmt.Errorf("%w: delete %s: %w", ErrStorageUnavailable, slot, err)
	}
	return nil
}
