package session

import (
	"errors"

	"cattlecloud.net/go/websession/credentials"
)

var (
	// ErrUnauthorized indicates the remote authority rejected the request
	// with a 401. The Handler has already been signalled; callers must not
	// treat this as a normal response.
	ErrUnauthorized = errors.New("session: unauthorized")

	// ErrTransport indicates the request never produced a response, e.g. the
	// network is unreachable. No teardown happens.
	ErrTransport = errors.New("session: transport failure")

	// ErrProfileFetchFailed indicates the identity endpoint could not confirm
	// the session during page entry.
	ErrProfileFetchFailed = errors.New("session: profile fetch failed")

	// ErrStorageUnavailable indicates the credential medium could not be
	// used.
	ErrStorageUnavailable = credentials.ErrStorageUnavailable
)
