// Package session implements the client side of an authenticated session.
//
// A Gate decides on page entry whether the route may be shown. A Client
// attaches the stored access credential to outgoing API requests and
// reports every 401 to the single Handler, which owns teardown: clearing the
// credentials and navigating away exactly once per unauthorized episode, no
// matter how many in-flight requests were rejected.
package session
