// Package routes provides the configured sets of application paths a Gate
// consults on page entry.
package routes

import (
	"net/url"
	"slices"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// Set is a collection of application route paths.
//
// Paths are compared exactly after normalization; the query string, fragment
// and any trailing slash are ignored.
type Set struct {
	paths *set.Set[string]
}

// New creates a Set of the given paths.
func New(paths ...string) *Set {
	s := &Set{paths: set.New[string](len(paths))}
	for _, p := range paths {
		s.paths.Insert(Normalize(p))
	}
	return s
}

// Contains reports whether path is a member of s. A nil Set contains nothing.
func (s *Set) Contains(path string) bool {
	if s == nil {
		return false
	}
	return s.paths.Contains(Normalize(path))
}

// Empty reports whether s has no members.
func (s *Set) Empty() bool {
	return s == nil || s.paths.Size() == 0
}

// Paths returns the members of s in sorted order.
func (s *Set) Paths() []string {
	if s == nil {
		return nil
	}
	paths := s.paths.Slice()
	slices.Sort(paths)
	return paths
}

// Normalize reduces a location to its route path, e.g.
// "/dashboard/?tab=files" becomes "/dashboard".
func Normalize(location string) string {
	if u, err := url.Parse(location); err == nil {
		location = u.Path
	}

	if location == "" {
		return "/"
	}
	if !strings.HasPrefix(location, "/") {
		location = "/" + location
	}
	if len(location) > 1 {
		location = strings.TrimRight(location, "/")
		if location == "" {
			return "/"
		}
	}
	return location
}
