// Package geo resolves IPv4 addresses to a location: an ISO country code from
// a MaxMind database, or an operator supplied label for known networks.
package geo

import "errors"

// ErrDatabaseUnavailable is returned when the geolocation database cannot be
// opened. The pipeline cannot run without it.
var ErrDatabaseUnavailable = errors.New("geo: database unavailable")

// Locator resolves one dotted-quad IP. The boolean is false when there is no
// match; callers map that to model.Unlocated.
type Locator interface {
	Locate(ip string) (string, bool)
}

// LocatorFunc adapts a function to the Locator interface.
type LocatorFunc func(ip string) (string, bool)

func (f LocatorFunc) Locate(ip string) (string, bool) { return f(ip) }

// Static is a map backed Locator.
type Static map[string]string

func (s Static) Locate(ip string) (string, bool) {
	loc, ok := s[ip]
	return loc, ok && loc != ""
}

// Chain consults each locator in order and returns the first match.
// Nil locators are ignored.
func Chain(locators ...Locator) Locator {
	var list []Locator
	for _, l := range locators {
		if l != nil {
			list = append(list, l)
		}
	}
	return LocatorFunc(func(ip string) (string, bool) {
		for _, l := range list {
			if loc, ok := l.Locate(ip); ok {
				return loc, true
			}
		}
		return "", false
	})
}
