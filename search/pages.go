package search

import (
	"fmt"
	"strings"
)

// PageRoute maps a set of intent keywords to a named in-app destination.
type PageRoute struct {
	Name     string   `json:"name"`
	Link     string   `json:"link"`
	Keywords []string `json:"-"`
}

// pageRoutes is checked in order; the first group containing the query wins
// and at most one destination is returned.
var pageRoutes = []PageRoute{
	{
		Name:     "My Bookings",
		Link:     "/bookings",
		Keywords: []string{"book", "booking", "my booking", "my bookings", "bookings"},
	},
	{
		Name:     "Profile",
		Link:     "/profile/events",
		Keywords: []string{"profile", "my profile", "my account", "account", "my seminars", "my events", "events"},
	},
	{
		Name:     "Create Event",
		Link:     "/events/create",
		Keywords: []string{"create", "create seminar", "create event", "create new"},
	},
}

// ValidatePageRoutes checks the keyword groups for overlaps. Called once at
// startup so an ambiguous table is a boot failure, not a silent
// first-match-wins surprise.
func ValidatePageRoutes() error {
	seen := make(map[string]string)
	for _, route := range pageRoutes {
		for _, kw := range route.Keywords {
			kw = strings.ToLower(kw)
			if prev, ok := seen[kw]; ok {
				return fmt.Errorf("page keyword %q mapped to both %q and %q", kw, prev, route.Name)
			}
			seen[kw] = route.Name
		}
	}
	return nil
}

// PageResults returns the destination whose keyword group contains the query
// exactly, or nothing.
func PageResults(query string) []PageRoute {
	for _, route := range pageRoutes {
		for _, kw := range route.Keywords {
			if query == kw {
				return []PageRoute{{Name: route.Name, Link: route.Link}}
			}
		}
	}
	return nil
}
