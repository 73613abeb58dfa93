// Package plugintest provides shared contract tests that verify any
// plugin.HTTPProvider implementation exposes a well-formed route table.
package plugintest

import (
	"net/http"
	"strings"
	"testing"

	"github.com/HerbHall/netpanel/pkg/plugin"
)

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// TestRouteContract runs a suite of checks against the routes of any
// plugin.HTTPProvider. Call this from each module's _test.go:
//
//	func TestContract(t *testing.T) {
//	    plugintest.TestRouteContract(t, wol.NewHandler(sender, nil, logger))
//	}
func TestRouteContract(t *testing.T, provider plugin.HTTPProvider) {
	t.Helper()

	routes := provider.Routes()

	t.Run("Routes_not_empty", func(t *testing.T) {
		if len(routes) == 0 {
			t.Fatal("Routes() returned no routes")
		}
	})

	t.Run("Routes_well_formed", func(t *testing.T) {
		for _, r := range routes {
			if !allowedMethods[r.Method] {
				t.Errorf("route %q has unsupported method %q", r.Path, r.Method)
			}
			if !strings.HasPrefix(r.Path, "/") {
				t.Errorf("route path %q must start with /", r.Path)
			}
			if r.Handler == nil {
				t.Errorf("route %s %s has nil handler", r.Method, r.Path)
			}
		}
	})

	t.Run("Routes_unique", func(t *testing.T) {
		seen := make(map[string]bool, len(routes))
		for _, r := range routes {
			key := r.Method + " " + r.Path
			if seen[key] {
				t.Errorf("duplicate route %s", key)
			}
			seen[key] = true
		}
	})
}
