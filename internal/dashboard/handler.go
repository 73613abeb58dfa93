// Package dashboard serves the built single-page UI from a directory on
// disk.
package dashboard

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
)

// New returns a handler serving the UI in webDir. It fails when webDir is
// not a directory or has no index.html.
func New(webDir string) (http.Handler, error) {
	info, err := os.Stat(webDir)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("dashboard: %s is not a directory", webDir)
	}
	root := os.DirFS(webDir)
	if _, err := fs.Stat(root, "index.html"); err != nil {
		return nil, fmt.Errorf("dashboard: %s has no index.html: %w", webDir, err)
	}
	return Handler(root), nil
}

// Handler returns an http.Handler that serves the SPA in root.
// For any request that doesn't match a static file and isn't an API route,
// it serves index.html so the client-side router can handle it.
func Handler(root fs.FS) http.Handler {
	fileServer := http.FileServer(http.FS(root))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Don't serve SPA for API routes, health endpoints, or metrics
		if strings.HasPrefix(r.URL.Path, "/api/") ||
			strings.HasPrefix(r.URL.Path, "/ws/") ||
			r.URL.Path == "/healthz" ||
			r.URL.Path == "/readyz" ||
			r.URL.Path == "/metrics" {
			http.NotFound(w, r)
			return
		}

		path := strings.TrimPrefix(r.URL.Path, "/")
		if path == "" {
			fileServer.ServeHTTP(w, r)
			return
		}

		if info, err := fs.Stat(root, path); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}

		// File not found -- serve index.html for client-side routing
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
