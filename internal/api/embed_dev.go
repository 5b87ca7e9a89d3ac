//go:build dev

package api

import (
	"net/http"
	"os"
)

// devDistEnvVar points the dev build at a page directory on disk.
const devDistEnvVar = "FLAGMAKER_DIST"

// StaticHandler serves the editor page straight from disk so edits show up
// on reload without rebuilding.
func (h *Handler) StaticHandler() http.Handler {
	dir := os.Getenv(devDistEnvVar)
	if dir == "" {
		dir = "internal/api/dist"
	}
	fileServer := http.FileServer(http.Dir(dir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		fileServer.ServeHTTP(w, r)
	})
}
