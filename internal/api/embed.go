//go:build !dev

package api

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed dist/*
var staticFiles embed.FS

// StaticHandler returns a handler that serves the embedded editor page.
func (h *Handler) StaticHandler() http.Handler {
	fsys, _ := fs.Sub(staticFiles, "dist")
	fileServer := http.FileServer(http.FS(fsys))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The flag lives in the URL fragment, which never reaches us;
		// any extensionless path gets the editor page.
		path := r.URL.Path
		if path != "/" && !strings.Contains(path, ".") {
			r.URL.Path = "/"
		}
		w.Header().Set("Cache-Control", "no-cache")
		fileServer.ServeHTTP(w, r)
	})
}
