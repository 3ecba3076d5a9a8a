package server

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// handleSPA serves static files from fsys, falling back to index.html
// for any path that doesn't match a real file.
func handleSPA(fsys fs.FS) http.HandlerFunc {
	fileServer := http.FileServerFS(fsys)

	return func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the exact file.
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if info, err := fs.Stat(fsys, name); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}

		// Fall back to index.html.
		http.ServeFileFS(w, r, fsys, "index.html")
	}
}
