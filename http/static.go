package http

import (
	"net/http"
	"path"
	"strings"
)

// RootRedirect sends GET / to the landing page under the static prefix.
func RootRedirect(staticPrefix string) http.HandlerFunc {
	target := path.Join("/", staticPrefix, "index.html")
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			writeDetail(w, http.StatusNotFound, "Not Found")
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
			return
		}
		http.Redirect(w, r, target, http.StatusTemporaryRedirect)
	}
}

// StaticFiles serves dir under prefix, e.g. "/static/".
func StaticFiles(prefix, dir string) (string, http.Handler) {
	pattern := "/" + strings.Trim(prefix, "/") + "/"
	return pattern, http.StripPrefix(pattern, http.FileServer(http.Dir(dir)))
}
