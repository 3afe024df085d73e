// Package web serves the embedded static demo page: a map that posts clicks
// and break changes to the API and draws the returned polygons.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var static embed.FS

// Handler serves the demo page at / and its assets.
func Handler() http.Handler {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		// embed guarantees the directory exists at build time.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
