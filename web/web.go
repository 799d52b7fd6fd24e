// Package web serves the embedded single-page frontend. The assets
// are compiled into the binary so the API ships as one executable.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static
var staticFS embed.FS

// Register mounts the frontend on the router: index.html at "/" and
// the remaining assets under /static/.
func Register(router *gin.Engine) {
	assets, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // embed layout is fixed at compile time
	}

	router.GET("/", func(c *gin.Context) {
		// Serving the directory root avoids the net/http redirect
		// loop on paths ending in /index.html.
		c.FileFromFS("/", http.FS(assets))
	})
	router.StaticFS("/static", http.FS(assets))
}
