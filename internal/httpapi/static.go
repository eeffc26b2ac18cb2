package httpapi

import (
	"embed"
	"io/fs"
	"net/http"
)

// The hold-to-talk browser UI ships inside the binary; there is no separate
// asset pipeline.
//
//go:embed static
var uiAssets embed.FS

func newStaticHandler() http.Handler {
	ui, err := fs.Sub(uiAssets, "static")
	if err != nil {
		// The embed directive guarantees the subtree exists.
		panic(err)
	}
	return http.FileServer(http.FS(ui))
}
