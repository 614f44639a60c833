package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed templates/* static/*
var webFS embed.FS

// AssetsHandler serves the embedded stylesheet and images under /assets/.
func AssetsHandler() http.Handler {
	sub, _ := fs.Sub(webFS, "static")
	return http.StripPrefix("/assets/", http.FileServer(http.FS(sub)))
}

// WASMHandler serves the compiled page client and wasm_exec.js from dir
// under /wasm/.
func WASMHandler(dir string) http.Handler {
	return http.StripPrefix("/wasm/", http.FileServer(http.Dir(dir)))
}
