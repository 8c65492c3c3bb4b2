package handlers

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
)

// Hello answers the API smoke-test endpoint.
func Hello(_ context.Context, _ *struct{}) (*HelloResponse, error) {
	resp := &HelloResponse{}
	resp.Body.Greeting = "hello API"

	return resp, nil
}

// RegisterPages mounts the landing page and the static asset directory.
func RegisterPages(router chi.Router, viewsDir, publicDir string) {
	index := filepath.Join(viewsDir, "index.html")

	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, index)
	})

	router.Handle("/public/*", http.StripPrefix("/public/", http.FileServer(http.Dir(publicDir))))
}
