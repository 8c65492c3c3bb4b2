package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
)

// NewAPI creates the huma API on router. Response bodies carry no $schema
// links so payloads match the documented wire format exactly.
func NewAPI(router chi.Router) huma.API {
	config := huma.DefaultConfig("URL Shortener Microservice", "1.0.0")
	config.CreateHooks = nil

	return humachi.New(router, config)
}

// RegisterRoutes registers the API operations.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "hello",
		Method:      http.MethodGet,
		Path:        "/api/hello",
		Summary:     "Hello",
		Tags:        []string{"Misc"},
	}, Hello)

	// POST /api/shorturl - errors are reported in a 200 body
	huma.Register(api, huma.Operation{
		OperationID: "create-short-url",
		Method:      http.MethodPost,
		Path:        "/api/shorturl",
		Summary:     "Create short URL",
		Description: "Validates the URL, resolves its host and returns its numeric short identifier. " +
			"Submitting the same URL again returns the same identifier.",
		Tags: []string{"URLs"},
		// No schemas here: a schema makes huma decode and reject bodies
		// before the handler can answer them with the invalid url payload.
		RequestBody: &huma.RequestBody{
			Description: "A `url` field, JSON or form encoded.",
			Required:    false,
			Content: map[string]*huma.MediaType{
				"application/json":                  {Example: map[string]string{"url": "https://www.freecodecamp.org"}},
				"application/x-www-form-urlencoded": {Example: "url=https%3A%2F%2Fwww.freecodecamp.org"},
			},
		},
		SkipValidateBody: true,
	}, urlHandler.CreateShortURL)

	// GET /api/shorturl/{short_url} - redirect, or 200 with an error body
	huma.Register(api, huma.Operation{
		OperationID: "redirect-short-url",
		Method:      http.MethodGet,
		Path:        "/api/shorturl/{short_url}",
		Summary:     "Redirect to original URL",
		Description: "Redirects with 302 to the original URL stored under the identifier.",
		Tags:        []string{"URLs"},
		Responses: map[string]*huma.Response{
			"302": {Description: "Redirect to the original URL"},
		},
	}, urlHandler.RedirectToURL)
}
