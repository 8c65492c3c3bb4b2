package handlers

import (
	"fmt"
	"io"

	"github.com/danielgtaylor/huma/v2"
)

// Payloads returned with HTTP 200 when a request cannot be served.
const (
	ErrMsgInvalidURL = "invalid url"
	ErrMsgNotFound   = "No short URL found for the given input"
)

// ShortenInput is the decoded body of a create request.
type ShortenInput struct {
	URL string `doc:"The URL to shorten" example:"https://www.freecodecamp.org" form:"url" json:"url"`
}

// MaxShortenBodyBytes caps the body read by a create request.
const MaxShortenBodyBytes = 1 << 20

// CreateShortURLRequest reads its own body, so JSON and form encodings reach
// the handler without huma decoding or validating them first.
type CreateShortURLRequest struct {
	ContentType string `header:"Content-Type"`
	Payload     []byte
}

// Resolve reads up to MaxShortenBodyBytes of the request body into Payload.
func (r *CreateShortURLRequest) Resolve(ctx huma.Context) []error {
	body := ctx.BodyReader()
	if body == nil {
		return nil
	}

	payload, err := io.ReadAll(io.LimitReader(body, MaxShortenBodyBytes))
	if err != nil {
		return []error{&huma.ErrorDetail{
			Location: "body",
			Message:  fmt.Sprintf("cannot read request body: %v", err),
		}}
	}

	r.Payload = payload

	return nil
}

// ShortURLBody is either a created entry or an error payload.
type ShortURLBody struct {
	OriginalURL string `doc:"The original URL"           json:"original_url,omitempty"`
	ShortURL    int64  `doc:"The short identifier"       json:"short_url,omitempty"`
	Error       string `doc:"Set when the URL is invalid" json:"error,omitempty"`
}

// CreateShortURLResponse is the response for a create request.
type CreateShortURLResponse struct {
	Body ShortURLBody
}

// RedirectRequest is the request for redirecting a short URL.
type RedirectRequest struct {
	ShortURL string `doc:"The short identifier" example:"1" path:"short_url"`
}

// RedirectResponse is a 302 with Location, or a 200 JSON error body.
type RedirectResponse struct {
	Status      int
	Location    string `doc:"The original URL" header:"Location"`
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// HelloResponse is the response for the hello endpoint.
type HelloResponse struct {
	Body struct {
		Greeting string `example:"hello API" json:"greeting"`
	}
}
