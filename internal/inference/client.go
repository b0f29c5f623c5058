// Package inference wraps the external generative-inference providers behind a
// single request/response contract. It carries no pipeline logic: one request,
// one response, no retries. The output-shape constraint in a Request is
// advisory to the remote service; callers must parse the returned text
// themselves and cannot assume it is valid.
package inference

import (
	"context"
	"errors"
)

// ErrInferenceFailed is the single failure condition surfaced by providers.
// Transport, auth and empty-response errors all wrap it.
var ErrInferenceFailed = errors.New("inference failed")

// Request describes one inference call.
type Request struct {
	// Prompt is the natural-language instruction text.
	Prompt string
	// Schema constrains the shape of the textual output. Optional.
	Schema *Schema
	// Grounding requests web-search augmentation. Providers without the
	// capability ignore it and return no sources.
	Grounding bool
}

// Source is one citation entry returned alongside a grounded answer.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title,omitempty"`
}

// Result is the raw outcome of a call. Text is not guaranteed to satisfy the
// requested schema.
type Result struct {
	Text    string
	Sources []Source
}

// Client is implemented by each provider. Invoke is blocking and may be slow;
// cancellation happens through ctx only.
type Client interface {
	Invoke(ctx context.Context, req Request) (*Result, error)
	Name() string
}
