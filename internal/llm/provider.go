package llm

import (
	"context"
	"errors"

	"github.com/hyperifyio/goground/internal/grounding"
)

// ErrMissingAPIKey is returned when a provider that requires credentials is
// constructed without any.
var ErrMissingAPIKey = errors.New("missing API key")

// Request is one grounded query to a hosted model.
type Request struct {
	Prompt string
	Model  string
	// SystemHint is an optional system instruction, e.g. a response-language
	// request. Empty means none.
	SystemHint string
}

// Result is the opaque outcome of one model call: the raw response text plus
// whatever grounding metadata the backend reported. Backends without
// server-side search return the zero RawGrounding, which downstream treats
// as the valid "no grounding occurred" case.
type Result struct {
	Text      string                 `json:"text"`
	Grounding grounding.RawGrounding `json:"grounding"`
}

// Provider is the minimal interface the rest of the tool needs from a model
// backend. It intentionally hides SDK types so that the grounding core never
// depends on any vendor SDK.
type Provider interface {
	GroundedQuery(ctx context.Context, req Request) (Result, error)
	Name() string
}
