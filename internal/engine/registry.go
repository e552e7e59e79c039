package engine

import (
	"context"
	"fmt"

	"AgriQuery/internal/domain"
)

// HandlerFunc executes one intent against the data sources. Soft outcomes
// (no data, missing query fields) are reported inside the envelope; an
// error return means the whole query failed.
type HandlerFunc func(ctx context.Context, q domain.QueryDescription) (domain.ResultEnvelope, error)

// Registry keeps a mapping from intents to their handlers.
type Registry struct {
	handlers map[domain.Intent]HandlerFunc
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: map[domain.Intent]HandlerFunc{}}
}

// Register adds or replaces a handler for an intent.
func (r *Registry) Register(intent domain.Intent, handler HandlerFunc) {
	if r.handlers == nil {
		r.handlers = map[domain.Intent]HandlerFunc{}
	}
	r.handlers[intent] = handler
}

// Resolve returns the handler for an intent. Unknown intents resolve to the
// general handler rather than failing, so a misparsed intent still answers.
func (r *Registry) Resolve(intent domain.Intent) (HandlerFunc, error) {
	if handler, ok := r.handlers[intent]; ok {
		return handler, nil
	}
	if handler, ok := r.handlers[domain.IntentGeneral]; ok {
		return handler, nil
	}
	return nil, fmt.Errorf("no handler registered for intent %q", intent)
}
