package provider

import (
	"context"
	"fmt"
	"sync"
)

// ProviderType identifies which external payment system delivered an event
type ProviderType string

const (
	ProviderTypeStripe ProviderType = "stripe"
	ProviderTypeToss   ProviderType = "toss"
)

// Valid reports whether the provider type is one of the known providers
func (p ProviderType) Valid() bool {
	switch p {
	case ProviderTypeStripe, ProviderTypeToss:
		return true
	}
	return false
}

// EventHandler executes the provider-specific side effect for one webhook event.
// Implementations live outside the pipeline; the worker only requires that nil
// means the event is fully handled and a non-nil error means the attempt
// failed and may be retried.
type EventHandler interface {
	Handle(ctx context.Context, eventID string, payload map[string]interface{}) error
}

// Registry maps provider types to their event handlers so new providers plug
// in without touching the worker or the sweep.
type Registry struct {
	mu       sync.RWMutex
	handlers map[ProviderType]EventHandler
}

// NewRegistry creates an empty handler registry
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[ProviderType]EventHandler),
	}
}

// Register adds or replaces the handler for a provider
func (r *Registry) Register(providerType ProviderType, handler EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[providerType] = handler
}

// Handler returns the handler registered for a provider
func (r *Registry) Handler(providerType ProviderType) (EventHandler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	handler, ok := r.handlers[providerType]
	if !ok {
		return nil, fmt.Errorf("no handler registered for provider: %s", providerType)
	}
	return handler, nil
}
