package context

import (
	"context"

	"github.com/randalmurphal/focusflow/correction"
	"github.com/randalmurphal/focusflow/generate"
	"github.com/randalmurphal/focusflow/prompt"
)

// =============================================================================
// Context Injection Helpers
// =============================================================================
// These helpers allow focusflow services to be injected into
// context.Context for use by workflow nodes.

// serviceContextKey is a private type for context keys to avoid collisions
type serviceContextKey string

// Context keys for focusflow services
const (
	generatorServiceKey serviceContextKey = "focusflow.generator"
	estimatorServiceKey serviceContextKey = "focusflow.estimator"
	storeServiceKey     serviceContextKey = "focusflow.store"
	promptServiceKey    serviceContextKey = "focusflow.prompts"
)

// WithGenerator adds a generative backend to the context
func WithGenerator(ctx context.Context, gen generate.Generator) context.Context {
	return context.WithValue(ctx, generatorServiceKey, gen)
}

// Generator extracts the generative backend from context
func Generator(ctx context.Context) generate.Generator {
	if gen, ok := ctx.Value(generatorServiceKey).(generate.Generator); ok {
		return gen
	}
	return nil
}

// MustGenerator extracts the generative backend or panics
func MustGenerator(ctx context.Context) generate.Generator {
	gen := Generator(ctx)
	if gen == nil {
		panic("focusflow/context: generate.Generator not found in context")
	}
	return gen
}

// WithEstimator adds a correction estimator to the context
func WithEstimator(ctx context.Context, est *correction.Estimator) context.Context {
	return context.WithValue(ctx, estimatorServiceKey, est)
}

// Estimator extracts the correction estimator from context
func Estimator(ctx context.Context) *correction.Estimator {
	if est, ok := ctx.Value(estimatorServiceKey).(*correction.Estimator); ok {
		return est
	}
	return nil
}

// MustEstimator extracts the correction estimator or panics
func MustEstimator(ctx context.Context) *correction.Estimator {
	est := Estimator(ctx)
	if est == nil {
		panic("focusflow/context: correction.Estimator not found in context")
	}
	return est
}

// WithStore adds a correction store to the context
func WithStore(ctx context.Context, store correction.Store) context.Context {
	return context.WithValue(ctx, storeServiceKey, store)
}

// Store extracts the correction store from context
func Store(ctx context.Context) correction.Store {
	if store, ok := ctx.Value(storeServiceKey).(correction.Store); ok {
		return store
	}
	return nil
}

// MustStore extracts the correction store or panics
func MustStore(ctx context.Context) correction.Store {
	store := Store(ctx)
	if store == nil {
		panic("focusflow/context: correction.Store not found in context")
	}
	return store
}

// WithPrompt adds a prompt loader to the context
func WithPrompt(ctx context.Context, loader *prompt.Loader) context.Context {
	return context.WithValue(ctx, promptServiceKey, loader)
}

// Prompt extracts the prompt loader from context
func Prompt(ctx context.Context) *prompt.Loader {
	if loader, ok := ctx.Value(promptServiceKey).(*prompt.Loader); ok {
		return loader
	}
	return nil
}

// MustPrompt extracts the prompt loader or panics
func MustPrompt(ctx context.Context) *prompt.Loader {
	loader := Prompt(ctx)
	if loader == nil {
		panic("focusflow/context: prompt.Loader not found in context")
	}
	return loader
}
