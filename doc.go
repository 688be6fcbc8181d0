// Package focusflow provides a personalized task-time estimation engine.
//
// The engine starts from an uncertain machine-generated baseline and
// learns a per-user correction factor (actual/baseline ratio) from
// completion history, bucketed across task attributes with hierarchical
// fallback. A three-stage asynchronous pipeline overlaps the expensive
// generative calls with user interaction so only structure generation is
// on the user's critical path.
//
// The package is organized into subpackages by domain:
//
//   - bucket: Attribute enums, population priors, fallback key resolution
//   - correction: Correction-factor stores, Bayesian estimator, ranges
//   - generate: Generative backend contract, LLM implementation, mock
//   - pipeline: Per-session estimation scheduler with cancel-on-edit
//   - workflow: Headless batch estimation graph built on flowgraph
//   - stage: Pipeline stage to model tier selection
//   - config: Layered configuration resolution
//   - errors: Shared error taxonomy and predicates
//   - notify: Pipeline event notifications (log, webhook)
//   - context: Service dependency injection
//   - prompt: Prompt template loading with embedded defaults
//   - testutil: Test utilities and fixtures
//
// # Quick Start
//
//	import (
//	    "github.com/randalmurphal/focusflow/correction"
//	    "github.com/randalmurphal/focusflow/generate"
//	    "github.com/randalmurphal/focusflow/pipeline"
//	)
//
//	store := correction.NewMemoryStore()
//	estimator := correction.NewEstimator(store)
//	gen, _ := generate.NewLLMGenerator(generate.LLMConfig{Creative: client})
//
//	session, _ := pipeline.NewSession(gen, estimator)
//	_ = session.Start(ctx, "write the quarterly report")
//	_ = session.ConfirmClassification(nil)
//	result, _ := session.Finalize(ctx)
//
//	// Later, when the task is done:
//	_ = session.Complete(actualMinutes)
//
// See individual package documentation for detailed usage.
package focusflow
