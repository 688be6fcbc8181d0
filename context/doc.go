// Package context provides dependency injection for estimation services.
//
// Core types:
//   - Services: Collection of all focusflow services for injection
//
// Context injection functions:
//   - WithGenerator/Generator: generative backend injection
//   - WithEstimator/Estimator: correction estimator injection
//   - WithStore/Store: correction store injection
//   - WithPrompt/Prompt: prompt loader injection
//   - notify.WithNotifier/NotifierFromContext: notifier injection
//
// Example usage:
//
//	services, _ := context.NewServices(settings)
//	ctx := services.InjectAll(ctx)
//
//	// Later, retrieve services
//	gen := context.Generator(ctx)
//	est := context.Estimator(ctx)
package context
