// Package notify delivers estimation pipeline events to pluggable sinks.
//
// Implementations:
//   - LogNotifier: structured logging via slog
//   - WebhookNotifier: JSON POST to an HTTP endpoint
//   - MultiNotifier: fan-out to several notifiers
//
// Notifiers are advisory. A failed delivery never fails the pipeline
// operation that emitted the event.
package notify
