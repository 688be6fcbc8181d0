// Package pipeline orchestrates the three-stage estimation flow for one
// task-creation session.
//
// Only structure generation blocks the caller. Classification starts in
// the background the moment structure arrives, and per-step estimation
// starts the moment the user confirms the classification, so by the time
// the user finishes editing, the expensive calls are usually done.
//
// Cancellation follows a last-edit-wins rule: every background call kind
// carries a monotonically increasing sequence number, and only the result
// matching the latest issued number is applied. Editing steps cancels an
// in-flight classification and invalidates any estimation; confirming
// again restarts estimation against the new step list.
//
// A session always commits with a usable baseline: Finalize waits for an
// in-flight estimation up to a bounded timeout, then falls back to the
// engagement tag's population default rather than blocking or committing
// an empty estimate.
package pipeline
