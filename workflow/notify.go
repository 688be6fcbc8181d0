package workflow

import (
	"time"

	"github.com/randalmurphal/flowgraph/pkg/flowgraph"

	"github.com/randalmurphal/focusflow/notify"
)

// NotifyNode sends a notification based on current state.
//
// This node is typically placed at the end of a workflow to report the
// computed estimate or a failure. If no notifier is configured in the
// context, this is a no-op.
//
// Updates: None (only sends notification)
func NotifyNode(ctx flowgraph.Context, state State) (State, error) {
	notifier := notify.NotifierFromContext(ctx)
	if notifier == nil {
		return state, nil
	}

	event := notify.Event{
		Type:      determineEventType(state),
		SessionID: state.RunID,
		Timestamp: time.Now(),
		Metadata:  buildMetadata(state),
	}

	if state.Error != "" {
		event.Severity = notify.SeverityError
		event.Message = state.Error
	} else {
		event.Severity = notify.SeverityInfo
		event.Message = "estimation workflow completed"
	}

	// Notify but don't fail the workflow on notification errors
	_ = notifier.Notify(ctx, event)

	return state, nil
}

func determineEventType(state State) notify.EventType {
	if state.Error != "" {
		return notify.EventStageFailed
	}
	return notify.EventEstimateReady
}

func buildMetadata(state State) map[string]any {
	meta := make(map[string]any)

	meta["flowId"] = state.FlowID
	if state.Name != "" {
		meta["task"] = state.Name
	}
	if state.BaselineMinutes > 0 {
		meta["baseline"] = state.BaselineMinutes
	}
	if !state.ComputedAt.IsZero() {
		meta["low"] = state.Low
		meta["high"] = state.High
		meta["confidence"] = string(state.Confidence)
	}
	if state.Degraded {
		meta["degraded"] = true
	}

	return meta
}
