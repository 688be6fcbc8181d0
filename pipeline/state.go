package pipeline

// State is the session lifecycle position.
type State string

// Session states. Committed and Abandoned are terminal.
const (
	StateIdle                 State = "idle"
	StateGeneratingStructure  State = "generating_structure"
	StateAwaitingUserEdit     State = "awaiting_user_edit"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateReady                State = "ready"
	StateCommitted            State = "committed"
	StateAbandoned            State = "abandoned"
)

// Terminal reports whether the session accepts further mutations.
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateAbandoned
}
