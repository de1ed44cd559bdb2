package lifecycle

// State is the coordinator's position in the session lifecycle. Exactly one
// state is active at a time.
type State int

const (
	// StateUninitialized is the cold-start state before Start.
	StateUninitialized State = iota

	// StateSettingUp covers the ordered render setup stages.
	StateSettingUp

	// StateReady means setup finished and no session is live; connect
	// attempts are accepted here and nowhere else.
	StateReady

	// StateConnecting means one attempt is in flight, with a visible
	// indicator tied to it.
	StateConnecting

	// StateInGame means a session is live.
	StateInGame

	// StateErrorShown is terminal: setup failed and the error stays on
	// screen until the process exits.
	StateErrorShown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateSettingUp:
		return "setting up"
	case StateReady:
		return "ready"
	case StateConnecting:
		return "connecting"
	case StateInGame:
		return "in game"
	case StateErrorShown:
		return "error shown"
	default:
		return "unknown"
	}
}
