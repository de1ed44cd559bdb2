package sim

import (
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind discriminates command variants. Controllers switch on it
// exhaustively; unknown kinds are dropped.
type Kind string

const (
	// KindControl carries an absolute orientation and/or tool actions.
	KindControl Kind = "control"
	// KindHeartbeat carries liveness only and never mutates entity state.
	KindHeartbeat Kind = "heartbeat"
)

// Action names a tool trigger carried by a control command. Actions are
// applied in list order.
type Action string

// Command is a single replayable instruction for one entity. Commands are
// built by input capture or decoded off the wire, applied exactly once by a
// Controller, and discarded. Treat a constructed Command as immutable: the
// constructors copy their inputs so later changes by the caller don't leak
// into a staged command.
type Command struct {
	Kind     Kind
	Actor    EntityID
	Seq      uint64
	IssuedAt time.Time

	// Orientation, when present, replaces the target's orientation
	// outright. Always normalized by the constructors.
	Orientation *mgl64.Quat

	// Actions invoke the target's held tool once each, in order.
	Actions []Action
}

// NewControlCommand builds a control command. A nil orientation means the
// command leaves the target's orientation untouched.
func NewControlCommand(actor EntityID, seq uint64, orientation *mgl64.Quat, actions ...Action) Command {
	cmd := Command{
		Kind:     KindControl,
		Actor:    actor,
		Seq:      seq,
		IssuedAt: time.Now(),
		Actions:  slices.Clone(actions),
	}

	if orientation != nil {
		q := orientation.Normalize()
		cmd.Orientation = &q
	}

	return cmd
}

// NewHeartbeatCommand builds a liveness command for the given entity.
func NewHeartbeatCommand(actor EntityID, seq uint64) Command {
	return Command{
		Kind:     KindHeartbeat,
		Actor:    actor,
		Seq:      seq,
		IssuedAt: time.Now(),
	}
}
