package connect

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pixil98/go-arena/internal/sim"
)

// ProtocolVersion is negotiated during the hello exchange; hosts refuse
// clients speaking any other version.
const ProtocolVersion = 1

// Frame types carried over a session transport. Ready is sent once by
// transports whose downstream delivery needs an explicit subscription
// barrier; hosts hold the world snapshot for a session until it arrives.
const (
	FrameReady   = "ready"
	FrameCommand = "command"
	FrameSpawn   = "spawn"
	FrameDespawn = "despawn"
)

// Frame is the envelope for every in-session message, with one payload
// pointer set per type.
type Frame struct {
	Type    string        `json:"type"`
	Command *CommandFrame `json:"command,omitempty"`
	Spawn   *SpawnFrame   `json:"spawn,omitempty"`
	Despawn *DespawnFrame `json:"despawn,omitempty"`
}

type CommandFrame struct {
	Kind        string      `json:"kind"`
	Actor       string      `json:"actor"`
	Seq         uint64      `json:"seq"`
	Orientation *[4]float64 `json:"orientation,omitempty"`
	Actions     []string    `json:"actions,omitempty"`
}

type SpawnFrame struct {
	Entity      string     `json:"entity"`
	Name        string     `json:"name"`
	Position    [3]float64 `json:"position"`
	Orientation [4]float64 `json:"orientation"`
	Tool        *ToolFrame `json:"tool,omitempty"`
}

type ToolFrame struct {
	ID   string `json:"id"`
	Spec string `json:"spec"`
}

type DespawnFrame struct {
	Entity string `json:"entity"`
}

// HelloFrame opens session negotiation on both transports.
type HelloFrame struct {
	Protocol int    `json:"protocol"`
	Token    string `json:"token"`
	Name     string `json:"name"`
	Pronouns string `json:"pronouns,omitempty"`
}

// WelcomeFrame is the host's single reply to a hello. A non-empty Error
// means the session was refused.
type WelcomeFrame struct {
	Session string `json:"session"`
	Entity  string `json:"entity"`
	Error   string `json:"error,omitempty"`
}

// EncodeCommand flattens a command for the wire. Orientation quaternions
// travel as [w, x, y, z].
func EncodeCommand(cmd sim.Command) CommandFrame {
	f := CommandFrame{
		Kind:  string(cmd.Kind),
		Actor: string(cmd.Actor),
		Seq:   cmd.Seq,
	}

	if cmd.Orientation != nil {
		q := *cmd.Orientation
		f.Orientation = &[4]float64{q.W, q.V.X(), q.V.Y(), q.V.Z()}
	}

	for _, a := range cmd.Actions {
		f.Actions = append(f.Actions, string(a))
	}

	return f
}

// DecodeCommand rebuilds a command from the wire, renormalizing the
// orientation through the command constructors so replicated commands obey
// the same invariants as locally captured ones.
func DecodeCommand(f CommandFrame) (sim.Command, error) {
	actor := sim.EntityID(f.Actor)

	switch sim.Kind(f.Kind) {
	case sim.KindControl:
		var q *mgl64.Quat
		if f.Orientation != nil {
			q = &mgl64.Quat{
				W: f.Orientation[0],
				V: mgl64.Vec3{f.Orientation[1], f.Orientation[2], f.Orientation[3]},
			}
		}

		actions := make([]sim.Action, 0, len(f.Actions))
		for _, a := range f.Actions {
			actions = append(actions, sim.Action(a))
		}

		return sim.NewControlCommand(actor, f.Seq, q, actions...), nil

	case sim.KindHeartbeat:
		return sim.NewHeartbeatCommand(actor, f.Seq), nil

	default:
		return sim.Command{}, fmt.Errorf("unknown command kind %q", f.Kind)
	}
}
