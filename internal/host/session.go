package host

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/pixil98/go-arena/internal/connect"
	"github.com/pixil98/go-arena/internal/sim"
)

// session tracks one connected client and the entity granted to it.
type session struct {
	id     string
	entity sim.EntityID
	name   string

	unsub func()

	lastFrame time.Time
}

func (h *Host) handleHello(msg *nats.Msg) {
	var hello connect.HelloFrame
	if err := json.Unmarshal(msg.Data, &hello); err != nil {
		h.refuse(msg, "malformed hello")
		return
	}

	if hello.Protocol != connect.ProtocolVersion {
		h.refuse(msg, fmt.Sprintf("unsupported protocol %d", hello.Protocol))
		return
	}
	if hello.Name == "" {
		h.refuse(msg, "name must be set")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.sessions) >= h.maxSessions {
		h.refuse(msg, "host full")
		return
	}

	sessionID := uuid.New().String()
	entityID := sim.EntityID(uuid.New().String())

	_, err := h.world.SpawnEntity("player", sim.Entity{
		ID:          entityID,
		Name:        hello.Name,
		Orientation: mgl64.QuatIdent(),
	})
	if err != nil {
		h.refuse(msg, fmt.Sprintf("spawning entity: %v", err))
		return
	}

	if h.spawnTool != "" {
		err = h.world.AddTool(entityID, sim.ToolID(uuid.New().String()), h.spawnTool)
		if err != nil {
			h.world.DespawnEntity(entityID)
			h.refuse(msg, fmt.Sprintf("granting tool: %v", err))
			return
		}
	}

	sub, err := h.conn.Subscribe(connect.SessionUpSubject(sessionID), func(m *nats.Msg) {
		h.handleUp(sessionID, m)
	})
	if err != nil {
		h.world.DespawnEntity(entityID)
		h.refuse(msg, fmt.Sprintf("subscribing session: %v", err))
		return
	}

	h.sessions[sessionID] = &session{
		id:        sessionID,
		entity:    entityID,
		name:      hello.Name,
		unsub:     func() { _ = sub.Unsubscribe() },
		lastFrame: time.Now(),
	}

	welcome, err := json.Marshal(connect.WelcomeFrame{
		Session: sessionID,
		Entity:  string(entityID),
	})
	if err != nil {
		slog.Error("marshalling welcome", "err", err)
		return
	}
	_ = msg.Respond(welcome)

	// Everyone already in the arena sees the newcomer right away; the
	// newcomer gets the full snapshot once its ready frame lands.
	if e, ok := h.world.EntityState(entityID); ok {
		h.broadcastLocked(h.spawnFrame(e), sessionID)
	}

	slog.Info("session joined", "session", sessionID, "entity", entityID, "name", hello.Name)
}

func (h *Host) handleUp(sessionID string, msg *nats.Msg) {
	var f connect.Frame
	if err := json.Unmarshal(msg.Data, &f); err != nil {
		slog.Warn("dropping malformed frame", "session", sessionID, "err", err)
		return
	}

	h.mu.Lock()
	s, ok := h.sessions[sessionID]
	if !ok {
		h.mu.Unlock()
		return
	}
	s.lastFrame = time.Now()
	h.mu.Unlock()

	switch f.Type {
	case connect.FrameReady:
		h.sendSnapshot(s)

	case connect.FrameCommand:
		h.applyCommand(s, f)

	case connect.FrameDespawn:
		// A client may only despawn its own entity; that is a leave.
		if f.Despawn == nil || sim.EntityID(f.Despawn.Entity) != s.entity {
			slog.Warn("dropping despawn for foreign entity", "session", sessionID)
			return
		}
		h.mu.Lock()
		h.dropSessionLocked(sessionID)
		h.mu.Unlock()
		slog.Info("session left", "session", sessionID, "entity", s.entity)

	default:
		slog.Warn("dropping unexpected frame", "session", sessionID, "type", f.Type)
	}
}

func (h *Host) sendSnapshot(s *session) {
	for _, e := range h.world.Snapshot() {
		h.publish(connect.SessionDownSubject(s.id), h.spawnFrame(e))
	}
}

func (h *Host) applyCommand(s *session, f connect.Frame) {
	if f.Command == nil {
		slog.Warn("dropping command frame without payload", "session", s.id)
		return
	}
	if sim.EntityID(f.Command.Actor) != s.entity {
		slog.Warn("dropping command for foreign entity", "session", s.id, "actor", f.Command.Actor)
		return
	}

	cmd, err := connect.DecodeCommand(*f.Command)
	if err != nil {
		slog.Warn("dropping undecodable command", "session", s.id, "err", err)
		return
	}

	ctrl, ok := h.world.ControllerFor(s.entity)
	if !ok {
		return
	}
	ctrl.Apply(cmd)

	// Mirror applied control commands to every other session. Heartbeats
	// only feed liveness, nobody else needs them.
	if cmd.Kind == sim.KindControl {
		h.mu.Lock()
		h.broadcastLocked(f, s.id)
		h.mu.Unlock()
	}
}

// dropSessionLocked despawns the session's entity and tells the remaining
// sessions. Callers hold h.mu.
func (h *Host) dropSessionLocked(id string) {
	s, ok := h.sessions[id]
	if !ok {
		return
	}

	s.unsub()
	delete(h.sessions, id)

	h.world.DespawnEntity(s.entity)
	h.broadcastLocked(connect.Frame{
		Type:    connect.FrameDespawn,
		Despawn: &connect.DespawnFrame{Entity: string(s.entity)},
	}, id)
}

func (h *Host) broadcastLocked(f connect.Frame, exclude string) {
	for id := range h.sessions {
		if id == exclude {
			continue
		}
		h.publish(connect.SessionDownSubject(id), f)
	}
}

func (h *Host) publish(subject string, f connect.Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		slog.Error("marshalling frame", "err", err)
		return
	}
	err = h.conn.Publish(subject, data)
	if err != nil {
		slog.Error("publishing frame", "subject", subject, "err", err)
	}
}

func (h *Host) spawnFrame(e sim.Entity) connect.Frame {
	f := connect.SpawnFrame{
		Entity:      string(e.ID),
		Name:        e.Name,
		Position:    [3]float64{e.Position.X(), e.Position.Y(), e.Position.Z()},
		Orientation: [4]float64{e.Orientation.W, e.Orientation.V.X(), e.Orientation.V.Y(), e.Orientation.V.Z()},
	}

	if e.Tool != "" {
		if tool, ok := h.world.ToolState(e.Tool); ok {
			f.Tool = &connect.ToolFrame{ID: string(tool.ID), Spec: tool.SpecID}
		}
	}

	return connect.Frame{Type: connect.FrameSpawn, Spawn: &f}
}

func (h *Host) refuse(msg *nats.Msg, reason string) {
	data, err := json.Marshal(connect.WelcomeFrame{Error: reason})
	if err != nil {
		slog.Error("marshalling refusal", "err", err)
		return
	}
	_ = msg.Respond(data)
}
