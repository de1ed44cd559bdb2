package client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pixil98/go-arena/internal/connect"
	"github.com/pixil98/go-arena/internal/input"
	"github.com/pixil98/go-arena/internal/sim"
)

// outboundPump drains the staged commands each tick: every command applies
// locally first and then goes up the wire. The local echo keeps the HUD
// from waiting a round trip for the player's own turns.
type outboundPump struct {
	world   *sim.Registry
	buf     *sim.CommandBuffer
	session *connect.Session
}

func (p *outboundPump) Tick(ctx context.Context) error {
	for _, cmd := range p.buf.Drain() {
		if ctrl, ok := p.world.ControllerFor(cmd.Actor); ok {
			ctrl.Apply(cmd)
		}

		f := connect.EncodeCommand(cmd)
		err := p.session.Send(connect.Frame{Type: connect.FrameCommand, Command: &f})
		if err != nil {
			// The session watcher tears us down; no point pushing the
			// rest of the batch into a dead transport.
			slog.WarnContext(ctx, "sending command", "seq", cmd.Seq, "err", err)
			return nil
		}
	}
	return nil
}

// heartbeatPump keeps an idle session alive on the host's books.
type heartbeatPump struct {
	session *connect.Session
	seq     uint64
}

func (p *heartbeatPump) Tick(ctx context.Context) error {
	p.seq++
	f := connect.EncodeCommand(sim.NewHeartbeatCommand(p.session.Entity, p.seq))
	err := p.session.Send(connect.Frame{Type: connect.FrameCommand, Command: &f})
	if err != nil {
		slog.WarnContext(ctx, "sending heartbeat", "err", err)
	}
	return nil
}

// hudPump repaints the roster, feeds new journal lines to the surface, and
// refreshes the status line.
type hudPump struct {
	world   *sim.Registry
	capture *input.Capture
	buf     *sim.CommandBuffer
	session *connect.Session
	surface Surface
}

func (p *hudPump) Tick(_ context.Context) error {
	p.surface.RefreshEntities(p.world.Snapshot())
	p.surface.AppendEvents(p.world.Journal().Drain())

	yaw, pitch := p.capture.Facing()
	p.surface.SetStatus(fmt.Sprintf("%s  yaw %+.0f  pitch %+.0f  dropped %d",
		p.session.Endpoint, mgl64.RadToDeg(yaw), mgl64.RadToDeg(pitch), p.buf.Dropped()))
	return nil
}
