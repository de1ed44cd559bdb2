package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pixil98/go-arena/internal/connect"
	"github.com/pixil98/go-arena/internal/driver"
	"github.com/pixil98/go-arena/internal/identity"
	"github.com/pixil98/go-arena/internal/input"
	"github.com/pixil98/go-arena/internal/lifecycle"
	"github.com/pixil98/go-arena/internal/sim"
	"github.com/pixil98/go-arena/internal/ui"
)

const (
	DefaultTickInterval      = driver.DefaultTickLength
	DefaultHeartbeatInterval = 5 * time.Second
)

// Surface is what the client drives on the terminal. *ui.UI is the
// production implementation; it also serves as the coordinator's screen.
type Surface interface {
	SetHandlers(ui.Handlers)
	SetKeyHook(func(*tcell.EventKey) bool)
	Run(ctx context.Context) error
	Stop()
	Close()

	EnterGame(you sim.EntityID)
	LeaveGame()
	SetStatus(text string)
	RefreshEntities([]sim.Entity)
	AppendEvents([]sim.Event)
}

// ProfileStore is the slice of the identity manager the settings dialog
// needs.
type ProfileStore interface {
	Profile() identity.Profile
	UpdateProfile(name, pronouns string) error
}

// Client is the worker that runs the whole terminal client: it starts the
// lifecycle coordinator, drives the surface's event loop, and while a
// session is live runs the in-game pumps against the replicated world.
type Client struct {
	coord    *lifecycle.Coordinator
	surface  Surface
	world    *sim.Registry
	capture  *input.Capture
	buf      *sim.CommandBuffer
	profiles ProfileStore

	tick      time.Duration
	heartbeat time.Duration

	mu         sync.Mutex
	gameCancel context.CancelFunc
}

type ClientOpt func(*Client)

// WithTickInterval sets the cadence of the outbound and HUD pumps.
func WithTickInterval(d time.Duration) ClientOpt {
	return func(c *Client) {
		c.tick = d
	}
}

// WithHeartbeatInterval sets how often an idle session proves liveness.
func WithHeartbeatInterval(d time.Duration) ClientOpt {
	return func(c *Client) {
		c.heartbeat = d
	}
}

func NewClient(coord *lifecycle.Coordinator, surface Surface, world *sim.Registry, capture *input.Capture, buf *sim.CommandBuffer, profiles ProfileStore, opts ...ClientOpt) *Client {
	c := &Client{
		coord:     coord,
		surface:   surface,
		world:     world,
		capture:   capture,
		buf:       buf,
		profiles:  profiles,
		tick:      DefaultTickInterval,
		heartbeat: DefaultHeartbeatInterval,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Start wires the surface, runs lifecycle setup, and then blocks in the
// surface's event loop until the user exits or the context ends. A setup
// failure is fatal and comes back as the coordinator's *SetupError.
func (c *Client) Start(ctx context.Context) error {
	c.surface.SetHandlers(ui.Handlers{
		Connect: func(addr string) {
			// Dialing blocks; never do it on the event loop.
			go c.connect(ctx, addr)
		},
		Disconnect: func() {
			go c.disconnect(ctx)
		},
		Exit: func() {
			c.surface.Stop()
		},
		Settings:     c.settings,
		SaveSettings: c.saveSettings,
	})
	c.surface.SetKeyHook(c.capture.HandleKey)
	defer c.surface.Close()

	if err := c.coord.Start(ctx); err != nil {
		return err
	}

	// A launch address may have put us in game before the chrome runs.
	if s := c.coord.Session(); s != nil {
		c.enterGame(ctx, s)
	}

	err := c.surface.Run(ctx)
	c.disconnect(ctx)
	return err
}

func (c *Client) connect(ctx context.Context, address string) {
	err := c.coord.Connect(ctx, address)
	if err != nil {
		// Rejections and failed attempts are already on screen; nothing
		// more to do here.
		return
	}

	if s := c.coord.Session(); s != nil {
		c.enterGame(ctx, s)
	}
}

// disconnect is the polite leave: tell the host, then tear down. Safe to
// call with no session.
func (c *Client) disconnect(ctx context.Context) {
	if s := c.coord.Session(); s != nil {
		err := s.Send(connect.Frame{
			Type:    connect.FrameDespawn,
			Despawn: &connect.DespawnFrame{Entity: string(s.Entity)},
		})
		if err != nil {
			slog.DebugContext(ctx, "sending leave", "err", err)
		}
	}
	c.leaveGame()
}

// enterGame arms the input capture and starts the per-session pumps. The
// world is rebuilt from the host's snapshot, which arrives through the
// read pump.
func (c *Client) enterGame(ctx context.Context, s *connect.Session) {
	c.mu.Lock()
	if c.gameCancel != nil {
		c.mu.Unlock()
		return
	}
	gameCtx, cancel := context.WithCancel(ctx)
	c.gameCancel = cancel
	c.mu.Unlock()

	c.world.Reset()
	c.capture.Arm(s.Entity)
	c.surface.EnterGame(s.Entity)
	c.surface.SetStatus("connected to " + s.Endpoint.String())

	outbound := driver.NewArenaDriver([]driver.Manager{
		&outboundPump{world: c.world, buf: c.buf, session: s},
		&hudPump{world: c.world, capture: c.capture, buf: c.buf, session: s, surface: c.surface},
	}, driver.WithTickLength(c.tick))

	heartbeat := driver.NewArenaDriver([]driver.Manager{
		&heartbeatPump{session: s},
	}, driver.WithTickLength(c.heartbeat))

	go c.runDriver(gameCtx, "outbound", outbound)
	go c.runDriver(gameCtx, "heartbeat", heartbeat)
	go c.readPump(gameCtx, s)
	go func() {
		select {
		case <-s.Done():
			c.leaveGame()
		case <-gameCtx.Done():
		}
	}()

	slog.InfoContext(ctx, "entered the arena", "session", s.ID, "entity", s.Entity)
}

// leaveGame is the single teardown funnel: user quits, host drops, and
// process exit all land here. Only the first call acts.
func (c *Client) leaveGame() {
	c.mu.Lock()
	cancel := c.gameCancel
	c.gameCancel = nil
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()

	c.capture.Disarm()
	c.coord.EndSession()
	c.world.Reset()
	c.surface.LeaveGame()
}

func (c *Client) runDriver(ctx context.Context, name string, d *driver.ArenaDriver) {
	if err := d.Start(ctx); err != nil {
		slog.WarnContext(ctx, "pump stopped", "pump", name, "err", err)
	}
}

// readPump applies downstream frames until the session dies.
func (c *Client) readPump(ctx context.Context, s *connect.Session) {
	for {
		f, err := s.Recv()
		if err != nil {
			if ctx.Err() == nil {
				slog.WarnContext(ctx, "session closed by host", "err", err)
				c.leaveGame()
			}
			return
		}
		c.applyFrame(ctx, s, f)
	}
}

func (c *Client) applyFrame(ctx context.Context, s *connect.Session, f connect.Frame) {
	switch f.Type {
	case connect.FrameSpawn:
		if f.Spawn == nil {
			return
		}
		c.applySpawn(ctx, s, *f.Spawn)

	case connect.FrameDespawn:
		if f.Despawn == nil {
			return
		}
		id := sim.EntityID(f.Despawn.Entity)
		if id == s.Entity {
			// The host dropped us.
			c.leaveGame()
			return
		}
		if e, ok := c.world.EntityState(id); ok {
			c.world.DespawnEntity(id)
			c.surface.AppendEvents([]sim.Event{{Actor: id, Text: e.Name + " leaves the arena."}})
		}

	case connect.FrameCommand:
		// Own commands already applied locally; the host never echoes
		// them back anyway.
		if f.Command == nil || sim.EntityID(f.Command.Actor) == s.Entity {
			return
		}
		cmd, err := connect.DecodeCommand(*f.Command)
		if err != nil {
			slog.WarnContext(ctx, "dropping undecodable command", "err", err)
			return
		}
		if ctrl, ok := c.world.ControllerFor(cmd.Actor); ok {
			ctrl.Apply(cmd)
		}

	default:
		slog.WarnContext(ctx, "dropping unexpected frame", "type", f.Type)
	}
}

func (c *Client) applySpawn(ctx context.Context, s *connect.Session, sf connect.SpawnFrame) {
	id := sim.EntityID(sf.Entity)
	e := sim.Entity{
		ID:       id,
		Name:     sf.Name,
		Position: mgl64.Vec3{sf.Position[0], sf.Position[1], sf.Position[2]},
		Orientation: mgl64.Quat{
			W: sf.Orientation[0],
			V: mgl64.Vec3{sf.Orientation[1], sf.Orientation[2], sf.Orientation[3]},
		},
	}

	// The snapshot can overlap an earlier join broadcast; replace quietly
	// instead of treating the duplicate as a new arrival.
	fresh := true
	if _, ok := c.world.EntityState(id); ok {
		c.world.DespawnEntity(id)
		fresh = false
	}

	kind := "remote"
	if id == s.Entity {
		kind = "local"
	}
	if _, err := c.world.SpawnEntity(kind, e); err != nil {
		slog.WarnContext(ctx, "replicating spawn", "entity", id, "err", err)
		return
	}

	if sf.Tool != nil {
		err := c.world.AddTool(id, sim.ToolID(sf.Tool.ID), sf.Tool.Spec)
		if err != nil {
			slog.WarnContext(ctx, "replicating tool", "entity", id, "err", err)
		}
	}

	if fresh && id != s.Entity {
		c.surface.AppendEvents([]sim.Event{{Actor: id, Text: e.Name + " enters the arena."}})
	}
}

func (c *Client) settings() ui.Settings {
	p := c.profiles.Profile()
	return ui.Settings{Name: p.Name, Pronouns: p.Pronouns}
}

func (c *Client) saveSettings(s ui.Settings) {
	err := c.profiles.UpdateProfile(s.Name, s.Pronouns)
	if err != nil {
		slog.Error("saving profile", "err", err)
	}
}
