package host

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/pixil98/go-arena/internal/connect"
	"github.com/pixil98/go-arena/internal/sim"
)

// Host runs the in-process arena: an embedded NATS core for session
// transport plus the authoritative world registry behind it. Clients reach
// it through the local connector; the host answers hellos, spawns an entity
// per session, applies incoming commands, and mirrors the results to every
// other session.
type Host struct {
	ns   *server.Server
	conn *nats.Conn

	startupTimeout time.Duration
	host           string
	port           int

	maxSessions    int
	sessionTimeout time.Duration
	spawnTool      string

	world *sim.Registry

	mu       sync.Mutex
	sessions map[string]*session

	ready chan struct{}
}

func NewHost(world *sim.Registry, opts ...HostOpt) (*Host, error) {
	h := &Host{
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
		port:           4222,
		maxSessions:    16,
		sessionTimeout: 30 * time.Second,
		world:          world,
		sessions:       map[string]*session{},
		ready:          make(chan struct{}),
	}

	for _, opt := range opts {
		opt(h)
	}

	ns, err := server.NewServer(&server.Options{
		Host:   h.host,
		Port:   h.port,
		NoSigs: true, // Let the application handle signals
	})
	if err != nil {
		return nil, err
	}
	h.ns = ns

	return h, nil
}

// Ready is closed once the host is answering hellos.
func (h *Host) Ready() <-chan struct{} {
	return h.ready
}

// Addr returns the listen address. It is only bound after Start.
func (h *Host) Addr() net.Addr {
	return h.ns.Addr()
}

func (h *Host) Start(ctx context.Context) error {
	h.ns.Start()

	if !h.ns.ReadyForConnections(h.startupTimeout) {
		return fmt.Errorf("nats server not ready for connections")
	}

	// Internal client connection for the hello and session subjects.
	conn, err := nats.Connect(h.ns.ClientURL())
	if err != nil {
		return fmt.Errorf("creating nats client connection: %w", err)
	}
	h.conn = conn

	_, err = conn.Subscribe(connect.SubjectHello, h.handleHello)
	if err != nil {
		return fmt.Errorf("subscribing to hellos: %w", err)
	}
	err = conn.Flush()
	if err != nil {
		return fmt.Errorf("flushing hello subscription: %w", err)
	}

	close(h.ready)
	slog.InfoContext(ctx, "arena host listening", "addr", h.ns.Addr())

	<-ctx.Done()

	h.mu.Lock()
	for id := range h.sessions {
		h.dropSessionLocked(id)
	}
	h.mu.Unlock()

	h.conn.Close()
	h.ns.Shutdown()
	h.ns.WaitForShutdown()

	return nil
}

// Tick reaps sessions that have gone quiet for longer than the session
// timeout, despawning their entities.
func (h *Host) Tick(ctx context.Context) error {
	cutoff := time.Now().Add(-h.sessionTimeout)

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, s := range h.sessions {
		if s.lastFrame.Before(cutoff) {
			slog.InfoContext(ctx, "reaping quiet session", "session", id, "entity", s.entity)
			h.dropSessionLocked(id)
		}
	}

	return nil
}

// SessionCount reports how many sessions are live.
func (h *Host) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}
