package connect

import (
	"sync"

	"github.com/pixil98/go-arena/internal/sim"
)

// Transport moves frames for one session. Recv blocks until a frame arrives
// or the transport drops.
type Transport interface {
	Send(Frame) error
	Recv() (Frame, error)
	Close() error
}

// Session is an established, authenticated channel to a host. It is
// required to enter the game and torn down exactly once on the way out,
// whether the user quit or the host went away.
type Session struct {
	ID       string
	Endpoint Endpoint
	Entity   sim.EntityID
	Protocol int

	transport Transport
	done      chan struct{}
	closeOnce sync.Once
}

// NewSession wires a negotiated session over its transport. Connectors call
// it after a successful welcome exchange.
func NewSession(id string, ep Endpoint, entity sim.EntityID, protocol int, t Transport) *Session {
	return &Session{
		ID:        id,
		Endpoint:  ep,
		Entity:    entity,
		Protocol:  protocol,
		transport: t,
		done:      make(chan struct{}),
	}
}

func (s *Session) Send(f Frame) error {
	return s.transport.Send(f)
}

func (s *Session) Recv() (Frame, error) {
	return s.transport.Recv()
}

// Done is closed when the session ends, from either side.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close tears the session down. Safe to call from both the user-quit path
// and the reader pump when the host drops; only the first call acts.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.transport.Close()
		close(s.done)
	})
	return err
}
