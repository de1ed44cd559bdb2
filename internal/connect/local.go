package connect

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/pixil98/go-arena/internal/sim"
)

// Subjects shared between the local connector and the embedded host.
const SubjectHello = "arena.hello.v1"

// SessionUpSubject carries client-to-host frames for one session.
func SessionUpSubject(id string) string {
	return fmt.Sprintf("arena.session.%s.up", id)
}

// SessionDownSubject carries host-to-client frames for one session.
func SessionDownSubject(id string) string {
	return fmt.Sprintf("arena.session.%s.down", id)
}

// LocalConnector negotiates sessions with an in-process host over its
// embedded NATS core.
type LocalConnector struct {
	timeout time.Duration
}

type LocalConnectorOpt func(*LocalConnector)

// WithRequestTimeout bounds the dial and the hello request.
func WithRequestTimeout(d time.Duration) LocalConnectorOpt {
	return func(c *LocalConnector) {
		c.timeout = d
	}
}

func NewLocalConnector(opts ...LocalConnectorOpt) *LocalConnector {
	c := &LocalConnector{
		timeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *LocalConnector) Connect(ctx context.Context, ep Endpoint, params Params) (*Session, error) {
	natsURL := fmt.Sprintf("nats://%s", net.JoinHostPort(ep.Host, ep.Port))

	nc, err := nats.Connect(natsURL,
		nats.Name("arena-client"),
		nats.Timeout(c.timeout),
		nats.NoReconnect(),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to local host: %w", err)
	}

	hello, err := json.Marshal(HelloFrame{
		Protocol: params.ProtocolVersion,
		Token:    params.AuthToken,
		Name:     params.User.Name,
		Pronouns: params.User.Pronouns,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("marshalling hello: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	msg, err := nc.RequestWithContext(reqCtx, SubjectHello, hello)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("requesting session: %w", err)
	}

	var welcome WelcomeFrame
	err = json.Unmarshal(msg.Data, &welcome)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("unmarshalling welcome: %w", err)
	}

	if welcome.Error != "" {
		nc.Close()
		return nil, fmt.Errorf("host refused session: %s", welcome.Error)
	}
	if welcome.Session == "" || welcome.Entity == "" {
		nc.Close()
		return nil, fmt.Errorf("malformed welcome from host")
	}

	transport, err := newNatsTransport(nc, welcome.Session)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("subscribing to session: %w", err)
	}

	// With reconnects off, a host shutdown closes the conn for good;
	// unblock any pending Recv when that happens.
	nc.SetClosedHandler(func(*nats.Conn) {
		transport.markClosed()
	})

	// The host holds our world snapshot until it knows the down
	// subscription is live.
	err = nc.Flush()
	if err != nil {
		transport.Close()
		return nil, fmt.Errorf("flushing session subscription: %w", err)
	}
	err = transport.Send(Frame{Type: FrameReady})
	if err != nil {
		transport.Close()
		return nil, fmt.Errorf("signalling ready: %w", err)
	}

	return NewSession(welcome.Session, ep, sim.EntityID(welcome.Entity), params.ProtocolVersion, transport), nil
}

type natsTransport struct {
	nc  *nats.Conn
	sub *nats.Subscription
	ch  chan *nats.Msg
	up  string

	done chan struct{}
	once sync.Once
}

func newNatsTransport(nc *nats.Conn, sessionID string) (*natsTransport, error) {
	t := &natsTransport{
		nc:   nc,
		ch:   make(chan *nats.Msg, 64),
		up:   SessionUpSubject(sessionID),
		done: make(chan struct{}),
	}

	sub, err := nc.ChanSubscribe(SessionDownSubject(sessionID), t.ch)
	if err != nil {
		return nil, err
	}
	t.sub = sub

	return t, nil
}

func (t *natsTransport) Send(f Frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshalling frame: %w", err)
	}
	return t.nc.Publish(t.up, data)
}

func (t *natsTransport) Recv() (Frame, error) {
	select {
	case msg := <-t.ch:
		var f Frame
		err := json.Unmarshal(msg.Data, &f)
		if err != nil {
			return Frame{}, fmt.Errorf("unmarshalling frame: %w", err)
		}
		return f, nil

	case <-t.done:
		return Frame{}, net.ErrClosed
	}
}

func (t *natsTransport) Close() error {
	t.once.Do(func() {
		_ = t.sub.Unsubscribe()
		t.nc.Close()
		close(t.done)
	})
	return nil
}

// markClosed unblocks readers after the conn died underneath us.
func (t *natsTransport) markClosed() {
	t.once.Do(func() {
		close(t.done)
	})
}
