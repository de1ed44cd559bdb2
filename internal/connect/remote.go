package connect

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pixil98/go-arena/internal/sim"
)

const DefaultSessionPath = "/arena"

// RemoteConnector negotiates websocket sessions with network hosts.
type RemoteConnector struct {
	dialer       *websocket.Dialer
	path         string
	helloTimeout time.Duration
}

type RemoteConnectorOpt func(*RemoteConnector)

// WithSessionPath sets the websocket endpoint path on the host.
func WithSessionPath(path string) RemoteConnectorOpt {
	return func(c *RemoteConnector) {
		c.path = path
	}
}

// WithHandshakeTimeout bounds the dial and the hello/welcome exchange.
func WithHandshakeTimeout(d time.Duration) RemoteConnectorOpt {
	return func(c *RemoteConnector) {
		c.dialer.HandshakeTimeout = d
		c.helloTimeout = d
	}
}

func NewRemoteConnector(opts ...RemoteConnectorOpt) *RemoteConnector {
	c := &RemoteConnector{
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		path:         DefaultSessionPath,
		helloTimeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *RemoteConnector) Connect(ctx context.Context, ep Endpoint, params Params) (*Session, error) {
	u := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(ep.Host, ep.Port),
		Path:   c.path,
	}

	conn, resp, err := c.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return nil, fmt.Errorf("dialing %s: %w", u.String(), err)
	}

	welcome, err := c.negotiate(conn, params)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return NewSession(welcome.Session, ep, sim.EntityID(welcome.Entity), params.ProtocolVersion, &wsTransport{conn: conn}), nil
}

// negotiate runs the hello/welcome exchange under a deadline. The host's
// reply is the attempt's single terminal outcome.
func (c *RemoteConnector) negotiate(conn *websocket.Conn, params Params) (*WelcomeFrame, error) {
	deadline := time.Now().Add(c.helloTimeout)
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return nil, fmt.Errorf("setting write deadline: %w", err)
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("setting read deadline: %w", err)
	}

	err := conn.WriteJSON(HelloFrame{
		Protocol: params.ProtocolVersion,
		Token:    params.AuthToken,
		Name:     params.User.Name,
		Pronouns: params.User.Pronouns,
	})
	if err != nil {
		return nil, fmt.Errorf("sending hello: %w", err)
	}

	var welcome WelcomeFrame
	err = conn.ReadJSON(&welcome)
	if err != nil {
		return nil, fmt.Errorf("awaiting welcome: %w", err)
	}

	if welcome.Error != "" {
		return nil, fmt.Errorf("host refused session: %s", welcome.Error)
	}
	if welcome.Session == "" || welcome.Entity == "" {
		return nil, fmt.Errorf("malformed welcome from host")
	}

	// Session traffic has no fixed cadence; clear the negotiation deadlines.
	if err := conn.SetWriteDeadline(time.Time{}); err != nil {
		return nil, fmt.Errorf("clearing write deadline: %w", err)
	}
	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		return nil, fmt.Errorf("clearing read deadline: %w", err)
	}

	return &welcome, nil
}

type wsTransport struct {
	conn *websocket.Conn
}

func (t *wsTransport) Send(f Frame) error {
	return t.conn.WriteJSON(f)
}

func (t *wsTransport) Recv() (Frame, error) {
	var f Frame
	err := t.conn.ReadJSON(&f)
	return f, err
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}
