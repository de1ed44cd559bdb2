package connect

import (
	"context"
	"fmt"

	"github.com/pixil98/go-arena/internal/identity"
)

// Schemes with built-in connectors.
const (
	SchemeRemote = "ws"
	SchemeLocal  = "local"
)

// Params carries the client's side of session negotiation.
type Params struct {
	ProtocolVersion int
	AuthToken       string
	User            identity.UserInfo
}

// Connector negotiates a session with one kind of host. Connect blocks
// until exactly one terminal outcome: a live session or an error.
type Connector interface {
	Connect(ctx context.Context, ep Endpoint, params Params) (*Session, error)
}

// Registry dispatches connect requests by address scheme.
type Registry struct {
	connectors map[string]Connector
}

func NewRegistry() *Registry {
	return &Registry{
		connectors: map[string]Connector{},
	}
}

func (r *Registry) Register(scheme string, c Connector) {
	r.connectors[scheme] = c
}

// Dial validates the address, dispatches to the matching connector, and
// normalizes connector failures into *ConnectionError. Address and scheme
// rejections happen before any connector runs.
func (r *Registry) Dial(ctx context.Context, address string, params Params) (*Session, error) {
	ep, err := ParseAddress(address)
	if err != nil {
		return nil, err
	}

	c, ok := r.connectors[ep.Scheme]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnsupportedScheme, ep.Scheme)
	}

	session, err := c.Connect(ctx, ep, params)
	if err != nil {
		return nil, &ConnectionError{Endpoint: ep, Err: err}
	}

	return session, nil
}
