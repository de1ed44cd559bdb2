package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-arena/internal/connect"
)

type ConnectConfig struct {
	SessionPath      string `json:"session_path"`
	HandshakeTimeout string `json:"handshake_timeout"`
	RequestTimeout   string `json:"request_timeout"`
}

func (c *ConnectConfig) Validate() error {
	el := errors.NewErrorList()

	if c.SessionPath != "" && !strings.HasPrefix(c.SessionPath, "/") {
		el.Add(fmt.Errorf("session_path must start with /"))
	}

	if c.HandshakeTimeout != "" {
		_, err := time.ParseDuration(c.HandshakeTimeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing handshake_timeout: %w", err))
		}
	}

	if c.RequestTimeout != "" {
		_, err := time.ParseDuration(c.RequestTimeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing request_timeout: %w", err))
		}
	}

	return el.Err()
}

// BuildRegistry assembles the connector registry with both built-in
// schemes registered.
func (c *ConnectConfig) BuildRegistry() (*connect.Registry, error) {
	var remoteOpts []connect.RemoteConnectorOpt
	if c.SessionPath != "" {
		remoteOpts = append(remoteOpts, connect.WithSessionPath(c.SessionPath))
	}
	if c.HandshakeTimeout != "" {
		d, err := time.ParseDuration(c.HandshakeTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing handshake_timeout: %w", err)
		}
		remoteOpts = append(remoteOpts, connect.WithHandshakeTimeout(d))
	}

	var localOpts []connect.LocalConnectorOpt
	if c.RequestTimeout != "" {
		d, err := time.ParseDuration(c.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing request_timeout: %w", err)
		}
		localOpts = append(localOpts, connect.WithRequestTimeout(d))
	}

	reg := connect.NewRegistry()
	reg.Register(connect.SchemeRemote, connect.NewRemoteConnector(remoteOpts...))
	reg.Register(connect.SchemeLocal, connect.NewLocalConnector(localOpts...))

	return reg, nil
}
