package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-arena/internal/host"
	"github.com/pixil98/go-arena/internal/sim"
)

type HostConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	StartTimeout   string `json:"start_timeout"`
	MaxSessions    int    `json:"max_sessions"`
	SessionTimeout string `json:"session_timeout"`
	SpawnTool      string `json:"spawn_tool"`
}

func (c *HostConfig) Validate() error {
	el := errors.NewErrorList()

	if c.StartTimeout != "" {
		_, err := time.ParseDuration(c.StartTimeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing start_timeout: %w", err))
		}
	}

	if c.SessionTimeout != "" {
		_, err := time.ParseDuration(c.SessionTimeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing session_timeout: %w", err))
		}
	}

	if c.MaxSessions < 0 {
		el.Add(fmt.Errorf("max_sessions must not be negative"))
	}

	return el.Err()
}

func (c *HostConfig) BuildHost(world *sim.Registry) (*host.Host, error) {
	var opts []host.HostOpt

	if c.StartTimeout != "" {
		d, err := time.ParseDuration(c.StartTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing start_timeout: %w", err)
		}
		opts = append(opts, host.WithStartTimeout(d))
	}
	if c.SessionTimeout != "" {
		d, err := time.ParseDuration(c.SessionTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing session_timeout: %w", err)
		}
		opts = append(opts, host.WithSessionTimeout(d))
	}
	if c.Host != "" {
		opts = append(opts, host.WithHost(c.Host))
	}
	if c.Port != 0 {
		opts = append(opts, host.WithPort(c.Port))
	}
	if c.MaxSessions != 0 {
		opts = append(opts, host.WithMaxSessions(c.MaxSessions))
	}
	if c.SpawnTool != "" {
		opts = append(opts, host.WithSpawnTool(c.SpawnTool))
	}

	return host.NewHost(world, opts...)
}
