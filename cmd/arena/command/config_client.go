package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-arena/internal/client"
	"github.com/pixil98/go-arena/internal/connect"
)

type ClientConfig struct {
	TickInterval      string `json:"tick_interval"`
	HeartbeatInterval string `json:"heartbeat_interval"`
	LaunchAddress     string `json:"launch_address"`
}

func (c *ClientConfig) Validate() error {
	el := errors.NewErrorList()

	if c.TickInterval != "" {
		d, err := time.ParseDuration(c.TickInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing tick_interval: %w", err))
		} else if d < 10*time.Millisecond {
			el.Add(fmt.Errorf("tick_interval must be at least 10ms"))
		}
	}

	if c.HeartbeatInterval != "" {
		d, err := time.ParseDuration(c.HeartbeatInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing heartbeat_interval: %w", err))
		} else if d < time.Second {
			el.Add(fmt.Errorf("heartbeat_interval must be at least 1 second"))
		}
	}

	if c.LaunchAddress != "" {
		_, err := connect.ParseAddress(c.LaunchAddress)
		if err != nil {
			el.Add(fmt.Errorf("parsing launch_address: %w", err))
		}
	}

	return el.Err()
}

func (c *ClientConfig) buildOpts() ([]client.ClientOpt, error) {
	var opts []client.ClientOpt

	if c.TickInterval != "" {
		d, err := time.ParseDuration(c.TickInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing tick_interval: %w", err)
		}
		opts = append(opts, client.WithTickInterval(d))
	}

	if c.HeartbeatInterval != "" {
		d, err := time.ParseDuration(c.HeartbeatInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing heartbeat_interval: %w", err)
		}
		opts = append(opts, client.WithHeartbeatInterval(d))
	}

	return opts, nil
}
