package driver

import (
	"context"
	"time"
)

const (
	DefaultTickLength = 500 * time.Millisecond
)

type Manager interface {
	Tick(context.Context) error
}

// ArenaDriver runs its managers on a fixed interval, in order, until its
// context is canceled. The client uses one for the in-game pumps and the
// embedded host uses a slower one for its session reaper.
type ArenaDriver struct {
	tickLength time.Duration
	managers   []Manager
}

func NewArenaDriver(managers []Manager, opts ...ArenaDriverOpt) *ArenaDriver {
	d := &ArenaDriver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *ArenaDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

func (d *ArenaDriver) Tick(ctx context.Context) error {
	for _, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			return err
		}
	}
	return nil
}
