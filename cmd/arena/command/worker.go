package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-service"

	"github.com/pixil98/go-arena/internal/client"
	"github.com/pixil98/go-arena/internal/driver"
	"github.com/pixil98/go-arena/internal/input"
	"github.com/pixil98/go-arena/internal/lifecycle"
	"github.com/pixil98/go-arena/internal/sim"
	"github.com/pixil98/go-arena/internal/ui"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Asset stores
	tools, err := cfg.Storage.Tools.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating tool store: %w", err)
	}
	bindings, err := cfg.Storage.Bindings.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating binding store: %w", err)
	}
	profiles, err := cfg.Storage.Profiles.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating profile store: %w", err)
	}

	// Identity
	profile, err := cfg.Identity.BuildManager(profiles)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	// Input capture
	keymap, err := input.NewKeymap(bindings)
	if err != nil {
		return nil, fmt.Errorf("building keymap: %w", err)
	}
	buf := sim.NewCommandBuffer(64)
	capture := input.NewCapture(keymap, buf)

	// Connectors
	dialer, err := cfg.Connect.BuildRegistry()
	if err != nil {
		return nil, fmt.Errorf("creating connectors: %w", err)
	}

	// Surface and lifecycle
	uiOpts := []ui.UIOpt{ui.WithControls(keymap.Bindings())}
	var coordOpts []lifecycle.CoordinatorOpt
	if cfg.Client.LaunchAddress != "" {
		uiOpts = append(uiOpts, ui.WithDefaultAddress(cfg.Client.LaunchAddress))
		coordOpts = append(coordOpts, lifecycle.WithLaunchAddress(cfg.Client.LaunchAddress))
	}
	surface := ui.New(uiOpts...)
	coord := lifecycle.NewCoordinator(surface, dialer, profile, coordOpts...)

	// Client worker over its replicated world
	clientOpts, err := cfg.Client.buildOpts()
	if err != nil {
		return nil, fmt.Errorf("building client options: %w", err)
	}
	world := sim.NewRegistry(tools)
	cli := client.NewClient(coord, surface, world, capture, buf, profile, clientOpts...)

	workers := service.WorkerList{
		"client": cli,
	}

	// Optional embedded host with its own authoritative world
	if cfg.Host != nil {
		h, err := cfg.Host.BuildHost(sim.NewRegistry(tools))
		if err != nil {
			return nil, fmt.Errorf("creating host: %w", err)
		}
		workers["host"] = h
		workers["host-reaper"] = driver.NewArenaDriver([]driver.Manager{h},
			driver.WithTickLength(5*time.Second))
	}

	return workers, nil
}
