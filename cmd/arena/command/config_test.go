package command

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/pixil98/go-arena/internal/identity"
	"github.com/pixil98/go-arena/internal/input"
	"github.com/pixil98/go-arena/internal/sim"
)

func TestClientConfigValidate(t *testing.T) {
	tests := map[string]struct {
		cfg    ClientConfig
		expErr string
	}{
		"empty": {
			cfg: ClientConfig{},
		},
		"full": {
			cfg: ClientConfig{
				TickInterval:      "250ms",
				HeartbeatInterval: "5s",
				LaunchAddress:     "local://127.0.0.1:4222",
			},
		},
		"bad tick": {
			cfg:    ClientConfig{TickInterval: "fast"},
			expErr: "parsing tick_interval",
		},
		"tick too small": {
			cfg:    ClientConfig{TickInterval: "1ms"},
			expErr: "tick_interval must be at least 10ms",
		},
		"bad heartbeat": {
			cfg:    ClientConfig{HeartbeatInterval: "never"},
			expErr: "parsing heartbeat_interval",
		},
		"heartbeat too small": {
			cfg:    ClientConfig{HeartbeatInterval: "100ms"},
			expErr: "heartbeat_interval must be at least 1 second",
		},
		"bad launch address": {
			cfg:    ClientConfig{LaunchAddress: "nowhere"},
			expErr: "parsing launch_address",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.cfg.Validate()

			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestConnectConfigValidate(t *testing.T) {
	tests := map[string]struct {
		cfg    ConnectConfig
		expErr string
	}{
		"empty": {
			cfg: ConnectConfig{},
		},
		"full": {
			cfg: ConnectConfig{
				SessionPath:      "/arena",
				HandshakeTimeout: "10s",
				RequestTimeout:   "2s",
			},
		},
		"relative session path": {
			cfg:    ConnectConfig{SessionPath: "arena"},
			expErr: "session_path must start with /",
		},
		"bad handshake timeout": {
			cfg:    ConnectConfig{HandshakeTimeout: "soon"},
			expErr: "parsing handshake_timeout",
		},
		"bad request timeout": {
			cfg:    ConnectConfig{RequestTimeout: "soon"},
			expErr: "parsing request_timeout",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.cfg.Validate()

			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestHostConfigValidate(t *testing.T) {
	tests := map[string]struct {
		cfg    HostConfig
		expErr string
	}{
		"empty": {
			cfg: HostConfig{},
		},
		"full": {
			cfg: HostConfig{
				Host:           "127.0.0.1",
				Port:           4222,
				StartTimeout:   "10s",
				MaxSessions:    8,
				SessionTimeout: "30s",
				SpawnTool:      "welder",
			},
		},
		"bad start timeout": {
			cfg:    HostConfig{StartTimeout: "soon"},
			expErr: "parsing start_timeout",
		},
		"bad session timeout": {
			cfg:    HostConfig{SessionTimeout: "soon"},
			expErr: "parsing session_timeout",
		},
		"negative max sessions": {
			cfg:    HostConfig{MaxSessions: -1},
			expErr: "max_sessions must not be negative",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.cfg.Validate()

			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestStorageConfigValidate(t *testing.T) {
	dir := t.TempDir()

	cfg := StorageConfig{
		Tools:    AssetConfig[*sim.ToolSpec]{Path: dir},
		Bindings: AssetConfig[*input.BindingSpec]{Path: dir},
		Profiles: AssetConfig[*identity.Profile]{Path: dir},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Tools.Path = ""
	testutil.AssertErrorContains(t, cfg.Validate(), "tools: path is required")

	cfg.Tools.Path = filepath.Join(dir, "missing")
	testutil.AssertErrorContains(t, cfg.Validate(), "invalid path")
}

// Validation failures across sections surface together instead of one at
// a time.
func TestConfigValidateAggregates(t *testing.T) {
	cfg := &Config{
		Client:  ClientConfig{TickInterval: "soon"},
		Connect: ConnectConfig{SessionPath: "arena"},
		Host:    &HostConfig{MaxSessions: -1},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}

	for _, want := range []string{
		"parsing tick_interval",
		"session_path must start with /",
		"max_sessions must not be negative",
		"tools: path is required",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err.Error(), want)
		}
	}
}

func writeAsset(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
}

func testConfig(t *testing.T) *Config {
	t.Helper()

	tools := t.TempDir()
	bindings := t.TempDir()
	profiles := t.TempDir()

	writeAsset(t, tools, "welder.json",
		`{"version":1,"id":"welder","spec":{"description":"arc welder","verb":"{{.Actor}} strikes an arc"}}`)
	writeAsset(t, bindings, "fire.json",
		`{"version":1,"id":"fire","spec":{"chord":"f","actions":["primary"],"description":"use your tool"}}`)

	return &Config{
		Client: ClientConfig{TickInterval: "100ms"},
		Storage: StorageConfig{
			Tools:    AssetConfig[*sim.ToolSpec]{Path: tools},
			Bindings: AssetConfig[*input.BindingSpec]{Path: bindings},
			Profiles: AssetConfig[*identity.Profile]{Path: profiles},
		},
	}
}

func TestBuildWorkers(t *testing.T) {
	cfg := testConfig(t)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	workers, err := BuildWorkers(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := workers["client"]; !ok {
		t.Fatal("expected a client worker")
	}
	if _, ok := workers["host"]; ok {
		t.Fatal("unexpected host worker without host config")
	}
}

func TestBuildWorkersWithHost(t *testing.T) {
	cfg := testConfig(t)
	cfg.Host = &HostConfig{Port: -1, SpawnTool: "welder"}

	workers, err := BuildWorkers(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"client", "host", "host-reaper"} {
		if _, ok := workers[name]; !ok {
			t.Fatalf("expected a %s worker", name)
		}
	}
}

func TestBuildWorkersRejectsForeignConfig(t *testing.T) {
	_, err := BuildWorkers(struct{}{})
	if err == nil {
		t.Fatal("expected error")
	}
	testutil.AssertErrorContains(t, err, "unable to cast config")
}
