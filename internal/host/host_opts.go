package host

import "time"

type HostOpt func(*Host)

// WithStartTimeout sets the startup timeout for the embedded nats server
func WithStartTimeout(d time.Duration) HostOpt {
	return func(h *Host) {
		h.startupTimeout = d
	}
}

// WithHost sets the bind address for the embedded nats server
func WithHost(host string) HostOpt {
	return func(h *Host) {
		h.host = host
	}
}

// WithPort sets the port for the embedded nats server. -1 picks a free one.
func WithPort(port int) HostOpt {
	return func(h *Host) {
		h.port = port
	}
}

// WithMaxSessions caps how many sessions may be live at once
func WithMaxSessions(n int) HostOpt {
	return func(h *Host) {
		h.maxSessions = n
	}
}

// WithSessionTimeout sets how long a quiet session lives before Tick reaps it
func WithSessionTimeout(d time.Duration) HostOpt {
	return func(h *Host) {
		h.sessionTimeout = d
	}
}

// WithSpawnTool sets the tool spec granted to every entity on spawn
func WithSpawnTool(specID string) HostOpt {
	return func(h *Host) {
		h.spawnTool = specID
	}
}
