package connect

import (
	"fmt"
	"net"
	"net/url"
)

// Endpoint is a parsed host address. All three parts are always non-empty.
type Endpoint struct {
	Scheme string
	Host   string
	Port   string
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s://%s", e.Scheme, net.JoinHostPort(e.Host, e.Port))
}

// ParseAddress splits a free-form address into scheme, host, and port,
// failing fast with ErrInvalidAddress when any part is missing. Validation
// happens before any connector is chosen, so a malformed address never
// reaches the network.
func ParseAddress(raw string) (Endpoint, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w %q: %v", ErrInvalidAddress, raw, err)
	}

	if u.Scheme == "" {
		return Endpoint{}, fmt.Errorf("%w %q: scheme must be set", ErrInvalidAddress, raw)
	}
	if u.Hostname() == "" {
		return Endpoint{}, fmt.Errorf("%w %q: host must be set", ErrInvalidAddress, raw)
	}
	if u.Port() == "" {
		return Endpoint{}, fmt.Errorf("%w %q: port must be set", ErrInvalidAddress, raw)
	}

	return Endpoint{
		Scheme: u.Scheme,
		Host:   u.Hostname(),
		Port:   u.Port(),
	}, nil
}
