package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pixil98/go-arena/internal/connect"
	"github.com/pixil98/go-arena/internal/identity"
)

// Dialer turns an address into a live session. *connect.Registry is the
// production implementation.
type Dialer interface {
	Dial(ctx context.Context, address string, params connect.Params) (*connect.Session, error)
}

// Identity supplies the credentials presented to hosts.
type Identity interface {
	Profile() identity.Profile
	Token() (string, error)
}

// Coordinator owns the session lifecycle: it sequences render setup, gates
// connect attempts, and holds the live session while in game. One instance
// per process, passed by reference to everything that needs it.
//
// State is guarded by a mutex. Blocking work (setup stages, dialing) runs
// outside the critical section; every terminal transition and the matching
// indicator cancellation happen inside one critical section.
type Coordinator struct {
	screen Screen
	dialer Dialer
	id     Identity

	launch string

	mu        sync.Mutex
	state     State
	session   *connect.Session
	indicator Indicator
}

type CoordinatorOpt func(*Coordinator)

// WithLaunchAddress makes the coordinator roll straight from setup into a
// connect attempt against the given address.
func WithLaunchAddress(addr string) CoordinatorOpt {
	return func(c *Coordinator) {
		c.launch = addr
	}
}

func NewCoordinator(screen Screen, dialer Dialer, id Identity, opts ...CoordinatorOpt) *Coordinator {
	c := &Coordinator{
		screen: screen,
		dialer: dialer,
		id:     id,
		state:  StateUninitialized,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Start runs the two render setup stages under a splash indicator. On
// success the coordinator lands on StateReady, or StateConnecting when a
// launch address was given. A stage failure is fatal: the coordinator shows
// it, parks on StateErrorShown, and returns the *SetupError.
//
// A launch connect that fails is not fatal; it surfaces like any
// interactive connect failure and leaves the coordinator on StateReady.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateUninitialized {
		c.mu.Unlock()
		return fmt.Errorf("coordinator already started (%s)", c.state)
	}
	c.state = StateSettingUp
	splash := c.screen.ShowIndicator(IndicatorSplash, "preparing the arena")
	c.mu.Unlock()

	// Stage two is only requested from stage one's success path; a failure
	// stops setup on the spot.
	err := c.screen.Setup(ctx, StageScreen)
	if err != nil {
		return c.failSetup(ctx, splash, &SetupError{Stage: StageScreen, Err: err})
	}

	err = c.screen.Setup(ctx, StageChrome)
	if err != nil {
		return c.failSetup(ctx, splash, &SetupError{Stage: StageChrome, Err: err})
	}

	c.mu.Lock()
	splash.Cancel()
	if c.launch == "" {
		c.state = StateReady
		c.mu.Unlock()
		return nil
	}
	c.state = StateConnecting
	c.indicator = c.screen.ShowIndicator(IndicatorConnect, "connecting to "+c.launch)
	c.mu.Unlock()

	err = c.attempt(ctx, c.launch)
	if err != nil {
		slog.WarnContext(ctx, "launch connect failed", "addr", c.launch, "err", err)
	}

	return nil
}

func (c *Coordinator) failSetup(ctx context.Context, splash Indicator, serr *SetupError) error {
	c.mu.Lock()
	splash.Cancel()
	c.state = StateErrorShown
	c.screen.ShowError(ErrorLocationFatal, "setup failed", serr.Error())
	c.mu.Unlock()

	slog.ErrorContext(ctx, "setup failed", "stage", serr.Stage, "err", serr.Err)
	return serr
}

// Connect runs one attempt against the given address. It is accepted only
// from StateReady and rejected with ErrNotReady from anywhere else; an
// in-flight attempt is never superseded. Recoverable failures (bad address,
// unknown scheme, connector error) are shown on screen and return the
// coordinator to StateReady.
func (c *Coordinator) Connect(ctx context.Context, address string) error {
	c.mu.Lock()
	if c.state != StateReady {
		c.mu.Unlock()
		return ErrNotReady
	}
	c.state = StateConnecting
	c.indicator = c.screen.ShowIndicator(IndicatorConnect, "connecting to "+address)
	c.mu.Unlock()

	return c.attempt(ctx, address)
}

// attempt runs after the transition into StateConnecting and always ends it:
// exactly one terminal outcome, with the indicator canceled in the same
// critical section as the resulting transition.
func (c *Coordinator) attempt(ctx context.Context, address string) error {
	var session *connect.Session

	params, err := c.connectParams()
	if err == nil {
		session, err = c.dialer.Dial(ctx, address, params)
	}

	c.mu.Lock()
	c.indicator.Cancel()
	c.indicator = nil

	if err != nil {
		c.state = StateReady
		c.screen.ShowError(ErrorLocationConnect, failureMessage(err), err.Error())
		c.mu.Unlock()

		slog.WarnContext(ctx, "connect attempt failed", "addr", address, "err", err)
		return err
	}

	c.session = session
	c.state = StateInGame
	c.mu.Unlock()

	slog.InfoContext(ctx, "session established", "session", session.ID, "entity", session.Entity)
	return nil
}

func (c *Coordinator) connectParams() (connect.Params, error) {
	token, err := c.id.Token()
	if err != nil {
		return connect.Params{}, fmt.Errorf("minting auth token: %w", err)
	}

	return connect.Params{
		ProtocolVersion: connect.ProtocolVersion,
		AuthToken:       token,
		User:            c.id.Profile().UserInfo(),
	}, nil
}

// failureMessage maps an attempt error to the short message shown next to
// the connect controls; the full error rides along as detail.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, connect.ErrInvalidAddress):
		return "that address does not parse"
	case errors.Is(err, connect.ErrUnsupportedScheme):
		return "that scheme is not supported"
	default:
		return "the connection attempt failed"
	}
}

// EndSession closes the live session and returns to StateReady. Calling it
// outside StateInGame does nothing, so the user-quit and transport-drop
// paths can both funnel through it.
func (c *Coordinator) EndSession() {
	c.mu.Lock()
	session := c.session
	c.session = nil
	if c.state == StateInGame {
		c.state = StateReady
	}
	c.mu.Unlock()

	if session != nil {
		_ = session.Close()
	}
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) InGame() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateInGame
}

// Session returns the live session, or nil outside StateInGame.
func (c *Coordinator) Session() *connect.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}
