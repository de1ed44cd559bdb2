package ui

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/pixil98/go-arena/internal/input"
	"github.com/pixil98/go-arena/internal/lifecycle"
	"github.com/pixil98/go-arena/internal/sim"
)

// DefaultAddress pre-fills the connect form so a fresh install can reach an
// embedded host without typing anything.
const DefaultAddress = "local://127.0.0.1:4222"

// Page names within the chrome.
const (
	pageMenu     = "menu"
	pageGame     = "game"
	pageSettings = "settings"
)

// Handlers are the client's reactions to menu and in-game actions. The
// settings pair is split so the form can read current values on open and
// the save outcome alone writes them back.
type Handlers struct {
	Connect      func(address string)
	Disconnect   func()
	Exit         func()
	Settings     func() Settings
	SaveSettings func(Settings)
}

// UI is the terminal surface: the coordinator's screen collaborator plus
// the menu and in-game pages the client drives. Rendering readiness comes
// in two ordered stages; the chrome stage fails if the screen stage never
// ran.
type UI struct {
	newScreen func() (tcell.Screen, error)
	address   string
	bindings  []input.Binding

	running atomic.Bool

	mu       sync.Mutex
	screen   tcell.Screen
	app      *tview.Application
	pages    *tview.Pages
	handlers Handlers
	keyHook  func(*tcell.EventKey) bool
	banner   string
	inGame   bool
	zen      bool
	you      sim.EntityID
	nextPage uint64

	status   *tview.TextView
	entities *tview.TextView
	journal  *tview.TextView
	gameFlex *tview.Flex
}

type UIOpt func(*UI)

// WithScreenFactory replaces how the screen stage allocates its screen.
// Tests hand in tcell's simulation screen.
func WithScreenFactory(f func() (tcell.Screen, error)) UIOpt {
	return func(u *UI) {
		u.newScreen = f
	}
}

// WithDefaultAddress pre-fills the connect form.
func WithDefaultAddress(addr string) UIOpt {
	return func(u *UI) {
		u.address = addr
	}
}

// WithControls fills the controls listing shown on the menu.
func WithControls(bindings []input.Binding) UIOpt {
	return func(u *UI) {
		u.bindings = bindings
	}
}

func New(opts ...UIOpt) *UI {
	u := &UI{
		newScreen: func() (tcell.Screen, error) { return tcell.NewScreen() },
		address:   DefaultAddress,
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

// SetHandlers wires the client's reactions. Call before the coordinator
// starts driving the surface.
func (u *UI) SetHandlers(h Handlers) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.handlers = h
}

// SetKeyHook installs the in-game key consumer (the input capture). Events
// the hook declines fall through to the chrome.
func (u *UI) SetKeyHook(hook func(*tcell.EventKey) bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.keyHook = hook
}

// Setup readies the rendering surface one stage at a time, in order.
func (u *UI) Setup(_ context.Context, stage lifecycle.SetupStage) error {
	switch stage {
	case lifecycle.StageScreen:
		return u.setupScreen()
	case lifecycle.StageChrome:
		return u.setupChrome()
	default:
		return fmt.Errorf("unknown setup stage %d", stage)
	}
}

func (u *UI) setupScreen() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.screen != nil {
		return fmt.Errorf("screen stage already ran")
	}

	s, err := u.newScreen()
	if err != nil {
		return fmt.Errorf("allocating screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	u.screen = s

	// A splash shown before the screen existed becomes visible now.
	if u.banner != "" {
		drawBanner(s, u.banner)
	}

	return nil
}

func (u *UI) setupChrome() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.screen == nil {
		return fmt.Errorf("chrome requested before the screen stage ran")
	}
	if u.app != nil {
		return fmt.Errorf("chrome stage already ran")
	}

	u.pages = tview.NewPages()
	u.buildMenu()
	u.buildGame()
	u.pages.SwitchToPage(pageMenu)

	app := tview.NewApplication()
	app.SetScreen(u.screen)
	app.SetRoot(u.pages, true)
	app.SetInputCapture(u.captureKey)
	u.app = app

	return nil
}

// Run drives the chrome's event loop until the context is canceled or Stop
// is called. The two setup stages must have completed.
func (u *UI) Run(ctx context.Context) error {
	u.mu.Lock()
	app := u.app
	u.mu.Unlock()

	if app == nil {
		return fmt.Errorf("running before chrome setup")
	}

	u.running.Store(true)
	defer u.running.Store(false)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			app.Stop()
		case <-done:
		}
	}()

	return app.Run()
}

// Stop ends the chrome's event loop.
func (u *UI) Stop() {
	u.mu.Lock()
	app := u.app
	u.mu.Unlock()

	if app != nil {
		app.Stop()
	}
}

// Close releases the terminal. Safe after Run, and also when setup never
// got far enough for Run to own the screen.
func (u *UI) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.screen != nil {
		u.screen.Fini()
	}
}

// post applies a chrome mutation on the draw goroutine once the app runs.
// Before that, mutations apply directly: nothing is drawing yet.
func (u *UI) post(f func()) {
	if u.running.Load() {
		go u.app.QueueUpdateDraw(f)
		return
	}

	u.mu.Lock()
	pages := u.pages
	u.mu.Unlock()
	if pages == nil {
		return
	}
	f()
}

// pageName mints a unique page name, so stacked modals never collide.
func (u *UI) pageName(prefix string) string {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.nextPage++
	return fmt.Sprintf("%s-%d", prefix, u.nextPage)
}

// captureKey routes key events: in game, the steering and binding hook
// gets first refusal, then the chrome keys.
func (u *UI) captureKey(ev *tcell.EventKey) *tcell.EventKey {
	u.mu.Lock()
	inGame := u.inGame
	hook := u.keyHook
	disconnect := u.handlers.Disconnect
	u.mu.Unlock()

	if !inGame {
		return ev
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		if disconnect != nil {
			disconnect()
		}
		return nil
	case tcell.KeyF11:
		u.ToggleZen()
		return nil
	}

	if hook != nil && hook(ev) {
		return nil
	}

	return ev
}

func (u *UI) exit() {
	u.mu.Lock()
	h := u.handlers.Exit
	u.mu.Unlock()

	if h != nil {
		h()
		return
	}
	u.Stop()
}

// drawBanner paints a centered line on the raw screen, for the stretch of
// startup before the chrome runs.
func drawBanner(s tcell.Screen, text string) {
	s.Clear()

	w, h := s.Size()
	row := h / 2
	col := (w - len(text)) / 2
	if col < 0 {
		col = 0
	}

	for i, r := range text {
		s.SetContent(col+i, row, r, nil, tcell.StyleDefault)
	}
	s.Show()
}
