package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"github.com/pixil98/go-arena/internal/sim"
)

// buildGame assembles the in-game page: the arena roster, the event feed,
// and a one-line status bar. Caller holds u.mu.
func (u *UI) buildGame() {
	u.entities = tview.NewTextView()
	u.entities.SetBorder(true)
	u.entities.SetTitle(" arena ")

	u.journal = tview.NewTextView()
	u.journal.SetBorder(true)
	u.journal.SetTitle(" events ")

	u.status = tview.NewTextView()

	u.gameFlex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(u.entities, 0, 2, true).
		AddItem(u.journal, 0, 1, false).
		AddItem(u.status, 1, 0, false)

	u.pages.AddPage(pageGame, u.gameFlex, true, false)
}

// EnterGame switches to the in-game page with a clean roster and feed.
func (u *UI) EnterGame(you sim.EntityID) {
	u.mu.Lock()
	u.inGame = true
	u.you = you
	u.mu.Unlock()

	u.post(func() {
		u.entities.SetText("")
		u.journal.SetText("")
		u.status.SetText("")
		u.pages.SwitchToPage(pageGame)
	})
}

// LeaveGame drops back to the menu.
func (u *UI) LeaveGame() {
	u.mu.Lock()
	u.inGame = false
	u.you = ""
	u.mu.Unlock()

	u.post(func() {
		u.pages.SwitchToPage(pageMenu)
	})
}

// InGame reports whether the in-game page is active.
func (u *UI) InGame() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.inGame
}

// RefreshEntities repaints the roster. The caller's own entity gets a
// marker.
func (u *UI) RefreshEntities(entities []sim.Entity) {
	u.mu.Lock()
	you := u.you
	u.mu.Unlock()

	var b strings.Builder
	for _, e := range entities {
		marker := "  "
		if e.ID == you {
			marker = "* "
		}
		fmt.Fprintf(&b, "%s%-20s (%6.1f, %6.1f, %6.1f)", marker, TitleCase(e.Name), e.Position.X(), e.Position.Y(), e.Position.Z())
		if e.Tool != "" {
			fmt.Fprintf(&b, "  [%s]", e.Tool)
		}
		b.WriteByte('\n')
	}
	text := b.String()

	u.post(func() {
		u.entities.SetText(text)
	})
}

// AppendEvents adds journal lines to the feed.
func (u *UI) AppendEvents(events []sim.Event) {
	if len(events) == 0 {
		return
	}

	var b strings.Builder
	for _, ev := range events {
		b.WriteString(Wrap(ev.Text))
		b.WriteByte('\n')
	}
	text := b.String()

	u.post(func() {
		fmt.Fprint(u.journal, text)
		u.journal.ScrollToEnd()
	})
}

// SetStatus replaces the status bar line.
func (u *UI) SetStatus(text string) {
	u.post(func() {
		u.status.SetText(text)
	})
}

// ToggleZen flips zen mode: the roster keeps the whole page and the feed
// and status bar collapse. Chrome only; the session is untouched.
func (u *UI) ToggleZen() {
	u.mu.Lock()
	u.zen = !u.zen
	zen := u.zen
	u.mu.Unlock()

	u.post(func() {
		if zen {
			u.gameFlex.ResizeItem(u.journal, 0, 0)
			u.gameFlex.ResizeItem(u.status, 0, 0)
		} else {
			u.gameFlex.ResizeItem(u.journal, 0, 1)
			u.gameFlex.ResizeItem(u.status, 1, 0)
		}
	})
}

// Zen reports whether zen mode is on.
func (u *UI) Zen() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.zen
}
