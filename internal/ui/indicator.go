package ui

import (
	"log/slog"
	"sync"

	"github.com/rivo/tview"

	"github.com/pixil98/go-arena/internal/lifecycle"
)

// indicator is one progress surface. Cancel dismisses it exactly once;
// later calls are no-ops.
type indicator struct {
	mu       sync.Mutex
	canceled bool
	dismiss  func()
}

func (i *indicator) Cancel() {
	i.mu.Lock()
	if i.canceled {
		i.mu.Unlock()
		return
	}
	i.canceled = true
	dismiss := i.dismiss
	i.mu.Unlock()

	if dismiss != nil {
		dismiss()
	}
}

func (i *indicator) isCanceled() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.canceled
}

// ShowIndicator presents a progress surface and returns its dismiss
// handle. Before the chrome runs it draws a raw banner; the splash case
// may even arrive before the screen stage, where it is held and painted
// by the screen stage itself. Once the chrome runs it is a modal page.
func (u *UI) ShowIndicator(kind string, text string) lifecycle.Indicator {
	ind := &indicator{}

	if !u.running.Load() {
		u.mu.Lock()
		u.banner = text
		screen := u.screen
		u.mu.Unlock()

		if screen != nil {
			drawBanner(screen, text)
		}

		ind.dismiss = func() {
			u.mu.Lock()
			if u.banner == text {
				u.banner = ""
			}
			screen := u.screen
			u.mu.Unlock()

			if screen != nil && !u.running.Load() {
				screen.Clear()
				screen.Show()
			}
		}
		return ind
	}

	name := u.pageName("indicator-" + kind)
	modal := tview.NewModal().SetText(text)

	ind.dismiss = func() {
		u.post(func() {
			u.pages.RemovePage(name)
		})
	}
	u.post(func() {
		// Cancel may have raced ahead of this add; honor it.
		if ind.isCanceled() {
			return
		}
		u.pages.AddPage(name, modal, true, true)
	})

	return ind
}

// ShowError presents a failure. Connect failures get a dismissable modal
// that drops back to the menu. Fatal failures get an exit-only modal when
// the chrome is up, and the log when it never got that far.
func (u *UI) ShowError(location string, message string, detail string) {
	text := message
	if detail != "" {
		text = message + "\n\n" + Wrap(detail)
	}

	if location == lifecycle.ErrorLocationFatal {
		if !u.running.Load() {
			slog.Error("fatal error before the chrome was up", "message", message, "detail", detail)
			return
		}

		name := u.pageName("error")
		modal := tview.NewModal().
			SetText(text).
			AddButtons([]string{"Exit"}).
			SetDoneFunc(func(int, string) {
				u.exit()
			})
		u.post(func() {
			u.pages.AddPage(name, modal, true, true)
		})
		return
	}

	name := u.pageName("error")
	modal := tview.NewModal().
		SetText(text).
		AddButtons([]string{"Back"}).
		SetDoneFunc(func(int, string) {
			u.post(func() {
				u.pages.RemovePage(name)
			})
		})
	u.post(func() {
		u.pages.AddPage(name, modal, true, true)
	})
}
