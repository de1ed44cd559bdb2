package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// buildMenu assembles the connect page: address form, buttons, and the
// controls listing. Caller holds u.mu.
func (u *UI) buildMenu() {
	form := tview.NewForm().
		AddInputField("Host address", u.address, 40, nil, func(text string) {
			u.mu.Lock()
			u.address = text
			u.mu.Unlock()
		}).
		AddButton("Connect", func() {
			u.mu.Lock()
			addr := u.address
			connect := u.handlers.Connect
			u.mu.Unlock()

			if connect != nil {
				connect(addr)
			}
		}).
		AddButton("Settings", func() {
			u.openSettings()
		}).
		AddButton("Exit", func() {
			u.exit()
		})
	form.SetBorder(true)
	form.SetTitle(" arena ")

	controls := tview.NewTextView()
	controls.SetBorder(true)
	controls.SetTitle(" controls ")
	fmt.Fprintf(controls, "%-14s %s\n", "arrows", "steer")
	fmt.Fprintf(controls, "%-14s %s\n", "esc", "leave the arena")
	fmt.Fprintf(controls, "%-14s %s\n", "f11", "toggle zen mode")
	for _, b := range u.bindings {
		fmt.Fprintf(controls, "%-14s %s\n", b.Chord, b.Description)
	}

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 11, 0, true).
		AddItem(controls, 0, 1, false)

	u.pages.AddPage(pageMenu, flex, true, true)
}
