package ui

import (
	"github.com/rivo/tview"
)

// SettingsResult is how the settings dialog was resolved.
type SettingsResult int

const (
	// ResultCancel discards the dialog's edits.
	ResultCancel SettingsResult = iota
	// ResultSave applies them. It is the only outcome that does.
	ResultSave
)

// Settings are the profile fields the dialog edits.
type Settings struct {
	Name     string
	Pronouns string
}

// openSettings shows the settings form, seeded from the current profile.
func (u *UI) openSettings() {
	u.mu.Lock()
	get := u.handlers.Settings
	u.mu.Unlock()

	var current Settings
	if get != nil {
		current = get()
	}
	edited := current

	form := tview.NewForm().
		AddInputField("Display name", current.Name, 24, nil, func(text string) {
			edited.Name = text
		}).
		AddInputField("Pronouns", current.Pronouns, 24, nil, func(text string) {
			edited.Pronouns = text
		}).
		AddButton("Save", func() {
			u.closeSettings(ResultSave, edited)
		}).
		AddButton("Cancel", func() {
			u.closeSettings(ResultCancel, edited)
		})
	form.SetBorder(true)
	form.SetTitle(" settings ")
	form.SetCancelFunc(func() {
		u.closeSettings(ResultCancel, edited)
	})

	u.post(func() {
		u.pages.AddPage(pageSettings, center(form, 44, 11), true, true)
	})
}

// closeSettings resolves the dialog. Edits reach the profile only when the
// result is ResultSave; every other way out discards them.
func (u *UI) closeSettings(result SettingsResult, edited Settings) {
	u.mu.Lock()
	save := u.handlers.SaveSettings
	u.mu.Unlock()

	if result == ResultSave && save != nil {
		save(edited)
	}

	u.post(func() {
		u.pages.RemovePage(pageSettings)
	})
}

// center floats a primitive of the given size over the page behind it.
func center(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}
