package ui

import (
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DefaultWidth = 80

var titleCaser = cases.Title(language.English)

// Wrap word-wraps text to DefaultWidth, preserving ANSI escape sequences.
func Wrap(text string) string {
	return wordwrap.String(text, DefaultWidth)
}

// TitleCase uppercases display names the way the HUD shows them.
func TitleCase(s string) string {
	return titleCaser.String(s)
}
