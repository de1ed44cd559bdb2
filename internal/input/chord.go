package input

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// Chord identifies one key press in tcell's terms. Ctrl combinations are
// folded into the key code the way terminals deliver them, so a parsed
// chord compares equal to the chord of the matching event.
type Chord struct {
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

// namedKeys are the key tokens accepted beyond single characters and
// f1..f12. Space stays a rune key because that is how tcell reports it.
var namedKeys = map[string]Chord{
	"space":     {Key: tcell.KeyRune, Rune: ' '},
	"enter":     {Key: tcell.KeyEnter},
	"tab":       {Key: tcell.KeyTab},
	"backspace": {Key: tcell.KeyBackspace2},
	"insert":    {Key: tcell.KeyInsert},
	"delete":    {Key: tcell.KeyDelete},
	"home":      {Key: tcell.KeyHome},
	"end":       {Key: tcell.KeyEnd},
	"pgup":      {Key: tcell.KeyPgUp},
	"pgdn":      {Key: tcell.KeyPgDn},
}

// ParseChord reads a binding chord like "f", "space", "ctrl+t", or
// "alt+f1". The last token names the key; any tokens before it are the
// modifiers ctrl and alt. Matching is case-insensitive.
func ParseChord(s string) (Chord, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")

	var ctrl bool
	var mod tcell.ModMask
	for _, m := range parts[:len(parts)-1] {
		switch m {
		case "ctrl":
			ctrl = true
		case "alt":
			mod |= tcell.ModAlt
		default:
			return Chord{}, fmt.Errorf("unknown modifier %q in chord %q", m, s)
		}
	}

	c, err := parseKeyToken(parts[len(parts)-1], s)
	if err != nil {
		return Chord{}, err
	}
	c.Mod = mod

	if ctrl {
		if c.Key != tcell.KeyRune || c.Rune < 'a' || c.Rune > 'z' {
			return Chord{}, fmt.Errorf("ctrl requires a letter in chord %q", s)
		}
		// Terminals report ctrl+letter as a control key code.
		c.Key = tcell.KeyCtrlA + tcell.Key(c.Rune-'a')
		c.Rune = 0
	}

	return c, nil
}

func parseKeyToken(token, chord string) (Chord, error) {
	if c, ok := namedKeys[token]; ok {
		return c, nil
	}

	if len(token) > 1 && token[0] == 'f' {
		n, err := strconv.Atoi(token[1:])
		if err == nil {
			if n < 1 || n > 12 {
				return Chord{}, fmt.Errorf("function key out of range in chord %q", chord)
			}
			return Chord{Key: tcell.KeyF1 + tcell.Key(n-1)}, nil
		}
	}

	runes := []rune(token)
	if len(runes) != 1 {
		return Chord{}, fmt.Errorf("unknown key %q in chord %q", token, chord)
	}
	if !unicode.IsPrint(runes[0]) {
		return Chord{}, fmt.Errorf("unprintable key in chord %q", chord)
	}

	return Chord{Key: tcell.KeyRune, Rune: runes[0]}, nil
}

// ChordOf normalizes a key event for keymap lookup: runes are lowercased
// with shift dropped, and the ctrl bit is dropped because ctrl combinations
// already arrive as distinct key codes.
func ChordOf(ev *tcell.EventKey) Chord {
	c := Chord{
		Key: ev.Key(),
		Mod: ev.Modifiers() &^ (tcell.ModCtrl | tcell.ModShift),
	}
	if c.Key == tcell.KeyRune {
		c.Rune = unicode.ToLower(ev.Rune())
	}
	return c
}

func (c Chord) String() string {
	var b strings.Builder

	if c.Mod&tcell.ModAlt != 0 {
		b.WriteString("alt+")
	}

	switch {
	case c.Key == tcell.KeyRune && c.Rune == ' ':
		b.WriteString("space")
	case c.Key == tcell.KeyRune:
		b.WriteRune(c.Rune)
	default:
		if name, ok := tcell.KeyNames[c.Key]; ok {
			b.WriteString(strings.ToLower(strings.ReplaceAll(name, "Ctrl-", "ctrl+")))
		} else if c.Key >= tcell.KeyCtrlA && c.Key <= tcell.KeyCtrlZ {
			b.WriteString("ctrl+")
			b.WriteRune('a' + rune(c.Key-tcell.KeyCtrlA))
		} else {
			fmt.Fprintf(&b, "key(%d)", c.Key)
		}
	}

	return b.String()
}
