package input

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"

	"github.com/pixil98/go-arena/internal/sim"
	"github.com/pixil98/go-arena/internal/storage"
)

// Keymap resolves key chords to the actions bound to them. It is built once
// from the binding store; two bindings claiming the same chord is a
// configuration error.
type Keymap struct {
	bindings map[Chord]*binding
}

type binding struct {
	id      string
	chord   Chord
	actions []sim.Action
	desc    string
}

func NewKeymap(store storage.Storer[*BindingSpec]) (*Keymap, error) {
	k := &Keymap{
		bindings: map[Chord]*binding{},
	}

	for _, id := range store.Ids() {
		spec := store.Get(id)

		chord, err := ParseChord(spec.Chord)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", id, err)
		}

		if prev, ok := k.bindings[chord]; ok {
			return nil, fmt.Errorf("bindings %q and %q share chord %q", prev.id, id, chord)
		}

		actions := make([]sim.Action, 0, len(spec.Actions))
		for _, a := range spec.Actions {
			actions = append(actions, sim.Action(a))
		}

		k.bindings[chord] = &binding{
			id:      id,
			chord:   chord,
			actions: actions,
			desc:    spec.Description,
		}
	}

	return k, nil
}

// Lookup resolves a key event to its bound actions.
func (k *Keymap) Lookup(ev *tcell.EventKey) ([]sim.Action, bool) {
	b, ok := k.bindings[ChordOf(ev)]
	if !ok {
		return nil, false
	}
	return b.actions, true
}

// Binding is one row of the controls listing shown on the menu and HUD.
type Binding struct {
	Chord       string
	Description string
}

// Bindings returns the controls listing sorted by chord.
func (k *Keymap) Bindings() []Binding {
	out := make([]Binding, 0, len(k.bindings))
	for _, b := range k.bindings {
		desc := b.desc
		if desc == "" {
			desc = b.id
		}
		out = append(out, Binding{Chord: b.chord.String(), Description: desc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Chord < out[j].Chord })
	return out
}
