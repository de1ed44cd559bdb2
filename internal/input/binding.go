package input

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

// BindingSpec is a stored key binding. Pressing the chord in game emits one
// control command carrying the listed tool actions, in order.
type BindingSpec struct {
	Chord       string   `json:"chord"`
	Actions     []string `json:"actions"`
	Description string   `json:"description,omitempty"`
}

func (s *BindingSpec) Validate() error {
	el := errors.NewErrorList()

	if s.Chord == "" {
		el.Add(fmt.Errorf("chord must be set"))
	} else if _, err := ParseChord(s.Chord); err != nil {
		el.Add(fmt.Errorf("parsing chord: %w", err))
	}

	if len(s.Actions) == 0 {
		el.Add(fmt.Errorf("at least one action must be set"))
	}
	for i, a := range s.Actions {
		if a == "" {
			el.Add(fmt.Errorf("action %d must not be empty", i))
		}
	}

	return el.Err()
}
