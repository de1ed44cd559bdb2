package sim

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pixil98/go-errors"
)

type ToolID string

// verbFuncs provides utility functions for verb templates.
var verbFuncs = sprig.TxtFuncMap()

// ToolSpec is the stored definition of a tool kind. The verb is a template
// expanded into a journal event each time the tool is used; it may reference
// {{.Actor}}, {{.Action}}, {{.Tool}}, and {{.Uses}}. Verbs must only draw on
// that context: time- or random-based template functions would make replays
// diverge.
type ToolSpec struct {
	Description string `json:"description"`
	Verb        string `json:"verb"`

	// Charges limits total uses per instance. Zero means unlimited.
	Charges uint `json:"charges,omitempty"`
}

func (s *ToolSpec) Validate() error {
	el := errors.NewErrorList()

	if s.Description == "" {
		el.Add(fmt.Errorf("description must be set"))
	}

	if s.Verb == "" {
		el.Add(fmt.Errorf("verb must be set"))
	} else if _, err := template.New("verb").Funcs(verbFuncs).Parse(s.Verb); err != nil {
		el.Add(fmt.Errorf("parsing verb template: %w", err))
	}

	return el.Err()
}

// Tool is a per-entity instance of a ToolSpec held in the Registry.
type Tool struct {
	ID      ToolID
	SpecID  string
	Uses    uint64
	Charges uint

	spec *ToolSpec
	verb *template.Template
}

// newTool instantiates a spec, compiling its verb once up front. A verb
// that fails to compile (load-time validation should have caught it) leaves
// the template nil and use falls back to the raw verb text.
func newTool(id ToolID, specID string, spec *ToolSpec) *Tool {
	t := &Tool{
		ID:      id,
		SpecID:  specID,
		Charges: spec.Charges,
		spec:    spec,
	}
	t.verb, _ = template.New("verb").Funcs(verbFuncs).Parse(spec.Verb)

	return t
}

type verbContext struct {
	Actor  string
	Action string
	Tool   string
	Uses   uint64
}

// use performs one trigger of the tool against the target. It reports false
// when the instance is exhausted. It never errors: an execute failure
// degrades to the raw verb text so command application stays total.
func (t *Tool) use(target *Entity, action Action) (Event, bool) {
	if t.spec.Charges > 0 && t.Charges == 0 {
		return Event{}, false
	}

	t.Uses++
	if t.spec.Charges > 0 {
		t.Charges--
	}

	text := t.spec.Verb
	if t.verb != nil {
		var buf bytes.Buffer
		err := t.verb.Execute(&buf, verbContext{
			Actor:  target.Name,
			Action: string(action),
			Tool:   t.spec.Description,
			Uses:   t.Uses,
		})
		if err == nil {
			text = buf.String()
		}
	}

	return Event{
		Actor:  target.ID,
		Tool:   t.ID,
		Action: action,
		Text:   text,
	}, true
}
