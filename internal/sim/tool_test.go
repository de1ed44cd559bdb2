package sim

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestToolSpec_Validate(t *testing.T) {
	tests := map[string]struct {
		spec    ToolSpec
		expErrs []string
	}{
		"valid spec": {
			spec: ToolSpec{
				Description: "signal beacon",
				Verb:        "{{.Actor}} triggers the beacon",
			},
			expErrs: nil,
		},
		"valid spec with charges": {
			spec: ToolSpec{
				Description: "flare",
				Verb:        "a flare goes up",
				Charges:     3,
			},
			expErrs: nil,
		},
		"missing description": {
			spec: ToolSpec{
				Verb: "something happens",
			},
			expErrs: []string{"description must be set"},
		},
		"missing verb": {
			spec: ToolSpec{
				Description: "broken",
			},
			expErrs: []string{"verb must be set"},
		},
		"malformed verb template": {
			spec: ToolSpec{
				Description: "broken",
				Verb:        "{{.Actor",
			},
			expErrs: []string{"parsing verb template"},
		},
		"multiple errors": {
			spec:    ToolSpec{},
			expErrs: []string{"description must be set", "verb must be set"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.spec.Validate()

			if len(tt.expErrs) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Errorf("expected errors %v, got nil", tt.expErrs)
				return
			}

			for _, e := range tt.expErrs {
				if !strings.Contains(err.Error(), e) {
					t.Errorf("error %q does not contain %q", err.Error(), e)
				}
			}
		})
	}
}

func TestTool_Use_ChargesExhaust(t *testing.T) {
	spec := &ToolSpec{
		Description: "flare",
		Verb:        "{{.Actor}} fires a flare",
		Charges:     2,
	}
	tool := newTool("t1", "flare", spec)
	target := &Entity{ID: "e1", Name: "tester"}

	for i := 0; i < 2; i++ {
		_, ok := tool.use(target, "primary")
		if !ok {
			t.Fatalf("use %d should succeed", i+1)
		}
	}

	// Third trigger finds the instance spent.
	_, ok := tool.use(target, "primary")
	if ok {
		t.Error("expected exhausted tool to refuse use")
	}
	testutil.AssertEqual(t, "uses", tool.Uses, uint64(2))
	testutil.AssertEqual(t, "charges", tool.Charges, uint(0))
}

func TestTool_Use_UnlimitedCharges(t *testing.T) {
	spec := &ToolSpec{
		Description: "beacon",
		Verb:        "ping {{.Uses}}",
	}
	tool := newTool("t1", "beacon", spec)
	target := &Entity{ID: "e1", Name: "tester"}

	for i := 1; i <= 5; i++ {
		ev, ok := tool.use(target, "primary")
		if !ok {
			t.Fatalf("use %d should succeed", i)
		}
		testutil.AssertEqual(t, "text", ev.Text, "ping "+string(rune('0'+i)))
	}
}

func TestTool_Use_TemplateExecFallsBack(t *testing.T) {
	// Parses fine but references a field the context doesn't have, which
	// only surfaces at execute time.
	spec := &ToolSpec{
		Description: "odd",
		Verb:        "{{.NoSuchField}}",
	}
	tool := newTool("t1", "odd", spec)
	target := &Entity{ID: "e1", Name: "tester"}

	ev, ok := tool.use(target, "primary")
	if !ok {
		t.Fatal("use should still succeed")
	}
	testutil.AssertEqual(t, "fallback text", ev.Text, "{{.NoSuchField}}")
	testutil.AssertEqual(t, "uses counted", tool.Uses, uint64(1))
}

func TestTool_Use_EventFields(t *testing.T) {
	spec := &ToolSpec{
		Description: "beacon",
		Verb:        "fired",
	}
	tool := newTool("tool-9", "beacon", spec)
	target := &Entity{ID: "e7", Name: "tester"}

	ev, ok := tool.use(target, "secondary")
	if !ok {
		t.Fatal("use should succeed")
	}

	testutil.AssertEqual(t, "actor", ev.Actor, EntityID("e7"))
	testutil.AssertEqual(t, "tool", ev.Tool, ToolID("tool-9"))
	testutil.AssertEqual(t, "action", ev.Action, Action("secondary"))
	testutil.AssertEqual(t, "text", ev.Text, "fired")
}
