package sim

import (
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pixil98/go-testutil"
)

// mockSpecStore implements storage.Storer[*ToolSpec] over a plain map.
type mockSpecStore struct {
	specs map[string]*ToolSpec
}

func (m *mockSpecStore) Save(string, *ToolSpec) error { return nil }

func (m *mockSpecStore) Get(id string) *ToolSpec { return m.specs[id] }

func (m *mockSpecStore) GetAll() map[string]*ToolSpec { return m.specs }

func (m *mockSpecStore) Ids() []string {
	ids := make([]string, 0, len(m.specs))
	for id := range m.specs {
		ids = append(ids, id)
	}
	return ids
}

func testSpecStore() *mockSpecStore {
	return &mockSpecStore{
		specs: map[string]*ToolSpec{
			"beacon": {
				Description: "signal beacon",
				Verb:        "{{.Actor}} triggers {{.Tool}} ({{.Action}}, use {{.Uses}})",
			},
			"flare": {
				Description: "flare",
				Verb:        "{{.Actor}} fires a flare",
				Charges:     2,
			},
		},
	}
}

func spawnTestEntity(t *testing.T, r *Registry, id EntityID) *Controller {
	t.Helper()

	c, err := r.SpawnEntity("player", Entity{
		ID:          id,
		Name:        "tester",
		Orientation: mgl64.QuatIdent(),
	})
	if err != nil {
		t.Fatalf("unexpected error spawning %s: %v", id, err)
	}
	return c
}

func TestController_Apply_OrientationReplace(t *testing.T) {
	r := NewRegistry(testSpecStore())
	c := spawnTestEntity(t, r, "e1")

	q1 := mgl64.Quat{W: 0.5, V: mgl64.Vec3{0.5, 0.5, 0.5}}
	q2 := mgl64.Quat{W: 1, V: mgl64.Vec3{0, 0, 0}}

	c.Apply(NewControlCommand("e1", 1, &q1))
	c.Apply(NewControlCommand("e1", 2, &q2))

	ents := r.Snapshot()
	testutil.AssertEqual(t, "entity count", len(ents), 1)

	// Each command replaces the orientation outright; nothing accumulates.
	if ents[0].Orientation != q2.Normalize() {
		t.Errorf("expected orientation %v, got %v", q2.Normalize(), ents[0].Orientation)
	}
}

func TestController_Apply_NilOrientationLeavesTarget(t *testing.T) {
	r := NewRegistry(testSpecStore())
	c := spawnTestEntity(t, r, "e1")

	q := mgl64.Quat{W: 0.5, V: mgl64.Vec3{0.5, 0.5, 0.5}}
	c.Apply(NewControlCommand("e1", 1, &q))
	c.Apply(NewControlCommand("e1", 2, nil))

	ents := r.Snapshot()
	if ents[0].Orientation != q.Normalize() {
		t.Errorf("orientation should be unchanged, got %v", ents[0].Orientation)
	}
}

func TestController_Apply_ActionsUseHeldTool(t *testing.T) {
	r := NewRegistry(testSpecStore())
	c := spawnTestEntity(t, r, "e1")

	err := r.AddTool("e1", "tool-1", "beacon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c.Apply(NewControlCommand("e1", 1, nil, "primary", "secondary"))

	events := r.Journal().Drain()
	testutil.AssertEqual(t, "event count", len(events), 2)
	testutil.AssertEqual(t, "first action", events[0].Action, Action("primary"))
	testutil.AssertEqual(t, "second action", events[1].Action, Action("secondary"))
	testutil.AssertEqual(t, "first text", events[0].Text, "tester triggers signal beacon (primary, use 1)")
	testutil.AssertEqual(t, "second text", events[1].Text, "tester triggers signal beacon (secondary, use 2)")

	tool, ok := r.ToolState("tool-1")
	if !ok {
		t.Fatal("expected tool state")
	}
	testutil.AssertEqual(t, "uses", tool.Uses, uint64(2))
}

func TestController_Apply_NoToolDropsActions(t *testing.T) {
	r := NewRegistry(testSpecStore())
	c := spawnTestEntity(t, r, "e1")

	q := mgl64.Quat{W: 0.5, V: mgl64.Vec3{0.5, 0.5, 0.5}}
	c.Apply(NewControlCommand("e1", 1, &q, "primary"))

	// Orientation still applies even though the actions were dropped.
	ents := r.Snapshot()
	if ents[0].Orientation != q.Normalize() {
		t.Errorf("expected orientation to be set, got %v", ents[0].Orientation)
	}
	testutil.AssertEqual(t, "journal length", r.Journal().Len(), 0)
}

func TestController_Apply_UnboundIsTotalNoOp(t *testing.T) {
	r := NewRegistry(testSpecStore())
	c := spawnTestEntity(t, r, "e1")
	c.Unbind()

	q := mgl64.Quat{W: 0.5, V: mgl64.Vec3{0.5, 0.5, 0.5}}
	c.Apply(NewControlCommand("e1", 1, &q, "primary"))

	ents := r.Snapshot()
	if ents[0].Orientation != mgl64.QuatIdent() {
		t.Errorf("unbound controller must not mutate, got %v", ents[0].Orientation)
	}
	testutil.AssertEqual(t, "journal length", r.Journal().Len(), 0)
}

func TestController_Apply_DespawnedTargetIsNoOp(t *testing.T) {
	r := NewRegistry(testSpecStore())
	c := spawnTestEntity(t, r, "e1")

	if !r.DespawnEntity("e1") {
		t.Fatal("expected despawn to succeed")
	}

	// Still bound to e1, but the lookup now fails. Nothing should happen.
	q := mgl64.Quat{W: 0.5, V: mgl64.Vec3{0.5, 0.5, 0.5}}
	c.Apply(NewControlCommand("e1", 1, &q, "primary"))

	testutil.AssertEqual(t, "entity count", len(r.Snapshot()), 0)
	testutil.AssertEqual(t, "journal length", r.Journal().Len(), 0)
}

func TestController_Apply_TargetResolvedPerCommand(t *testing.T) {
	r := NewRegistry(testSpecStore())
	c := spawnTestEntity(t, r, "e1")

	r.DespawnEntity("e1")

	// A fresh spawn under the same id gets found by the old controller:
	// the binding is an id lookup, not a kept pointer.
	spawnTestEntity(t, r, "e1")

	q := mgl64.Quat{W: 0.5, V: mgl64.Vec3{0.5, 0.5, 0.5}}
	c.Apply(NewControlCommand("e1", 5, &q))

	ents := r.Snapshot()
	testutil.AssertEqual(t, "entity count", len(ents), 1)
	if ents[0].Orientation != q.Normalize() {
		t.Errorf("expected respawned entity to take the command, got %v", ents[0].Orientation)
	}
}

func TestController_Apply_HeartbeatTouchesLivenessOnly(t *testing.T) {
	r := NewRegistry(testSpecStore())
	c := spawnTestEntity(t, r, "e1")

	err := r.AddTool("e1", "tool-1", "beacon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before := r.Snapshot()
	c.Apply(NewHeartbeatCommand("e1", 42))
	after := r.Snapshot()

	if !reflect.DeepEqual(before, after) {
		t.Errorf("heartbeat must not mutate entities: %v != %v", before, after)
	}
	testutil.AssertEqual(t, "journal length", r.Journal().Len(), 0)
	testutil.AssertEqual(t, "last seen", c.LastSeen(), uint64(42))

	// Stale heartbeats never move liveness backwards.
	c.Apply(NewHeartbeatCommand("e1", 7))
	testutil.AssertEqual(t, "last seen after stale", c.LastSeen(), uint64(42))
}

func TestController_Apply_UnknownKindDropped(t *testing.T) {
	r := NewRegistry(testSpecStore())
	c := spawnTestEntity(t, r, "e1")

	q := mgl64.Quat{W: 0.5, V: mgl64.Vec3{0.5, 0.5, 0.5}}
	c.Apply(Command{Kind: Kind("teleport"), Actor: "e1", Orientation: &q})

	ents := r.Snapshot()
	if ents[0].Orientation != mgl64.QuatIdent() {
		t.Errorf("unknown kind must not mutate, got %v", ents[0].Orientation)
	}
}

// replayState is everything command application may touch, gathered for
// comparison across runs.
type replayState struct {
	Entities []Entity
	Tool     Tool
	Events   []Event
}

func runReplay(t *testing.T, cmds []Command) replayState {
	t.Helper()

	r := NewRegistry(testSpecStore())
	c := spawnTestEntity(t, r, "e1")
	err := r.AddTool("e1", "tool-1", "beacon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, cmd := range cmds {
		c.Apply(cmd)
	}

	tool, _ := r.ToolState("tool-1")
	tool.spec = nil
	tool.verb = nil
	return replayState{
		Entities: r.Snapshot(),
		Tool:     tool,
		Events:   r.Journal().Drain(),
	}
}

func TestController_Apply_Deterministic(t *testing.T) {
	q1 := mgl64.Quat{W: 0.3, V: mgl64.Vec3{0.1, -0.4, 0.2}}
	q2 := mgl64.Quat{W: -0.8, V: mgl64.Vec3{0.5, 0.05, -0.3}}

	cmds := []Command{
		NewControlCommand("e1", 1, &q1, "primary"),
		NewControlCommand("e1", 2, nil, "secondary", "primary"),
		NewHeartbeatCommand("e1", 3),
		NewControlCommand("e1", 4, &q2),
		NewControlCommand("e1", 5, &q1, "tertiary"),
	}

	first := runReplay(t, cmds)
	second := runReplay(t, cmds)

	// Identical command sequences over identical starting state must land
	// on identical state, down to the float bits.
	if !reflect.DeepEqual(first, second) {
		t.Errorf("replay diverged:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
