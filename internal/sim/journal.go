package sim

import "sync"

// Event records one tool use for the session journal. Events surface in the
// HUD and are the observable trace replays are checked against.
type Event struct {
	Seq    uint64
	Actor  EntityID
	Tool   ToolID
	Action Action
	Text   string
}

// Journal is an append-only buffer of events. The HUD drains it on refresh.
type Journal struct {
	mu     sync.Mutex
	events []Event
	next   uint64
}

func NewJournal() *Journal {
	return &Journal{}
}

func (j *Journal) record(ev Event) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.next++
	ev.Seq = j.next
	j.events = append(j.events, ev)
}

// Drain removes and returns all recorded events in order.
func (j *Journal) Drain() []Event {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(j.events) == 0 {
		return nil
	}

	out := j.events
	j.events = nil
	return out
}

func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.events)
}
