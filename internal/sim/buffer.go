package sim

import "sync"

// CommandBuffer is a fixed-capacity ring of staged commands. Input capture
// pushes from the UI goroutine; the outbound pump drains on driver ticks.
// When the ring is full new commands are rejected rather than overwriting
// staged ones, and the drop is counted.
type CommandBuffer struct {
	mu      sync.Mutex
	ring    []Command
	start   int
	count   int
	dropped uint64
}

func NewCommandBuffer(capacity int) *CommandBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &CommandBuffer{
		ring: make([]Command, capacity),
	}
}

// Push stages a command. It reports false when the buffer is full.
func (b *CommandBuffer) Push(cmd Command) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == len(b.ring) {
		b.dropped++
		return false
	}

	idx := (b.start + b.count) % len(b.ring)
	b.ring[idx] = cmd
	b.count++
	return true
}

// Drain removes and returns all staged commands in push order.
func (b *CommandBuffer) Drain() []Command {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		return nil
	}

	out := make([]Command, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.ring[(b.start+i)%len(b.ring)]
	}
	b.start = 0
	b.count = 0
	return out
}

func (b *CommandBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Dropped returns the number of commands rejected because the ring was full.
func (b *CommandBuffer) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
