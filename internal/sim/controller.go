package sim

// Controller applies commands to one target entity. The binding is weak:
// the target is re-resolved through the Registry on every command, never
// cached across commands, so a controller whose entity despawned quietly
// absorbs everything sent to it.
//
// Apply never returns an error and never logs. Commands routinely arrive
// after the state they were aimed at is gone (latency, despawns, dropped
// tools); those are expected no-ops, not failures.
type Controller struct {
	Kind string
	ID   string

	reg      *Registry
	target   EntityID
	lastSeen uint64
}

// Target returns the currently bound entity id, which may no longer resolve.
func (c *Controller) Target() EntityID {
	c.reg.mu.RLock()
	defer c.reg.mu.RUnlock()
	return c.target
}

// Bind points the controller at a different entity. Rebinding does not
// touch either entity's state.
func (c *Controller) Bind(target EntityID) {
	c.reg.mu.Lock()
	defer c.reg.mu.Unlock()
	c.target = target
}

// Unbind detaches the controller; subsequent commands are no-ops.
func (c *Controller) Unbind() {
	c.Bind("")
}

// LastSeen returns the sequence number of the newest heartbeat applied.
func (c *Controller) LastSeen() uint64 {
	c.reg.mu.RLock()
	defer c.reg.mu.RUnlock()
	return c.lastSeen
}

// Apply consumes one command. Application order for control commands is
// fixed: target resolution, then orientation replacement, then tool
// actions. Reordering would change replayed state.
func (c *Controller) Apply(cmd Command) {
	switch cmd.Kind {
	case KindControl:
		c.applyControl(cmd)
	case KindHeartbeat:
		c.applyHeartbeat(cmd)
	}
}

func (c *Controller) applyControl(cmd Command) {
	c.reg.mu.Lock()
	defer c.reg.mu.Unlock()

	// 1. Resolve the target. Unbound or despawned: total no-op.
	if c.target == "" {
		return
	}
	target, ok := c.reg.entities[c.target]
	if !ok {
		return
	}

	// 2. Orientation is an absolute replacement, never integrated.
	if cmd.Orientation != nil {
		target.Orientation = *cmd.Orientation
	}

	// 3. Actions need a held tool; bare hands drop them.
	if len(cmd.Actions) == 0 {
		return
	}
	if target.Tool == "" {
		return
	}
	tool, ok := c.reg.tools[target.Tool]
	if !ok {
		return
	}

	for _, action := range cmd.Actions {
		ev, ok := tool.use(target, action)
		if ok {
			c.reg.journal.record(ev)
		}
	}

	// 4. Translation is not applied here. Movement layers on top of this
	// contract separately.
}

func (c *Controller) applyHeartbeat(cmd Command) {
	c.reg.mu.Lock()
	defer c.reg.mu.Unlock()

	if cmd.Seq > c.lastSeen {
		c.lastSeen = cmd.Seq
	}
}
