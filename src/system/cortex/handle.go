package cortex

// Handle is the external control object for one installed registration.
// It only holds a back reference to the reaction, dropping it never
// touches the registry.
type Handle struct {
	reaction *Reaction
	cortex   *Cortex
}

// Enable re-activates the reaction. Enabling an enabled handle is a no-op.
func (h *Handle) Enable() {
	if h.reaction.Enabled() {
		return
	}
	h.reaction.Enable()
	h.cortex.recordStateChange(h.reaction, "Enabled")
}

// Disable deactivates the reaction. Race-safe against in-flight firings:
// a firing that already passed the enabled check completes, later
// dispatch attempts reject at lookup. Disabling twice yields the same
// disabled state without error.
func (h *Handle) Disable() {
	if !h.reaction.Enabled() {
		return
	}
	h.reaction.Disable()
	h.cortex.recordStateChange(h.reaction, "Disabled")
}

func (h *Handle) Enabled() bool {
	return h.reaction.Enabled()
}

func (h *Handle) Reaction() *Reaction {
	return h.reaction
}

// Identifier exposes the diagnostic identity of the underlying reaction.
func (h *Handle) Identifier() []string {
	return h.reaction.Identifier()
}

// AggregateHandle controls every registration one declaration produced
// as a single unit.
type AggregateHandle struct {
	handles []*Handle
}

func NewAggregateHandle(handles []*Handle) *AggregateHandle {
	return &AggregateHandle{handles: handles}
}

func (a *AggregateHandle) Enable() {
	for _, h := range a.handles {
		h.Enable()
	}
}

func (a *AggregateHandle) Disable() {
	for _, h := range a.handles {
		h.Disable()
	}
}

func (a *AggregateHandle) Handles() []*Handle {
	return a.handles
}
