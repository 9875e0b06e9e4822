package cortex

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/voodooEntity/gits"
	"github.com/voodooEntity/gits/src/query"
	"github.com/voodooEntity/gits/src/transport"
	"github.com/voodooEntity/synapse/src/system/archivist"
)

var stateChangeSequence int64

// Cortex is the trigger registry: it maps type identities to the ordered
// list of installed reactions, separately for local and network scoped
// emissions. Installs take the write lock, the dispatcher's lookups only
// ever take the read lock since installing is rare compared to firing.
//
// Every registration is additionally mirrored into gits as a graph
// entity, together with its later state changes and (when history mode
// is on) its firings, so a running system can be inspected by query the
// same way the rest of the voodooEntity stack does it.
type Cortex struct {
	mu       sync.RWMutex
	triggers map[uint64][]*Reaction
	network  map[uint64][]*Reaction

	cacheMu sync.RWMutex
	cache   map[uint64]interface{}

	memory  *gits.Gits
	log     *archivist.Archivist
	history bool
}

func New(memory *gits.Gits, logger *archivist.Archivist, history bool) *Cortex {
	return &Cortex{
		triggers: make(map[uint64][]*Reaction),
		network:  make(map[uint64][]*Reaction),
		cache:    make(map[uint64]interface{}),
		memory:   memory,
		log:      logger,
		history:  history,
	}
}

// RegisterTrigger installs a reaction for locally emitted values of the
// given identity. The registration is visible to lookups before the
// call returns. Duplicate installs for the same tuple simply append,
// they are not an error.
func (c *Cortex) RegisterTrigger(id uint64, reaction *Reaction) *Handle {
	c.mu.Lock()
	c.triggers[id] = append(c.triggers[id], reaction)
	c.mu.Unlock()
	c.log.Debug(archivist.DEBUG_LEVEL_TRACE, "registry INSTALL scope=Local identity=", id, " reaction=", reaction.ID())
	c.mapRegistration(reaction, "Local", id)
	return &Handle{reaction: reaction, cortex: c}
}

// EmitDirect is the synchronous, immediately visible registration
// channel the network word emits its listen record through.
func (c *Cortex) EmitDirect(listen NetworkListen) *Handle {
	c.mu.Lock()
	c.network[listen.Identity] = append(c.network[listen.Identity], listen.Reaction)
	c.mu.Unlock()
	c.log.Debug(archivist.DEBUG_LEVEL_TRACE, "registry INSTALL scope=Network identity=", listen.Identity, " reaction=", listen.Reaction.ID())
	c.mapRegistration(listen.Reaction, "Network", listen.Identity)
	return &Handle{reaction: listen.Reaction, cortex: c}
}

// TriggerReactions returns the reactions installed for a local identity,
// in installation order. The returned slice is a copy, safe to iterate
// while other reactors install concurrently.
func (c *Cortex) TriggerReactions(id uint64) []*Reaction {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*Reaction(nil), c.triggers[id]...)
}

// NetworkListeners returns the reactions listening for a network
// identity, in installation order.
func (c *Cortex) NetworkListeners(id uint64) []*Reaction {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*Reaction(nil), c.network[id]...)
}

// Remove drops a reaction from every registration list it appears in
// and records the removal in the mirror. Used on reactor teardown.
func (c *Cortex) Remove(reaction *Reaction) {
	reaction.Disable()
	c.mu.Lock()
	for id, list := range c.triggers {
		c.triggers[id] = removeReaction(list, reaction)
	}
	for id, list := range c.network {
		c.network[id] = removeReaction(list, reaction)
	}
	c.mu.Unlock()
	c.log.Debug(archivist.DEBUG_LEVEL_TRACE, "registry REMOVE reaction=", reaction.ID())
	c.recordStateChange(reaction, "Removed")
}

func removeReaction(list []*Reaction, reaction *Reaction) []*Reaction {
	var kept []*Reaction
	for _, r := range list {
		if r != reaction {
			kept = append(kept, r)
		}
	}
	return kept
}

// CacheValue stores the most recent locally emitted value for an
// identity so auxiliary data words can pick it up at firing time.
func (c *Cortex) CacheValue(id uint64, value interface{}) {
	c.cacheMu.Lock()
	c.cache[id] = value
	c.cacheMu.Unlock()
}

func (c *Cortex) CachedValue(id uint64) (interface{}, bool) {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()
	v, ok := c.cache[id]
	return v, ok
}

func (c *Cortex) HistoryEnabled() bool {
	return c.history
}

func (c *Cortex) Memory() *gits.Gits {
	return c.memory
}

// mapRegistration mirrors a fresh registration into storage.
func (c *Cortex) mapRegistration(reaction *Reaction, scope string, id uint64) {
	if nil == c.memory {
		return
	}
	options := reaction.Options()
	c.memory.MapData(transport.TransportEntity{
		ID:      0,
		Type:    "Reaction",
		Value:   reaction.ID(),
		Context: "System",
		Properties: map[string]string{
			"Label":    reaction.Label(),
			"Reactor":  reaction.ReactorName(),
			"Callback": reaction.Identifier()[2],
			"Scope":    scope,
			"Identity": strconv.FormatUint(id, 10),
			"State":    "Enabled",
			"Priority": options.Priority.String(),
			"Sync":     options.SyncToken,
			"Single":   strconv.FormatBool(options.Single),
		},
	})
}

// recordStateChange appends a StateChange entity and links it below the
// mirrored reaction. The mirror is append-only, the latest child is the
// current state.
func (c *Cortex) recordStateChange(reaction *Reaction, state string) {
	if nil == c.memory {
		return
	}
	seq := atomic.AddInt64(&stateChangeSequence, 1)
	changeID := reaction.ID() + "@" + strconv.FormatInt(seq, 10)
	c.memory.MapData(transport.TransportEntity{
		ID:      0,
		Type:    "StateChange",
		Value:   changeID,
		Context: "System",
		Properties: map[string]string{
			"State": state,
		},
	})
	qry := query.New().Link("Reaction").Match("Value", "==", reaction.ID()).To(
		query.New().Find("StateChange").Match("Value", "==", changeID),
	)
	c.memory.Query().Execute(qry)
	c.log.Debug(archivist.DEBUG_LEVEL_TRACE, "registry STATE reaction=", reaction.ID(), " state=", state)
}

// RecordFiring appends a Firing entity below the mirrored reaction.
// Only called by the dispatcher when history mode is on.
func (c *Cortex) RecordFiring(reaction *Reaction, result string, detail string) {
	if nil == c.memory {
		return
	}
	seq := atomic.AddInt64(&stateChangeSequence, 1)
	firingID := reaction.ID() + "!" + strconv.FormatInt(seq, 10)
	c.memory.MapData(transport.TransportEntity{
		ID:      0,
		Type:    "Firing",
		Value:   firingID,
		Context: "System",
		Properties: map[string]string{
			"Result": result,
			"Detail": detail,
		},
	})
	qry := query.New().Link("Reaction").Match("Value", "==", reaction.ID()).To(
		query.New().Find("Firing").Match("Value", "==", firingID),
	)
	c.memory.Query().Execute(qry)
}

// History returns every mirrored reaction entity currently in storage.
func (c *Cortex) History() transport.Transport {
	if nil == c.memory {
		return transport.Transport{}
	}
	qry := query.New().Read("Reaction")
	return c.memory.Query().Execute(qry)
}
