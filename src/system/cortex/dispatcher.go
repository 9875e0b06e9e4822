package cortex

import (
	"sync/atomic"

	"github.com/voodooEntity/synapse/src/system/archivist"
	"github.com/voodooEntity/synapse/src/system/codec"
	"github.com/voodooEntity/synapse/src/system/identity"
)

// Dispatcher is the in-process entry the external executor drives. For
// each emission it assembles one Firing context, deposits the produced
// values in it and walks the installed reactions in registration order.
// Extraction and invocation happen on the calling goroutine, the
// dispatcher never owns threads of its own.
type Dispatcher struct {
	cortex *Cortex
	codec  *codec.Codec
	log    *archivist.Archivist

	inFlight int64
	fired    int64
	skipped  int64
	failed   int64
}

func NewDispatcher(cortexInstance *Cortex, codecInstance *codec.Codec, logger *archivist.Archivist) *Dispatcher {
	return &Dispatcher{
		cortex: cortexInstance,
		codec:  codecInstance,
		log:    logger,
	}
}

// DispatchLocal delivers a locally emitted value to every reaction
// triggering on its type identity. The value also lands in the cortex
// cache for auxiliary data words. Returns the number of callbacks that
// actually ran.
func (d *Dispatcher) DispatchLocal(value interface{}) int {
	id := identity.OfValue(value)
	d.cortex.CacheValue(id, value)

	reactions := d.cortex.TriggerReactions(id)
	d.log.Debug(archivist.DEBUG_LEVEL_TRACE, "dispatch LOCAL identity=", id, " candidates=", len(reactions))
	if 0 == len(reactions) {
		return 0
	}

	firing := NewFiring(d.cortex, d.codec)
	firing.SetValue(id, value)
	return d.drive(reactions, firing)
}

// DispatchNetwork delivers a network scoped emission: the raw payload
// and the sender descriptor go into the firing context, every listener
// registered for the identity extracts independently from it. A nil
// source is deposited as absent, which makes the network word skip.
func (d *Dispatcher) DispatchNetwork(id uint64, payload []byte, source *NetworkSource) int {
	listeners := d.cortex.NetworkListeners(id)
	d.log.Debug(archivist.DEBUG_LEVEL_TRACE, "dispatch NETWORK identity=", id, " candidates=", len(listeners))
	if 0 == len(listeners) {
		return 0
	}

	firing := NewFiring(d.cortex, d.codec)
	firing.SetNetworkPayload(payload)
	if source != nil {
		firing.SetNetworkSource(source)
	}
	return d.drive(listeners, firing)
}

// drive runs extraction and invocation for each candidate against the
// shared firing context. Failures become a diagnostic record, they
// never unwind into the caller.
func (d *Dispatcher) drive(reactions []*Reaction, firing *Firing) int {
	atomic.AddInt64(&d.inFlight, 1)
	defer atomic.AddInt64(&d.inFlight, -1)

	count := 0
	for _, reaction := range reactions {
		fired, err := reaction.Fire(firing)
		if err != nil {
			atomic.AddInt64(&d.failed, 1)
			d.log.Error("dispatch FIRE failed reaction="+reaction.ID()+" error=", err)
			if d.cortex.HistoryEnabled() {
				d.cortex.RecordFiring(reaction, "Failed", err.Error())
			}
			continue
		}
		if !fired {
			atomic.AddInt64(&d.skipped, 1)
			if d.cortex.HistoryEnabled() {
				d.cortex.RecordFiring(reaction, "Skipped", "")
			}
			continue
		}
		atomic.AddInt64(&d.fired, 1)
		count++
		d.log.Debug(archivist.DEBUG_LEVEL_TRACE, "dispatch FIRE done reaction=", reaction.ID())
		if d.cortex.HistoryEnabled() {
			d.cortex.RecordFiring(reaction, "Fired", "")
		}
	}
	return count
}

// InFlight reports how many dispatch calls are currently executing.
func (d *Dispatcher) InFlight() int64 {
	return atomic.LoadInt64(&d.inFlight)
}

// Stats returns the total fired, skipped and failed firing counts.
func (d *Dispatcher) Stats() (int64, int64, int64) {
	return atomic.LoadInt64(&d.fired), atomic.LoadInt64(&d.skipped), atomic.LoadInt64(&d.failed)
}
