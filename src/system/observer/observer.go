package observer

import (
	"time"

	"github.com/voodooEntity/gits"
	"github.com/voodooEntity/synapse/src/system/archivist"
	"github.com/voodooEntity/synapse/src/system/cortex"
)

// Observer watches the dispatcher until the system settles: no dispatch
// call in flight and the firing counters unchanged over several
// consecutive checks. It then executes the provided callback with the
// memory instance so the embedding application can inspect the mirror
// and history entities after the fact.
type Observer struct {
	IdleIncrement int
	dispatcher    *cortex.Dispatcher
	memory        *gits.Gits
	callback      func(memory *gits.Gits)
	log           *archivist.Archivist
	tickFunction  *func(memory *gits.Gits, logger *archivist.Archivist)
	tickRate      int

	lastFired   int64
	lastSkipped int64
	lastFailed  int64
}

func New(dispatcherInstance *cortex.Dispatcher, memory *gits.Gits, cb func(memory *gits.Gits), logger *archivist.Archivist) *Observer {
	logger.Info("Creating observer")
	return &Observer{
		IdleIncrement: 0,
		dispatcher:    dispatcherInstance,
		memory:        memory,
		callback:      cb,
		log:           logger,
		tickRate:      25,
		tickFunction:  nil,
	}
}

func (o *Observer) RegisterTickFunction(tickFn *func(memory *gits.Gits, logger *archivist.Archivist)) {
	o.tickFunction = tickFn
}

func (o *Observer) SetTickRate(tickRate int) {
	o.tickRate = tickRate
}

func (o *Observer) tick() {
	(*o.tickFunction)(o.memory, o.log)
}

// Loop blocks until the system reached idle, then runs the callback.
func (o *Observer) Loop() {
	i := 0
	for !o.ReachedIdle() {
		i++
		o.log.Debug(archivist.DEBUG_LEVEL_MAX, "Observer looping")
		if nil != o.tickFunction && i == o.tickRate {
			o.tick()
			i = 0
		}
		time.Sleep(100 * time.Millisecond)
	}
	o.log.Info("Observer reached idle, executing callback")
	o.callback(o.memory)
}

// ReachedIdle reports whether nothing is in flight and the firing
// counters stayed put for more than 5 consecutive checks.
func (o *Observer) ReachedIdle() bool {
	if 0 < o.dispatcher.InFlight() {
		o.IdleIncrement = 0
		return false
	}
	fired, skipped, failed := o.dispatcher.Stats()
	if fired != o.lastFired || skipped != o.lastSkipped || failed != o.lastFailed {
		o.lastFired = fired
		o.lastSkipped = skipped
		o.lastFailed = failed
		o.IdleIncrement = 0
		return false
	}
	if o.IdleIncrement > 5 {
		return true
	}
	o.IdleIncrement++
	return false
}
