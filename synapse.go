// Package synapse is a reactive event-dispatch runtime: independent
// reactors declare reactions by composing subscription words, the
// fusion engine installs them, and an external executor drives the
// dispatcher to fire them. The runtime itself never owns threads, it
// composes at definition time and extracts/invokes on whatever
// goroutine the executor provides.
package synapse

import (
	"sync"

	"github.com/voodooEntity/gits"
	"github.com/voodooEntity/synapse/src/system/archivist"
	"github.com/voodooEntity/synapse/src/system/codec"
	"github.com/voodooEntity/synapse/src/system/cortex"
	"github.com/voodooEntity/synapse/src/system/dsl"
	"github.com/voodooEntity/synapse/src/system/interfaces"
	"github.com/voodooEntity/synapse/src/system/observer"
)

type Settings struct {
	Ident      string
	LogLevel   int
	DebugLevel int
	Logger     interfaces.LoggerInterface
	History    bool
}

type Synapse struct {
	ident      string
	memory     *gits.Gits
	log        *archivist.Archivist
	codec      *codec.Codec
	cortex     *cortex.Cortex
	dispatcher *cortex.Dispatcher
}

// New creates a runtime instance. Ident names the backing gits storage
// instance which also becomes the default instance, the way the rest
// of the voodooEntity stack expects it.
func New(settings Settings) *Synapse {
	ident := settings.Ident
	if "" == ident {
		ident = "Synapse"
	}

	memory := gits.NewInstance(ident)
	gits.SetDefault(ident)

	logger := archivist.New(&archivist.Config{
		Logger:     settings.Logger,
		LogLevel:   settings.LogLevel,
		DebugLevel: settings.DebugLevel,
	})

	codecInstance := codec.New()
	cortexInstance := cortex.New(memory, logger, settings.History)
	dispatcherInstance := cortex.NewDispatcher(cortexInstance, codecInstance, logger)

	logger.Info("Synapse instance created ident=" + ident)
	return &Synapse{
		ident:      ident,
		memory:     memory,
		log:        logger,
		codec:      codecInstance,
		cortex:     cortexInstance,
		dispatcher: dispatcherInstance,
	}
}

// NewReactor creates a named declaration surface owning the reactions
// it declares.
func (s *Synapse) NewReactor(name string) *Reactor {
	return &Reactor{
		name:    name,
		synapse: s,
	}
}

// Emit dispatches a locally emitted value to every reaction triggering
// on its type. Returns the number of callbacks that ran.
func (s *Synapse) Emit(value interface{}) int {
	return s.dispatcher.DispatchLocal(value)
}

// ReceiveNetwork feeds an already encoded network emission into the
// dispatcher, the entry an actual transport would call on receive.
func (s *Synapse) ReceiveNetwork(id uint64, payload []byte, source *cortex.NetworkSource) int {
	return s.dispatcher.DispatchNetwork(id, payload, source)
}

// EmitNetwork encodes a value and loops it back through the network
// dispatch path as if it arrived from the given source.
func (s *Synapse) EmitNetwork(value interface{}, source *cortex.NetworkSource) (int, error) {
	id, payload, err := s.codec.Encode(value)
	if err != nil {
		return 0, err
	}
	return s.ReceiveNetwork(id, payload, source), nil
}

// GetObserverInstance returns an observer that blocks until dispatching
// settled and then runs the given callback with the memory instance.
func (s *Synapse) GetObserverInstance(cb func(memory *gits.Gits)) *observer.Observer {
	return observer.New(s.dispatcher, s.memory, cb, s.log)
}

func (s *Synapse) Cortex() *cortex.Cortex {
	return s.cortex
}

func (s *Synapse) Codec() *codec.Codec {
	return s.codec
}

func (s *Synapse) Dispatcher() *cortex.Dispatcher {
	return s.dispatcher
}

func (s *Synapse) Memory() *gits.Gits {
	return s.memory
}

// Reactor is the user facing declaration surface. It owns every
// aggregate handle its declarations produced and tears them down
// together on Shutdown.
type Reactor struct {
	name       string
	synapse    *Synapse
	mu         sync.Mutex
	aggregates []*cortex.AggregateHandle
}

func (r *Reactor) Name() string {
	return r.name
}

// On resolves the word chain, runs fusion and stores the resulting
// aggregate handle against this reactor. Definition time problems are
// returned synchronously and affect this one declaration only.
func (r *Reactor) On(label string, callback interface{}, words ...dsl.Word) (*cortex.AggregateHandle, error) {
	return r.OnWithArgs(label, callback, words)
}

// OnWithArgs is On with trailing runtime arguments for the word chain;
// the fission splitter hands each install capable word exactly the
// slice its signature declares.
func (r *Reactor) OnWithArgs(label string, callback interface{}, words []dsl.Word, args ...interface{}) (*cortex.AggregateHandle, error) {
	binding := dsl.NewBinding(r.synapse.cortex, r.synapse.codec, r.synapse.log, r.name, label, callback)
	aggregate, err := dsl.Fuse(binding, words, args)
	if aggregate != nil && 0 < len(aggregate.Handles()) {
		// partial installs on error stay owned by the reactor so a
		// later Shutdown still cleans them up
		r.mu.Lock()
		r.aggregates = append(r.aggregates, aggregate)
		r.mu.Unlock()
	}
	return aggregate, err
}

// Shutdown disables and removes every reaction this reactor installed.
func (r *Reactor) Shutdown() {
	r.mu.Lock()
	aggregates := r.aggregates
	r.aggregates = nil
	r.mu.Unlock()

	removed := make(map[*cortex.Reaction]bool)
	for _, aggregate := range aggregates {
		for _, handle := range aggregate.Handles() {
			reaction := handle.Reaction()
			if removed[reaction] {
				continue
			}
			removed[reaction] = true
			r.synapse.cortex.Remove(reaction)
		}
	}
}
