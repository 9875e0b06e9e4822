// Package dsl contains the composable subscription words and the fusion
// engine that combines a declared word chain into one installed reaction.
// Each word is capability polymorphic: it may install runtime
// registrations, it may extract typed data per firing, it may adjust
// execution options, or it may do nothing at all. Capabilities are
// explicit interfaces, whether a word participates in a step is a plain
// type assertion.
package dsl

import (
	"github.com/voodooEntity/synapse/src/system/archivist"
	"github.com/voodooEntity/synapse/src/system/codec"
	"github.com/voodooEntity/synapse/src/system/cortex"
)

// Word is one element of a declaration chain. A word implementing none
// of the capability interfaces is a legal inert marker.
type Word interface {
	Name() string
}

// Installer is the install capability: the word performs runtime
// registration for the binding and returns the handles it produced.
// ArgCount declares how many of the declaration's trailing runtime
// arguments this word consumes, which is what the fission splitter
// partitions by.
type Installer interface {
	Word
	ArgCount() int
	Install(b *Binding, args []interface{}) ([]*cortex.Handle, error)
}

// Extractor is the extract capability: the word contributes callback
// arguments for one firing. The embedded cortex contract carries the
// actual methods so the reaction can invoke words without knowing the
// dsl package.
type Extractor interface {
	Word
	cortex.Extractor
}

// OptionWord adjusts the execution options of the reaction under
// construction. Option words install nothing and extract nothing.
type OptionWord interface {
	Word
	Apply(o *cortex.Options)
}

// Binding is the definition time context a word chain installs against:
// the owning reactor, the caller's label, the callback and the shared
// reaction all capable words register. It is created per declaration
// and never reused.
type Binding struct {
	Cortex      *cortex.Cortex
	Codec       *codec.Codec
	Log         *archivist.Archivist
	ReactorName string
	Label       string

	callback   interface{}
	options    cortex.Options
	extractors []cortex.Extractor
	reaction   *cortex.Reaction
}

func NewBinding(cortexInstance *cortex.Cortex, codecInstance *codec.Codec, logger *archivist.Archivist, reactorName string, label string, callback interface{}) *Binding {
	return &Binding{
		Cortex:      cortexInstance,
		Codec:       codecInstance,
		Log:         logger,
		ReactorName: reactorName,
		Label:       label,
		callback:    callback,
		options: cortex.Options{
			Priority: cortex.PRIORITY_NORMAL,
		},
	}
}

// Reaction lazily creates the one reaction this declaration shares
// between all of its install capable words. The first call validates
// the callback signature against the chain's extraction slots.
func (b *Binding) Reaction() (*cortex.Reaction, error) {
	if b.reaction != nil {
		return b.reaction, nil
	}
	reaction, err := cortex.NewReaction(b.ReactorName, b.Label, b.callback, b.extractors, b.options, b.Log)
	if err != nil {
		return nil, err
	}
	b.reaction = reaction
	return reaction, nil
}
