package dsl

import (
	"github.com/voodooEntity/synapse/src/system/archivist"
	"github.com/voodooEntity/synapse/src/system/cortex"
)

// Fuse combines a declared word chain into one installed reaction. It
// runs once per declaration: option words adjust the execution options,
// extract capable words are collected in declaration order to form the
// callback's argument slots, the fission splitter assigns each install
// capable word its runtime argument slice, and finally every install
// capable word registers against the shared reaction, concatenating its
// handles in declaration order.
//
// A chain with no install capable word is a configuration error and
// installs nothing. If a later word's install fails after an earlier
// one succeeded, the earlier registrations stay installed; the partial
// aggregate handle is returned together with the error so the caller
// can disable it.
func Fuse(b *Binding, words []Word, args []interface{}) (*cortex.AggregateHandle, error) {
	if 0 == len(words) {
		return nil, &cortex.CompositionError{Label: b.Label, Reason: "empty word chain"}
	}

	installCapable := 0
	for _, word := range words {
		if optionWord, ok := word.(OptionWord); ok {
			optionWord.Apply(&b.options)
		}
		if extractor, ok := word.(cortex.Extractor); ok {
			b.extractors = append(b.extractors, extractor)
		}
		if _, ok := word.(Installer); ok {
			installCapable++
		}
	}
	if 0 == installCapable {
		return nil, &cortex.CompositionError{Label: b.Label, Reason: "no install capable word in chain"}
	}

	slices, err := rSplitArgs(b.Label, words, args)
	if err != nil {
		return nil, err
	}

	// creating the reaction up front validates the callback signature
	// against the collected slots before anything registers
	if _, err := b.Reaction(); err != nil {
		return nil, err
	}

	b.Log.Debug(archivist.DEBUG_LEVEL_TRACE, "fusion BIND label=", b.Label, " words=", len(words), " installers=", installCapable)
	handles, err := rFuse(b, words, slices)
	aggregate := cortex.NewAggregateHandle(handles)
	if err != nil {
		return aggregate, err
	}
	return aggregate, nil
}

// rFuse recurses over the word chain: an install capable head installs
// with its argument slice and its handles lead the concatenation, a
// non capable head is skipped without affecting order, the empty chain
// yields the empty handle sequence.
func rFuse(b *Binding, words []Word, slices [][]interface{}) ([]*cortex.Handle, error) {
	if 0 == len(words) {
		return nil, nil
	}

	installer, ok := words[0].(Installer)
	if !ok {
		return rFuse(b, words[1:], slices[1:])
	}

	handles, err := installer.Install(b, slices[0])
	if err != nil {
		// no rollback of what already installed, see package docs
		return handles, err
	}
	tail, tailErr := rFuse(b, words[1:], slices[1:])
	return append(handles, tail...), tailErr
}
