package dsl

import (
	"reflect"

	"github.com/voodooEntity/synapse/src/system/cortex"
	"github.com/voodooEntity/synapse/src/system/identity"
)

// NetworkWord subscribes the reaction to network scoped emissions of
// one payload type. Install registers a listen record binding the
// type's identity to the reaction through the direct registration
// channel. Extract reads the raw payload and the sender descriptor the
// dispatcher deposited for this firing and decodes the payload via the
// codec, keyed by the same identity used at install. Both values must
// be present, otherwise the firing was not network scoped and gets
// skipped without a decode attempt.
type NetworkWord struct {
	typ reflect.Type
	id  uint64
}

// Network declares that network emissions carrying type T fire the
// reaction, with the sender descriptor and the decoded value as
// callback arguments.
func Network[T any]() *NetworkWord {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return &NetworkWord{
		typ: t,
		id:  identity.OfType(t),
	}
}

func (w *NetworkWord) Name() string {
	return "Network<" + w.typ.String() + ">"
}

func (w *NetworkWord) ArgCount() int {
	return 0
}

func (w *NetworkWord) Install(b *Binding, args []interface{}) ([]*cortex.Handle, error) {
	// bind the payload type in the codec so dispatch time decoding can
	// resolve it; a hash collision with a different registered type
	// surfaces here as a definition time error
	if _, err := b.Codec.Register(w.typ); err != nil {
		return nil, err
	}
	reaction, err := b.Reaction()
	if err != nil {
		return nil, err
	}
	handle := b.Cortex.EmitDirect(cortex.NetworkListen{
		Identity: w.id,
		Reaction: reaction,
	})
	return []*cortex.Handle{handle}, nil
}

func (w *NetworkWord) SlotTypes() []reflect.Type {
	return []reflect.Type{
		reflect.TypeOf((*cortex.NetworkSource)(nil)),
		w.typ,
	}
}

func (w *NetworkWord) Extract(f *cortex.Firing) ([]interface{}, error) {
	payload, hasPayload := f.NetworkPayload()
	source, hasSource := f.NetworkSource()
	if !hasPayload || !hasSource {
		return nil, cortex.ErrNoData
	}
	decoded, err := f.Codec().Decode(w.id, payload)
	if err != nil {
		return nil, err
	}
	return []interface{}{source, decoded}, nil
}
