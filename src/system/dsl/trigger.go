package dsl

import (
	"reflect"

	"github.com/voodooEntity/synapse/src/system/cortex"
	"github.com/voodooEntity/synapse/src/system/identity"
)

// TriggerWord subscribes the reaction to local emissions of one type
// and feeds the emitted value into the callback. Implements install
// and extract.
type TriggerWord struct {
	typ reflect.Type
	id  uint64
}

// Trigger declares that locally emitted values of type T fire the
// reaction, with the value as a callback argument.
func Trigger[T any]() *TriggerWord {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return &TriggerWord{
		typ: t,
		id:  identity.OfType(t),
	}
}

func (w *TriggerWord) Name() string {
	return "Trigger<" + w.typ.String() + ">"
}

func (w *TriggerWord) ArgCount() int {
	return 0
}

func (w *TriggerWord) Install(b *Binding, args []interface{}) ([]*cortex.Handle, error) {
	reaction, err := b.Reaction()
	if err != nil {
		return nil, err
	}
	handle := b.Cortex.RegisterTrigger(w.id, reaction)
	return []*cortex.Handle{handle}, nil
}

func (w *TriggerWord) SlotTypes() []reflect.Type {
	return []reflect.Type{w.typ}
}

func (w *TriggerWord) Extract(f *cortex.Firing) ([]interface{}, error) {
	value, ok := f.Value(w.id)
	if !ok {
		return nil, cortex.ErrNoData
	}
	return []interface{}{value}, nil
}
