package dsl

import (
	"reflect"

	"github.com/voodooEntity/synapse/src/system/cortex"
	"github.com/voodooEntity/synapse/src/system/identity"
)

// WithWord requires the most recent locally emitted value of one type
// as an auxiliary callback argument without triggering on it. Extract
// only; if nothing of the type was ever emitted the firing is skipped.
type WithWord struct {
	typ reflect.Type
	id  uint64
}

// With declares a required, non triggering data dependency on type T.
func With[T any]() *WithWord {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return &WithWord{
		typ: t,
		id:  identity.OfType(t),
	}
}

func (w *WithWord) Name() string {
	return "With<" + w.typ.String() + ">"
}

func (w *WithWord) SlotTypes() []reflect.Type {
	return []reflect.Type{w.typ}
}

func (w *WithWord) Extract(f *cortex.Firing) ([]interface{}, error) {
	value, ok := f.Cached(w.id)
	if !ok {
		return nil, cortex.ErrNoData
	}
	return []interface{}{value}, nil
}
