package codec

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/voodooEntity/synapse/src/system/identity"
)

// Codec binds type identities to concrete Go types and moves values
// in and out of their encoded form. The byte layout is this package's
// business alone; everything else in the system only ever sees the
// (identity, payload) pair.
type Codec struct {
	register *identity.Register
}

// DecodeError is returned when a payload does not decode into the type
// registered for its identity.
type DecodeError struct {
	Identity uint64
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failed for identity %d: %v", e.Identity, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func New() *Codec {
	return &Codec{
		register: identity.NewRegister(),
	}
}

// RegisterType registers T and returns its identity. Identity collisions
// between distinct types are a configuration error and surface here,
// never at dispatch time.
func RegisterType[T any](c *Codec) (uint64, error) {
	return c.Register(reflect.TypeOf((*T)(nil)).Elem())
}

func (c *Codec) Register(t reflect.Type) (uint64, error) {
	return c.register.Register(t)
}

// Encode serializes a value and returns it together with the identity
// of its dynamic type. The type gets registered on the fly so a later
// Decode on the same codec can resolve it.
func (c *Codec) Encode(value interface{}) (uint64, []byte, error) {
	id, err := c.register.Register(reflect.TypeOf(value))
	if err != nil {
		return 0, nil, err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return 0, nil, fmt.Errorf("encode failed for identity %d: %w", id, err)
	}
	return id, raw, nil
}

// Decode resolves the registered type for the identity and unmarshals
// the payload into a fresh value of it.
func (c *Codec) Decode(id uint64, raw []byte) (interface{}, error) {
	t, ok := c.register.Resolve(id)
	if !ok {
		return nil, &DecodeError{Identity: id, Err: fmt.Errorf("no type registered")}
	}
	target := reflect.New(t)
	if err := json.Unmarshal(raw, target.Interface()); err != nil {
		return nil, &DecodeError{Identity: id, Err: err}
	}
	return target.Elem().Interface(), nil
}

// Resolve exposes the registered type for an identity, mainly for
// definition time diagnostics.
func (c *Codec) Resolve(id uint64) (reflect.Type, bool) {
	return c.register.Resolve(id)
}
