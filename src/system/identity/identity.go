package identity

import (
	"fmt"
	"hash/fnv"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Identity is a deterministic 64 bit tag derived from a type's structure.
// Two processes compiling the same type definition arrive at the same
// identity, which makes it usable as a compact cross-process type marker
// in front of encoded payloads.
type Identity = uint64

// Of returns the identity for the type parameter.
func Of[T any]() Identity {
	return OfType(reflect.TypeOf((*T)(nil)).Elem())
}

// OfValue returns the identity of the dynamic type of the given value.
func OfValue(value interface{}) Identity {
	return OfType(reflect.TypeOf(value))
}

// OfType hashes the canonical descriptor of the given type.
func OfType(t reflect.Type) Identity {
	h := fnv.New64a()
	var sb strings.Builder
	rDescribe(t, &sb, map[reflect.Type]bool{})
	h.Write([]byte(sb.String()))
	return h.Sum64()
}

// Describe returns the canonical descriptor string that gets hashed.
// Mostly useful for diagnostics and collision reports.
func Describe(t reflect.Type) string {
	var sb strings.Builder
	rDescribe(t, &sb, map[reflect.Type]bool{})
	return sb.String()
}

// rDescribe recursively writes a canonical structural description of the
// type. Named types contribute their qualified name plus their structure,
// so renaming a field or changing its type changes the identity. Already
// visited types are written as back references to keep recursive types
// from looping.
func rDescribe(t reflect.Type, sb *strings.Builder, seen map[reflect.Type]bool) {
	if t == nil {
		sb.WriteString("<nil>")
		return
	}
	if seen[t] {
		sb.WriteString("@")
		sb.WriteString(qualifiedName(t))
		return
	}
	if t.Name() != "" {
		seen[t] = true
		sb.WriteString(qualifiedName(t))
		sb.WriteString("=")
	}
	switch t.Kind() {
	case reflect.Struct:
		sb.WriteString("struct{")
		for i := 0; i < t.NumField(); i++ {
			if 0 < i {
				sb.WriteString(";")
			}
			field := t.Field(i)
			sb.WriteString(field.Name)
			sb.WriteString(":")
			rDescribe(field.Type, sb, seen)
		}
		sb.WriteString("}")
	case reflect.Ptr:
		sb.WriteString("*")
		rDescribe(t.Elem(), sb, seen)
	case reflect.Slice:
		sb.WriteString("[]")
		rDescribe(t.Elem(), sb, seen)
	case reflect.Array:
		sb.WriteString("[" + strconv.Itoa(t.Len()) + "]")
		rDescribe(t.Elem(), sb, seen)
	case reflect.Map:
		sb.WriteString("map[")
		rDescribe(t.Key(), sb, seen)
		sb.WriteString("]")
		rDescribe(t.Elem(), sb, seen)
	default:
		// basic kinds carry their kind string only, so a plain
		// "type Celsius float64" hashes different from float64
		// via the name prefix above but equal across processes
		sb.WriteString(t.Kind().String())
	}
}

func qualifiedName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// Register tracks every identity handed out to a concrete type and turns
// a hash collision between two distinct types into a synchronous
// configuration error instead of silent misdelivery at dispatch time.
type Register struct {
	mu    sync.RWMutex
	known map[Identity]reflect.Type
}

func NewRegister() *Register {
	return &Register{
		known: make(map[Identity]reflect.Type),
	}
}

// Register computes and stores the identity for the given type.
// Re-registering the same type is a no-op.
func (r *Register) Register(t reflect.Type) (Identity, error) {
	id := OfType(t)
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.known[id]; ok {
		if existing != t {
			return 0, fmt.Errorf("identity collision: %d maps to both %s and %s", id, existing.String(), t.String())
		}
		return id, nil
	}
	r.known[id] = t
	return id, nil
}

// Resolve returns the registered type for an identity.
func (r *Register) Resolve(id Identity) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.known[id]
	return t, ok
}

// Known returns all registered identities in ascending order.
func (r *Register) Known() []Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]Identity, 0, len(r.known))
	for id := range r.known {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
