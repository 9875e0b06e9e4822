package identity

import (
	"reflect"
	"strings"
	"testing"
)

type position struct {
	X float64
	Y float64
}

type velocity struct {
	X float64
	Y float64
}

type nested struct {
	Pos  position
	Tags []string
	Meta map[string]int
}

type ring struct {
	Next *ring
	Val  int
}

func TestIdentityDeterministic(t *testing.T) {
	first := Of[position]()
	second := Of[position]()
	if first != second {
		t.Errorf("identity not deterministic: %d != %d", first, second)
	}
	if first != OfType(reflect.TypeOf(position{})) {
		t.Errorf("Of and OfType disagree")
	}
	if first != OfValue(position{X: 1}) {
		t.Errorf("Of and OfValue disagree")
	}
}

func TestIdentityDistinguishesTypes(t *testing.T) {
	// same field layout, different name
	if Of[position]() == Of[velocity]() {
		t.Errorf("identically shaped but distinct types must not share an identity")
	}
	if Of[position]() == Of[nested]() {
		t.Errorf("distinct structures must not share an identity")
	}
	if Of[int]() == Of[int64]() {
		t.Errorf("distinct basic kinds must not share an identity")
	}
}

func TestIdentityRecursiveType(t *testing.T) {
	// must terminate and stay deterministic
	first := Of[ring]()
	second := Of[ring]()
	if first != second {
		t.Errorf("recursive type identity not deterministic")
	}
}

func TestDescribeContainsStructure(t *testing.T) {
	desc := Describe(reflect.TypeOf(position{}))
	if desc == "" {
		t.Fatalf("empty descriptor")
	}
	// renaming a field must change the descriptor, so field names
	// have to appear in it
	for _, want := range []string{"X", "Y", "float64"} {
		if !strings.Contains(desc, want) {
			t.Errorf("descriptor %q misses %q", desc, want)
		}
	}
}

func TestRegisterSameTypeTwice(t *testing.T) {
	register := NewRegister()
	first, err := register.Register(reflect.TypeOf(position{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := register.Register(reflect.TypeOf(position{}))
	if err != nil {
		t.Fatalf("re-registering the same type must be a no-op, got: %v", err)
	}
	if first != second {
		t.Errorf("re-registration changed the identity")
	}
}

func TestRegisterResolve(t *testing.T) {
	register := NewRegister()
	id, err := register.Register(reflect.TypeOf(position{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resolved, ok := register.Resolve(id)
	if !ok {
		t.Fatalf("registered identity not resolvable")
	}
	if resolved != reflect.TypeOf(position{}) {
		t.Errorf("resolved wrong type: %s", resolved.String())
	}
	if _, ok := register.Resolve(id + 1); ok {
		t.Errorf("unknown identity must not resolve")
	}
	if len(register.Known()) != 1 {
		t.Errorf("expected exactly one known identity")
	}
}
