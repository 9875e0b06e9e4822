package cortex

import (
	"errors"
	"io"
	"log"
	"reflect"
	"testing"

	"github.com/voodooEntity/synapse/src/system/archivist"
)

// staticExtractor feeds fixed values, or reports missing data / a
// failure, depending on how the test configures it.
type staticExtractor struct {
	types  []reflect.Type
	values []interface{}
	err    error
}

func (e *staticExtractor) SlotTypes() []reflect.Type {
	return e.types
}

func (e *staticExtractor) Extract(f *Firing) ([]interface{}, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.values, nil
}

func quietLogger() *archivist.Archivist {
	return archivist.New(&archivist.Config{Logger: log.New(io.Discard, "", 0)})
}

func intExtractor(value int, err error) *staticExtractor {
	return &staticExtractor{
		types:  []reflect.Type{reflect.TypeOf(0)},
		values: []interface{}{value},
		err:    err,
	}
}

func TestNewReactionRejectsNonFunction(t *testing.T) {
	_, err := NewReaction("TestReactor", "bad", 42, nil, Options{}, quietLogger())
	var compErr *CompositionError
	if !errors.As(err, &compErr) {
		t.Fatalf("expected CompositionError, got %v", err)
	}
}

func TestNewReactionRejectsSlotMismatch(t *testing.T) {
	// one int slot, callback wants two parameters
	_, err := NewReaction("TestReactor", "bad", func(a int, b int) {}, []Extractor{intExtractor(1, nil)}, Options{}, quietLogger())
	if err == nil {
		t.Fatalf("parameter count mismatch must fail at definition time")
	}

	// one int slot, callback wants a string
	_, err = NewReaction("TestReactor", "bad", func(a string) {}, []Extractor{intExtractor(1, nil)}, Options{}, quietLogger())
	if err == nil {
		t.Fatalf("parameter type mismatch must fail at definition time")
	}
}

func TestNewReactionRejectsBadReturns(t *testing.T) {
	if _, err := NewReaction("TestReactor", "bad", func() int { return 0 }, nil, Options{}, quietLogger()); err == nil {
		t.Fatalf("non-error return must be rejected")
	}
	if _, err := NewReaction("TestReactor", "bad", func() (error, error) { return nil, nil }, nil, Options{}, quietLogger()); err == nil {
		t.Fatalf("multiple returns must be rejected")
	}
	if _, err := NewReaction("TestReactor", "ok", func() error { return nil }, nil, Options{}, quietLogger()); err != nil {
		t.Fatalf("single error return must be accepted, got %v", err)
	}
}

func TestReactionFireInvokesCallback(t *testing.T) {
	got := -1
	reaction, err := NewReaction("TestReactor", "fire", func(v int) { got = v }, []Extractor{intExtractor(7, nil)}, Options{}, quietLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fired, err := reaction.Fire(NewFiring(nil, nil))
	if err != nil || !fired {
		t.Fatalf("expected clean firing, fired=%v err=%v", fired, err)
	}
	if got != 7 {
		t.Errorf("callback got %d, want 7", got)
	}
}

func TestReactionFireSkipsOnMissingData(t *testing.T) {
	invoked := false
	reaction, err := NewReaction("TestReactor", "skip", func(v int) { invoked = true }, []Extractor{intExtractor(0, ErrNoData)}, Options{}, quietLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fired, err := reaction.Fire(NewFiring(nil, nil))
	if err != nil {
		t.Fatalf("missing data must be a silent skip, got %v", err)
	}
	if fired || invoked {
		t.Errorf("firing must be skipped entirely on missing data")
	}
}

func TestReactionFireReportsExtractError(t *testing.T) {
	boom := errors.New("boom")
	reaction, err := NewReaction("TestReactor", "fail", func(v int) {}, []Extractor{intExtractor(0, boom)}, Options{}, quietLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fired, err := reaction.Fire(NewFiring(nil, nil))
	if fired {
		t.Errorf("failed extraction must not invoke the callback")
	}
	if !errors.Is(err, boom) {
		t.Errorf("extract error not surfaced, got %v", err)
	}
}

func TestReactionFireRecoversPanic(t *testing.T) {
	reaction, err := NewReaction("TestReactor", "panic", func(v int) { panic("nope") }, []Extractor{intExtractor(1, nil)}, Options{}, quietLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fired, err := reaction.Fire(NewFiring(nil, nil))
	if fired {
		t.Errorf("panicking callback must not count as fired")
	}
	if err == nil {
		t.Errorf("panic must surface as a diagnostic error")
	}
}

func TestReactionFireDisabled(t *testing.T) {
	invoked := false
	reaction, _ := NewReaction("TestReactor", "off", func(v int) { invoked = true }, []Extractor{intExtractor(1, nil)}, Options{}, quietLogger())
	reaction.Disable()
	fired, err := reaction.Fire(NewFiring(nil, nil))
	if fired || invoked || err != nil {
		t.Errorf("disabled reaction must not fire, fired=%v invoked=%v err=%v", fired, invoked, err)
	}
}

func TestRegistryOrderAndLookup(t *testing.T) {
	cortexInstance := New(nil, quietLogger(), false)
	first, _ := NewReaction("TestReactor", "first", func(v int) {}, []Extractor{intExtractor(1, nil)}, Options{}, quietLogger())
	second, _ := NewReaction("TestReactor", "second", func(v int) {}, []Extractor{intExtractor(2, nil)}, Options{}, quietLogger())

	cortexInstance.RegisterTrigger(42, first)
	cortexInstance.RegisterTrigger(42, second)

	reactions := cortexInstance.TriggerReactions(42)
	if len(reactions) != 2 {
		t.Fatalf("expected 2 reactions, got %d", len(reactions))
	}
	if reactions[0] != first || reactions[1] != second {
		t.Errorf("registration order not preserved")
	}
	if len(cortexInstance.TriggerReactions(43)) != 0 {
		t.Errorf("unknown identity must yield nothing")
	}
}

func TestEmitDirectImmediatelyVisible(t *testing.T) {
	cortexInstance := New(nil, quietLogger(), false)
	reaction, _ := NewReaction("TestReactor", "net", func(v int) {}, []Extractor{intExtractor(1, nil)}, Options{}, quietLogger())
	handle := cortexInstance.EmitDirect(NetworkListen{Identity: 9, Reaction: reaction})
	if handle == nil {
		t.Fatalf("expected a handle")
	}
	if len(cortexInstance.NetworkListeners(9)) != 1 {
		t.Fatalf("registration must be visible before EmitDirect returns")
	}
}

func TestHandleDisableIdempotent(t *testing.T) {
	cortexInstance := New(nil, quietLogger(), false)
	reaction, _ := NewReaction("TestReactor", "toggle", func(v int) {}, []Extractor{intExtractor(1, nil)}, Options{}, quietLogger())
	handle := cortexInstance.RegisterTrigger(1, reaction)

	handle.Disable()
	if handle.Enabled() {
		t.Fatalf("handle still enabled after disable")
	}
	// disabling twice yields the same disabled state without error
	handle.Disable()
	if handle.Enabled() {
		t.Fatalf("second disable changed the state")
	}
	handle.Enable()
	if !handle.Enabled() {
		t.Fatalf("handle not enabled after enable")
	}
}

func TestRemoveDropsRegistrations(t *testing.T) {
	cortexInstance := New(nil, quietLogger(), false)
	reaction, _ := NewReaction("TestReactor", "gone", func(v int) {}, []Extractor{intExtractor(1, nil)}, Options{}, quietLogger())
	cortexInstance.RegisterTrigger(5, reaction)
	cortexInstance.EmitDirect(NetworkListen{Identity: 6, Reaction: reaction})

	cortexInstance.Remove(reaction)
	if len(cortexInstance.TriggerReactions(5)) != 0 {
		t.Errorf("removed reaction still registered as trigger")
	}
	if len(cortexInstance.NetworkListeners(6)) != 0 {
		t.Errorf("removed reaction still registered as network listener")
	}
	if reaction.Enabled() {
		t.Errorf("removed reaction must be disabled")
	}
}

func TestValueCache(t *testing.T) {
	cortexInstance := New(nil, quietLogger(), false)
	if _, ok := cortexInstance.CachedValue(1); ok {
		t.Fatalf("empty cache must not return data")
	}
	cortexInstance.CacheValue(1, "hello")
	value, ok := cortexInstance.CachedValue(1)
	if !ok || value.(string) != "hello" {
		t.Errorf("cache round trip failed")
	}
	// firing context reads through to the cache
	firing := NewFiring(cortexInstance, nil)
	value, ok = firing.Cached(1)
	if !ok || value.(string) != "hello" {
		t.Errorf("firing cache read-through failed")
	}
}

func TestIdentifierTriple(t *testing.T) {
	reaction, _ := NewReaction("MotionControl", "track", func(v int) {}, []Extractor{intExtractor(1, nil)}, Options{}, quietLogger())
	identifier := reaction.Identifier()
	if len(identifier) != 3 {
		t.Fatalf("expected identifier triple, got %v", identifier)
	}
	if identifier[0] != "track" || identifier[1] != "MotionControl" || identifier[2] != "func(int)" {
		t.Errorf("unexpected identifier: %v", identifier)
	}
}
