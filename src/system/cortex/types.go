package cortex

import (
	"errors"
	"fmt"
	"reflect"
)

// Priority levels a reaction can declare for the external executor.
type Priority int

const (
	PRIORITY_LOW Priority = iota + 1
	PRIORITY_NORMAL
	PRIORITY_HIGH
	PRIORITY_REALTIME
)

func (p Priority) String() string {
	switch p {
	case PRIORITY_LOW:
		return "Low"
	case PRIORITY_HIGH:
		return "High"
	case PRIORITY_REALTIME:
		return "Realtime"
	default:
		return "Normal"
	}
}

// Options carry the execution constraints a declaration attached to its
// reaction. The engine stores and exposes them, the external executor
// enforces them.
type Options struct {
	Priority  Priority
	SyncToken string
	Single    bool
}

// NetworkSource describes the sender of a network scoped emission.
type NetworkSource struct {
	Name    string
	Address string
}

// NetworkListen is the registration record a network word emits through
// the direct registration channel: the payload type identity bound to
// the reaction that wants it.
type NetworkListen struct {
	Identity uint64
	Reaction *Reaction
}

// Extractor produces one firing's worth of typed data for a word.
// SlotTypes declares, at definition time, the callback parameter types
// this word will fill. Extract must never block and only reads data the
// dispatcher already deposited for this firing.
type Extractor interface {
	SlotTypes() []reflect.Type
	Extract(f *Firing) ([]interface{}, error)
}

// ErrNoData marks a required extraction slot as absent for this firing.
// It is not a failure, it tells the invocation step to skip the firing.
var ErrNoData = errors.New("no data for firing")

// CompositionError reports a broken word chain at definition time:
// no install capable word, arguments that do not partition across the
// chain, or a callback signature that does not match the extracted slots.
type CompositionError struct {
	Label  string
	Reason string
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("composition of '%s' invalid: %s", e.Label, e.Reason)
}
