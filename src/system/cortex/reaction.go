package cortex

import (
	"fmt"
	"reflect"
	"strconv"
	"sync/atomic"

	"github.com/voodooEntity/synapse/src/system/archivist"
)

var reactionSequence int64

// Reaction is one installed unit of work: the assembled callback, the
// extractors that feed it, the execution options and an enabled flag.
// It is created when a word chain installs successfully and stays until
// its handles are dropped or the owning reactor tears down.
type Reaction struct {
	id          string
	reactorName string
	label       string
	identifier  []string
	callback    reflect.Value
	returnsErr  bool
	extractors  []Extractor
	options     Options
	enabled     atomic.Bool
	log         *archivist.Archivist
}

// NewReaction validates the callback against the slot types the given
// extractors declare and wires everything into a ready reaction. All
// signature problems surface here, at definition time, as a
// CompositionError.
func NewReaction(reactorName string, label string, callback interface{}, extractors []Extractor, options Options, logger *archivist.Archivist) (*Reaction, error) {
	cbValue := reflect.ValueOf(callback)
	if !cbValue.IsValid() || cbValue.Kind() != reflect.Func {
		return nil, &CompositionError{Label: label, Reason: "callback is not a function"}
	}
	cbType := cbValue.Type()

	// callbacks either return nothing or a single error
	returnsErr := false
	switch cbType.NumOut() {
	case 0:
	case 1:
		if cbType.Out(0) != reflect.TypeOf((*error)(nil)).Elem() {
			return nil, &CompositionError{Label: label, Reason: "callback may only return error, got " + cbType.Out(0).String()}
		}
		returnsErr = true
	default:
		return nil, &CompositionError{Label: label, Reason: "callback returns too many values"}
	}

	// the extracted slots, in declaration order, must line up with the
	// callback parameters one by one
	var slots []reflect.Type
	for _, extractor := range extractors {
		slots = append(slots, extractor.SlotTypes()...)
	}
	if cbType.NumIn() != len(slots) {
		return nil, &CompositionError{
			Label:  label,
			Reason: fmt.Sprintf("callback takes %d parameters but the word chain extracts %d", cbType.NumIn(), len(slots)),
		}
	}
	for i, slot := range slots {
		if !slot.AssignableTo(cbType.In(i)) {
			return nil, &CompositionError{
				Label:  label,
				Reason: fmt.Sprintf("slot %d extracts %s which is not assignable to callback parameter %s", i, slot.String(), cbType.In(i).String()),
			}
		}
	}

	seq := atomic.AddInt64(&reactionSequence, 1)
	reaction := &Reaction{
		id:          label + "#" + strconv.FormatInt(seq, 10),
		reactorName: reactorName,
		label:       label,
		identifier:  []string{label, reactorName, cbType.String()},
		callback:    cbValue,
		returnsErr:  returnsErr,
		extractors:  extractors,
		options:     options,
		log:         logger,
	}
	reaction.enabled.Store(true)
	return reaction, nil
}

// Fire runs extraction in declaration order and, if every required slot
// produced data, invokes the callback. The first return reports whether
// the callback actually ran. A missing slot is a silent skip, any other
// failure is returned for the dispatcher's diagnostic record and never
// propagates further up.
func (r *Reaction) Fire(f *Firing) (fired bool, err error) {
	if !r.enabled.Load() {
		return false, nil
	}

	var args []reflect.Value
	for _, extractor := range r.extractors {
		values, extractErr := extractor.Extract(f)
		if extractErr == ErrNoData {
			r.log.Debug(archivist.DEBUG_LEVEL_TRACE, "dispatch FIRE skip reaction=", r.id, " reason=no-data")
			return false, nil
		}
		if extractErr != nil {
			return false, extractErr
		}
		for _, value := range values {
			paramType := r.callback.Type().In(len(args))
			if nil == value {
				args = append(args, reflect.Zero(paramType))
				continue
			}
			args = append(args, reflect.ValueOf(value))
		}
	}

	// the callback boundary: panics and returned errors become a failed
	// firing diagnostic, the executor's dispatch loop never sees them
	defer func() {
		if recovered := recover(); recovered != nil {
			fired = false
			err = fmt.Errorf("callback of reaction %s panicked: %v", r.id, recovered)
		}
	}()
	results := r.callback.Call(args)
	if r.returnsErr && !results[0].IsNil() {
		return false, fmt.Errorf("callback of reaction %s failed: %w", r.id, results[0].Interface().(error))
	}
	return true, nil
}

func (r *Reaction) Enable() {
	r.enabled.Store(true)
}

func (r *Reaction) Disable() {
	r.enabled.Store(false)
}

func (r *Reaction) Enabled() bool {
	return r.enabled.Load()
}

func (r *Reaction) ID() string {
	return r.id
}

func (r *Reaction) Label() string {
	return r.label
}

func (r *Reaction) ReactorName() string {
	return r.reactorName
}

// Identifier returns the diagnostic identity triple: user label,
// reactor name and callback type. Human readable only, never a key.
func (r *Reaction) Identifier() []string {
	return r.identifier
}

func (r *Reaction) Options() Options {
	return r.options
}
