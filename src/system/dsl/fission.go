package dsl

import (
	"fmt"

	"github.com/voodooEntity/synapse/src/system/cortex"
)

// rSplitArgs partitions the declaration's trailing runtime arguments
// across the word chain: each install capable word claims the
// contiguous prefix its ArgCount declares, the remainder travels on to
// the rest of the chain. Words without the install capability claim
// nothing. The result is index aligned with the word list.
//
// An argument count that does not exactly partition across the chain is
// a definition time configuration error, never a runtime failure.
func rSplitArgs(label string, words []Word, args []interface{}) ([][]interface{}, error) {
	if 0 == len(words) {
		if 0 < len(args) {
			return nil, &cortex.CompositionError{
				Label:  label,
				Reason: fmt.Sprintf("%d runtime arguments left over after the word chain consumed its share", len(args)),
			}
		}
		return nil, nil
	}

	head := words[0]
	claimed := 0
	if installer, ok := head.(Installer); ok {
		claimed = installer.ArgCount()
	}
	if claimed > len(args) {
		return nil, &cortex.CompositionError{
			Label:  label,
			Reason: fmt.Sprintf("word %s claims %d runtime arguments but only %d remain", head.Name(), claimed, len(args)),
		}
	}

	tail, err := rSplitArgs(label, words[1:], args[claimed:])
	if err != nil {
		return nil, err
	}
	return append([][]interface{}{args[:claimed]}, tail...), nil
}
