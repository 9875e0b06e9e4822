package dsl

import (
	"github.com/voodooEntity/synapse/src/system/cortex"
)

// PriorityWord sets the executor priority of the reaction.
type PriorityWord struct {
	level cortex.Priority
}

func Priority(level cortex.Priority) *PriorityWord {
	return &PriorityWord{level: level}
}

func (w *PriorityWord) Name() string {
	return "Priority(" + w.level.String() + ")"
}

func (w *PriorityWord) Apply(o *cortex.Options) {
	o.Priority = w.level
}

// SyncWord tags the reaction with a sync group token. Firings sharing
// a token get serialized by the external executor.
type SyncWord struct {
	token string
}

func Sync(token string) *SyncWord {
	return &SyncWord{token: token}
}

func (w *SyncWord) Name() string {
	return "Sync(" + w.token + ")"
}

func (w *SyncWord) Apply(o *cortex.Options) {
	o.SyncToken = w.token
}

// SingleWord marks the reaction single instance: the external executor
// refuses a new firing while one is still in flight.
type SingleWord struct{}

func Single() *SingleWord {
	return &SingleWord{}
}

func (w *SingleWord) Name() string {
	return "Single"
}

func (w *SingleWord) Apply(o *cortex.Options) {
	o.Single = true
}
