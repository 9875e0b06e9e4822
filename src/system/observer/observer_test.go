package observer

import (
	"io"
	"log"
	"testing"

	"github.com/voodooEntity/gits"
	"github.com/voodooEntity/synapse/src/system/archivist"
	"github.com/voodooEntity/synapse/src/system/codec"
	"github.com/voodooEntity/synapse/src/system/cortex"
)

func quietLogger() *archivist.Archivist {
	return archivist.New(&archivist.Config{Logger: log.New(io.Discard, "", 0)})
}

func TestObserverReachesIdle(t *testing.T) {
	cortexInstance := cortex.New(nil, quietLogger(), false)
	dispatcher := cortex.NewDispatcher(cortexInstance, codec.New(), quietLogger())

	observerInstance := New(dispatcher, nil, func(memory *gits.Gits) {}, quietLogger())
	idle := false
	for i := 0; i < 10; i++ {
		if observerInstance.ReachedIdle() {
			idle = true
			break
		}
	}
	if !idle {
		t.Errorf("observer never reached idle on an inactive dispatcher")
	}
	if observerInstance.IdleIncrement <= 5 {
		t.Errorf("idle increment did not accumulate, got %d", observerInstance.IdleIncrement)
	}
}
