package main

import (
	"fmt"
	"log"
	"os"

	"github.com/voodooEntity/gits"
	"github.com/voodooEntity/gits/src/query"
	"github.com/voodooEntity/synapse"
	"github.com/voodooEntity/synapse/src/system/archivist"
	"github.com/voodooEntity/synapse/src/system/cortex"
	"github.com/voodooEntity/synapse/src/system/dsl"
)

type Position struct {
	X float64
	Y float64
}

type Velocity struct {
	X float64
	Y float64
}

func main() {
	logger := log.New(os.Stdout, "", 0)

	// create base instance. ident names the backing storage instance.
	sy := synapse.New(synapse.Settings{
		Ident:    "GreatName",
		LogLevel: archivist.LEVEL_INFO,
		Logger:   logger,
		History:  true,
	})

	// a reactor subscribing to positions arriving over the network,
	// requiring the latest locally known velocity alongside
	control := sy.NewReactor("MotionControl")
	_, err := control.On("track position", func(source *cortex.NetworkSource, pos Position, vel Velocity) {
		logger.Println("position from", source.Name, "=", pos, "velocity =", vel)
	},
		dsl.Network[Position](),
		dsl.With[Velocity](),
		dsl.Priority(cortex.PRIORITY_HIGH),
		dsl.Sync("motion"),
	)
	if err != nil {
		logger.Println("declaration failed:", err)
		return
	}

	// seed the auxiliary data, then loop a network emission back in
	sy.Emit(Velocity{X: 0.5, Y: 0.0})
	if _, err := sy.EmitNetwork(Position{X: 1.0, Y: 2.0}, &cortex.NetworkSource{Name: "node-2"}); err != nil {
		logger.Println("network emission failed:", err)
		return
	}

	// blocking until dispatching settled, then inspect the mirror
	obsi := sy.GetObserverInstance(func(memory *gits.Gits) {
		qry := query.New().Read("Reaction")
		ret := memory.Query().Execute(qry)
		logger.Println("installed reactions:", ret.Amount)
	})
	obsi.SetTickRate(20)
	obsi.Loop()

	// history is enabled so the firings can be looked up afterwards
	qry := query.New().Read("Firing")
	res := gits.GetDefault().Query().Execute(qry)
	fmt.Println(fmt.Sprintf("%+v", res))
}
