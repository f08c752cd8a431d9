package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/sarchlab/sdramsim/memaccessagent"
	"github.com/sarchlab/sdramsim/sdram"
	"github.com/sarchlab/sdramsim/sdram/memdevice"
	"github.com/sarchlab/sdramsim/sim"
	"github.com/sarchlab/sdramsim/sim/directconnection"
)

var seedFlag = flag.Int64("seed", 0, "Random Seed")
var numAccessFlag = flag.Int("num-access",
	10000, "Number of accesses to generate")
var maxAddressFlag = flag.Uint64("max-address", 1048576, "Address range to use")

func setupTest() (sim.Engine, *memaccessagent.MemAccessAgent) {
	engine := sim.NewSerialEngine()

	conn := directconnection.MakeBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		Build("Conn")

	agent := memaccessagent.MakeBuilder().
		WithEngine(engine).
		WithMaxAddress(*maxAddressFlag).
		WithWriteLeft(*numAccessFlag).
		WithReadLeft(*numAccessFlag).
		Build("MemAccessAgent")

	memCtrl := sdram.MakeBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		Build("Mem")

	device := memdevice.MakeBuilder().
		WithPins(memCtrl.Pins()).
		Build("Mem.Device")
	memCtrl.AttachDevice(device)

	agent.LowModule = memCtrl.GetPortByName("Top")

	conn.PlugIn(agent.GetPortByName("Mem"))
	conn.PlugIn(memCtrl.GetPortByName("Top"))

	return engine, agent
}

func main() {
	flag.Parse()

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	fmt.Fprintf(os.Stderr, "Seed %d\n", seed)
	rand.Seed(seed)

	engine, agent := setupTest()
	agent.TickLater()

	err := engine.Run()
	if err != nil {
		panic(err)
	}

	if len(agent.PendingWriteReq) > 0 || len(agent.PendingReadReq) > 0 {
		panic("Not all req returned")
	}

	if agent.WriteLeft > 0 || agent.ReadLeft > 0 {
		panic("more requests to send")
	}
}
