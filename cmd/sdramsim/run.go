package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/pkg/browser"
	"github.com/sarchlab/sdramsim/memaccessagent"
	"github.com/sarchlab/sdramsim/monitoring"
	"github.com/sarchlab/sdramsim/sdram"
	"github.com/sarchlab/sdramsim/sdram/memdevice"
	"github.com/sarchlab/sdramsim/sim"
	"github.com/sarchlab/sdramsim/sim/directconnection"
	"github.com/sarchlab/sdramsim/simulation"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a random memory access workload against the SDRAM model.",
	Run: func(cmd *cobra.Command, _ []string) {
		runSimulation(cmd)
	},
}

//nolint:gochecknoinits
func init() {
	runCmd.Flags().Int64("seed", 0, "random seed, 0 uses the current time")
	runCmd.Flags().Int("num-access", 10000, "number of accesses to generate")
	runCmd.Flags().Uint64("max-address", 1048576, "address range to use")
	runCmd.Flags().Int("trcd", 2, "row to column delay in cycles")
	runCmd.Flags().Int("twr", 2, "write recovery time in cycles")
	runCmd.Flags().Int("trp", 2, "row precharge time in cycles")
	runCmd.Flags().Int("max-burst-length", 7,
		"maximum number of words per burst")
	runCmd.Flags().Bool("trace", false, "record pin and transaction activity")
	runCmd.Flags().Bool("log-events", false, "print every event to stderr")
	runCmd.Flags().String("output", "", "output database file name")
	runCmd.Flags().Bool("no-monitor", false, "disable the monitoring server")
	runCmd.Flags().Int("monitor-port", 0, "port for the monitoring server")
	runCmd.Flags().Bool("open-monitor", false,
		"open the monitoring page in a browser, requires a monitor port")

	rootCmd.AddCommand(runCmd)
}

func runSimulation(cmd *cobra.Command) {
	seed := mustGetInt64Flag(cmd, "seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	fmt.Fprintf(os.Stderr, "Seed %d\n", seed)
	rand.Seed(seed)

	s := buildSimulation(cmd)

	if mustGetBoolFlag(cmd, "log-events") {
		logger := log.New(os.Stderr, "", 0)
		s.GetEngine().AcceptHook(sim.NewEventLogger(logger))
	}

	agent := buildMemorySystem(cmd, s)

	var bar *monitoring.ProgressBar
	if monitor := s.GetMonitor(); monitor != nil {
		numAccess := mustGetIntFlag(cmd, "num-access")
		bar = monitor.CreateProgressBar(
			"Memory accesses", uint64(2*numAccess))
		agent.Progress = bar
	}

	openMonitorPage(cmd)

	agent.TickLater()
	err := s.GetEngine().Run()
	if err != nil {
		panic(err)
	}

	if bar != nil {
		s.GetMonitor().CompleteProgressBar(bar)
	}

	if !agent.Done() {
		panic("not all requests completed")
	}

	reportStats(s)

	s.Terminate()
	atexit.Exit(0)
}

func buildSimulation(cmd *cobra.Command) *simulation.Simulation {
	b := simulation.MakeBuilder()

	if mustGetBoolFlag(cmd, "no-monitor") {
		b = b.WithoutMonitoring()
	} else if port := monitorPort(cmd); port > 0 {
		b = b.WithMonitorPort(port)
	}

	if output := mustGetStringFlag(cmd, "output"); output != "" {
		b = b.WithOutputFileName(output)
	}

	return b.Build()
}

func buildMemorySystem(
	cmd *cobra.Command,
	s *simulation.Simulation,
) *memaccessagent.MemAccessAgent {
	engine := s.GetEngine()
	numAccess := mustGetIntFlag(cmd, "num-access")

	conn := directconnection.MakeBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		Build("Conn")

	agent := memaccessagent.MakeBuilder().
		WithEngine(engine).
		WithMaxAddress(mustGetUint64Flag(cmd, "max-address")).
		WithWriteLeft(numAccess).
		WithReadLeft(numAccess).
		Build("MemAccessAgent")

	memCtrlBuilder := sdram.MakeBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithTRCD(mustGetIntFlag(cmd, "trcd")).
		WithTWR(mustGetIntFlag(cmd, "twr")).
		WithTRP(mustGetIntFlag(cmd, "trp")).
		WithMaxBurstLength(mustGetIntFlag(cmd, "max-burst-length"))
	if traceEnabled(cmd) {
		memCtrlBuilder = memCtrlBuilder.
			WithAdditionalHook(s.GetSignalTracer())
	}
	memCtrl := memCtrlBuilder.Build("Mem")

	device := memdevice.MakeBuilder().
		WithPins(memCtrl.Pins()).
		Build("Mem.Device")
	memCtrl.AttachDevice(device)

	agent.LowModule = memCtrl.GetPortByName("Top")

	conn.PlugIn(agent.GetPortByName("Mem"))
	conn.PlugIn(memCtrl.GetPortByName("Top"))

	s.RegisterComponent(agent)
	s.RegisterComponent(memCtrl)

	return agent
}

// monitorPort resolves the monitoring port from the flag, falling back to
// the SDRAMSIM_MONITOR_PORT environment variable.
func monitorPort(cmd *cobra.Command) int {
	if port := mustGetIntFlag(cmd, "monitor-port"); port > 0 {
		return port
	}

	env := os.Getenv("SDRAMSIM_MONITOR_PORT")
	if env == "" {
		return 0
	}

	port, err := strconv.Atoi(env)
	if err != nil {
		fmt.Fprintf(os.Stderr,
			"invalid SDRAMSIM_MONITOR_PORT %q: %s\n", env, err)
		return 0
	}

	return port
}

func traceEnabled(cmd *cobra.Command) bool {
	return mustGetBoolFlag(cmd, "trace") ||
		os.Getenv("SDRAMSIM_TRACE") != ""
}

func openMonitorPage(cmd *cobra.Command) {
	if !mustGetBoolFlag(cmd, "open-monitor") {
		return
	}

	port := monitorPort(cmd)
	if port == 0 {
		fmt.Fprintln(os.Stderr,
			"--open-monitor requires a monitor port")
		return
	}

	err := browser.OpenURL(fmt.Sprintf("http://localhost:%d", port))
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open browser: %s\n", err)
	}
}

func reportStats(s *simulation.Simulation) {
	memCtrl := s.GetComponentByName("Mem").(*sdram.Comp)

	fmt.Fprintf(os.Stderr, "Simulated time: %.9fs\n",
		float64(s.GetEngine().CurrentTime()))
	fmt.Fprintf(os.Stderr, "Memory controller cycles: %d\n",
		memCtrl.CycleCount())
}

func mustGetInt64Flag(cmd *cobra.Command, name string) int64 {
	v, err := cmd.Flags().GetInt64(name)
	if err != nil {
		panic(err)
	}
	return v
}

func mustGetIntFlag(cmd *cobra.Command, name string) int {
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(err)
	}
	return v
}

func mustGetUint64Flag(cmd *cobra.Command, name string) uint64 {
	v, err := cmd.Flags().GetUint64(name)
	if err != nil {
		panic(err)
	}
	return v
}

func mustGetBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(err)
	}
	return v
}

func mustGetStringFlag(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(err)
	}
	return v
}
