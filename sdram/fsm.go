package sdram

import (
	"github.com/sarchlab/sdramsim/sdram/internal/addressmapping"
	"github.com/sarchlab/sdramsim/sdram/internal/burst"
	"github.com/sarchlab/sdramsim/sdram/internal/cmdseq"
	"github.com/sarchlab/sdramsim/sdram/internal/signal"
)

type coreState int

const (
	coreIdle coreState = iota
	coreActivate
	coreWaitRowDelay
	coreReadBurst
	coreWriteBurst
	coreWaitWriteRecovery
	corePrecharge
	coreWaitPrechargeRecovery
)

var coreStateNames = map[coreState]string{
	coreIdle:                  "idle",
	coreActivate:              "activate",
	coreWaitRowDelay:          "wait-row-delay",
	coreReadBurst:             "read-burst",
	coreWriteBurst:            "write-burst",
	coreWaitWriteRecovery:     "wait-write-recovery",
	corePrecharge:             "precharge",
	coreWaitPrechargeRecovery: "wait-precharge-recovery",
}

func (s coreState) String() string {
	return coreStateNames[s]
}

// Core is the cycle-accurate heart of the controller. It owns the command
// sequencer and the burst engine, steps both once per clock, and walks one
// access through activate, burst, and precharge with the configured recovery
// waits in between.
//
// The core accepts at most one access at a time. Issue is honored only while
// Ready reports true; anything else is dropped, matching the open-loop nature
// of the pin protocol. Queueing and retries live a level up, in Comp.
type Core struct {
	pins   *signal.Pins
	mapper addressmapping.Mapper
	seq    cmdseq.Sequencer
	engine *burst.Engine

	tRCD int
	tWR  int
	tRP  int

	state   coreState
	counter int

	pending     bool
	loc         addressmapping.Location
	direction   signal.Direction
	burstLength int

	writeWords []uint16
	wordIndex  int
	readWords  []uint16
}

// NewCore creates an idle core driving the given wire bundle.
func NewCore(
	pins *signal.Pins,
	mapper addressmapping.Mapper,
	tRCD, tWR, tRP int,
) *Core {
	return &Core{
		pins:   pins,
		mapper: mapper,
		seq:    cmdseq.NewSequencer(),
		engine: burst.NewEngine(&pins.Data),
		tRCD:   tRCD,
		tWR:    tWR,
		tRP:    tRP,
	}
}

// Ready reports whether the core can accept a new access this cycle.
func (c *Core) Ready() bool {
	return c.state == coreIdle
}

// Issue hands the core one burst to perform. writeWords supplies the data
// for write bursts and must hold exactly req.BurstLength words. The access is
// dropped, not queued, if the core is busy.
func (c *Core) Issue(req signal.Request, writeWords []uint16) bool {
	if !c.Ready() || c.pending {
		return false
	}

	c.pending = true
	c.loc = c.mapper.Map(req.Address)
	c.direction = req.Direction
	c.burstLength = req.BurstLength
	c.writeWords = writeWords
	c.wordIndex = 0
	c.readWords = nil

	return true
}

// Cycle advances the whole core one clock: the sequencer resolves the command
// pins, the burst engine moves at most one word, and the controller state
// machine transitions.
func (c *Core) Cycle() {
	c.pins.Cmd = c.seq.Cycle()

	readEnable := c.state == coreReadBurst
	writeEnable := c.state == coreWriteBurst
	c.engine.Cycle(readEnable, writeEnable, c.currentWriteWord())

	if c.engine.WordAccepted() {
		c.wordIndex++
	}
	if c.engine.ReadValid() {
		c.readWords = append(c.readWords, c.engine.ReadData())
	}

	c.advance()
}

func (c *Core) currentWriteWord() uint16 {
	if c.wordIndex >= len(c.writeWords) {
		return 0
	}

	return c.writeWords[c.wordIndex]
}

func (c *Core) advance() {
	switch c.state {
	case coreIdle:
		if c.pending {
			c.pending = false
			c.seq.Trigger(c.loc, c.direction)
			c.state = coreActivate
		}
	case coreActivate:
		c.enterWait(coreWaitRowDelay, c.tRCD)
	case coreWaitRowDelay:
		if c.countDown() {
			c.enterBurst()
		}
	case coreReadBurst:
		if c.engine.Done() {
			c.state = corePrecharge
		}
	case coreWriteBurst:
		if c.engine.Done() {
			c.enterWait(coreWaitWriteRecovery, c.tWR)
		}
	case coreWaitWriteRecovery:
		if c.countDown() {
			c.state = corePrecharge
		}
	case corePrecharge:
		c.enterWait(coreWaitPrechargeRecovery, c.tRP)
	case coreWaitPrechargeRecovery:
		if c.countDown() {
			c.state = coreIdle
		}
	}
}

// enterWait moves into a wait state with its counter loaded. A zero constant
// skips the wait entirely.
func (c *Core) enterWait(s coreState, cycles int) {
	if cycles == 0 {
		c.skipWait(s)
		return
	}

	c.state = s
	c.counter = cycles
}

func (c *Core) skipWait(s coreState) {
	switch s {
	case coreWaitRowDelay:
		c.enterBurst()
	case coreWaitWriteRecovery:
		c.state = corePrecharge
	case coreWaitPrechargeRecovery:
		c.state = coreIdle
	}
}

func (c *Core) enterBurst() {
	c.engine.Start(c.direction, c.burstLength)
	if c.direction == signal.DirectionRead {
		c.state = coreReadBurst
	} else {
		c.state = coreWriteBurst
	}
}

// countDown decrements the wait counter and reports whether the wait is over.
// The transition fires on the cycle the counter reaches zero.
func (c *Core) countDown() bool {
	if c.counter > 0 {
		c.counter--
	}

	return c.counter == 0
}

// ReadValid reports whether a word was captured off the bus this cycle.
func (c *Core) ReadValid() bool {
	return c.engine.ReadValid()
}

// ReadData returns the word captured this cycle.
func (c *Core) ReadData() uint16 {
	return c.engine.ReadData()
}

// TakeReadWords returns the words captured by the last read burst and clears
// them.
func (c *Core) TakeReadWords() []uint16 {
	words := c.readWords
	c.readWords = nil

	return words
}

// State names the controller phase, for tracing.
func (c *Core) State() string {
	return c.state.String()
}

// Reset forces every state machine back to idle and floats the bus.
func (c *Core) Reset() {
	c.state = coreIdle
	c.counter = 0
	c.pending = false
	c.writeWords = nil
	c.readWords = nil
	c.wordIndex = 0
	c.seq.Reset()
	c.engine.Reset()
	c.pins.Reset()
}
