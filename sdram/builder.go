package sdram

import (
	"github.com/sarchlab/sdramsim/sdram/internal/addressmapping"
	"github.com/sarchlab/sdramsim/sdram/internal/signal"
	"github.com/sarchlab/sdramsim/sdram/internal/trans"
	"github.com/sarchlab/sdramsim/sim"
)

// Builder can build new memory controllers.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq
	hooks  []sim.Hook

	subTransQueueSize int
	maxBurstLength    int
	rowBits           uint
	colBits           uint
	bankBits          uint

	tRCD int
	tWR  int
	tRP  int
}

// MakeBuilder creates a builder with default configuration: a 25-bit address
// space of 8192 rows, 512 columns, and 4 banks, bursts of up to 7 words, and
// two-cycle row-delay, write-recovery, and precharge waits.
func MakeBuilder() Builder {
	return Builder{
		freq:              100 * sim.MHz,
		subTransQueueSize: 64,
		maxBurstLength:    signal.MaxBurstLength,
		rowBits:           13,
		colBits:           9,
		bankBits:          2,
		tRCD:              2,
		tWR:               2,
		tRP:               2,
	}
}

// WithEngine sets the event engine that drives the controller.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the clock frequency of the pin protocol.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithTRCD sets the row-to-column delay in cycles.
func (b Builder) WithTRCD(cycles int) Builder {
	b.tRCD = cycles
	return b
}

// WithTWR sets the write-recovery time in cycles.
func (b Builder) WithTWR(cycles int) Builder {
	b.tWR = cycles
	return b
}

// WithTRP sets the row-precharge time in cycles.
func (b Builder) WithTRP(cycles int) Builder {
	b.tRP = cycles
	return b
}

// WithMaxBurstLength caps the number of words per burst.
func (b Builder) WithMaxBurstLength(words int) Builder {
	b.maxBurstLength = words
	return b
}

// WithSubTransQueueSize sets the capacity of the pending burst queue.
func (b Builder) WithSubTransQueueSize(size int) Builder {
	b.subTransQueueSize = size
	return b
}

// WithGeometry sets the number of row, column, and bank address bits.
func (b Builder) WithGeometry(rowBits, colBits, bankBits uint) Builder {
	b.rowBits = rowBits
	b.colBits = colBits
	b.bankBits = bankBits
	return b
}

// WithAdditionalHook adds a hook to the controller to build.
func (b Builder) WithAdditionalHook(h sim.Hook) Builder {
	b.hooks = append(b.hooks, h)
	return b
}

// Build creates a memory controller with the given name.
func (b Builder) Build(name string) *Comp {
	c := &Comp{}
	c.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, c)

	mapper := addressmapping.MakeBuilder().
		WithRowBits(b.rowBits).
		WithColBits(b.colBits).
		WithBankBits(b.bankBits).
		Build()

	c.pins = signal.NewPins()
	c.core = NewCore(c.pins, mapper, b.tRCD, b.tWR, b.tRP)
	c.splitter = trans.NewSubTransSplitter(mapper, b.maxBurstLength)
	c.subTransQueueCap = b.subTransQueueSize

	c.topPort = sim.NewPort(c, 4, 4, name+".TopPort")
	c.AddPort("Top", c.topPort)

	c.AddMiddleware(&middleware{Comp: c})

	for _, h := range b.hooks {
		c.AcceptHook(h)
	}

	return c
}
