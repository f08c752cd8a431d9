package memaccessagent

import (
	"github.com/sarchlab/sdramsim/mem"
	"github.com/sarchlab/sdramsim/sim"
)

// Builder can build memory access agents.
type Builder struct {
	engine      sim.Engine
	freq        sim.Freq
	maxAddress  uint64
	accessBytes uint64
	writeLeft   int
	readLeft    int
	lowModule   sim.Port
}

// MakeBuilder creates a builder with default parameters: 1 MB of address
// space, 8-byte accesses, and 1000 reads and writes.
func MakeBuilder() *Builder {
	return &Builder{
		freq:        1 * sim.GHz,
		maxAddress:  1 * mem.MB,
		accessBytes: 8,
		writeLeft:   1000,
		readLeft:    1000,
	}
}

// WithEngine sets the event engine the agent runs on.
func (b *Builder) WithEngine(engine sim.Engine) *Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency the agent issues requests at.
func (b *Builder) WithFreq(freq sim.Freq) *Builder {
	b.freq = freq
	return b
}

// WithMaxAddress sets the upper bound of the addresses to access.
func (b *Builder) WithMaxAddress(addr uint64) *Builder {
	b.maxAddress = addr
	return b
}

// WithAccessBytes sets the size of each access.
func (b *Builder) WithAccessBytes(n uint64) *Builder {
	b.accessBytes = n
	return b
}

// WithWriteLeft sets the number of writes to issue.
func (b *Builder) WithWriteLeft(write int) *Builder {
	b.writeLeft = write
	return b
}

// WithReadLeft sets the number of reads to issue.
func (b *Builder) WithReadLeft(read int) *Builder {
	b.readLeft = read
	return b
}

// WithLowModule sets the port of the memory controller under test.
func (b *Builder) WithLowModule(port sim.Port) *Builder {
	b.lowModule = port
	return b
}

// Build creates a memory access agent with the given name.
func (b *Builder) Build(name string) *MemAccessAgent {
	agent := new(MemAccessAgent)
	agent.TickingComponent = sim.NewTickingComponent(
		name, b.engine, b.freq, agent)

	agent.MaxAddress = b.maxAddress
	agent.AccessBytes = b.accessBytes
	agent.WriteLeft = b.writeLeft
	agent.ReadLeft = b.readLeft
	agent.KnownMemValue = make(map[uint64][]byte)
	agent.PendingWriteReq = make(map[string]*mem.WriteReq)
	agent.PendingReadReq = make(map[string]*mem.ReadReq)

	agent.memPort = sim.NewPort(agent, 1, 1, name+".Mem")
	agent.AddPort("Mem", agent.memPort)

	agent.LowModule = b.lowModule

	return agent
}
