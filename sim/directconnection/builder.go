package directconnection

import (
	"github.com/sarchlab/sdramsim/sim"
)

// Builder can help building direct connections.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{}
}

// WithEngine sets the engine that drives the connection.
func (b Builder) WithEngine(e sim.Engine) Builder {
	b.engine = e
	return b
}

// WithFreq sets the frequency that the connection forwards messages.
func (b Builder) WithFreq(f sim.Freq) Builder {
	b.freq = f
	return b
}

// Build creates a new DirectConnection.
func (b Builder) Build(name string) *Comp {
	c := &Comp{
		ports: make([]sim.Port, 0),
	}
	c.TickingComponent = sim.NewSecondaryTickingComponent(
		name, b.engine, b.freq, c)

	middleware := &middleware{
		Comp: c,
	}
	c.AddMiddleware(middleware)

	return c
}
