// Package burst counts data-word transfers over the shared bus and arbitrates
// when the controller may drive it.
package burst

import (
	"github.com/sarchlab/sdramsim/sdram/internal/signal"
)

// Engine moves one burst of words over the data bus. For writes it drives the
// bus with the word the caller supplies each cycle. For reads it samples the
// bus and exposes the captured word for exactly one cycle.
//
// The engine is the sole arbiter of the controller side of the bus. It claims
// the bus for the duration of a write session and releases it on the cycle
// after the final word, so the device never sees contention at turnaround.
type Engine struct {
	bus *signal.DataBus

	active    bool
	firstWord bool
	remaining int
	direction signal.Direction
	driving   bool

	readData     uint16
	readValid    bool
	done         bool
	wordAccepted bool
}

// NewEngine creates an idle engine attached to the given bus.
func NewEngine(bus *signal.DataBus) *Engine {
	return &Engine{bus: bus}
}

// Start begins a burst session of the given length. The first word transfers
// on the same cycle the session starts; the remaining counter tracks the
// transfers still owed after it. A length-1 burst therefore loads zero and
// completes within its start cycle.
func (e *Engine) Start(dir signal.Direction, length int) {
	e.active = true
	e.firstWord = true
	e.remaining = length - 1
	e.direction = dir
	e.driving = dir == signal.DirectionWrite
}

// Cycle advances the engine one clock. The caller asserts readEnable or
// writeEnable while its burst state is active; writeWord is the word to place
// on the bus this cycle during a write session.
func (e *Engine) Cycle(readEnable, writeEnable bool, writeWord uint16) {
	e.readValid = false
	e.done = false
	e.wordAccepted = false

	if !e.driving && e.bus.Owner() == signal.BusOwnerController {
		e.bus.Release(signal.BusOwnerController)
	}

	if !e.active {
		return
	}

	enabled := (e.direction == signal.DirectionRead && readEnable) ||
		(e.direction == signal.DirectionWrite && writeEnable)
	if !enabled {
		return
	}

	e.transfer(writeWord)

	if e.firstWord {
		e.firstWord = false
	} else {
		e.remaining--
	}

	if e.remaining == 0 {
		// Drive drops at the next cycle boundary. The word placed this
		// cycle stays visible until then.
		e.driving = false
		e.done = true
		e.active = false
	}
}

func (e *Engine) transfer(writeWord uint16) {
	if e.direction == signal.DirectionWrite {
		e.bus.Drive(signal.BusOwnerController, writeWord)
		e.wordAccepted = true
		return
	}

	e.readData = e.bus.Sample()
	e.readValid = true
}

// ReadValid reports whether a word was captured this cycle.
func (e *Engine) ReadValid() bool {
	return e.readValid
}

// ReadData returns the word captured this cycle. Meaningful only while
// ReadValid is true.
func (e *Engine) ReadData() uint16 {
	return e.readData
}

// Done reports the one-cycle completion signal. It is asserted on the cycle
// the final word transfers and never again until the next session.
func (e *Engine) Done() bool {
	return e.done
}

// WordAccepted reports whether this cycle consumed one write word.
func (e *Engine) WordAccepted() bool {
	return e.wordAccepted
}

// Driving reports whether the engine currently claims the bus.
func (e *Engine) Driving() bool {
	return e.driving
}

// Busy reports whether a session is in flight.
func (e *Engine) Busy() bool {
	return e.active
}

// Reset aborts any session and floats the bus.
func (e *Engine) Reset() {
	e.active = false
	e.firstWord = false
	e.remaining = 0
	e.driving = false
	e.readValid = false
	e.done = false
	e.wordAccepted = false
	e.bus.Release(signal.BusOwnerController)
}
