// Package memdevice is an idealized pin-level SDRAM device model. It watches
// the command bus, keeps one open row per bank, captures write bursts off the
// data bus, and streams read data back. It models protocol behavior only, not
// device electrical timing.
package memdevice

import (
	"github.com/sarchlab/sdramsim/mem"
	"github.com/sarchlab/sdramsim/sdram/internal/addressmapping"
	"github.com/sarchlab/sdramsim/sdram/internal/signal"
)

// Comp is one memory device attached to a controller's wire bundle. It
// implements the device side of the pin protocol; the controller cycles it
// once per clock after resolving its own outputs.
type Comp struct {
	name    string
	pins    *signal.Pins
	mapper  addressmapping.MapperImpl
	storage *mem.Storage

	maxBurstLength int
	columnsPerRow  int
	openRows       map[uint8]uint16

	streaming   bool
	streamLoc   addressmapping.Location
	streamCount int

	capturing    bool
	captureLoc   addressmapping.Location
	captureCount int
}

// Name returns the name of the device.
func (c *Comp) Name() string {
	return c.name
}

// Storage exposes the backing store, so tests and tooling can preload or
// inspect memory contents.
func (c *Comp) Storage() *mem.Storage {
	return c.storage
}

// Cycle reacts to the command the controller resolved this clock. A read
// command starts streaming on the same cycle, so the first word is on the bus
// before the controller samples at the next clock.
func (c *Comp) Cycle() {
	c.handleCommand()
	c.stream()
	c.capture()
}

func (c *Comp) handleCommand() {
	cmd := c.pins.Cmd

	switch cmd.Kind {
	case signal.CmdKindActivate:
		c.stopStreaming()
		c.capturing = false
		c.openRows[cmd.Bank] = cmd.Addr
	case signal.CmdKindRead:
		c.streaming = true
		c.streamLoc = c.columnAccess(cmd)
		c.streamCount = 0
	case signal.CmdKindWrite:
		c.capturing = true
		c.captureLoc = c.columnAccess(cmd)
		c.captureCount = 0
	case signal.CmdKindPrecharge:
		// The command cadence places PRECHARGE right behind the column
		// command, often mid-burst. Closing the row then would cut the
		// burst short, so an in-flight session wins.
		if !c.streaming && !c.capturing {
			c.closeRows(cmd)
		}
	}
}

func (c *Comp) columnAccess(cmd signal.Command) addressmapping.Location {
	row, open := c.openRows[cmd.Bank]
	if !open {
		panic("memdevice: column access on bank " +
			string('0'+rune(cmd.Bank)) + " with no open row")
	}

	return addressmapping.Location{
		Row:           row,
		Column:        cmd.Addr,
		Bank:          cmd.Bank,
		AutoPrecharge: cmd.AutoPrecharge,
	}
}

func (c *Comp) closeRows(cmd signal.Command) {
	if cmd.Addr&signal.PrechargeAllPattern != 0 {
		c.openRows = map[uint8]uint16{}
		return
	}

	delete(c.openRows, cmd.Bank)
}

// stream drives the next read word. The device has no burst-length pin, so it
// streams up to the maximum burst and lets the controller sample the prefix
// it asked for. The stream also stops at the last column of the open row, so
// a burst starting near the top of a row never reads past it. The bus is
// released after the last streamed word or when the next ACTIVE arrives,
// whichever is first.
func (c *Comp) stream() {
	if !c.streaming {
		return
	}

	if c.streamCount >= c.maxBurstLength ||
		c.pastRowEnd(c.streamLoc, c.streamCount) {
		c.stopStreaming()
		return
	}

	word := c.load(c.streamLoc, c.streamCount)
	c.pins.Data.Drive(signal.BusOwnerDevice, word)
	c.streamCount++
}

func (c *Comp) stopStreaming() {
	if !c.streaming {
		return
	}

	c.streaming = false
	c.pins.Data.Release(signal.BusOwnerDevice)

	if c.streamLoc.AutoPrecharge {
		delete(c.openRows, c.streamLoc.Bank)
	}
}

// capture stores write words while the controller drives the bus. The
// session is armed by the WRITE command and ends when the bus floats again.
func (c *Comp) capture() {
	if !c.capturing {
		return
	}

	if c.pins.Data.Owner() == signal.BusOwnerController {
		if c.pastRowEnd(c.captureLoc, c.captureCount) {
			c.stopCapture()
			return
		}

		c.store(c.captureLoc, c.captureCount, c.pins.Data.Sample())
		c.captureCount++

		if c.captureCount >= c.maxBurstLength {
			c.stopCapture()
		}
		return
	}

	if c.captureCount > 0 {
		c.stopCapture()
	}
}

func (c *Comp) stopCapture() {
	c.capturing = false

	if c.captureLoc.AutoPrecharge {
		delete(c.openRows, c.captureLoc.Bank)
	}
}

// pastRowEnd reports whether the given column offset falls beyond the open
// row. Bursts do not wrap into the next row.
func (c *Comp) pastRowEnd(loc addressmapping.Location, offset int) bool {
	return int(loc.Column)+offset >= c.columnsPerRow
}

func (c *Comp) load(loc addressmapping.Location, offset int) uint16 {
	addr := c.mapper.WordIndex(loc, offset) * 2

	data, err := c.storage.Read(addr, 2)
	if err != nil {
		panic(err)
	}

	return uint16(data[0]) | uint16(data[1])<<8
}

func (c *Comp) store(loc addressmapping.Location, offset int, word uint16) {
	addr := c.mapper.WordIndex(loc, offset) * 2

	err := c.storage.Write(addr, []byte{byte(word), byte(word >> 8)})
	if err != nil {
		panic(err)
	}
}
