package memdevice

import (
	"github.com/sarchlab/sdramsim/mem"
	"github.com/sarchlab/sdramsim/sdram/internal/addressmapping"
	"github.com/sarchlab/sdramsim/sdram/internal/signal"
)

// Builder can build memory devices.
type Builder struct {
	pins           *signal.Pins
	storage        *mem.Storage
	maxBurstLength int
	rowBits        uint
	colBits        uint
	bankBits       uint
}

// MakeBuilder creates a builder with the default 25-bit geometry and a
// 32 MB backing store.
func MakeBuilder() Builder {
	return Builder{
		maxBurstLength: signal.MaxBurstLength,
		rowBits:        13,
		colBits:        9,
		bankBits:       2,
	}
}

// WithPins attaches the device to a controller's wire bundle.
func (b Builder) WithPins(pins *signal.Pins) Builder {
	b.pins = pins
	return b
}

// WithStorage uses the given backing store instead of allocating one.
func (b Builder) WithStorage(storage *mem.Storage) Builder {
	b.storage = storage
	return b
}

// WithMaxBurstLength caps the number of words streamed per read.
func (b Builder) WithMaxBurstLength(words int) Builder {
	b.maxBurstLength = words
	return b
}

// WithGeometry sets the number of row, column, and bank address bits.
func (b Builder) WithGeometry(rowBits, colBits, bankBits uint) Builder {
	b.rowBits = rowBits
	b.colBits = colBits
	b.bankBits = bankBits
	return b
}

// Build creates a memory device with the given name.
func (b Builder) Build(name string) *Comp {
	mapper := addressmapping.MakeBuilder().
		WithRowBits(b.rowBits).
		WithColBits(b.colBits).
		WithBankBits(b.bankBits).
		Build()

	storage := b.storage
	if storage == nil {
		words := uint64(1) << (b.rowBits + b.colBits + b.bankBits)
		storage = mem.NewStorage(words * 2)
	}

	return &Comp{
		name:           name,
		pins:           b.pins,
		mapper:         mapper,
		storage:        storage,
		maxBurstLength: b.maxBurstLength,
		columnsPerRow:  1 << b.colBits,
		openRows:       map[uint8]uint16{},
	}
}
