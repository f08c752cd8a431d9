package addressmapping

// Builder constructs mappers.
type Builder struct {
	rowBits  uint
	colBits  uint
	bankBits uint
}

// MakeBuilder returns a builder with the default geometry of a 25-bit
// address space (13 row bits, 9 column bits, 2 bank bits).
func MakeBuilder() Builder {
	return Builder{
		rowBits:  13,
		colBits:  9,
		bankBits: 2,
	}
}

// WithRowBits sets the number of row address bits.
func (b Builder) WithRowBits(n uint) Builder {
	b.rowBits = n
	return b
}

// WithColBits sets the number of column address bits.
func (b Builder) WithColBits(n uint) Builder {
	b.colBits = n
	return b
}

// WithBankBits sets the number of bank address bits.
func (b Builder) WithBankBits(n uint) Builder {
	b.bankBits = n
	return b
}

// Build creates the mapper.
func (b Builder) Build() MapperImpl {
	return MapperImpl{
		RowBits:  b.rowBits,
		ColBits:  b.colBits,
		BankBits: b.bankBits,
	}
}
