// Package addressmapping decomposes linear addresses into the row, column,
// bank, and auto-precharge dimensions of the memory array.
package addressmapping

// A Location is the position of a word in the memory array, plus the
// auto-precharge flag carried in the lowest address bit.
type Location struct {
	Row           uint16
	Column        uint16
	Bank          uint8
	AutoPrecharge bool
}

// Mapper converts linear addresses to locations.
type Mapper interface {
	Map(address uint32) Location
}

// MapperImpl decomposes addresses by fixed bit slicing. With the default
// widths, a 25-bit address splits as row = bits[24:12], column = bits[11:3],
// bank = bits[2:1], auto-precharge = bit[0]. The decomposition is total and
// loses no information.
type MapperImpl struct {
	RowBits  uint
	ColBits  uint
	BankBits uint
}

// Map decomposes a linear address.
func (m MapperImpl) Map(address uint32) Location {
	loc := Location{}

	loc.AutoPrecharge = address&0x1 != 0
	address >>= 1

	loc.Bank = uint8(address & mask(m.BankBits))
	address >>= m.BankBits

	loc.Column = uint16(address & mask(m.ColBits))
	address >>= m.ColBits

	loc.Row = uint16(address & mask(m.RowBits))

	return loc
}

// Flatten is the inverse of Map. It reconstructs the linear address from a
// location bit-for-bit.
func (m MapperImpl) Flatten(loc Location) uint32 {
	address := uint32(loc.Row)
	address = address<<m.ColBits | uint32(loc.Column)
	address = address<<m.BankBits | uint32(loc.Bank)

	address <<= 1
	if loc.AutoPrecharge {
		address |= 1
	}

	return address
}

// WordIndex returns the position of the location in a canonical row-major
// linearization of the array (row, then bank, then column). Both the
// controller and the device model use it to agree on where a word lives in
// backing storage.
func (m MapperImpl) WordIndex(loc Location, columnOffset int) uint64 {
	index := uint64(loc.Row)
	index = index<<m.BankBits | uint64(loc.Bank)
	index = index<<m.ColBits + uint64(loc.Column) + uint64(columnOffset)

	return index
}

// AddressBits returns the total number of linear address bits the mapper
// consumes.
func (m MapperImpl) AddressBits() uint {
	return m.RowBits + m.ColBits + m.BankBits + 1
}

func mask(bits uint) uint32 {
	return 1<<bits - 1
}
