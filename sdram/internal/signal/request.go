package signal

// Direction tells whether an access reads or writes the memory.
type Direction int

// The two access directions.
const (
	DirectionRead Direction = iota
	DirectionWrite
)

func (d Direction) String() string {
	if d == DirectionRead {
		return "read"
	}

	return "write"
}

// MaxBurstLength is the largest number of words one burst can transfer.
const MaxBurstLength = 7

// A Request is one access that the controller core performs: a burst of
// 1 to 7 words starting at a 25-bit linear address. The core latches the
// fields it needs when it accepts the request; the request has no lifetime
// beyond that cycle.
type Request struct {
	Address     uint32
	Direction   Direction
	BurstLength int
}
