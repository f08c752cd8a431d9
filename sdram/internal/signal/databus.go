package signal

// BusOwner identifies who is driving the shared data bus.
type BusOwner int

// The possible owners of the data bus. The bus floats when nobody drives it.
const (
	BusOwnerNone BusOwner = iota
	BusOwnerController
	BusOwnerDevice
)

var busOwnerNames = map[BusOwner]string{
	BusOwnerNone:       "floating",
	BusOwnerController: "controller",
	BusOwnerDevice:     "device",
}

func (o BusOwner) String() string {
	return busOwnerNames[o]
}

// DataBus is the 16-bit bidirectional data bus shared by the controller and
// the memory device. At any instant at most one owner may drive it; a second
// driver is a simulation bug and panics.
type DataBus struct {
	owner BusOwner
	value uint16
}

// Drive places a value on the bus on behalf of the given owner.
func (b *DataBus) Drive(owner BusOwner, value uint16) {
	if b.owner != BusOwnerNone && b.owner != owner {
		panic("data bus contention: " + b.owner.String() +
			" is still driving while " + owner.String() + " drives")
	}

	b.owner = owner
	b.value = value
}

// Release floats the bus if the given owner is currently driving it.
func (b *DataBus) Release(owner BusOwner) {
	if b.owner == owner {
		b.owner = BusOwnerNone
	}
}

// Floating returns true if nobody drives the bus.
func (b *DataBus) Floating() bool {
	return b.owner == BusOwnerNone
}

// Owner returns who currently drives the bus.
func (b *DataBus) Owner() BusOwner {
	return b.owner
}

// Sample returns the value currently on the bus. Sampling a floating bus
// returns the last driven value, as a real bus with keeper would.
func (b *DataBus) Sample() uint16 {
	return b.value
}

// Pins is the wire bundle between the controller and the memory device. The
// controller resolves Cmd and its side of Data once per cycle; attached
// devices react after the controller within the same cycle.
type Pins struct {
	Cmd  Command
	Data DataBus
}

// NewPins creates a wire bundle with the command bus at NOP and the data bus
// floating.
func NewPins() *Pins {
	return &Pins{Cmd: Nop()}
}

// Reset forces all wires to their idle state.
func (p *Pins) Reset() {
	p.Cmd = Nop()
	p.Data = DataBus{}
}

// A Device is a pin-level model attached to the wire bundle. Cycle is called
// once per controller cycle, after the controller has resolved its outputs.
type Device interface {
	Cycle()
}
