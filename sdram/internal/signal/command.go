// Package signal defines the pin-level values exchanged between the
// controller and the memory device: the command/address bus, the shared
// bidirectional data bus, and the request that starts an access.
package signal

// CommandKind represents the kind of an SDRAM command.
type CommandKind int

// A list of all command kinds. RefreshKind and LoadModeKind are part of the
// encoding but are never emitted by the current sequencer logic.
const (
	CmdKindNop CommandKind = iota
	CmdKindActivate
	CmdKindRead
	CmdKindWrite
	CmdKindPrecharge
	CmdKindRefresh
	CmdKindLoadMode
)

// cmdEncoding maps each command kind to its 4-bit {CS#,RAS#,CAS#,WE#}
// pattern.
var cmdEncoding = map[CommandKind]uint8{
	CmdKindNop:       0b0111,
	CmdKindActivate:  0b0011,
	CmdKindRead:      0b0101,
	CmdKindWrite:     0b0100,
	CmdKindPrecharge: 0b0010,
	CmdKindRefresh:   0b0001,
	CmdKindLoadMode:  0b0000,
}

var cmdNames = map[CommandKind]string{
	CmdKindNop:       "NOP",
	CmdKindActivate:  "ACTIVE",
	CmdKindRead:      "READ",
	CmdKindWrite:     "WRITE",
	CmdKindPrecharge: "PRECHARGE",
	CmdKindRefresh:   "REFRESH",
	CmdKindLoadMode:  "LOAD_MODE",
}

// Encode returns the 4-bit wire pattern of the command kind.
func (k CommandKind) Encode() uint8 {
	return cmdEncoding[k]
}

func (k CommandKind) String() string {
	return cmdNames[k]
}

// PrechargeAllPattern is the address payload of a PRECHARGE command that
// closes all banks (A10 high).
const PrechargeAllPattern uint16 = 1 << 10

// A Command is the value on the command/address bus during one cycle. Addr
// multiplexes the row address (ACTIVE), the column address (READ/WRITE), or
// the precharge-all pattern (PRECHARGE).
type Command struct {
	Kind          CommandKind
	Addr          uint16
	Bank          uint8
	AutoPrecharge bool
}

// Nop returns the safe idle value of the command bus.
func Nop() Command {
	return Command{Kind: CmdKindNop}
}
