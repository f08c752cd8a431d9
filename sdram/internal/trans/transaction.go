// Package trans tracks the lifetime of a memory access inside the controller,
// from the message that requested it down to the bus-level bursts that
// serve it.
package trans

import (
	"encoding/binary"

	"github.com/sarchlab/sdramsim/mem"
	"github.com/sarchlab/sdramsim/sdram/internal/signal"
)

// A Transaction is one read or write message in flight. Exactly one of Read
// and Write is set.
type Transaction struct {
	Read  *mem.ReadReq
	Write *mem.WriteReq

	SubTransactions []*SubTransaction
}

// IsRead tells whether the transaction reads memory.
func (t *Transaction) IsRead() bool {
	return t.Read != nil
}

// GlobalByteAddress returns the first byte the transaction touches.
func (t *Transaction) GlobalByteAddress() uint64 {
	if t.IsRead() {
		return t.Read.Address
	}

	return t.Write.Address
}

// ByteSize returns the number of bytes the transaction moves.
func (t *Transaction) ByteSize() uint64 {
	if t.IsRead() {
		return t.Read.AccessByteSize
	}

	return uint64(len(t.Write.Data))
}

// AllCompleted tells whether every sub-transaction has finished on the bus.
func (t *Transaction) AllCompleted() bool {
	for _, st := range t.SubTransactions {
		if !st.Completed {
			return false
		}
	}

	return true
}

// AssembleReadData concatenates the words captured by the sub-transactions
// back into the byte stream the requester asked for.
func (t *Transaction) AssembleReadData() []byte {
	data := make([]byte, 0, t.ByteSize())

	for _, st := range t.SubTransactions {
		for _, w := range st.ReadWords {
			data = binary.LittleEndian.AppendUint16(data, w)
		}
	}

	return data[:t.ByteSize()]
}

// A SubTransaction is one bus-level burst: up to MaxBurstLength consecutive
// words within a single row and bank.
type SubTransaction struct {
	Transaction *Transaction
	Request     signal.Request

	WriteWords []uint16
	ReadWords  []uint16
	Completed  bool
}
