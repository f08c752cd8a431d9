// Package trace records the pin-level and message-level activity of a memory
// controller into a data recorder, so a run can be inspected afterwards with
// plain SQL.
package trace

import (
	"github.com/sarchlab/sdramsim/datarecording"
	"github.com/sarchlab/sdramsim/sdram"
	"github.com/sarchlab/sdramsim/sim"
)

// A PinRecord is one row of the pin_activity table: the wire values of one
// controller cycle.
type PinRecord struct {
	Time     float64
	Cycle    uint64
	State    string
	Command  string
	CmdCode  uint8
	Addr     uint16
	Bank     uint8
	BusOwner string
	BusValue uint16
}

// A TransactionRecord is one row of the transactions table.
type TransactionRecord struct {
	Time     float64
	ID       string
	Kind     string
	Address  uint64
	ByteSize uint64
	Status   string
}

// SignalTracer is a hook that records controller activity. Attach it to a
// controller with AcceptHook or the builder's WithAdditionalHook.
type SignalTracer struct {
	timeTeller sim.TimeTeller
	recorder   datarecording.DataRecorder
}

// NewSignalTracer creates a tracer that writes into the given recorder.
func NewSignalTracer(
	timeTeller sim.TimeTeller,
	recorder datarecording.DataRecorder,
) *SignalTracer {
	recorder.CreateTable("pin_activity", PinRecord{})
	recorder.CreateTable("transactions", TransactionRecord{})

	return &SignalTracer{
		timeTeller: timeTeller,
		recorder:   recorder,
	}
}

// Func records the hooked controller activity.
func (t *SignalTracer) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sdram.HookPosPinCycle:
		t.recordPins(ctx.Item.(sdram.PinSnapshot))
	case sdram.HookPosTransactionStart:
		t.recordTransaction(ctx.Item.(sdram.TransactionEvent), "start")
	case sdram.HookPosTransactionComplete:
		t.recordTransaction(ctx.Item.(sdram.TransactionEvent), "complete")
	}
}

func (t *SignalTracer) recordPins(s sdram.PinSnapshot) {
	t.recorder.InsertData("pin_activity", PinRecord{
		Time:     float64(t.timeTeller.CurrentTime()),
		Cycle:    s.Cycle,
		State:    s.State,
		Command:  s.Command.Kind.String(),
		CmdCode:  s.Command.Kind.Encode(),
		Addr:     s.Command.Addr,
		Bank:     s.Command.Bank,
		BusOwner: s.BusOwner.String(),
		BusValue: s.BusValue,
	})
}

func (t *SignalTracer) recordTransaction(
	e sdram.TransactionEvent,
	status string,
) {
	kind := "write"
	if e.IsRead {
		kind = "read"
	}

	t.recorder.InsertData("transactions", TransactionRecord{
		Time:     float64(t.timeTeller.CurrentTime()),
		ID:       e.ID,
		Kind:     kind,
		Address:  e.Address,
		ByteSize: e.ByteSize,
		Status:   status,
	})
}
