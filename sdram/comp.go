// Package sdram models a synchronous DRAM controller at pin level. The
// controller accepts read and write messages on its top port, breaks them
// into bus bursts, and drives a command/address/data wire bundle that an
// attached device model observes cycle by cycle.
package sdram

import (
	"github.com/sarchlab/sdramsim/mem"
	"github.com/sarchlab/sdramsim/sdram/internal/signal"
	"github.com/sarchlab/sdramsim/sdram/internal/trans"
	"github.com/sarchlab/sdramsim/sim"
)

// HookPosPinCycle marks the end of one controller cycle. The hook item is a
// PinSnapshot.
var HookPosPinCycle = &sim.HookPos{Name: "PinCycle"}

// HookPosTransactionStart marks the acceptance of a read or write message.
var HookPosTransactionStart = &sim.HookPos{Name: "TransactionStart"}

// HookPosTransactionComplete marks the completion of a read or write message.
var HookPosTransactionComplete = &sim.HookPos{Name: "TransactionComplete"}

// A TransactionEvent describes a message-level access, for tracing.
type TransactionEvent struct {
	ID       string
	IsRead   bool
	Address  uint64
	ByteSize uint64
}

func makeTransactionEvent(t *trans.Transaction) TransactionEvent {
	e := TransactionEvent{
		IsRead:   t.IsRead(),
		Address:  t.GlobalByteAddress(),
		ByteSize: t.ByteSize(),
	}
	if t.IsRead() {
		e.ID = t.Read.ID
	} else {
		e.ID = t.Write.ID
	}

	return e
}

// A PinSnapshot captures the wire values of one controller cycle.
type PinSnapshot struct {
	Cycle    uint64
	State    string
	Command  signal.Command
	BusOwner signal.BusOwner
	BusValue uint16
}

// Comp is the memory controller. It is a ticking component; each tick is one
// clock of the pin protocol. Attached devices are cycled after the controller
// within the same tick, so the whole wire bundle resolves deterministically
// once per cycle.
type Comp struct {
	*sim.TickingComponent
	sim.MiddlewareHolder

	topPort sim.Port

	pins     *signal.Pins
	core     *Core
	splitter trans.SubTransSplitter
	devices  []signal.Device

	subTransQueueCap     int
	pendingSubTrans      []*trans.SubTransaction
	currentSubTrans      *trans.SubTransaction
	inflightTransactions []*trans.Transaction

	cycleCount uint64
}

// Tick updates the controller state by one cycle.
func (c *Comp) Tick() bool {
	return c.MiddlewareHolder.Tick()
}

// TopPort returns the port on which the controller receives requests.
func (c *Comp) TopPort() sim.Port {
	return c.topPort
}

// Pins returns the wire bundle devices attach to.
func (c *Comp) Pins() *signal.Pins {
	return c.pins
}

// AttachDevice connects a pin-level device model to the wire bundle. Devices
// are cycled in attachment order after the controller each cycle.
func (c *Comp) AttachDevice(d signal.Device) {
	c.devices = append(c.devices, d)
}

// CycleCount returns the number of clock cycles the controller has run.
func (c *Comp) CycleCount() uint64 {
	return c.cycleCount
}

type middleware struct {
	*Comp
}

func (m *middleware) Tick() (madeProgress bool) {
	madeProgress = m.respond() || madeProgress
	madeProgress = m.cycle() || madeProgress
	madeProgress = m.parseTop() || madeProgress

	return madeProgress
}

// cycle runs the pin protocol for one clock when there is work in flight.
func (m *middleware) cycle() (madeProgress bool) {
	if m.currentSubTrans != nil && m.core.Ready() {
		m.finishSubTrans()
		madeProgress = true
	}

	if m.currentSubTrans == nil {
		madeProgress = m.issueSubTrans() || madeProgress
	}

	if m.currentSubTrans == nil {
		return madeProgress
	}

	m.core.Cycle()
	m.cycleCount++

	for _, d := range m.devices {
		d.Cycle()
	}

	m.tracePins()

	return true
}

func (m *middleware) finishSubTrans() {
	st := m.currentSubTrans

	if st.Request.Direction == signal.DirectionRead {
		st.ReadWords = m.core.TakeReadWords()
	}
	st.Completed = true

	m.currentSubTrans = nil
}

func (m *middleware) issueSubTrans() bool {
	if len(m.pendingSubTrans) == 0 {
		return false
	}

	st := m.pendingSubTrans[0]
	if !m.core.Issue(st.Request, st.WriteWords) {
		return false
	}

	m.pendingSubTrans = m.pendingSubTrans[1:]
	m.currentSubTrans = st

	return true
}

func (m *middleware) parseTop() (madeProgress bool) {
	msg := m.topPort.PeekIncoming()
	if msg == nil {
		return false
	}

	t := &trans.Transaction{}
	switch msg := msg.(type) {
	case *mem.ReadReq:
		t.Read = msg
	case *mem.WriteReq:
		t.Write = msg
	default:
		panic("sdram controller cannot handle this message type")
	}

	m.splitter.Split(t)

	if len(m.pendingSubTrans)+len(t.SubTransactions) > m.subTransQueueCap {
		return false
	}

	m.pendingSubTrans = append(m.pendingSubTrans, t.SubTransactions...)
	m.inflightTransactions = append(m.inflightTransactions, t)
	m.topPort.RetrieveIncoming()

	m.InvokeHook(sim.HookCtx{
		Domain: m.Comp,
		Pos:    HookPosTransactionStart,
		Item:   makeTransactionEvent(t),
	})

	return true
}

func (m *middleware) respond() (madeProgress bool) {
	for i, t := range m.inflightTransactions {
		if t.AllCompleted() {
			if m.finalizeTransaction(t, i) {
				return true
			}
		}
	}

	return false
}

func (m *middleware) finalizeTransaction(t *trans.Transaction, i int) bool {
	var rsp sim.Msg
	if t.IsRead() {
		rsp = mem.DataReadyRspBuilder{}.
			WithSrc(m.topPort).
			WithDst(t.Read.Src).
			WithRspTo(t.Read.ID).
			WithData(t.AssembleReadData()).
			Build()
	} else {
		rsp = mem.WriteDoneRspBuilder{}.
			WithSrc(m.topPort).
			WithDst(t.Write.Src).
			WithRspTo(t.Write.ID).
			Build()
	}

	if err := m.topPort.Send(rsp); err != nil {
		return false
	}

	m.inflightTransactions = append(
		m.inflightTransactions[:i],
		m.inflightTransactions[i+1:]...)

	m.InvokeHook(sim.HookCtx{
		Domain: m.Comp,
		Pos:    HookPosTransactionComplete,
		Item:   makeTransactionEvent(t),
	})

	return true
}

func (m *middleware) tracePins() {
	if m.NumHooks() == 0 {
		return
	}

	m.InvokeHook(sim.HookCtx{
		Domain: m.Comp,
		Pos:    HookPosPinCycle,
		Item: PinSnapshot{
			Cycle:    m.cycleCount,
			State:    m.core.State(),
			Command:  m.pins.Cmd,
			BusOwner: m.pins.Data.Owner(),
			BusValue: m.pins.Data.Sample(),
		},
	})
}
