// Package memaccessagent provides a component that exercises a memory
// controller with a stream of randomized read and write requests, checking
// every read result against the values it wrote before.
package memaccessagent

import (
	"bytes"
	"log"
	"math/rand"
	"reflect"

	"github.com/sarchlab/sdramsim/mem"
	"github.com/sarchlab/sdramsim/sim"
)

var dumpLog = false

// A ProgressReporter is notified as the agent issues requests and receives
// their responses. A monitoring progress bar satisfies it.
type ProgressReporter interface {
	IncrementInProgress(amount uint64)
	MoveInProgressToFinished(amount uint64)
}

// A MemAccessAgent is a Component that tests a memory controller by issuing
// a large number of read and write requests and verifying the data that
// comes back.
type MemAccessAgent struct {
	*sim.TickingComponent

	LowModule   sim.Port
	Progress    ProgressReporter
	MaxAddress  uint64
	AccessBytes uint64

	WriteLeft       int
	ReadLeft        int
	KnownMemValue   map[uint64][]byte
	PendingReadReq  map[string]*mem.ReadReq
	PendingWriteReq map[string]*mem.WriteReq

	memPort sim.Port
}

// MemPort returns the port the agent sends requests from.
func (a *MemAccessAgent) MemPort() sim.Port {
	return a.memPort
}

// Done reports whether the agent has completed all its accesses.
func (a *MemAccessAgent) Done() bool {
	return a.ReadLeft == 0 && a.WriteLeft == 0 &&
		len(a.PendingReadReq) == 0 && len(a.PendingWriteReq) == 0
}

// Tick updates the states of the agent and issues new read and write
// requests.
func (a *MemAccessAgent) Tick() bool {
	madeProgress := false

	madeProgress = a.processMsgRsp() || madeProgress

	if a.ReadLeft == 0 && a.WriteLeft == 0 {
		return madeProgress
	}

	if a.shouldRead() {
		madeProgress = a.doRead() || madeProgress
	} else {
		madeProgress = a.doWrite() || madeProgress
	}

	return madeProgress
}

func (a *MemAccessAgent) processMsgRsp() bool {
	msg := a.memPort.RetrieveIncoming()
	if msg == nil {
		return false
	}

	switch msg := msg.(type) {
	case *mem.WriteDoneRsp:
		if dumpLog {
			write := a.PendingWriteReq[msg.RespondTo]
			log.Printf("%.10f, agent, write complete, 0x%X\n",
				a.CurrentTime(), write.Address)
		}

		delete(a.PendingWriteReq, msg.RespondTo)
		a.reportFinished()

		return true
	case *mem.DataReadyRsp:
		req := a.PendingReadReq[msg.RespondTo]
		delete(a.PendingReadReq, msg.RespondTo)

		if dumpLog {
			log.Printf("%.10f, agent, read complete, 0x%X, %v\n",
				a.CurrentTime(), req.Address, msg.Data)
		}

		a.checkReadResult(req, msg)
		a.reportFinished()

		return true
	default:
		log.Panicf("cannot process message of type %s", reflect.TypeOf(msg))
	}

	return false
}

// checkReadResult compares the returned data with the most recent write to
// the same address. Requests to one address are never concurrently in
// flight, so the last known value is the correct one.
func (a *MemAccessAgent) checkReadResult(
	req *mem.ReadReq,
	rsp *mem.DataReadyRsp,
) {
	expected := a.KnownMemValue[req.Address]

	if !bytes.Equal(rsp.Data, expected) {
		log.Panicf("read 0x%X returned %v, expected %v",
			req.Address, rsp.Data, expected)
	}
}

func (a *MemAccessAgent) reportIssued() {
	if a.Progress != nil {
		a.Progress.IncrementInProgress(1)
	}
}

func (a *MemAccessAgent) reportFinished() {
	if a.Progress != nil {
		a.Progress.MoveInProgressToFinished(1)
	}
}

func (a *MemAccessAgent) shouldRead() bool {
	if len(a.KnownMemValue) == 0 {
		return false
	}

	if a.ReadLeft == 0 {
		return false
	}

	if a.WriteLeft == 0 {
		return true
	}

	dice := rand.Float64()

	return dice > 0.5
}

func (a *MemAccessAgent) doRead() bool {
	address := a.randomReadAddress()

	if a.isAddressInPendingReq(address) {
		return false
	}

	readReq := mem.ReadReqBuilder{}.
		WithSrc(a.memPort).
		WithDst(a.LowModule).
		WithAddress(address).
		WithByteSize(a.AccessBytes).
		Build()

	err := a.memPort.Send(readReq)
	if err == nil {
		a.PendingReadReq[readReq.ID] = readReq
		a.ReadLeft--
		a.reportIssued()

		if dumpLog {
			log.Printf("%.10f, agent, read, 0x%X\n",
				a.CurrentTime(), address)
		}

		return true
	}

	return false
}

func (a *MemAccessAgent) randomReadAddress() uint64 {
	for {
		addr := a.randomAddress()
		if _, written := a.KnownMemValue[addr]; written {
			return addr
		}
	}
}

func (a *MemAccessAgent) randomAddress() uint64 {
	numSlots := a.MaxAddress / a.AccessBytes

	return rand.Uint64() % numSlots * a.AccessBytes
}

func (a *MemAccessAgent) isAddressInPendingReq(addr uint64) bool {
	return a.isAddressInPendingWrite(addr) || a.isAddressInPendingRead(addr)
}

func (a *MemAccessAgent) isAddressInPendingWrite(addr uint64) bool {
	for _, write := range a.PendingWriteReq {
		if write.Address == addr {
			return true
		}
	}

	return false
}

func (a *MemAccessAgent) isAddressInPendingRead(addr uint64) bool {
	for _, read := range a.PendingReadReq {
		if read.Address == addr {
			return true
		}
	}

	return false
}

func (a *MemAccessAgent) doWrite() bool {
	address := a.randomAddress()

	if a.isAddressInPendingReq(address) {
		return false
	}

	data := make([]byte, a.AccessBytes)
	for i := range data {
		data[i] = byte(rand.Intn(256))
	}

	writeReq := mem.WriteReqBuilder{}.
		WithSrc(a.memPort).
		WithDst(a.LowModule).
		WithAddress(address).
		WithData(data).
		Build()

	err := a.memPort.Send(writeReq)
	if err == nil {
		a.WriteLeft--
		a.KnownMemValue[address] = data
		a.PendingWriteReq[writeReq.ID] = writeReq
		a.reportIssued()

		if dumpLog {
			log.Printf("%.10f, agent, write, 0x%X, %v\n",
				a.CurrentTime(), address, writeReq.Data)
		}

		return true
	}

	return false
}
