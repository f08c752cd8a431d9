// Package cmdseq walks the fixed activate, read-or-write, precharge command
// cadence for one access.
package cmdseq

import (
	"github.com/sarchlab/sdramsim/sdram/internal/addressmapping"
	"github.com/sarchlab/sdramsim/sdram/internal/signal"
)

type state int

const (
	stateIdle state = iota
	stateActivate
	stateReadOrWrite
	statePrecharge
)

// Sequencer emits one command per cycle following the three-phase access
// discipline.
type Sequencer interface {
	Trigger(loc addressmapping.Location, dir signal.Direction)
	Cycle() signal.Command
	Reset()
}

// NewSequencer creates a sequencer in its idle state.
func NewSequencer() *SequencerImpl {
	return &SequencerImpl{}
}

// SequencerImpl is a four-state Moore machine. Once triggered it walks
// Activate, ReadOrWrite, Precharge unconditionally, one state per cycle, and
// returns to idle. It has no notion of burst length or device timing. The
// caller owns the decision of when a trigger is safe.
type SequencerImpl struct {
	state     state
	triggered bool
	loc       addressmapping.Location
	dir       signal.Direction
}

// Trigger latches the decoded address and direction for the next sequence.
// The trigger is sampled by the next Cycle call. Triggers arriving while a
// sequence is in flight are ignored.
func (s *SequencerImpl) Trigger(loc addressmapping.Location, dir signal.Direction) {
	if s.state != stateIdle {
		return
	}

	s.triggered = true
	s.loc = loc
	s.dir = dir
}

// Cycle emits the command for the current state and advances the machine one
// state. The cycle that samples a trigger still emits NOP. ACTIVE follows on
// the next cycle.
func (s *SequencerImpl) Cycle() signal.Command {
	cmd := s.output()
	s.advance()

	return cmd
}

func (s *SequencerImpl) output() signal.Command {
	switch s.state {
	case stateActivate:
		return signal.Command{
			Kind: signal.CmdKindActivate,
			Addr: s.loc.Row,
			Bank: s.loc.Bank,
		}
	case stateReadOrWrite:
		kind := signal.CmdKindWrite
		if s.dir == signal.DirectionRead {
			kind = signal.CmdKindRead
		}
		return signal.Command{
			Kind:          kind,
			Addr:          s.loc.Column,
			Bank:          s.loc.Bank,
			AutoPrecharge: s.loc.AutoPrecharge,
		}
	case statePrecharge:
		// Precharge-all. Bank-selective precharge is not used.
		return signal.Command{
			Kind: signal.CmdKindPrecharge,
			Addr: signal.PrechargeAllPattern,
		}
	default:
		return signal.Nop()
	}
}

func (s *SequencerImpl) advance() {
	switch s.state {
	case stateIdle:
		if s.triggered {
			s.triggered = false
			s.state = stateActivate
		}
	case stateActivate:
		s.state = stateReadOrWrite
	case stateReadOrWrite:
		s.state = statePrecharge
	case statePrecharge:
		s.state = stateIdle
	}
}

// Reset forces the sequencer back to idle and drops any pending trigger.
func (s *SequencerImpl) Reset() {
	s.state = stateIdle
	s.triggered = false
}
