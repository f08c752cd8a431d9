package memdevice

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/sdramsim/sdram/internal/addressmapping"
	"github.com/sarchlab/sdramsim/sdram/internal/signal"
)

var _ = Describe("Comp", func() {
	var (
		pins   *signal.Pins
		mapper addressmapping.MapperImpl
		dev    *Comp
	)

	BeforeEach(func() {
		pins = signal.NewPins()
		mapper = addressmapping.MakeBuilder().Build()
		dev = MakeBuilder().
			WithPins(pins).
			Build("Dev")
	})

	activate := func(row uint16, bank uint8) {
		pins.Cmd = signal.Command{
			Kind: signal.CmdKindActivate,
			Addr: row,
			Bank: bank,
		}
		dev.Cycle()
	}

	It("should capture a write burst into storage", func() {
		activate(3, 1)

		pins.Cmd = signal.Command{
			Kind: signal.CmdKindWrite,
			Addr: 5,
			Bank: 1,
		}
		dev.Cycle()

		pins.Cmd = signal.Nop()
		words := []uint16{0x1111, 0x2222, 0x3333}
		for _, w := range words {
			pins.Data.Drive(signal.BusOwnerController, w)
			dev.Cycle()
		}
		pins.Data.Release(signal.BusOwnerController)
		dev.Cycle()

		loc := addressmapping.Location{Row: 3, Column: 5, Bank: 1}
		for i, w := range words {
			addr := mapper.WordIndex(loc, i) * 2
			data, err := dev.Storage().Read(addr, 2)
			Expect(err).To(BeNil())
			Expect(data).To(Equal([]byte{byte(w), byte(w >> 8)}))
		}
	})

	It("should stream a read burst from storage", func() {
		loc := addressmapping.Location{Row: 3, Column: 5, Bank: 1}
		words := []uint16{0xAAAA, 0xBBBB, 0xCCCC}
		for i, w := range words {
			addr := mapper.WordIndex(loc, i) * 2
			err := dev.Storage().Write(addr, []byte{byte(w), byte(w >> 8)})
			Expect(err).To(BeNil())
		}

		activate(3, 1)

		pins.Cmd = signal.Command{
			Kind: signal.CmdKindRead,
			Addr: 5,
			Bank: 1,
		}
		dev.Cycle()

		Expect(pins.Data.Owner()).To(Equal(signal.BusOwnerDevice))
		Expect(pins.Data.Sample()).To(Equal(words[0]))

		pins.Cmd = signal.Nop()
		for _, w := range words[1:] {
			dev.Cycle()
			Expect(pins.Data.Sample()).To(Equal(w))
		}
	})

	It("should release the bus after the maximum burst", func() {
		activate(0, 0)

		pins.Cmd = signal.Command{Kind: signal.CmdKindRead}
		dev.Cycle()

		pins.Cmd = signal.Nop()
		for i := 0; i < signal.MaxBurstLength-1; i++ {
			dev.Cycle()
			Expect(pins.Data.Owner()).To(Equal(signal.BusOwnerDevice))
		}

		dev.Cycle()
		Expect(pins.Data.Floating()).To(BeTrue())
	})

	It("should serve a read of the last word of the array", func() {
		loc := addressmapping.Location{Row: 8191, Column: 511, Bank: 3}
		addr := mapper.WordIndex(loc, 0) * 2
		err := dev.Storage().Write(addr, []byte{0xEF, 0xBE})
		Expect(err).To(BeNil())

		activate(8191, 3)

		pins.Cmd = signal.Command{
			Kind: signal.CmdKindRead,
			Addr: 511,
			Bank: 3,
		}
		dev.Cycle()

		Expect(pins.Data.Owner()).To(Equal(signal.BusOwnerDevice))
		Expect(pins.Data.Sample()).To(Equal(uint16(0xBEEF)))

		pins.Cmd = signal.Nop()
		dev.Cycle()
		Expect(pins.Data.Floating()).To(BeTrue())
	})

	It("should stop a read burst at the end of the row", func() {
		activate(8191, 3)
		pins.Cmd = signal.Command{
			Kind: signal.CmdKindRead,
			Addr: 509,
			Bank: 3,
		}
		dev.Cycle()

		pins.Cmd = signal.Nop()
		dev.Cycle()
		dev.Cycle()
		Expect(pins.Data.Owner()).To(Equal(signal.BusOwnerDevice))

		dev.Cycle()
		Expect(pins.Data.Floating()).To(BeTrue())
	})

	It("should stop a write burst at the end of the row", func() {
		activate(8191, 3)
		pins.Cmd = signal.Command{
			Kind: signal.CmdKindWrite,
			Addr: 510,
			Bank: 3,
		}
		dev.Cycle()

		pins.Cmd = signal.Nop()
		words := []uint16{0x1111, 0x2222, 0x3333}
		for _, w := range words {
			pins.Data.Drive(signal.BusOwnerController, w)
			dev.Cycle()
		}
		pins.Data.Release(signal.BusOwnerController)
		dev.Cycle()

		loc := addressmapping.Location{Row: 8191, Column: 510, Bank: 3}
		for i, w := range words[:2] {
			addr := mapper.WordIndex(loc, i) * 2
			data, err := dev.Storage().Read(addr, 2)
			Expect(err).To(BeNil())
			Expect(data).To(Equal([]byte{byte(w), byte(w >> 8)}))
		}
	})

	It("should stop streaming when the next row opens", func() {
		activate(0, 0)
		pins.Cmd = signal.Command{Kind: signal.CmdKindRead}
		dev.Cycle()

		activate(1, 0)

		Expect(pins.Data.Floating()).To(BeTrue())
	})

	It("should ignore a precharge that lands mid-burst", func() {
		activate(0, 0)
		pins.Cmd = signal.Command{Kind: signal.CmdKindRead}
		dev.Cycle()

		pins.Cmd = signal.Command{
			Kind: signal.CmdKindPrecharge,
			Addr: signal.PrechargeAllPattern,
		}
		dev.Cycle()

		Expect(pins.Data.Owner()).To(Equal(signal.BusOwnerDevice))

		pins.Cmd = signal.Command{Kind: signal.CmdKindRead}
		dev.Cycle()
	})

	It("should close the row on auto-precharge", func() {
		activate(0, 0)
		pins.Cmd = signal.Command{
			Kind:          signal.CmdKindRead,
			AutoPrecharge: true,
		}
		dev.Cycle()

		pins.Cmd = signal.Nop()
		for i := 0; i < signal.MaxBurstLength; i++ {
			dev.Cycle()
		}

		pins.Cmd = signal.Command{Kind: signal.CmdKindRead}
		Expect(func() { dev.Cycle() }).To(Panic())
	})

	It("should panic on a column access with no open row", func() {
		pins.Cmd = signal.Command{Kind: signal.CmdKindWrite}

		Expect(func() { dev.Cycle() }).To(Panic())
	})
})
