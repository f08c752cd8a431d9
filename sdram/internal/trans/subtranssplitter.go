package trans

import (
	"encoding/binary"

	"github.com/sarchlab/sdramsim/sdram/internal/addressmapping"
	"github.com/sarchlab/sdramsim/sdram/internal/signal"
)

// SubTransSplitter divides a transaction into bus-level bursts.
type SubTransSplitter interface {
	Split(t *Transaction)
}

// NewSubTransSplitter creates a splitter that caps each burst at
// maxBurstLength words and never lets a burst cross a row or bank boundary.
func NewSubTransSplitter(
	mapper addressmapping.MapperImpl,
	maxBurstLength int,
) SubTransSplitter {
	return &subTransSplitterImpl{
		mapper:         mapper,
		maxBurstLength: maxBurstLength,
	}
}

type subTransSplitterImpl struct {
	mapper         addressmapping.MapperImpl
	maxBurstLength int
}

// Split populates t.SubTransactions. Addresses are byte-granular on the
// message side and word-granular on the bus side; a word is two bytes.
// Consecutive words land in consecutive columns, so a burst runs until the
// column field would wrap, the word budget runs out, or the transaction ends.
func (s *subTransSplitterImpl) Split(t *Transaction) {
	wordIndex := t.GlobalByteAddress() / 2
	wordCount := (t.ByteSize() + 1) / 2
	words := s.writeWords(t)

	colCapacity := uint64(1) << s.mapper.ColBits
	consumed := uint64(0)

	for consumed < wordCount {
		column := wordIndex % colCapacity
		burstLen := wordCount - consumed
		if budget := uint64(s.maxBurstLength); burstLen > budget {
			burstLen = budget
		}
		if toRowEnd := colCapacity - column; burstLen > toRowEnd {
			burstLen = toRowEnd
		}

		st := &SubTransaction{
			Transaction: t,
			Request: signal.Request{
				Address:     s.wordAddress(wordIndex),
				BurstLength: int(burstLen),
			},
		}
		if t.IsRead() {
			st.Request.Direction = signal.DirectionRead
		} else {
			st.Request.Direction = signal.DirectionWrite
			st.WriteWords = words[consumed : consumed+burstLen]
		}

		t.SubTransactions = append(t.SubTransactions, st)

		wordIndex += burstLen
		consumed += burstLen
	}
}

// wordAddress rebuilds the linear pin address of a word from its position in
// the row-major word space.
func (s *subTransSplitterImpl) wordAddress(wordIndex uint64) uint32 {
	colCapacity := uint64(1) << s.mapper.ColBits
	bankCapacity := uint64(1) << s.mapper.BankBits

	loc := addressmapping.Location{
		Column: uint16(wordIndex % colCapacity),
		Bank:   uint8(wordIndex / colCapacity % bankCapacity),
		Row:    uint16(wordIndex / colCapacity / bankCapacity),
	}

	return s.mapper.Flatten(loc)
}

func (s *subTransSplitterImpl) writeWords(t *Transaction) []uint16 {
	if t.IsRead() {
		return nil
	}

	data := t.Write.Data
	words := make([]uint16, 0, (len(data)+1)/2)
	for i := 0; i < len(data); i += 2 {
		if i+1 < len(data) {
			words = append(words, binary.LittleEndian.Uint16(data[i:]))
		} else {
			words = append(words, uint16(data[i]))
		}
	}

	return words
}
