package column

import (
	"fmt"

	"github.com/oisee/colscan/pkg/bitvec"
	"github.com/oisee/colscan/pkg/colerr"
	"github.com/oisee/colscan/pkg/word"
)

// VerticalBlock stores codes bit-sliced: one plane per bit position,
// MSB (bit 0) first, each plane a packed, MSB-first-within-word bit array
// over the same capacity codes as every other plane. The C++ original
// further groups planes in batches of four for cache/unroll reasons; that
// grouping changes nothing observable, so this layout keeps one flat plane
// per bit position.
type VerticalBlock struct {
	width    uint32
	capacity int
	num      int
	maxCode  uint64
	planes   [][]uint64 // planes[bitID][wordIdx]
}

// NewVerticalBlock allocates an empty block with the given width and code
// capacity.
func NewVerticalBlock(width uint32, capacity int) *VerticalBlock {
	nWords := int(word.CeilDiv(uint64(capacity), word.Size))
	planes := make([][]uint64, width)
	for i := range planes {
		planes[i] = make([]uint64, nWords)
	}
	return &VerticalBlock{width: width, capacity: capacity, planes: planes}
}

func (b *VerticalBlock) Type() Type      { return Vertical }
func (b *VerticalBlock) Width() uint32   { return b.width }
func (b *VerticalBlock) NumCodes() int   { return b.num }
func (b *VerticalBlock) MaxCode() uint64 { return b.maxCode }
func (b *VerticalBlock) Capacity() int   { return b.capacity }

func (b *VerticalBlock) limit() uint64 {
	return (uint64(1) << b.width) - 1
}

func planeAddr(pos int) (wi int, shift uint64) {
	return pos / int(word.Size), word.Size - 1 - uint64(pos%int(word.Size))
}

func (b *VerticalBlock) checkPos(op string, pos int) error {
	if pos < 0 || pos >= b.num {
		return colerr.InvalidArg(op, fmt.Sprintf("position %d out of range [0,%d)", pos, b.num))
	}
	return nil
}

func (b *VerticalBlock) GetCode(pos int) (uint64, error) {
	if err := b.checkPos("VerticalBlock.GetCode", pos); err != nil {
		return 0, err
	}
	wi, shift := planeAddr(pos)
	var code uint64
	for bitID := uint32(0); bitID < b.width; bitID++ {
		bit := (b.planes[bitID][wi] >> shift) & 1
		code |= bit << (b.width - 1 - bitID)
	}
	return code, nil
}

func (b *VerticalBlock) SetCode(pos int, code uint64) error {
	if err := b.checkPos("VerticalBlock.SetCode", pos); err != nil {
		return err
	}
	if code > b.limit() {
		return colerr.WidthExceededErr("VerticalBlock.SetCode", word.BitWidth(code))
	}
	wi, shift := planeAddr(pos)
	for bitID := uint32(0); bitID < b.width; bitID++ {
		bit := (code >> (b.width - 1 - bitID)) & 1
		if bit == 1 {
			b.planes[bitID][wi] |= 1 << shift
		} else {
			b.planes[bitID][wi] &^= 1 << shift
		}
	}
	if code > b.maxCode {
		b.maxCode = code
	}
	return nil
}

// Append inserts codes one at a time, stopping at the first that doesn't
// fit b.width: everything before it is already committed when this
// returns a width_exceeded result.
func (b *VerticalBlock) Append(codes []uint64) (*AppendResult, error) {
	if b.num+len(codes) > b.capacity {
		return nil, colerr.InvalidArg("VerticalBlock.Append", fmt.Sprintf("would exceed capacity %d", b.capacity))
	}
	limit := b.limit()
	for _, c := range codes {
		if c > limit {
			suggested := word.BitWidth(c)
			if suggested > MaxWidth {
				suggested = MaxWidth
			}
			return exceededResult(suggested), nil
		}
		b.num++
		if err := b.SetCode(b.num-1, c); err != nil {
			b.num--
			return nil, err
		}
	}
	return okResult(b.width), nil
}

// RawWords returns every plane's words concatenated, plane 0 (the MSB
// plane) first, in the order LoadRawWords expects them back.
func (b *VerticalBlock) RawWords() []uint64 {
	nWords := len(b.planes[0])
	out := make([]uint64, 0, int(b.width)*nWords)
	for _, plane := range b.planes {
		out = append(out, plane...)
	}
	return out
}

// LoadRawWords replaces this block's contents with count codes backed
// directly by words, width planes of equal length concatenated as
// produced by RawWords.
func (b *VerticalBlock) LoadRawWords(words []uint64, count int) error {
	nWords := int(word.CeilDiv(uint64(count), word.Size))
	stride := nWords
	if b.width > 0 {
		stride = len(words) / int(b.width)
	}
	if count > b.capacity || stride < nWords {
		return colerr.InvalidArg("VerticalBlock.LoadRawWords", "word count does not match capacity")
	}
	for i := range b.planes {
		if len(b.planes[i]) < nWords {
			b.planes[i] = make([]uint64, nWords)
		}
		copy(b.planes[i], words[i*stride:i*stride+nWords])
		for j := nWords; j < len(b.planes[i]); j++ {
			b.planes[i][j] = 0
		}
	}
	b.maxCode = 0
	b.num = count
	for p := 0; p < count; p++ {
		c, _ := b.GetCode(p)
		if c > b.maxCode {
			b.maxCode = c
		}
	}
	return nil
}

// scanWord runs the bit-serial kernel for one word (64 codes) against a
// literal, returning the word's equal/less/greater accumulators. It
// short-circuits across bit planes once every lane in the word has
// diverged from the literal (maskEqual == 0): no further bit can change
// a lane that has already been decided.
func (b *VerticalBlock) scanWord(cmp Comparator, wi int, literalBits []uint64) (equal, less, greater uint64) {
	equal = ^uint64(0)
	needLess := cmp == Lt || cmp == Le
	needGreater := cmp == Gt || cmp == Ge
	for bitID := uint32(0); bitID < b.width; bitID++ {
		d := b.planes[bitID][wi]
		litWord := literalBits[bitID]
		if needLess {
			less |= equal &^ d & litWord
		}
		if needGreater {
			greater |= equal & d &^ litWord
		}
		equal &= ^(d ^ litWord)
		if equal == 0 {
			break
		}
	}
	return equal, less, greater
}

func (b *VerticalBlock) literalPlanes(literal uint64) []uint64 {
	lit := make([]uint64, b.width)
	for bitID := uint32(0); bitID < b.width; bitID++ {
		bit := (literal >> (b.width - 1 - bitID)) & 1
		if bit == 1 {
			lit[bitID] = ^uint64(0)
		}
	}
	return lit
}

// ScanLiteral evaluates code ⊙ literal for every stored code using the
// bit-serial kernel, one word (64 codes) at a time, then applies the
// null-tail rule for rows beyond NumCodes() up to target.Num(). A literal
// wider than the block's width is rejected as invalid_argument.
func (b *VerticalBlock) ScanLiteral(cmp Comparator, literal uint64, target *bitvec.Block, combine CombineOp) error {
	if literal > b.limit() {
		return colerr.InvalidArg("VerticalBlock.ScanLiteral", fmt.Sprintf("literal %d overflows width %d", literal, b.width))
	}
	lit := b.literalPlanes(literal)
	return scanNullAware(target, combine, b.num, func(p int) bool {
		wi, shift := planeAddr(p)
		equal, less, greater := b.scanWord(cmp, wi, lit)
		switch cmp {
		case Eq:
			return (equal>>shift)&1 == 1
		case Ne:
			return (equal>>shift)&1 == 0
		case Lt:
			return (less>>shift)&1 == 1
		case Le:
			return (less>>shift)&1 == 1 || (equal>>shift)&1 == 1
		case Gt:
			return (greater>>shift)&1 == 1
		case Ge:
			return (greater>>shift)&1 == 1 || (equal>>shift)&1 == 1
		default:
			return false
		}
	})
}

func (b *VerticalBlock) ScanColumn(cmp Comparator, other Block, target *bitvec.Block, combine CombineOp) error {
	o, ok := other.(*VerticalBlock)
	if !ok || o.width != b.width {
		return colerr.TypeMismatchErr("VerticalBlock.ScanColumn", "operand is not a vertical block of the same width")
	}
	n := b.num
	if o.num < n {
		n = o.num
	}
	return scanNullAware(target, combine, n, func(p int) bool {
		bc, _ := b.GetCode(p)
		oc, _ := o.GetCode(p)
		return compare(cmp, bc, oc)
	})
}
