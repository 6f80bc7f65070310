package column

import (
	"fmt"

	"github.com/oisee/colscan/pkg/bitvec"
	"github.com/oisee/colscan/pkg/colerr"
	"github.com/oisee/colscan/pkg/word"
)

// HorizontalBlock packs codes LSB-first, multiple per word: each code gets
// a (width+1)-bit slot, the low width bits holding the value and the top
// bit reserved as scratch for the bit-parallel comparison kernel (the
// "result bit" that absorbs carries without bleeding into the neighboring
// code). Consecutive codes share a word, slot 0 in the lowest bits. The six
// per-word mask formulas below are those of the BitWeaving-H scan kernel: only unsigned wraparound
// arithmetic, no branches, one word evaluates codesPerWord codes at once.
type HorizontalBlock struct {
	width        uint32
	slotBits     uint32
	codesPerWord int
	capacity     int
	num          int
	maxCode      uint64
	data         []uint64
}

// NewHorizontalBlock allocates an empty block with the given width and
// code capacity.
func NewHorizontalBlock(width uint32, capacity int) *HorizontalBlock {
	slotBits := width + 1
	cpw := int(word.Size / uint64(slotBits))
	if cpw < 1 {
		cpw = 1
	}
	nWords := (capacity + cpw - 1) / cpw
	return &HorizontalBlock{
		width:        width,
		slotBits:     slotBits,
		codesPerWord: cpw,
		capacity:     capacity,
		data:         make([]uint64, nWords),
	}
}

func (b *HorizontalBlock) Type() Type      { return Horizontal }
func (b *HorizontalBlock) Width() uint32   { return b.width }
func (b *HorizontalBlock) NumCodes() int   { return b.num }
func (b *HorizontalBlock) MaxCode() uint64 { return b.maxCode }
func (b *HorizontalBlock) Capacity() int   { return b.capacity }

func (b *HorizontalBlock) limit() uint64 {
	return (uint64(1) << b.width) - 1
}

func (b *HorizontalBlock) slotShift(s int) uint64 {
	return uint64(s) * uint64(b.slotBits)
}

func (b *HorizontalBlock) checkPos(op string, pos int) error {
	if pos < 0 || pos >= b.num {
		return colerr.InvalidArg(op, fmt.Sprintf("position %d out of range [0,%d)", pos, b.num))
	}
	return nil
}

func (b *HorizontalBlock) GetCode(pos int) (uint64, error) {
	if err := b.checkPos("HorizontalBlock.GetCode", pos); err != nil {
		return 0, err
	}
	wi, s := pos/b.codesPerWord, pos%b.codesPerWord
	shift := b.slotShift(s)
	return (b.data[wi] >> shift) & b.limit(), nil
}

func (b *HorizontalBlock) SetCode(pos int, code uint64) error {
	if err := b.checkPos("HorizontalBlock.SetCode", pos); err != nil {
		return err
	}
	if code > b.limit() {
		return colerr.WidthExceededErr("HorizontalBlock.SetCode", word.BitWidth(code))
	}
	wi, s := pos/b.codesPerWord, pos%b.codesPerWord
	shift := b.slotShift(s)
	b.data[wi] &^= b.limit() << shift
	b.data[wi] |= code << shift
	if code > b.maxCode {
		b.maxCode = code
	}
	return nil
}

// Append inserts codes one at a time, stopping at the first that doesn't
// fit b.width: everything before it is already committed when this
// returns a width_exceeded result.
func (b *HorizontalBlock) Append(codes []uint64) (*AppendResult, error) {
	if b.num+len(codes) > b.capacity {
		return nil, colerr.InvalidArg("HorizontalBlock.Append", fmt.Sprintf("would exceed capacity %d", b.capacity))
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

// RawWords returns the block's packed storage words verbatim.
func (b *HorizontalBlock) RawWords() []uint64 { return b.data }

// LoadRawWords replaces this block's contents with count codes backed
// directly by words, the packed representation produced by RawWords for
// this block's width and capacity.
func (b *HorizontalBlock) LoadRawWords(words []uint64, count int) error {
	nWords := (count + b.codesPerWord - 1) / b.codesPerWord
	if count > b.capacity || len(words) < nWords {
		return colerr.InvalidArg("HorizontalBlock.LoadRawWords", "word count does not match capacity")
	}
	if len(b.data) < nWords {
		b.data = make([]uint64, nWords)
	}
	copy(b.data, words[:nWords])
	for i := nWords; i < len(b.data); i++ {
		b.data[i] = 0
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

// hMasks holds the per-literal masks shared by every word evaluated
// against that literal within one scan.
type hMasks struct {
	baseMask, complementMask, resultMask uint64
	lessThanMask, greaterThanMask        uint64
	equalMask, inequalMask               uint64
}

func (b *HorizontalBlock) buildMasks(literal uint64) hMasks {
	var baseMask uint64
	for i := 0; i < b.codesPerWord; i++ {
		baseMask = (baseMask << b.slotBits) | 1
	}
	dataBits := b.limit()
	complementMask := baseMask * dataBits
	resultMask := baseMask << b.width
	lessThanMask := baseMask * literal
	greaterThanMask := (baseMask * literal) ^ complementMask
	equalMask := baseMask * (^literal & dataBits)
	inequalMask := baseMask * literal
	return hMasks{
		baseMask:        baseMask,
		complementMask:  complementMask,
		resultMask:      resultMask,
		lessThanMask:    lessThanMask,
		greaterThanMask: greaterThanMask,
		equalMask:       equalMask,
		inequalMask:     inequalMask,
	}
}

// evalWord applies the kernel formula for cmp to one data word, returning a
// word with a 1 only at each slot's result bit where the predicate holds.
func evalWord(cmp Comparator, data uint64, m hMasks) uint64 {
	switch cmp {
	case Eq:
		return ((data ^ m.equalMask) + m.baseMask) & m.resultMask
	case Ne:
		return ((data ^ m.inequalMask) + m.complementMask) & m.resultMask
	case Gt:
		return (data + m.greaterThanMask) & m.resultMask
	case Lt:
		return (m.lessThanMask + (data ^ m.complementMask)) & m.resultMask
	case Ge:
		return ^(m.lessThanMask + (data ^ m.complementMask)) & m.resultMask
	case Le:
		return ^(data + m.greaterThanMask) & m.resultMask
	default:
		return 0
	}
}

// ScanLiteral evaluates code ⊙ literal for every stored code using the
// bit-parallel kernel, codesPerWord codes per evaluated word, then applies
// the null-tail rule for rows beyond NumCodes() up to target.Num(). A
// literal wider than the block's width is rejected as invalid_argument.
func (b *HorizontalBlock) ScanLiteral(cmp Comparator, literal uint64, target *bitvec.Block, combine CombineOp) error {
	if literal > b.limit() {
		return colerr.InvalidArg("HorizontalBlock.ScanLiteral", fmt.Sprintf("literal %d overflows width %d", literal, b.width))
	}
	m := b.buildMasks(literal)
	return scanNullAware(target, combine, b.num, func(p int) bool {
		wi, s := p/b.codesPerWord, p%b.codesPerWord
		r := evalWord(cmp, b.data[wi], m)
		return (r>>(b.slotShift(s)+uint64(b.width)))&1 == 1
	})
}

func (b *HorizontalBlock) ScanColumn(cmp Comparator, other Block, target *bitvec.Block, combine CombineOp) error {
	o, ok := other.(*HorizontalBlock)
	if !ok || o.width != b.width {
		return colerr.TypeMismatchErr("HorizontalBlock.ScanColumn", "operand is not a horizontal block of the same width")
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
