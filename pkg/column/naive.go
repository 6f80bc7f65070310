package column

import (
	"fmt"

	"github.com/oisee/colscan/pkg/bitvec"
	"github.com/oisee/colscan/pkg/colerr"
	"github.com/oisee/colscan/pkg/word"
)

// NaiveBlock stores one code per slot, each in its own uint64. It exists as
// the baseline layout: correct and simple, unpacked, with no bit-parallel
// kernel — every scan is a per-code comparison. Codes are held at full
// uint64 width internally, but the configured width is still enforced:
// Append stops at a code above it and reports width_exceeded with the
// minimum sufficient width, and a rebuild keeps the naive layout.
type NaiveBlock struct {
	width    uint32
	capacity int
	num      int
	maxCode  uint64
	codes    []uint64
}

// NewNaiveBlock allocates an empty block with the given width and capacity.
func NewNaiveBlock(width uint32, capacity int) *NaiveBlock {
	return &NaiveBlock{width: width, capacity: capacity, codes: make([]uint64, 0, capacity)}
}

func (b *NaiveBlock) Type() Type      { return Naive }
func (b *NaiveBlock) Width() uint32   { return b.width }
func (b *NaiveBlock) NumCodes() int   { return b.num }
func (b *NaiveBlock) MaxCode() uint64 { return b.maxCode }
func (b *NaiveBlock) Capacity() int   { return b.capacity }

func (b *NaiveBlock) limit() uint64 {
	if b.width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << b.width) - 1
}

// Append inserts codes one at a time, stopping at the first that doesn't
// fit b.width: everything before it is already committed when this
// returns a width_exceeded result, mirroring the original's per-code
// append loop rather than an all-or-nothing batch check.
func (b *NaiveBlock) Append(codes []uint64) (*AppendResult, error) {
	if b.num+len(codes) > b.capacity {
		return nil, colerr.InvalidArg("NaiveBlock.Append", fmt.Sprintf("would exceed capacity %d", b.capacity))
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
		b.codes = append(b.codes, c)
		b.num++
		if c > b.maxCode {
			b.maxCode = c
		}
	}
	return okResult(b.width), nil
}

func (b *NaiveBlock) checkPos(op string, pos int) error {
	if pos < 0 || pos >= b.num {
		return colerr.InvalidArg(op, fmt.Sprintf("position %d out of range [0,%d)", pos, b.num))
	}
	return nil
}

func (b *NaiveBlock) GetCode(pos int) (uint64, error) {
	if err := b.checkPos("NaiveBlock.GetCode", pos); err != nil {
		return 0, err
	}
	return b.codes[pos], nil
}

func (b *NaiveBlock) SetCode(pos int, code uint64) error {
	if err := b.checkPos("NaiveBlock.SetCode", pos); err != nil {
		return err
	}
	if code > b.limit() {
		return colerr.WidthExceededErr("NaiveBlock.SetCode", word.BitWidth(code))
	}
	b.codes[pos] = code
	if code > b.maxCode {
		b.maxCode = code
	}
	return nil
}

// RawWords returns the stored codes verbatim, one word per code.
func (b *NaiveBlock) RawWords() []uint64 { return b.codes }

// LoadRawWords replaces this block's contents with count codes taken
// directly from words (one word per code, as produced by RawWords).
func (b *NaiveBlock) LoadRawWords(words []uint64, count int) error {
	if count > b.capacity || len(words) < count {
		return colerr.InvalidArg("NaiveBlock.LoadRawWords", "word count does not match capacity")
	}
	b.codes = append(b.codes[:0], words[:count]...)
	b.num = count
	b.maxCode = 0
	for _, c := range b.codes {
		if c > b.maxCode {
			b.maxCode = c
		}
	}
	return nil
}

// ScanLiteral evaluates code ⊙ literal per stored code, packing word.Size
// results per target word, then treats any rows beyond NumCodes() up to
// target.Num() as a null tail (zero under Set/And, untouched under Or).
func (b *NaiveBlock) ScanLiteral(cmp Comparator, literal uint64, target *bitvec.Block, combine CombineOp) error {
	return scanNullAware(target, combine, b.num, func(p int) bool {
		return compare(cmp, b.codes[p], literal)
	})
}

func (b *NaiveBlock) ScanColumn(cmp Comparator, other Block, target *bitvec.Block, combine CombineOp) error {
	o, ok := other.(*NaiveBlock)
	if !ok {
		return colerr.TypeMismatchErr("NaiveBlock.ScanColumn", "operand is not a naive block")
	}
	n := b.num
	if o.num < n {
		n = o.num
	}
	return scanNullAware(target, combine, n, func(p int) bool {
		return compare(cmp, b.codes[p], o.codes[p])
	})
}

// scanNullAware evaluates pred(p) for p in [0,validUpTo), packs word.Size
// bits per target word MSB-first, and applies combine; rows in
// [validUpTo, target.Num()) are the null tail: forced to 0 under Set/And,
// left as-is under Or.
func scanNullAware(target *bitvec.Block, combine CombineOp, validUpTo int, pred func(int) bool) error {
	n := target.Num()
	if validUpTo > n {
		validUpTo = n
	}
	nwu := target.NumWordUnits()
	for wi := 0; wi < nwu; wi++ {
		base := wi * int(word.Size)
		var w uint64
		limit := base + int(word.Size)
		if limit > n {
			limit = n
		}
		for p := base; p < limit; p++ {
			// Rows beyond validUpTo are the null tail: applyCombine's
			// And/Or with the target's existing word already gives the
			// right result when we simply contribute 0 bits for them.
			var bit bool
			if p < validUpTo {
				bit = pred(p)
			}
			if bit {
				w |= 1 << (word.Size - 1 - uint64(p-base))
			}
		}
		if err := applyCombine(target, wi, w, combine); err != nil {
			return err
		}
	}
	return nil
}
