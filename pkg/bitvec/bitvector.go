package bitvec

import (
	"fmt"

	"github.com/oisee/colscan/pkg/colerr"
)

// DefaultBlockCodes is the default number of bits held by every block but
// possibly the last one in a BitVector. It mirrors the column engine's
// BLOCK_CODES so a bit-vector built for a table lines up block-for-block
// with that table's columns.
const DefaultBlockCodes = 1 << 20

// BitVector is a logical concatenation of fixed-capacity blocks.
type BitVector struct {
	blockCodes int
	num        int
	blocks     []*Block
}

// New allocates all ceil(n/blockCodes) zeroed blocks up front, the last
// sized to the remainder. blockCodes <= 0 selects DefaultBlockCodes.
func New(n, blockCodes int) *BitVector {
	if blockCodes <= 0 {
		blockCodes = DefaultBlockCodes
	}
	bv := &BitVector{blockCodes: blockCodes, num: n}
	remaining := n
	for remaining > 0 {
		sz := blockCodes
		if remaining < sz {
			sz = remaining
		}
		bv.blocks = append(bv.blocks, NewBlock(sz))
		remaining -= sz
	}
	return bv
}

// Num returns the bit-vector's total logical length.
func (bv *BitVector) Num() int { return bv.num }

// BlockCodes returns the per-block capacity this bit-vector was built with.
func (bv *BitVector) BlockCodes() int { return bv.blockCodes }

// NumBlocks returns the number of blocks.
func (bv *BitVector) NumBlocks() int { return len(bv.blocks) }

// Block returns the block at index i.
func (bv *BitVector) Block(i int) (*Block, error) {
	if i < 0 || i >= len(bv.blocks) {
		return nil, colerr.InvalidArg("BitVector.Block", fmt.Sprintf("block index %d out of range [0,%d)", i, len(bv.blocks)))
	}
	return bv.blocks[i], nil
}

func (bv *BitVector) checkSameShape(op string, other *BitVector) error {
	if other.num != bv.num {
		return colerr.LenMismatch(op, fmt.Sprintf("length %d != %d", other.num, bv.num))
	}
	return nil
}

// SetAllZero clears every block.
func (bv *BitVector) SetAllZero() {
	for _, b := range bv.blocks {
		b.SetAllZero()
	}
}

// SetAllOne sets every block.
func (bv *BitVector) SetAllOne() {
	for _, b := range bv.blocks {
		b.SetAllOne()
	}
}

// And lifts Block.And block-wise across both vectors.
func (bv *BitVector) And(other *BitVector) error {
	if err := bv.checkSameShape("BitVector.And", other); err != nil {
		return err
	}
	for i, b := range bv.blocks {
		if err := b.And(other.blocks[i]); err != nil {
			return err
		}
	}
	return nil
}

// Or lifts Block.Or block-wise across both vectors.
func (bv *BitVector) Or(other *BitVector) error {
	if err := bv.checkSameShape("BitVector.Or", other); err != nil {
		return err
	}
	for i, b := range bv.blocks {
		if err := b.Or(other.blocks[i]); err != nil {
			return err
		}
	}
	return nil
}

// Complement lifts Block.Complement block-wise.
func (bv *BitVector) Complement() {
	for _, b := range bv.blocks {
		b.Complement()
	}
}

// Count sums Block.Count across every block.
func (bv *BitVector) Count() uint64 {
	var c uint64
	for _, b := range bv.blocks {
		c += b.Count()
	}
	return c
}

// Equals reports whether two bit-vectors of equal length hold identical bits.
func (bv *BitVector) Equals(other *BitVector) bool {
	if bv.num != other.num {
		return false
	}
	for i, b := range bv.blocks {
		if !b.Equals(other.blocks[i]) {
			return false
		}
	}
	return true
}

// GetBit returns the bit at global position p.
func (bv *BitVector) GetBit(p int) (bool, error) {
	if p < 0 || p >= bv.num {
		return false, colerr.InvalidArg("BitVector.GetBit", fmt.Sprintf("position %d out of range [0,%d)", p, bv.num))
	}
	bi, off := p/bv.blockCodes, p%bv.blockCodes
	return bv.blocks[bi].GetBit(off)
}

// SetBit sets the bit at global position p.
func (bv *BitVector) SetBit(p int, v bool) error {
	if p < 0 || p >= bv.num {
		return colerr.InvalidArg("BitVector.SetBit", fmt.Sprintf("position %d out of range [0,%d)", p, bv.num))
	}
	bi, off := p/bv.blockCodes, p%bv.blockCodes
	return bv.blocks[bi].SetBit(off, v)
}

// ToText concatenates every block's ToText rendering.
func (bv *BitVector) ToText() string {
	buf := make([]byte, 0, bv.num)
	for _, b := range bv.blocks {
		buf = append(buf, b.ToText()...)
	}
	return string(buf)
}
