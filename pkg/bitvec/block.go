// Package bitvec implements the bit-vector primitive (C2/C3) and its 1-bit
// enumeration iterator (C4): a fixed-capacity packed bit array, MSB-first
// within each word, used to hold scan results.
package bitvec

import (
	"fmt"

	"github.com/oisee/colscan/pkg/colerr"
	"github.com/oisee/colscan/pkg/word"
)

// Block is a fixed-capacity packed bit array. Bit positions are MSB-first
// within each word: position 0 is the highest bit of word 0.
type Block struct {
	num           int // logical length in bits
	numWordUnits  int // ceil(num / word.Size)
	data          []uint64
}

// NewBlock allocates a zeroed block of the given logical length.
func NewBlock(num int) *Block {
	if num < 0 {
		num = 0
	}
	nwu := int(word.CeilDiv(uint64(num), word.Size))
	return &Block{num: num, numWordUnits: nwu, data: make([]uint64, nwu)}
}

// Num returns the block's logical length in bits.
func (b *Block) Num() int { return b.num }

// NumWordUnits returns ceil(Num()/64).
func (b *Block) NumWordUnits() int { return b.numWordUnits }

// SetAllZero clears every bit. Trailing bits are already zero afterward.
func (b *Block) SetAllZero() {
	for i := range b.data {
		b.data[i] = 0
	}
}

// SetAllOne sets every logical bit and finalizes (zeroing the padding tail).
func (b *Block) SetAllOne() {
	for i := range b.data {
		b.data[i] = ^uint64(0)
	}
	b.Finalize()
}

// GetBit returns the bit at position p (MSB-first within its word).
func (b *Block) GetBit(p int) (bool, error) {
	if p < 0 || p >= b.num {
		return false, colerr.InvalidArg("Block.GetBit", fmt.Sprintf("position %d out of range [0,%d)", p, b.num))
	}
	wi, shift := p/int(word.Size), word.Size-1-uint64(p%int(word.Size))
	return (b.data[wi]>>shift)&1 == 1, nil
}

// SetBit sets or clears the bit at position p.
func (b *Block) SetBit(p int, v bool) error {
	if p < 0 || p >= b.num {
		return colerr.InvalidArg("Block.SetBit", fmt.Sprintf("position %d out of range [0,%d)", p, b.num))
	}
	wi, shift := p/int(word.Size), word.Size-1-uint64(p%int(word.Size))
	if v {
		b.data[wi] |= 1 << shift
	} else {
		b.data[wi] &^= 1 << shift
	}
	return nil
}

// GetWordUnit returns the raw word at index i, for kernel use.
func (b *Block) GetWordUnit(i int) (uint64, error) {
	if i < 0 || i >= b.numWordUnits {
		return 0, colerr.InvalidArg("Block.GetWordUnit", fmt.Sprintf("word index %d out of range [0,%d)", i, b.numWordUnits))
	}
	return b.data[i], nil
}

// SetWordUnit writes the raw word at index i, for kernel use.
func (b *Block) SetWordUnit(i int, w uint64) error {
	if i < 0 || i >= b.numWordUnits {
		return colerr.InvalidArg("Block.SetWordUnit", fmt.Sprintf("word index %d out of range [0,%d)", i, b.numWordUnits))
	}
	b.data[i] = w
	return nil
}

func (b *Block) checkSameLength(op string, other *Block) error {
	if other.num != b.num {
		return colerr.LenMismatch(op, fmt.Sprintf("length %d != %d", other.num, b.num))
	}
	return nil
}

// And performs a word-wise logical AND with other, then finalizes.
func (b *Block) And(other *Block) error {
	if err := b.checkSameLength("Block.And", other); err != nil {
		return err
	}
	for i := range b.data {
		b.data[i] &= other.data[i]
	}
	b.Finalize()
	return nil
}

// Or performs a word-wise logical OR with other, then finalizes.
func (b *Block) Or(other *Block) error {
	if err := b.checkSameLength("Block.Or", other); err != nil {
		return err
	}
	for i := range b.data {
		b.data[i] |= other.data[i]
	}
	b.Finalize()
	return nil
}

// Complement performs a word-wise bitwise-NOT, then finalizes.
func (b *Block) Complement() {
	for i := range b.data {
		b.data[i] = ^b.data[i]
	}
	b.Finalize()
}

// Count returns the number of set bits within the logical length.
func (b *Block) Count() uint64 {
	var c uint64
	for i := 0; i < b.numWordUnits; i++ {
		c += word.Popcount(b.data[i])
	}
	return c
}

// Equals reports whether two blocks of equal length hold identical bits.
func (b *Block) Equals(other *Block) bool {
	if b.num != other.num {
		return false
	}
	for i := 0; i < b.numWordUnits; i++ {
		if b.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// Finalize masks out the padding bits beyond Num() in the last word.
func (b *Block) Finalize() {
	if b.numWordUnits == 0 {
		return
	}
	tail := b.num % int(word.Size)
	if tail == 0 {
		return
	}
	last := b.numWordUnits - 1
	mask := ^uint64(0) << (word.Size - uint64(tail))
	b.data[last] &= mask
}

// ToText renders the block as a string of '0'/'1' characters, MSB-first.
func (b *Block) ToText() string {
	buf := make([]byte, b.num)
	for i := 0; i < b.num; i++ {
		bit, _ := b.GetBit(i)
		if bit {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}
