package bitvec

import "github.com/oisee/colscan/pkg/word"

// Iterator enumerates the positions of set bits across a BitVector, in
// strictly increasing order. It holds only a read-only handle to the
// vector; using it after the vector is discarded is undefined.
type Iterator struct {
	bv *BitVector

	blockIdx    int
	blockOffset int
	wordIdx     int
	curBlock    *Block
	numWordUnits int

	stack     [word.Size]int
	stackSize int

	pos int
}

// NewIterator creates an iterator positioned before the first bit.
func NewIterator(bv *BitVector) *Iterator {
	it := &Iterator{bv: bv}
	it.Rewind()
	return it
}

// Rewind resets the iterator to its initial (before-first) state.
func (it *Iterator) Rewind() {
	it.blockIdx = 0
	it.blockOffset = 0
	it.wordIdx = 0
	it.numWordUnits = 0
	it.curBlock = nil
	it.stackSize = 0
	it.pos = 0
}

// Pos returns the position most recently emitted by Advance.
func (it *Iterator) Pos() int { return it.pos }

// Advance moves to the next set bit, returning false when the vector is
// exhausted. Every emitted position lies in [0, bv.Num()).
func (it *Iterator) Advance() bool {
	if it.stackSize == 0 {
		var w uint64
		for w == 0 {
			if it.wordIdx >= it.numWordUnits {
				if it.blockIdx >= it.bv.NumBlocks() {
					return false
				}
				if it.curBlock != nil {
					it.blockOffset += it.curBlock.Num()
				}
				it.curBlock = it.bv.blocks[it.blockIdx]
				it.blockIdx++
				it.numWordUnits = it.curBlock.NumWordUnits()
				it.wordIdx = 0
			}
			w, _ = it.curBlock.GetWordUnit(it.wordIdx)
			it.wordIdx++
		}

		offset := it.blockOffset + (it.wordIdx-1)*int(word.Size)
		for w != 0 {
			it.stack[it.stackSize] = offset + int(word.Popcount(word.SmearRightmost(w)))
			it.stackSize++
			w = word.ClearRightmost(w)
		}
	}

	it.stackSize--
	it.pos = it.stack[it.stackSize]
	return true
}

// FillIntoDenseBitmap copies the bit-vector into a caller-supplied LSB-first
// dense bitmap buffer, byte by byte. Because bits are stored MSB-first
// within each word here, every word is bit-reversed before being copied.
// A block's last word, when its logical length isn't a multiple of
// word.Size, is reversed the same way (its padding bits are zero after
// Finalize) and only the ceil(tail/8) bytes that hold the tail are copied.
func FillIntoDenseBitmap(bv *BitVector, out []byte) error {
	blockOffset := 0
	for bi := 0; bi < bv.NumBlocks(); bi++ {
		b := bv.blocks[bi]
		n := b.NumWordUnits()
		for wi := 0; wi < n-1; wi++ {
			w, err := b.GetWordUnit(wi)
			if err != nil {
				return err
			}
			w = bitReverse64(w)
			offset := blockOffset + wi*int(word.Size)
			putWordLE(out, offset/8, w, 8)
		}

		// Last word: may be a short tail.
		w, err := b.GetWordUnit(n - 1)
		if err != nil {
			return err
		}
		offset := blockOffset + (n-1)*int(word.Size)
		tailBits := b.Num() % int(word.Size)
		var nbytes int
		if tailBits != 0 {
			w = bitReverse64(w)
			nbytes = int(word.CeilDiv(uint64(tailBits), 8))
		} else {
			w = bitReverse64(w)
			nbytes = 8
		}
		putWordLE(out, offset/8, w, nbytes)

		blockOffset += b.Num()
	}
	return nil
}

func bitReverse64(w uint64) uint64 {
	var r uint64
	for i := 0; i < int(word.Size); i++ {
		r = (r << 1) | (w & 1)
		w >>= 1
	}
	return r
}

// putWordLE writes the low nbytes bytes of w (already laid out LSB-first in
// byte order) into out starting at byteOffset.
func putWordLE(out []byte, byteOffset int, w uint64, nbytes int) {
	for i := 0; i < nbytes; i++ {
		out[byteOffset+i] = byte(w >> (uint(i) * 8))
	}
}
