package column

import (
	"fmt"

	"github.com/oisee/colscan/pkg/bitvec"
	"github.com/oisee/colscan/pkg/colerr"
)

// Column coordinates a sequence of same-type, same-width blocks: it
// creates blocks lazily as rows are appended, routes GetCode/SetCode and
// scans to the right block, and reports (without performing) the width
// rebuilds a caller needs when an appended code no longer fits.
type Column struct {
	typ        Type
	width      uint32
	blockCodes int
	blocks     []Block
	num        int
	maxCode    uint64
}

// NewColumn allocates an empty column of the given layout, width and
// per-block code capacity.
func NewColumn(typ Type, width uint32, blockCodes int) *Column {
	if blockCodes <= 0 {
		blockCodes = DefaultBlockCodes
	}
	return &Column{typ: typ, width: width, blockCodes: blockCodes}
}

func (c *Column) Type() Type        { return c.typ }
func (c *Column) Width() uint32     { return c.width }
func (c *Column) NumCodes() int     { return c.num }
func (c *Column) MaxCode() uint64   { return c.maxCode }
func (c *Column) BlockCodes() int   { return c.blockCodes }
func (c *Column) NumBlocks() int    { return len(c.blocks) }

// NewColumnFromBlocks reassembles a column from blocks already populated
// (typically via Block.LoadRawWords), as colfile does on load. It trusts
// the blocks are well-formed: same type and width as declared, all but
// possibly the last at full blockCodes capacity.
func NewColumnFromBlocks(typ Type, width uint32, blockCodes int, blocks []Block) *Column {
	c := &Column{typ: typ, width: width, blockCodes: blockCodes, blocks: blocks}
	for _, blk := range blocks {
		c.num += blk.NumCodes()
		if blk.MaxCode() > c.maxCode {
			c.maxCode = blk.MaxCode()
		}
	}
	return c
}

// Block exposes a block directly, for colfile to dump its raw words.
func (c *Column) Block(i int) Block { return c.blocks[i] }

func (c *Column) newBlock() Block {
	switch c.typ {
	case Naive:
		return NewNaiveBlock(c.width, c.blockCodes)
	case Horizontal:
		return NewHorizontalBlock(c.width, c.blockCodes)
	case Vertical:
		return NewVerticalBlock(c.width, c.blockCodes)
	default:
		return NewNaiveBlock(c.width, c.blockCodes)
	}
}

// Append inserts codes, creating new blocks as existing ones fill up. It
// stops at the first code that doesn't fit the column's current width,
// returning how many codes were committed before that point along with a
// width_exceeded AppendResult; the caller (normally coltable.Table) is
// responsible for rebuilding the column at the suggested width and
// retrying with the remaining codes.
func (c *Column) Append(codes []uint64) (int, *AppendResult, error) {
	i := 0
	for i < len(codes) {
		var blk Block
		if len(c.blocks) == 0 || c.blocks[len(c.blocks)-1].NumCodes() == c.blocks[len(c.blocks)-1].Capacity() {
			blk = c.newBlock()
			c.blocks = append(c.blocks, blk)
		} else {
			blk = c.blocks[len(c.blocks)-1]
		}
		remaining := blk.Capacity() - blk.NumCodes()
		n := len(codes) - i
		if n > remaining {
			n = remaining
		}
		chunk := codes[i : i+n]
		before := blk.NumCodes()
		res, err := blk.Append(chunk)
		if err != nil {
			return i, nil, err
		}
		committed := blk.NumCodes() - before
		for _, v := range chunk[:committed] {
			if v > c.maxCode {
				c.maxCode = v
			}
		}
		i += committed
		c.num += committed
		if !res.Fits {
			return i, res, nil
		}
	}
	return i, okResult(c.width), nil
}

func (c *Column) locate(pos int) (Block, int, error) {
	if pos < 0 || pos >= c.num {
		return nil, 0, colerr.InvalidArg("Column.locate", fmt.Sprintf("position %d out of range [0,%d)", pos, c.num))
	}
	bi, off := pos/c.blockCodes, pos%c.blockCodes
	return c.blocks[bi], off, nil
}

func (c *Column) GetCode(pos int) (uint64, error) {
	blk, off, err := c.locate(pos)
	if err != nil {
		return 0, err
	}
	return blk.GetCode(off)
}

func (c *Column) SetCode(pos int, code uint64) error {
	blk, off, err := c.locate(pos)
	if err != nil {
		return err
	}
	if err := blk.SetCode(off, code); err != nil {
		return err
	}
	if code > c.maxCode {
		c.maxCode = code
	}
	return nil
}

// ScanLiteral evaluates code ⊙ literal over every row, writing into
// target, a bit-vector partitioned with the same blockCodes as this
// column. A target block beyond the column's own blocks is a null tail:
// forced to all-zero under Set/And, left untouched under Or.
func (c *Column) ScanLiteral(cmp Comparator, literal uint64, target *bitvec.BitVector, combine CombineOp) error {
	if target.BlockCodes() != c.blockCodes {
		return colerr.InvalidArg("Column.ScanLiteral", "target bit-vector block size does not match column block size")
	}
	for bi := 0; bi < target.NumBlocks(); bi++ {
		bvBlock, err := target.Block(bi)
		if err != nil {
			return err
		}
		if bi >= len(c.blocks) {
			applyNullBlock(bvBlock, combine)
			continue
		}
		if err := c.blocks[bi].ScanLiteral(cmp, literal, bvBlock, combine); err != nil {
			return err
		}
	}
	return nil
}

// ScanColumn evaluates this[i] ⊙ other[i] row-wise against another column
// of the same layout and width.
func (c *Column) ScanColumn(cmp Comparator, other *Column, target *bitvec.BitVector, combine CombineOp) error {
	if other.typ != c.typ || other.width != c.width {
		return colerr.TypeMismatchErr("Column.ScanColumn", "operand column has a different layout or width")
	}
	if target.BlockCodes() != c.blockCodes {
		return colerr.InvalidArg("Column.ScanColumn", "target bit-vector block size does not match column block size")
	}
	for bi := 0; bi < target.NumBlocks(); bi++ {
		bvBlock, err := target.Block(bi)
		if err != nil {
			return err
		}
		switch {
		case bi >= len(c.blocks) || bi >= len(other.blocks):
			applyNullBlock(bvBlock, combine)
		default:
			if err := c.blocks[bi].ScanColumn(cmp, other.blocks[bi], bvBlock, combine); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyNullBlock applies the null-tail rule to a whole bit-vector block
// standing in for a column block that doesn't exist: zero under Set/And,
// unchanged under Or.
func applyNullBlock(bvBlock *bitvec.Block, combine CombineOp) {
	switch combine {
	case Or:
		// leave target bits as they are
	default:
		bvBlock.SetAllZero()
	}
}

// Codes returns every stored code in row order, for use when rebuilding
// this column at a new width or layout.
func (c *Column) Codes() ([]uint64, error) {
	out := make([]uint64, 0, c.num)
	for _, blk := range c.blocks {
		for p := 0; p < blk.NumCodes(); p++ {
			v, err := blk.GetCode(p)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
	return out, nil
}
