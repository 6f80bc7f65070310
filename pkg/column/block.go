package column

import "github.com/oisee/colscan/pkg/bitvec"

// Block is the common interface every column block layout satisfies: a
// fixed-capacity, append-only container of up-to-blockCodes non-negative
// integer codes plus the two scan kernels (literal and column-vs-column).
type Block interface {
	Type() Type
	Width() uint32
	NumCodes() int
	MaxCode() uint64
	Capacity() int

	// Append inserts codes starting right after the codes already present,
	// one at a time. At the first code the block's width can't hold it
	// stops and returns Fits == false with SuggestedWidth; the codes before
	// that one stay committed.
	Append(codes []uint64) (*AppendResult, error)

	GetCode(pos int) (uint64, error)
	SetCode(pos int, code uint64) error

	// RawWords exposes the block's storage words verbatim, in the order
	// colfile needs to dump and later reload them bit-for-bit.
	RawWords() []uint64

	// LoadRawWords resets this block to count codes backed directly by
	// words (as produced by RawWords on a block of the same layout, width
	// and capacity), without going through Append's width checks.
	LoadRawWords(words []uint64, count int) error

	// ScanLiteral evaluates code ⊙ literal for every stored code (and an
	// all-zero/unchanged result for the null tail up to target.Num(),
	// per combine), combining into target.
	ScanLiteral(cmp Comparator, literal uint64, target *bitvec.Block, combine CombineOp) error

	// ScanColumn evaluates this[i] ⊙ other[i] for the overlapping range of
	// both blocks, combining into target. other must be the same
	// concrete layout and width.
	ScanColumn(cmp Comparator, other Block, target *bitvec.Block, combine CombineOp) error
}

// applyCombine merges a freshly computed result word into a target
// bit-vector block word at index wi, per the combine op. Shared by every
// layout's scalar (non-kernel) code paths, e.g. the naive block.
func applyCombine(target *bitvec.Block, wi int, w uint64, combine CombineOp) error {
	switch combine {
	case Set:
		return target.SetWordUnit(wi, w)
	case And:
		cur, err := target.GetWordUnit(wi)
		if err != nil {
			return err
		}
		return target.SetWordUnit(wi, w&cur)
	case Or:
		cur, err := target.GetWordUnit(wi)
		if err != nil {
			return err
		}
		return target.SetWordUnit(wi, w|cur)
	default:
		return target.SetWordUnit(wi, w)
	}
}

func compare(cmp Comparator, a, b uint64) bool {
	switch cmp {
	case Eq:
		return a == b
	case Ne:
		return a != b
	case Gt:
		return a > b
	case Lt:
		return a < b
	case Ge:
		return a >= b
	case Le:
		return a <= b
	default:
		return false
	}
}
