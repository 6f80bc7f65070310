package coltable

import (
	"fmt"
	"sync"

	"github.com/oisee/colscan/pkg/bitvec"
	"github.com/oisee/colscan/pkg/colerr"
	"github.com/oisee/colscan/pkg/column"
	"github.com/oisee/colscan/pkg/word"
)

// slot holds one column's catalog entry; a nil col marks a reclaimed slot
// available for reuse by the next AddColumn call.
type slot struct {
	name string
	col  *column.Column
}

// Table is a named-column catalog: every column shares the table's row
// count and block size, so a scan's output bit-vector lines up block for
// block with any column's own blocks. Column ids are reused via a
// free-list, mirroring the teacher's worker/result bookkeeping style
// rather than ever-growing, append-only slices.
type Table struct {
	mu         sync.Mutex
	opts       Options
	blockCodes int
	numRows    int
	slots      []slot
	byName     map[string]int
	freeList   []int
}

// New creates an empty table.
func New(opts Options) *Table {
	bc := opts.BlockCodes
	if bc <= 0 {
		bc = column.DefaultBlockCodes
	}
	return &Table{
		opts:       opts,
		blockCodes: bc,
		byName:     make(map[string]int),
	}
}

// NumRows returns the table's current row count: the largest number of
// rows held by any column so far.
func (t *Table) NumRows() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.numRows
}

// ColumnNames returns the names of every live column, in no particular order.
func (t *Table) ColumnNames() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	return names
}

// AddColumn creates a new empty column of the given layout and width,
// reusing a reclaimed column id if one is available.
func (t *Table) AddColumn(name string, typ column.Type, width uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.byName[name]; exists {
		return colerr.Usage("Table.AddColumn", fmt.Sprintf("column %q already exists", name))
	}
	col := column.NewColumn(typ, width, t.blockCodes)
	var id int
	if n := len(t.freeList); n > 0 {
		id = t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.slots[id] = slot{name: name, col: col}
	} else {
		id = len(t.slots)
		t.slots = append(t.slots, slot{name: name, col: col})
	}
	t.byName[name] = id
	return nil
}

// RemoveColumn drops a column and reclaims its id for the next AddColumn.
func (t *Table) RemoveColumn(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	id, ok := t.byName[name]
	if !ok {
		return colerr.Usage("Table.RemoveColumn", fmt.Sprintf("column %q does not exist", name))
	}
	delete(t.byName, name)
	t.slots[id] = slot{}
	t.freeList = append(t.freeList, id)
	return nil
}

// ReplaceColumn swaps in a fully-formed column under an existing name,
// updating the table's row count if the replacement is wider. Used by
// colfile on load, after reconstructing a column's blocks directly from
// a saved file rather than through Append.
func (t *Table) ReplaceColumn(name string, col *column.Column) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	id, ok := t.byName[name]
	if !ok {
		return colerr.Usage("Table.ReplaceColumn", fmt.Sprintf("column %q does not exist", name))
	}
	t.slots[id].col = col
	if col.NumCodes() > t.numRows {
		t.numRows = col.NumCodes()
	}
	return nil
}

// GetColumn returns the live column registered under name.
func (t *Table) GetColumn(name string) (*column.Column, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.getColumnLocked(name)
}

func (t *Table) getColumnLocked(name string) (*column.Column, error) {
	id, ok := t.byName[name]
	if !ok {
		return nil, colerr.Usage("Table.GetColumn", fmt.Sprintf("column %q does not exist", name))
	}
	return t.slots[id].col, nil
}

// AppendToColumn appends codes to the named column, transparently
// rebuilding it at a wider width whenever a code doesn't fit (promotion),
// and once, after the whole batch lands, shrinking it back down if the
// column's actual maximum code needs fewer bits than its current width
// (shrink). At most one promotion rebuild per width_exceeded and one
// shrink rebuild happen per call — mirroring AppendToColumn/RemoveAndAddColumn
// in the original table implementation.
func (t *Table) AppendToColumn(name string, codes []uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	id, ok := t.byName[name]
	if !ok {
		return colerr.Usage("Table.AppendToColumn", fmt.Sprintf("column %q does not exist", name))
	}
	col := t.slots[id].col
	remaining := codes
	for len(remaining) > 0 {
		n, res, err := col.Append(remaining)
		if err != nil {
			return err
		}
		remaining = remaining[n:]
		if res.Fits {
			break
		}
		newWidth := res.SuggestedWidth
		if newWidth <= col.Width() {
			newWidth = col.Width() + 1
		}
		col, err = t.rebuildLocked(id, newWidth)
		if err != nil {
			return err
		}
	}
	t.slots[id].col = col
	if col.NumCodes() > t.numRows {
		t.numRows = col.NumCodes()
	}

	if col.NumCodes() > 0 {
		optimum := word.BitWidth(col.MaxCode())
		if optimum < col.Width() {
			shrunk, err := t.rebuildLocked(id, optimum)
			if err != nil {
				return err
			}
			t.slots[id].col = shrunk
		}
	}
	return nil
}

// rebuildLocked extracts every code from the column at id, recreates it at
// newWidth (same layout, same id so RemoveColumn/AddColumn churn never
// happens), and reinserts the codes. Caller must hold t.mu.
func (t *Table) rebuildLocked(id int, newWidth uint32) (*column.Column, error) {
	old := t.slots[id].col
	codes, err := old.Codes()
	if err != nil {
		return nil, err
	}
	fresh := column.NewColumn(old.Type(), newWidth, t.blockCodes)
	if len(codes) > 0 {
		n, res, err := fresh.Append(codes)
		if err != nil {
			return nil, err
		}
		if n != len(codes) || !res.Fits {
			return nil, colerr.New("Table.rebuildLocked", colerr.InvalidArgument, "rebuilt column still doesn't fit its own codes")
		}
	}
	t.slots[id].col = fresh
	return fresh, nil
}

// CreateBitVector allocates a bit-vector sized to this table's row count
// and block size, suitable as a scan target.
func (t *Table) CreateBitVector() *bitvec.BitVector {
	t.mu.Lock()
	defer t.mu.Unlock()
	return bitvec.New(t.numRows, t.blockCodes)
}

// CreateIterator returns a code iterator walking name's rows in order.
func (t *Table) CreateIterator(name string) (*column.CodeIterator, error) {
	t.mu.Lock()
	col, err := t.getColumnLocked(name)
	t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return column.NewCodeIterator(col), nil
}

// ScanLiteral evaluates column ⊙ literal across every row, writing the
// result into target.
func (t *Table) ScanLiteral(name string, cmp column.Comparator, literal uint64, target *bitvec.BitVector, combine column.CombineOp) error {
	t.mu.Lock()
	col, err := t.getColumnLocked(name)
	t.mu.Unlock()
	if err != nil {
		return err
	}
	return col.ScanLiteral(cmp, literal, target, combine)
}

// ScanColumns evaluates left ⊙ right row-wise across two same-shape columns.
func (t *Table) ScanColumns(left, right string, cmp column.Comparator, target *bitvec.BitVector, combine column.CombineOp) error {
	t.mu.Lock()
	l, err := t.getColumnLocked(left)
	if err != nil {
		t.mu.Unlock()
		return err
	}
	r, err := t.getColumnLocked(right)
	t.mu.Unlock()
	if err != nil {
		return err
	}
	return l.ScanColumn(cmp, r, target, combine)
}
