// Package colfile persists and reloads a coltable.Table bit-for-bit: a
// length-prefixed text header naming every column (name, layout, width)
// followed by each column's blocks dumped as raw storage words, written
// and read back in the host's native byte order and word width so a
// reload needs no unpacking beyond what LoadRawWords already does.
package colfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/oisee/colscan/pkg/colerr"
	"github.com/oisee/colscan/pkg/column"
	"github.com/oisee/colscan/pkg/coltable"
)

var nativeEndian = binary.NativeEndian

// Save writes every column currently registered in t to w, in a stable
// (name-sorted) order.
func Save(t *coltable.Table, w io.Writer) error {
	names := t.ColumnNames()
	sort.Strings(names)

	var header strings.Builder
	fmt.Fprintf(&header, "%d %d\n", t.NumRows(), len(names))
	cols := make([]*column.Column, 0, len(names))
	for _, name := range names {
		col, err := t.GetColumn(name)
		if err != nil {
			return err
		}
		cols = append(cols, col)
		fmt.Fprintf(&header, "%s %s %d\n", name, col.Type(), col.Width())
	}

	bw := bufio.NewWriter(w)
	headerBytes := []byte(header.String())
	if err := binary.Write(bw, nativeEndian, uint32(len(headerBytes))); err != nil {
		return colerr.IO("colfile.Save", "", err)
	}
	if _, err := bw.Write(headerBytes); err != nil {
		return colerr.IO("colfile.Save", "", err)
	}

	for _, col := range cols {
		if err := binary.Write(bw, nativeEndian, uint32(col.NumBlocks())); err != nil {
			return colerr.IO("colfile.Save", "", err)
		}
		for bi := 0; bi < col.NumBlocks(); bi++ {
			blk := col.Block(bi)
			words := blk.RawWords()
			if err := binary.Write(bw, nativeEndian, uint64(blk.NumCodes())); err != nil {
				return colerr.IO("colfile.Save", "", err)
			}
			if err := binary.Write(bw, nativeEndian, uint64(len(words))); err != nil {
				return colerr.IO("colfile.Save", "", err)
			}
			if err := binary.Write(bw, nativeEndian, words); err != nil {
				return colerr.IO("colfile.Save", "", err)
			}
		}
	}
	return bw.Flush()
}

type columnHeader struct {
	name  string
	typ   column.Type
	width uint32
}

func parseType(s string) (column.Type, error) {
	switch s {
	case column.Naive.String():
		return column.Naive, nil
	case column.Horizontal.String():
		return column.Horizontal, nil
	case column.Vertical.String():
		return column.Vertical, nil
	default:
		return 0, colerr.InvalidArg("colfile.Load", fmt.Sprintf("unknown column type %q", s))
	}
}

// Load reads a file written by Save and returns a freshly populated Table.
func Load(r io.Reader, opts coltable.Options) (*coltable.Table, error) {
	br := bufio.NewReader(r)

	var headerLen uint32
	if err := binary.Read(br, nativeEndian, &headerLen); err != nil {
		return nil, colerr.IO("colfile.Load", "", err)
	}
	headerBytes := make([]byte, headerLen)
	if _, err := io.ReadFull(br, headerBytes); err != nil {
		return nil, colerr.IO("colfile.Load", "", err)
	}
	lines := strings.Split(strings.TrimRight(string(headerBytes), "\n"), "\n")
	if len(lines) < 1 {
		return nil, colerr.InvalidArg("colfile.Load", "empty header")
	}
	firstLine := strings.Fields(lines[0])
	if len(firstLine) != 2 {
		return nil, colerr.InvalidArg("colfile.Load", "malformed header first line")
	}
	numRows, err := strconv.Atoi(firstLine[0])
	if err != nil {
		return nil, colerr.InvalidArg("colfile.Load", "malformed row count")
	}
	numColumns, err := strconv.Atoi(firstLine[1])
	if err != nil {
		return nil, colerr.InvalidArg("colfile.Load", "malformed column count")
	}
	if len(lines)-1 < numColumns {
		return nil, colerr.InvalidArg("colfile.Load", "header truncated")
	}

	headers := make([]columnHeader, numColumns)
	for i := 0; i < numColumns; i++ {
		fields := strings.Fields(lines[1+i])
		if len(fields) != 3 {
			return nil, colerr.InvalidArg("colfile.Load", fmt.Sprintf("malformed column header line %d", i))
		}
		typ, err := parseType(fields[1])
		if err != nil {
			return nil, err
		}
		width, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return nil, colerr.InvalidArg("colfile.Load", fmt.Sprintf("malformed width on column header line %d", i))
		}
		headers[i] = columnHeader{name: fields[0], typ: typ, width: uint32(width)}
	}

	bc := opts.BlockCodes
	if bc <= 0 {
		bc = column.DefaultBlockCodes
	}
	t := coltable.New(opts)

	for _, h := range headers {
		var numBlocks uint32
		if err := binary.Read(br, nativeEndian, &numBlocks); err != nil {
			return nil, colerr.IO("colfile.Load", "", err)
		}
		blocks := make([]column.Block, numBlocks)
		for bi := range blocks {
			var count, numWords uint64
			if err := binary.Read(br, nativeEndian, &count); err != nil {
				return nil, colerr.IO("colfile.Load", "", err)
			}
			if err := binary.Read(br, nativeEndian, &numWords); err != nil {
				return nil, colerr.IO("colfile.Load", "", err)
			}
			words := make([]uint64, numWords)
			if err := binary.Read(br, nativeEndian, words); err != nil {
				return nil, colerr.IO("colfile.Load", "", err)
			}
			blk := newEmptyBlock(h.typ, h.width, bc)
			if err := blk.LoadRawWords(words, int(count)); err != nil {
				return nil, err
			}
			blocks[bi] = blk
		}
		if err := t.AddColumn(h.name, h.typ, h.width); err != nil {
			return nil, err
		}
		rebuilt := column.NewColumnFromBlocks(h.typ, h.width, bc, blocks)
		if err := t.ReplaceColumn(h.name, rebuilt); err != nil {
			return nil, err
		}
	}
	_ = numRows
	return t, nil
}

func newEmptyBlock(typ column.Type, width uint32, capacity int) column.Block {
	switch typ {
	case column.Horizontal:
		return column.NewHorizontalBlock(width, capacity)
	case column.Vertical:
		return column.NewVerticalBlock(width, capacity)
	default:
		return column.NewNaiveBlock(width, capacity)
	}
}
