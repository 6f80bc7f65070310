package column

import (
	"testing"

	"github.com/oisee/colscan/pkg/bitvec"
)

func TestColumnAppendAcrossBlocks(t *testing.T) {
	c := NewColumn(Horizontal, 4, 4) // tiny blocks: 4 codes per block
	codes := []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	n, res, err := c.Append(codes)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Fits || n != len(codes) {
		t.Fatalf("expected full append, got n=%d res=%+v", n, res)
	}
	if c.NumBlocks() != 3 {
		t.Errorf("NumBlocks() = %d, want 3", c.NumBlocks())
	}
	for i, want := range codes {
		got, err := c.GetCode(i)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("GetCode(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestColumnAppendWidthExceededReportsProgress(t *testing.T) {
	c := NewColumn(Horizontal, 3, 100)
	n, res, err := c.Append([]uint64{1, 2, 3, 8, 5})
	if err != nil {
		t.Fatal(err)
	}
	if res.Fits {
		t.Fatal("expected width_exceeded")
	}
	if n != 3 {
		t.Errorf("appended count = %d, want 3 (codes before the offending one)", n)
	}
	if c.NumCodes() != 3 {
		t.Errorf("NumCodes() = %d, want 3", c.NumCodes())
	}
}

func TestColumnScanNullTailAcrossMissingBlocks(t *testing.T) {
	c := NewColumn(Horizontal, 4, 4)
	c.Append([]uint64{1, 2, 3, 4}) // exactly one full block
	target := bitvec.New(12, 4)   // 3 blocks; column only has 1
	target.SetAllOne()
	if err := c.ScanLiteral(Eq, 1, target, And); err != nil {
		t.Fatal(err)
	}
	for p := 4; p < 12; p++ {
		got, _ := target.GetBit(p)
		if got {
			t.Errorf("missing-block bit %d should be cleared under And", p)
		}
	}
}

func TestCodeIteratorAcrossBlocks(t *testing.T) {
	c := NewColumn(Vertical, 4, 4) // tiny blocks: crosses block boundaries
	codes := []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	if _, _, err := c.Append(codes); err != nil {
		t.Fatal(err)
	}
	it := NewCodeIterator(c)
	var got []uint64
	for it.Advance() {
		v, err := it.Code()
		if err != nil {
			t.Fatal(err)
		}
		if it.Pos() != len(got) {
			t.Errorf("Pos() = %d, want %d", it.Pos(), len(got))
		}
		got = append(got, v)
	}
	if len(got) != len(codes) {
		t.Fatalf("iterated %d codes, want %d", len(got), len(codes))
	}
	for i, want := range codes {
		if got[i] != want {
			t.Errorf("code %d = %d, want %d", i, got[i], want)
		}
	}
}

func TestColumnCodesRoundTrip(t *testing.T) {
	c := NewColumn(Vertical, 5, 4)
	codes := []uint64{1, 2, 3, 4, 5, 6, 7}
	c.Append(codes)
	got, err := c.Codes()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(codes) {
		t.Fatalf("Codes() length = %d, want %d", len(got), len(codes))
	}
	for i, want := range codes {
		if got[i] != want {
			t.Errorf("Codes()[%d] = %d, want %d", i, got[i], want)
		}
	}
}
