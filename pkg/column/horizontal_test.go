package column

import (
	"testing"

	"github.com/oisee/colscan/pkg/bitvec"
)

func TestHorizontalGetSetCodeRoundTrip(t *testing.T) {
	for _, width := range []uint32{1, 3, 4, 7, 16, 31} {
		b := NewHorizontalBlock(width, 100)
		limit := uint64(1)<<width - 1
		codes := []uint64{0, 1, limit, limit / 2}
		if _, err := b.Append(codes); err != nil {
			t.Fatalf("width %d: %v", width, err)
		}
		for i, want := range codes {
			got, err := b.GetCode(i)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("width %d: GetCode(%d) = %d, want %d", width, i, got, want)
			}
		}
	}
}

// S1: width-3 equality scan.
func TestHorizontalScanEqual(t *testing.T) {
	b := NewHorizontalBlock(3, 16)
	codes := []uint64{0, 1, 2, 3, 4, 5, 6, 7, 3, 3}
	if _, err := b.Append(codes); err != nil {
		t.Fatal(err)
	}
	target := bitvec.NewBlock(len(codes))
	if err := b.ScanLiteral(Eq, 3, target, Set); err != nil {
		t.Fatal(err)
	}
	for i, c := range codes {
		got, _ := target.GetBit(i)
		want := c == 3
		if got != want {
			t.Errorf("bit %d = %v, want %v", i, got, want)
		}
	}
}

// S2: range scan via combine — code >= 3 AND code <= 5.
func TestHorizontalScanRangeViaCombine(t *testing.T) {
	b := NewHorizontalBlock(3, 16)
	codes := []uint64{0, 1, 2, 3, 4, 5, 6, 7}
	if _, err := b.Append(codes); err != nil {
		t.Fatal(err)
	}
	target := bitvec.NewBlock(len(codes))
	if err := b.ScanLiteral(Ge, 3, target, Set); err != nil {
		t.Fatal(err)
	}
	if err := b.ScanLiteral(Le, 5, target, And); err != nil {
		t.Fatal(err)
	}
	for i, c := range codes {
		got, _ := target.GetBit(i)
		want := c >= 3 && c <= 5
		if got != want {
			t.Errorf("bit %d (code %d) = %v, want %v", i, c, got, want)
		}
	}
}

func TestHorizontalAllComparators(t *testing.T) {
	width := uint32(4)
	b := NewHorizontalBlock(width, 32)
	var codes []uint64
	for i := uint64(0); i < 16; i++ {
		codes = append(codes, i)
	}
	if _, err := b.Append(codes); err != nil {
		t.Fatal(err)
	}
	literal := uint64(6)
	for _, cmp := range []Comparator{Eq, Ne, Gt, Lt, Ge, Le} {
		target := bitvec.NewBlock(len(codes))
		if err := b.ScanLiteral(cmp, literal, target, Set); err != nil {
			t.Fatal(err)
		}
		for i, c := range codes {
			got, _ := target.GetBit(i)
			want := compare(cmp, c, literal)
			if got != want {
				t.Errorf("cmp %v bit %d (code %d vs %d) = %v, want %v", cmp, i, c, literal, got, want)
			}
		}
	}
}

func TestHorizontalWidthExceeded(t *testing.T) {
	b := NewHorizontalBlock(3, 16)
	res, err := b.Append([]uint64{1, 2, 8})
	if err != nil {
		t.Fatal(err)
	}
	if res.Fits {
		t.Fatal("expected width_exceeded for code 8 at width 3")
	}
	if res.SuggestedWidth != 4 {
		t.Errorf("SuggestedWidth = %d, want 4", res.SuggestedWidth)
	}
}
