package column

import (
	"testing"

	"github.com/oisee/colscan/pkg/bitvec"
)

func TestVerticalGetSetCodeRoundTrip(t *testing.T) {
	for _, width := range []uint32{1, 3, 4, 7, 16, 31} {
		b := NewVerticalBlock(width, 100)
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

// S3: width-8 less-than scan, exercising the bit-serial kernel's
// early-termination path across a full 64-code word.
func TestVerticalScanLessThan(t *testing.T) {
	b := NewVerticalBlock(8, 128)
	var codes []uint64
	for i := uint64(0); i < 70; i++ {
		codes = append(codes, i%256)
	}
	if _, err := b.Append(codes); err != nil {
		t.Fatal(err)
	}
	target := bitvec.NewBlock(len(codes))
	if err := b.ScanLiteral(Lt, 10, target, Set); err != nil {
		t.Fatal(err)
	}
	for i, c := range codes {
		got, _ := target.GetBit(i)
		want := c < 10
		if got != want {
			t.Errorf("bit %d (code %d) = %v, want %v", i, c, got, want)
		}
	}
}

func TestVerticalAllComparators(t *testing.T) {
	width := uint32(4)
	b := NewVerticalBlock(width, 32)
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

// S4: cross-layout equivalence — naive, horizontal and vertical blocks must
// agree on every comparator, across a spread of widths.
func TestCrossLayoutEquivalence(t *testing.T) {
	widths := []uint32{1, 4, 7, 16, 31}
	for _, width := range widths {
		limit := uint64(1)<<width - 1
		var codes []uint64
		for i := 0; i < 200; i++ {
			codes = append(codes, (uint64(i)*2654435761)&limit)
		}
		naive := NewNaiveBlock(width, len(codes))
		h := NewHorizontalBlock(width, len(codes))
		v := NewVerticalBlock(width, len(codes))
		for _, blk := range []Block{naive, h, v} {
			if _, err := blk.Append(codes); err != nil {
				t.Fatalf("width %d layout %v: %v", width, blk.Type(), err)
			}
		}
		literal := limit / 3
		for _, cmp := range []Comparator{Eq, Ne, Gt, Lt, Ge, Le} {
			tn := bitvec.NewBlock(len(codes))
			th := bitvec.NewBlock(len(codes))
			tv := bitvec.NewBlock(len(codes))
			if err := naive.ScanLiteral(cmp, literal, tn, Set); err != nil {
				t.Fatal(err)
			}
			if err := h.ScanLiteral(cmp, literal, th, Set); err != nil {
				t.Fatal(err)
			}
			if err := v.ScanLiteral(cmp, literal, tv, Set); err != nil {
				t.Fatal(err)
			}
			if !tn.Equals(th) {
				t.Errorf("width %d cmp %v: horizontal disagrees with naive", width, cmp)
			}
			if !tn.Equals(tv) {
				t.Errorf("width %d cmp %v: vertical disagrees with naive", width, cmp)
			}
		}
	}
}
