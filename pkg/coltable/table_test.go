package coltable

import (
	"testing"

	"github.com/oisee/colscan/pkg/column"
)

// S5: appending a code that doesn't fit the column's width triggers a
// rebuild at the suggested width, preserving every previously appended code.
func TestAppendToColumnWidthPromotion(t *testing.T) {
	tbl := New(Options{BlockCodes: 100})
	if err := tbl.AddColumn("x", column.Horizontal, 3); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AppendToColumn("x", []uint64{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	// The post-append shrink check already brought width down to 2 (the
	// minimum sufficient for max code 3), same as TestAppendToColumnShrink.
	col, _ := tbl.GetColumn("x")
	if col.Width() != 2 {
		t.Fatalf("width = %d, want 2 after the implicit post-append shrink", col.Width())
	}
	if err := tbl.AppendToColumn("x", []uint64{8}); err != nil {
		t.Fatal(err)
	}
	col, _ = tbl.GetColumn("x")
	if col.Width() != 4 {
		t.Fatalf("width = %d, want 4 after promotion", col.Width())
	}
	want := []uint64{1, 2, 3, 8}
	for i, w := range want {
		got, err := col.GetCode(i)
		if err != nil {
			t.Fatal(err)
		}
		if got != w {
			t.Errorf("GetCode(%d) = %d, want %d", i, got, w)
		}
	}
}

func TestAppendToColumnShrink(t *testing.T) {
	tbl := New(Options{BlockCodes: 100})
	if err := tbl.AddColumn("x", column.Horizontal, 8); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AppendToColumn("x", []uint64{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	col, _ := tbl.GetColumn("x")
	if col.Width() != 2 {
		t.Fatalf("width = %d, want 2 after shrink (max code 3)", col.Width())
	}
	for i, w := range []uint64{1, 2, 3} {
		got, err := col.GetCode(i)
		if err != nil {
			t.Fatal(err)
		}
		if got != w {
			t.Errorf("GetCode(%d) = %d, want %d", i, got, w)
		}
	}
}

func TestAddRemoveColumnReusesID(t *testing.T) {
	tbl := New(Options{})
	if err := tbl.AddColumn("a", column.Naive, 4); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AddColumn("b", column.Naive, 4); err != nil {
		t.Fatal(err)
	}
	if err := tbl.RemoveColumn("a"); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AddColumn("c", column.Naive, 4); err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.GetColumn("a"); err == nil {
		t.Error("expected error getting removed column")
	}
	if _, err := tbl.GetColumn("c"); err != nil {
		t.Errorf("expected c to exist: %v", err)
	}
}

func TestScanLiteralAcrossColumn(t *testing.T) {
	tbl := New(Options{BlockCodes: 8})
	tbl.AddColumn("x", column.Vertical, 4)
	tbl.AppendToColumn("x", []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	target := tbl.CreateBitVector()
	if err := tbl.ScanLiteral("x", column.Gt, 5, target, column.Set); err != nil {
		t.Fatal(err)
	}
	col, _ := tbl.GetColumn("x")
	for p := 0; p < col.NumCodes(); p++ {
		c, _ := col.GetCode(p)
		got, _ := target.GetBit(p)
		want := c > 5
		if got != want {
			t.Errorf("row %d (code %d): got %v, want %v", p, c, got, want)
		}
	}
}
