package colfile

import (
	"bytes"
	"testing"

	"github.com/oisee/colscan/pkg/column"
	"github.com/oisee/colscan/pkg/coltable"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	tbl := coltable.New(coltable.Options{BlockCodes: 8})
	if err := tbl.AddColumn("h", column.Horizontal, 4); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AddColumn("v", column.Vertical, 5); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AddColumn("n", column.Naive, 6); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AppendToColumn("h", []uint64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AppendToColumn("v", []uint64{1, 2, 3, 4, 5}); err != nil {
		t.Fatal(err)
	}
	if err := tbl.AppendToColumn("n", []uint64{10, 20, 30}); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Save(tbl, &buf); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(&buf, coltable.Options{BlockCodes: 8})
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"h", "v", "n"} {
		orig, err := tbl.GetColumn(name)
		if err != nil {
			t.Fatal(err)
		}
		got, err := loaded.GetColumn(name)
		if err != nil {
			t.Fatalf("column %q missing after reload: %v", name, err)
		}
		if got.Type() != orig.Type() || got.Width() != orig.Width() || got.NumCodes() != orig.NumCodes() {
			t.Fatalf("column %q metadata mismatch: got %+v, want type=%v width=%d rows=%d",
				name, got, orig.Type(), orig.Width(), orig.NumCodes())
		}
		for p := 0; p < orig.NumCodes(); p++ {
			ov, _ := orig.GetCode(p)
			gv, err := got.GetCode(p)
			if err != nil {
				t.Fatal(err)
			}
			if ov != gv {
				t.Errorf("column %q row %d: got %d, want %d", name, p, gv, ov)
			}
		}
	}
}
