package bitvec

import "testing"

func TestBlockSetGetBit(t *testing.T) {
	b := NewBlock(10)
	if err := b.SetBit(5, true); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		got, err := b.GetBit(i)
		if err != nil {
			t.Fatal(err)
		}
		want := i == 5
		if got != want {
			t.Errorf("GetBit(%d) = %v, want %v", i, got, want)
		}
	}
	if _, err := b.GetBit(10); err == nil {
		t.Error("expected error for out-of-range GetBit")
	}
}

func TestBlockFinalizeInvariant(t *testing.T) {
	b := NewBlock(70) // 2 words, tail = 6 bits
	b.SetAllOne()
	w, _ := b.GetWordUnit(1)
	tailMask := uint64(0x3F) << (64 - 6) // top 6 bits set, rest clear
	if w&^tailMask != 0 {
		t.Errorf("word 1 = %#064b, expected only top 6 bits set", w)
	}
}

func TestBlockAndOrLengthMismatch(t *testing.T) {
	a := NewBlock(10)
	b := NewBlock(11)
	if err := a.And(b); err == nil {
		t.Error("expected length_mismatch from And")
	}
	if err := a.Or(b); err == nil {
		t.Error("expected length_mismatch from Or")
	}
}

func TestBlockAndOr(t *testing.T) {
	a := NewBlock(8)
	b := NewBlock(8)
	for _, p := range []int{0, 1, 2, 3} {
		a.SetBit(p, true)
	}
	for _, p := range []int{2, 3, 4, 5} {
		b.SetBit(p, true)
	}
	and := NewBlock(8)
	and.Or(a)
	and.And(b)
	for i := 0; i < 8; i++ {
		got, _ := and.GetBit(i)
		want := i == 2 || i == 3
		if got != want {
			t.Errorf("AND bit %d = %v, want %v", i, got, want)
		}
	}
}

func TestBlockComplementInvolution(t *testing.T) {
	b := NewBlock(37)
	b.SetBit(0, true)
	b.SetBit(36, true)
	orig := b.ToText()
	b.Complement()
	b.Complement()
	if b.ToText() != orig {
		t.Errorf("double complement changed bits: got %q want %q", b.ToText(), orig)
	}
}

func TestBlockCount(t *testing.T) {
	b := NewBlock(100)
	for _, p := range []int{0, 5, 63, 64, 99} {
		b.SetBit(p, true)
	}
	if got, want := b.Count(), uint64(5); got != want {
		t.Errorf("Count() = %d, want %d", got, want)
	}
}
