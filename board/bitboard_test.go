package board

import "testing"

func TestForwardSpans(t *testing.T) {
	e4 := SquareAt(4, 3)
	if got := ForwardFileBB(White, e4); got != (FileEBB & (Rank5BB | Rank6BB | Rank7BB | Rank8BB)) {
		t.Fatalf("forward file of e4 for white wrong: %x", got)
	}
	if got := ForwardFileBB(Black, e4); got != (FileEBB & (Rank1BB | Rank2BB | Rank3BB)) {
		t.Fatalf("forward file of e4 for black wrong: %x", got)
	}
	span := PawnAttackSpan(White, e4)
	if span&(FileDBB|FileFBB) != span || span&Rank4BB != 0 {
		t.Fatalf("pawn attack span of e4 wrong: %x", span)
	}
	if got := PassedPawnSpan(White, e4); got != span|ForwardFileBB(White, e4) {
		t.Fatalf("passed span must be file plus attack span")
	}
}

func TestLineAndBetween(t *testing.T) {
	a1, d4, h8 := SquareAt(0, 0), SquareAt(3, 3), SquareAt(7, 7)
	if LineBB(a1, d4) != LineBB(a1, h8) {
		t.Fatalf("a1-d4 and a1-h8 lie on the same diagonal")
	}
	if LineBB(a1, d4)&h8.Bit() == 0 {
		t.Fatalf("the full line extends past both endpoints")
	}
	between := BetweenBB(a1, d4)
	want := SquareAt(1, 1).Bit() | SquareAt(2, 2).Bit()
	if between != want {
		t.Fatalf("between a1 and d4: got %x want %x", between, want)
	}
	if LineBB(a1, SquareAt(1, 2)) != 0 {
		t.Fatalf("unaligned squares share no line")
	}
}

func TestDistance(t *testing.T) {
	if got := Distance(SquareAt(0, 0), SquareAt(7, 7)); got != 7 {
		t.Fatalf("a1-h8 distance: got %d", got)
	}
	if got := Distance(SquareAt(2, 1), SquareAt(3, 5)); got != 4 {
		t.Fatalf("c2-d6 distance: got %d", got)
	}
}

func TestPromotionZone(t *testing.T) {
	if got := PromotionZoneBB(White, 7); got != Rank8BB {
		t.Fatalf("white promotion zone for rank 7: %x", got)
	}
	if got := PromotionZoneBB(Black, 5); got != Rank1BB|Rank2BB|Rank3BB {
		t.Fatalf("black promotion zone for rank 5: %x", got)
	}
}

func TestShiftDirRoundTrip(t *testing.T) {
	d4 := SquareAt(3, 3).Bit()
	for d := Direction(0); d < DirectionNB; d++ {
		moved := ShiftDir(d, d4)
		if moved == 0 {
			t.Fatalf("direction %d falls off the board from d4", d)
		}
		if back := ShiftDir(d.Opposite(), moved); back != d4 {
			t.Fatalf("direction %d does not invert: %x", d, back)
		}
	}
}
