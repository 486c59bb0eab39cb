package board_test

import (
	"testing"

	"variant-engine/board"
)

func emptyPosition(t *testing.T) *board.Position {
	t.Helper()
	v, err := board.VariantByName("chess")
	if err != nil {
		t.Fatalf("VariantByName: %v", err)
	}
	pos, err := board.ParseFEN("8/8/8/8/8/8/8/8 w - - 0 1", v)
	if err != nil {
		t.Fatalf("ParseFEN empty: %v", err)
	}
	return pos
}

func TestKnightAttacksCenterAndCorner(t *testing.T) {
	d4 := board.SquareAt(3, 3)
	if got := board.Popcount(board.KnightAttacksBB(d4)); got != 8 {
		t.Fatalf("knight on d4 should attack 8 squares, got %d", got)
	}
	a1 := board.SquareAt(0, 0)
	want := board.SquareAt(1, 2).Bit() | board.SquareAt(2, 1).Bit()
	if got := board.KnightAttacksBB(a1); got != want {
		t.Fatalf("knight on a1: got %x want %x", got, want)
	}
}

func TestRookAttacksRespectBlockers(t *testing.T) {
	e4 := board.SquareAt(4, 3)
	e6 := board.SquareAt(4, 5)
	e7 := board.SquareAt(4, 6)
	occ := e6.Bit()
	atk := board.RookAttacksBB(e4, occ)
	if atk&e6.Bit() == 0 {
		t.Fatalf("blocker square itself should be attacked")
	}
	if atk&e7.Bit() != 0 {
		t.Fatalf("squares behind the blocker should not be attacked")
	}
	if got := board.Popcount(atk); got != 12 {
		t.Fatalf("rook on e4 with blocker on e6: got %d squares, want 12", got)
	}
}

func TestPawnAttacksEdgeMasking(t *testing.T) {
	a2 := board.SquareAt(0, 1)
	if got := board.PawnAttacksFrom(board.White, a2); got != board.SquareAt(1, 2).Bit() {
		t.Fatalf("white pawn on a2 attacks only b3, got %x", got)
	}
	h7 := board.SquareAt(7, 6)
	if got := board.PawnAttacksFrom(board.Black, h7); got != board.SquareAt(6, 5).Bit() {
		t.Fatalf("black pawn on h7 attacks only g6, got %x", got)
	}
}

func TestPawnAttacksBBMatchesPerSquare(t *testing.T) {
	pawns := board.SquareAt(0, 1).Bit() | board.SquareAt(4, 3).Bit() | board.SquareAt(7, 6).Bit()
	var want uint64
	for x := pawns; x != 0; x &= x - 1 {
		want |= board.PawnAttacksFrom(board.White, board.Lsb(x))
	}
	if got := board.PawnAttacksBB(board.White, pawns); got != want {
		t.Fatalf("whole-board pawn attacks mismatch: got %x want %x", got, want)
	}
}

func TestShogiPawnAttacksStraightAhead(t *testing.T) {
	e4 := board.SquareAt(4, 3)
	if got := board.AttacksBB(board.White, board.ShogiPawn, e4, 0); got != board.SquareAt(4, 4).Bit() {
		t.Fatalf("white shogi pawn on e4 attacks e5 only, got %x", got)
	}
	if got := board.AttacksBB(board.Black, board.ShogiPawn, e4, 0); got != board.SquareAt(4, 2).Bit() {
		t.Fatalf("black shogi pawn on e4 attacks e3 only, got %x", got)
	}
}

func TestPawnMovesDoublePushAndBlocker(t *testing.T) {
	e2 := board.SquareAt(4, 1)
	moves := board.MovesBB(board.White, board.Pawn, e2, 0)
	want := board.SquareAt(4, 2).Bit() | board.SquareAt(4, 3).Bit()
	if moves != want {
		t.Fatalf("pawn on e2: got %x want %x", moves, want)
	}
	occ := board.SquareAt(4, 2).Bit()
	if got := board.MovesBB(board.White, board.Pawn, e2, occ); got != 0 {
		t.Fatalf("blocked pawn should have no pushes, got %x", got)
	}
}

func TestAttackersToMixedPieces(t *testing.T) {
	pos := emptyPosition(t)
	e4 := board.SquareAt(4, 3)
	pos.SetPiece(board.SquareAt(3, 4), board.BlackPawn)   // d5 pawn hits e4
	pos.SetPiece(board.SquareAt(4, 0), board.WhiteRook)   // e1 rook hits e4
	pos.SetPiece(board.SquareAt(2, 2), board.WhiteKnight) // c3 knight hits e4
	pos.SetPiece(board.SquareAt(7, 5), board.BlackBishop) // h6 bishop does not
	attackers := pos.AttackersTo(e4, pos.Occupied())
	if got := board.Popcount(attackers); got != 3 {
		t.Fatalf("expected 3 attackers of e4, got %d (%x)", got, attackers)
	}
	if attackers&board.SquareAt(7, 5).Bit() != 0 {
		t.Fatalf("h6 bishop does not attack e4")
	}
}

func TestSliderBlockersFindsPin(t *testing.T) {
	pos := emptyPosition(t)
	pos.SetPiece(board.SquareAt(4, 0), board.WhiteKing)   // e1
	pos.SetPiece(board.SquareAt(4, 3), board.WhiteKnight) // e4, pinned
	pos.SetPiece(board.SquareAt(4, 7), board.BlackRook)   // e8
	blockers := pos.BlockersForKing(board.White)
	if blockers != board.SquareAt(4, 3).Bit() {
		t.Fatalf("expected e4 knight pinned, got %x", blockers)
	}
	pos.SetPiece(board.SquareAt(4, 5), board.BlackPawn) // second body on the file
	if got := pos.BlockersForKing(board.White); got != 0 {
		t.Fatalf("two bodies on the line means no pin, got %x", got)
	}
}

func TestDropRegions(t *testing.T) {
	v, err := board.VariantByName("crazyhouse")
	if err != nil {
		t.Fatalf("VariantByName: %v", err)
	}
	region := v.DropRegionBB(board.White, board.Pawn)
	if region&(board.Rank1BB|board.Rank8BB) != 0 {
		t.Fatalf("pawns must not drop on back ranks")
	}
	if region&board.Rank4BB == 0 {
		t.Fatalf("pawns drop on middle ranks")
	}
	if knight := v.DropRegionBB(board.White, board.Knight); knight != board.AllSquaresBB {
		t.Fatalf("knights drop anywhere, got %x", knight)
	}
}
