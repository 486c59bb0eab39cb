package engine

import (
	"testing"

	"variant-engine/board"
)

// probedCtx runs the cache probes and both initialize passes, stopping short
// of the per-piece loops so the raw tables can be inspected.
func probedCtx(t *testing.T, variant, fen string) *evalCtx {
	t.Helper()
	pos := position(t, variant, fen)
	ev := NewEvaluator()
	ctx := &evalCtx{pos: pos, ev: ev}
	ctx.me = ev.material.probe(pos)
	ctx.pe = ev.pawns.probe(pos)
	ctx.initialize(board.White)
	ctx.initialize(board.Black)
	return ctx
}

func TestMobilityAreaExcludesKingQueenAndBlockedPawns(t *testing.T) {
	// The d-pawns block each other in the center.
	ctx := probedCtx(t, "chess", "rnbqkbnr/ppp1pppp/8/3p4/3P4/8/PPP1PPPP/RNBQKBNR w KQkq - 0 1")
	pos := ctx.pos

	for c := board.White; c <= board.Black; c++ {
		area := ctx.mobilityArea[c]
		if area&pos.Bitboard(c, board.King) != 0 {
			t.Errorf("%v mobility area includes the own king", c)
		}
		if area&pos.Bitboard(c, board.Queen) != 0 {
			t.Errorf("%v mobility area includes the own queen", c)
		}
		blocked := pos.Bitboard(c, board.Pawn) & board.ShiftDown(c, pos.Occupied())
		if area&blocked != 0 {
			t.Errorf("%v mobility area includes blocked pawns: %x", c, area&blocked)
		}
	}
}

func TestKingRingStaysNearKing(t *testing.T) {
	ctx := probedCtx(t, "chess", "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	pos := ctx.pos

	for c := board.White; c <= board.Black; c++ {
		ksq := pos.KingSq(c)
		ring := ctx.kingRing[c]
		if ring == 0 {
			t.Fatalf("%v king ring should be live with full material", c)
		}
		if ring&board.KingAttacksBB(ksq) != board.KingAttacksBB(ksq) {
			t.Errorf("%v king ring must cover the king's own attacks", c)
		}
		for x := ring; x != 0; x &= x - 1 {
			if sq := board.Lsb(x); board.Distance(ksq, sq) > 2 {
				t.Errorf("%v king ring reaches %d, too far from the king on %d", c, sq, ksq)
			}
		}
	}
}

func TestPawnEndingSkipsKingDanger(t *testing.T) {
	ctx := probedCtx(t, "chess", "4k3/pppp4/8/8/8/8/4PPPP/4K3 w - - 0 1")

	for c := board.White; c <= board.Black; c++ {
		if ctx.kingRing[c] != 0 {
			t.Errorf("%v king ring should stay empty without enemy pieces", c)
		}
		if ctx.kingAttackersCount[c] != 0 {
			t.Errorf("%v counts %d king attackers in a pawn ending", c, ctx.kingAttackersCount[c])
		}
	}
}
