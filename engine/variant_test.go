package engine_test

import (
	"testing"

	"variant-engine/board"
	"variant-engine/engine"
)

func TestThreeCheckCountsRemaining(t *testing.T) {
	ev := engine.NewEvaluator()

	fresh := mustPosition(t, "3check",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 3+3 0 1")
	twoGiven := mustPosition(t, "3check",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 1+3 0 1")

	if fv, tv := ev.Evaluate(fresh), ev.Evaluate(twoGiven); tv <= fv {
		t.Fatalf("one check from winning should score higher: %d vs %d", tv, fv)
	}
}

func TestKingOfTheHillCenterRace(t *testing.T) {
	ev := engine.NewEvaluator()

	far := mustPosition(t, "kingofthehill", "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	near := mustPosition(t, "kingofthehill", "4k3/8/8/8/8/4K3/8/8 w - - 0 1")

	if fv, nv := ev.Evaluate(far), ev.Evaluate(near); nv <= fv {
		t.Fatalf("king closer to the center should score higher: %d vs %d", nv, fv)
	}
}

func TestRacingKingsRankRace(t *testing.T) {
	ev := engine.NewEvaluator()

	behind := mustPosition(t, "racingkings", "8/8/8/8/8/8/4K3/k7 w - - 0 1")
	ahead := mustPosition(t, "racingkings", "8/4K3/8/8/8/8/8/k7 w - - 0 1")

	if bv, av := ev.Evaluate(behind), ev.Evaluate(ahead); av <= bv {
		t.Fatalf("king closer to the last rank should score higher: %d vs %d", av, bv)
	}
}

func TestCrazyhouseHandPieceAddsPressure(t *testing.T) {
	ev := engine.NewEvaluator()

	// Same board with open king files; only black's hand differs.
	empty := mustPosition(t, "crazyhouse",
		"rnbqk1nr/pppp1ppp/8/8/8/8/PPPP1PPP/RNBQK1NR[] w KQkq - 0 1")
	rookInHand := mustPosition(t, "crazyhouse",
		"rnbqk1nr/pppp1ppp/8/8/8/8/PPPP1PPP/RNBQK1NR[r] w KQkq - 0 1")

	_, trEmpty := ev.TraceEval(empty)
	_, trRook := ev.TraceEval(rookInHand)

	ke := trEmpty.Score(engine.TermKing, board.White)
	kr := trRook.Score(engine.TermKing, board.White)
	if kr.MG >= ke.MG {
		t.Fatalf("a droppable rook should hurt white's king safety: %v vs %v", kr, ke)
	}

	if ev.Evaluate(rookInHand) >= ev.Evaluate(empty) {
		t.Fatalf("the extra hand piece should lower white's score")
	}
}

func TestMustCaptureEnPriseLiability(t *testing.T) {
	ev := engine.NewEvaluator()

	// White's pawn can be taken by either black pawn; black offers only one
	// capture in return.
	pos := mustPosition(t, "antichess", "8/8/8/3p1p2/4P3/8/8/8 w - - 0 1")

	_, tr := ev.TraceEval(pos)
	w := tr.Score(engine.TermThreat, board.White)
	b := tr.Score(engine.TermThreat, board.Black)
	if w.MG >= b.MG {
		t.Fatalf("the side offering more captures should carry the larger liability: %v vs %v", w, b)
	}
}

func TestConnectFourRewardsRuns(t *testing.T) {
	ev := engine.NewEvaluator()

	run := mustPosition(t, "cfour", "8/8/8/8/8/8/1PPP4/8[] w - - 0 1")
	scattered := mustPosition(t, "cfour", "8/8/8/8/8/P6P/8/3P4[] w - - 0 1")

	_, trRun := ev.TraceEval(run)
	_, trScattered := ev.TraceEval(scattered)

	r := trRun.Score(engine.TermVariant, board.White)
	s := trScattered.Score(engine.TermVariant, board.White)
	if r.MG <= s.MG {
		t.Fatalf("three in a row %v should outscore scattered stones %v", r, s)
	}
}

func TestExtinctionSkipsInitiative(t *testing.T) {
	ev := engine.NewEvaluator()

	fen := "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	_, tr := ev.TraceEval(mustPosition(t, "extinction", fen))
	if s := tr.Score(engine.TermInitiative, board.White); !s.IsZero() {
		t.Fatalf("extinction rules disable the initiative term, got %v", s)
	}
}
