package engine_test

import (
	"strings"
	"testing"

	"variant-engine/board"
	"variant-engine/engine"
)

func mustPosition(t *testing.T, variant, fen string) *board.Position {
	t.Helper()
	v, err := board.VariantByName(variant)
	if err != nil {
		t.Fatalf("VariantByName(%q): %v", variant, err)
	}
	pos, err := board.ParseFEN(fen, v)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestStartPositionNearBalance(t *testing.T) {
	ev := engine.NewEvaluator()
	pos := mustPosition(t, "chess", startFEN)

	v := ev.Evaluate(pos)
	if v < -150 || v > 150 {
		t.Fatalf("start position should be near balance, got %d", v)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	fen := "r1bqkb1r/pp2pppp/2np1n2/8/3NP3/2N5/PPP2PPP/R1BQKB1R w KQkq - 0 6"
	pos := mustPosition(t, "chess", fen)

	ev := engine.NewEvaluator()
	first := ev.Evaluate(pos)
	for i := 0; i < 3; i++ {
		if got := ev.Evaluate(pos); got != first {
			t.Fatalf("repeated evaluation changed: %d then %d", first, got)
		}
	}

	// A fresh evaluator with cold caches must agree.
	if got := engine.NewEvaluator().Evaluate(pos); got != first {
		t.Fatalf("fresh evaluator disagrees: %d vs %d", got, first)
	}
}

func TestSymmetricPositionSameForBothSides(t *testing.T) {
	ev := engine.NewEvaluator()
	white := mustPosition(t, "chess", startFEN)
	black := mustPosition(t, "chess",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")

	if wv, bv := ev.Evaluate(white), ev.Evaluate(black); wv != bv {
		t.Fatalf("mirror-symmetric position: white to move %d, black to move %d", wv, bv)
	}
}

func TestTempoValue(t *testing.T) {
	chessPos := mustPosition(t, "chess", startFEN)
	if got := engine.TempoValue(chessPos); got != 28 {
		t.Fatalf("chess tempo: got %d want 28", got)
	}

	zhPos := mustPosition(t, "crazyhouse",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR[] w KQkq - 0 1")
	if got := engine.TempoValue(zhPos); got != 140 {
		t.Fatalf("crazyhouse tempo: got %d want 140", got)
	}
}

func TestConnectedPawnsBeatIsolated(t *testing.T) {
	ev := engine.NewEvaluator()

	connected := mustPosition(t, "chess", "n3k3/8/8/8/2PP4/8/8/4K2N w - - 0 1")
	isolated := mustPosition(t, "chess", "n3k3/8/8/8/P3P3/8/8/4K2N w - - 0 1")

	_, trC := ev.TraceEval(connected)
	_, trI := ev.TraceEval(isolated)

	c := trC.Score(engine.TermPawn, board.White)
	i := trI.Score(engine.TermPawn, board.White)
	if c.MG <= i.MG || c.EG <= i.EG {
		t.Fatalf("connected pawns %v should outscore isolated pawns %v", c, i)
	}
}

func TestPassedPawnRankMonotonicity(t *testing.T) {
	ev := engine.NewEvaluator()

	// The same supported passer one rank further up each time. The knight
	// keeps the material table away from its specialized endings.
	fens := []string{
		"n6k/8/8/8/4P3/4K3/8/8 w - - 0 1",
		"n6k/8/8/4P3/4K3/8/8/8 w - - 0 1",
		"n6k/8/4P3/4K3/8/8/8/8 w - - 0 1",
	}

	prev := -1 << 30
	for _, fen := range fens {
		pos := mustPosition(t, "chess", fen)
		_, tr := ev.TraceEval(pos)
		eg := tr.Score(engine.TermPassed, board.White).EG
		if eg <= prev {
			t.Fatalf("passed pawn bonus should grow with rank: %d after %d (%s)", eg, prev, fen)
		}
		prev = eg
	}
}

func TestTraceTotalMatchesEvaluate(t *testing.T) {
	ev := engine.NewEvaluator()
	fen := "r2q1rk1/1pp2ppp/p1np1n2/2b1p3/2B1P1b1/2NP1N2/PPP2PPP/R1BQ1RK1 w - - 0 8"
	pos := mustPosition(t, "chess", fen)

	plain := ev.Evaluate(pos)
	traced, tr := ev.TraceEval(pos)
	if plain != traced {
		t.Fatalf("tracing changed the result: %d vs %d", plain, traced)
	}
	if tr.Total() != traced {
		t.Fatalf("white to move, trace total %d should equal the evaluation %d", tr.Total(), traced)
	}

	flipped := mustPosition(t, "chess",
		"r2q1rk1/1pp2ppp/p1np1n2/2b1p3/2B1P1b1/2NP1N2/PPP2PPP/R1BQ1RK1 b - - 0 8")
	bv, btr := ev.TraceEval(flipped)
	if btr.Total() != -bv {
		t.Fatalf("black to move, trace total %d should be the negated evaluation %d", btr.Total(), bv)
	}
}

func TestTraceRowsSumToTotal(t *testing.T) {
	ev := engine.NewEvaluator()
	pos := mustPosition(t, "chess",
		"r2q1rk1/1pp2ppp/p1np1n2/2b1p3/2B1P1b1/2NP1N2/PPP2PPP/R1BQ1RK1 w - - 0 8")
	_, tr := ev.TraceEval(pos)

	sum := tr.Score(engine.TermMaterial, board.White).
		Add(tr.Score(engine.TermImbalance, board.White)).
		Add(tr.Score(engine.TermInitiative, board.White))
	perSide := []engine.Term{
		engine.TermPawn, engine.TermShogiPawn, engine.TermKnight,
		engine.TermBishop, engine.TermRook, engine.TermQueen,
		engine.TermMobility, engine.TermKing, engine.TermThreat,
		engine.TermPassed, engine.TermSpace, engine.TermVariant,
	}
	for _, term := range perSide {
		sum = sum.Add(tr.Score(term, board.White)).Sub(tr.Score(term, board.Black))
	}

	if total := tr.Score(engine.TermTotal, board.White); sum != total {
		t.Fatalf("term rows sum to %v, total row says %v", sum, total)
	}
}

func TestCandidatePasserBonusHalved(t *testing.T) {
	ev := engine.NewEvaluator()

	// e5 passes only by levering f7 after the push, so its bonus is cut in
	// half. With the black pawn moved to h7 both white pawns pass cleanly.
	lever := mustPosition(t, "chess", "4k3/5p2/8/3PP3/8/8/8/4K3 w - - 0 1")
	clean := mustPosition(t, "chess", "4k3/7p/8/3PP3/8/8/8/4K3 w - - 0 1")

	_, leverTr := ev.TraceEval(lever)
	_, cleanTr := ev.TraceEval(clean)

	lw := leverTr.Score(engine.TermPassed, board.White)
	cw := cleanTr.Score(engine.TermPassed, board.White)
	if lw.EG <= 0 || cw.EG <= 0 {
		t.Fatalf("both positions hold white passers: %v vs %v", lw, cw)
	}
	if lw.EG >= cw.EG {
		t.Fatalf("the lever candidate should earn less than clean passers: %v vs %v", lw, cw)
	}
}

func TestTraceStringLayout(t *testing.T) {
	ev := engine.NewEvaluator()
	pos := mustPosition(t, "chess", startFEN)
	_, tr := ev.TraceEval(pos)

	out := tr.String()
	for _, want := range []string{
		"Term", "Material", "Imbalance", "Mobility", "King safety",
		"Total evaluation:", "(white side)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("trace output missing %q:\n%s", want, out)
		}
	}
	// Aggregate rows have no per-side split.
	if !strings.Contains(out, "----") {
		t.Fatalf("aggregate rows should print dashes:\n%s", out)
	}
}

func TestContemptShiftsEvaluation(t *testing.T) {
	pos := mustPosition(t, "chess",
		"r1bqkb1r/pp2pppp/2np1n2/8/3NP3/2N5/PPP2PPP/R1BQKB1R w KQkq - 0 6")

	neutral := engine.NewEvaluator()
	optimist := engine.NewEvaluator()
	optimist.Contempt = engine.S(20, 10)

	if nv, ov := neutral.Evaluate(pos), optimist.Evaluate(pos); ov <= nv {
		t.Fatalf("contempt for white should raise white's score: %d vs %d", ov, nv)
	}
}
