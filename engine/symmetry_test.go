package engine_test

import (
	"math/rand"
	"strings"
	"testing"
	"unicode"

	"github.com/notnil/chess"

	"variant-engine/board"
	"variant-engine/engine"
)

// flipFEN mirrors a position vertically and swaps the colors, producing the
// same game seen from the other side.
func flipFEN(fen string) string {
	fields := strings.Fields(fen)

	ranks := strings.Split(fields[0], "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	placement := strings.Map(swapCase, strings.Join(ranks, "/"))

	side := "w"
	if fields[1] == "w" {
		side = "b"
	}

	castling := "-"
	if fields[2] != "-" {
		var sb strings.Builder
		for _, want := range "KQkq" {
			src := unicode.ToLower(want)
			if unicode.IsLower(want) {
				src = unicode.ToUpper(want)
			}
			if strings.ContainsRune(fields[2], src) {
				sb.WriteRune(want)
			}
		}
		if sb.Len() > 0 {
			castling = sb.String()
		}
	}

	ep := fields[3]
	if ep != "-" {
		ep = string(ep[0]) + string('1'+('8'-ep[1]))
	}

	out := []string{placement, side, castling, ep}
	out = append(out, fields[4:]...)
	return strings.Join(out, " ")
}

func swapCase(r rune) rune {
	switch {
	case unicode.IsUpper(r):
		return unicode.ToLower(r)
	case unicode.IsLower(r):
		return unicode.ToUpper(r)
	}
	return r
}

func TestFlipFEN(t *testing.T) {
	in := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	want := "rnbqkbnr/pppp1ppp/8/4p3/8/8/PPPPPPPP/RNBQKBNR w KQkq e6 0 1"
	if got := flipFEN(in); got != want {
		t.Fatalf("flipFEN:\n got %s\nwant %s", got, want)
	}
}

// Random playouts: every reachable position must evaluate identically from
// both orientations.
func TestEvaluationColorSymmetry(t *testing.T) {
	v, err := board.VariantByName("chess")
	if err != nil {
		t.Fatalf("VariantByName: %v", err)
	}
	ev := engine.NewEvaluator()
	rng := rand.New(rand.NewSource(20260829))

	for game := 0; game < 20; game++ {
		g := chess.NewGame()
		plies := 10 + rng.Intn(50)
		for i := 0; i < plies; i++ {
			moves := g.ValidMoves()
			if len(moves) == 0 {
				break
			}
			if err := g.Move(moves[rng.Intn(len(moves))]); err != nil {
				t.Fatalf("playout move: %v", err)
			}
		}

		fen := g.Position().String()
		pos, err := board.ParseFEN(fen, v)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}
		mirrored, err := board.ParseFEN(flipFEN(fen), v)
		if err != nil {
			t.Fatalf("ParseFEN(flipped %q): %v", fen, err)
		}

		if pv, mv := ev.Evaluate(pos), ev.Evaluate(mirrored); pv != mv {
			t.Fatalf("asymmetric evaluation for %s: %d vs %d", fen, pv, mv)
		}
	}
}
