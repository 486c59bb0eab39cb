package engine

import (
	"fmt"
	"strings"

	"variant-engine/board"
)

// Term identifies one row of the evaluation breakdown.
type Term int

const (
	TermMaterial Term = iota
	TermImbalance
	TermInitiative
	TermPawn
	TermShogiPawn
	TermKnight
	TermBishop
	TermRook
	TermQueen
	TermMobility
	TermKing
	TermThreat
	TermPassed
	TermSpace
	TermVariant
	TermTotal
	termNB
)

func pieceTerm(pt board.PieceType) Term {
	switch pt {
	case board.ShogiPawn:
		return TermShogiPawn
	case board.Knight:
		return TermKnight
	case board.Bishop:
		return TermBishop
	case board.Rook:
		return TermRook
	case board.Queen:
		return TermQueen
	}
	return TermPawn
}

// Trace holds the per-term scores from white's point of view, filled in by
// TraceEval.
type Trace struct {
	scores [termNB][board.ColorNB]Score
	total  board.Value
}

func (t *Trace) add(term Term, c board.Color, s Score) {
	t.scores[term][c] = t.scores[term][c].Add(s)
}

// Score returns the accumulated white and black scores for a term. Terms
// recorded for white only report their whole value in the white slot.
func (t *Trace) Score(term Term, c board.Color) Score {
	return t.scores[term][c]
}

// Total returns the final evaluation from white's point of view, tempo
// included.
func (t *Trace) Total() board.Value {
	return t.total
}

func toCp(v int) float64 {
	return float64(v) / float64(board.PawnValueEg)
}

// String renders the breakdown table. Aggregate rows show only their total,
// since they have no meaningful per-side split.
func (t *Trace) String() string {
	var b strings.Builder
	b.WriteString("     Term    |    White    |    Black    |    Total   \n")
	b.WriteString("             |   MG    EG  |   MG    EG  |   MG    EG \n")
	b.WriteString(" ------------+-------------+-------------+------------\n")

	row := func(name string, term Term) {
		w := t.scores[term][board.White]
		bl := t.scores[term][board.Black]
		diff := w.Sub(bl)
		if term == TermMaterial || term == TermImbalance || term == TermInitiative || term == TermTotal {
			fmt.Fprintf(&b, "%12s |  ----  ---- |  ----  ---- | %5.2f %5.2f\n",
				name, toCp(diff.MG), toCp(diff.EG))
		} else {
			fmt.Fprintf(&b, "%12s | %5.2f %5.2f | %5.2f %5.2f | %5.2f %5.2f\n",
				name, toCp(w.MG), toCp(w.EG), toCp(bl.MG), toCp(bl.EG),
				toCp(diff.MG), toCp(diff.EG))
		}
	}

	row("Material", TermMaterial)
	row("Imbalance", TermImbalance)
	row("Initiative", TermInitiative)
	row("Pawns", TermPawn)
	if sp := t.scores[TermShogiPawn]; !sp[board.White].IsZero() || !sp[board.Black].IsZero() {
		row("Shogi pawns", TermShogiPawn)
	}
	row("Knights", TermKnight)
	row("Bishops", TermBishop)
	row("Rooks", TermRook)
	row("Queens", TermQueen)
	row("Mobility", TermMobility)
	row("King safety", TermKing)
	row("Threats", TermThreat)
	row("Passed", TermPassed)
	row("Space", TermSpace)
	row("Variant", TermVariant)
	b.WriteString(" ------------+-------------+-------------+------------\n")
	row("Total", TermTotal)

	fmt.Fprintf(&b, "\nTotal evaluation: %.2f (white side)\n", toCp(int(t.total)))
	return b.String()
}
