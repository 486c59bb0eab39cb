package engine

import (
	"variant-engine/board"
)

// materialEntry caches everything derivable from the material signature
// alone: game phase, imbalance, per-side endgame scale factors and, for a
// few lopsided piece setups, a specialized evaluation that short-circuits
// the whole pipeline.
type materialEntry struct {
	key        uint64
	imbalance  Score
	gamePhase  int
	factor     [board.ColorNB]int
	hasEval    bool
	eval       func(pos *board.Position) board.Value
}

const materialTableSize = 1 << 13

type materialTable struct {
	entries [materialTableSize]materialEntry
}

func (mt *materialTable) probe(pos *board.Position) *materialEntry {
	key := materialKey(pos)
	e := &mt.entries[key&(materialTableSize-1)]
	if e.key == key {
		return e
	}
	*e = materialEntry{key: key}
	e.gamePhase = gamePhase(pos)
	e.factor[board.White] = materialScale(pos, board.White)
	e.factor[board.Black] = materialScale(pos, board.Black)
	e.imbalance = imbalance(pos)
	e.eval = specializedEval(pos)
	e.hasEval = e.eval != nil
	return e
}

// materialKey hashes piece and hand counts. Placement is irrelevant here.
func materialKey(pos *board.Position) uint64 {
	h := uint64(0x9e3779b97f4a7c15)
	for c := board.White; c <= board.Black; c++ {
		for pt := board.Pawn; pt < board.PieceTypeNB; pt++ {
			h = mix64(h ^ uint64(pos.Count(c, pt)))
			h = mix64(h ^ uint64(pos.CountInHand(c, pt)))
		}
	}
	return h
}

func mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

// gamePhase maps total non-pawn material onto [PhaseEndgame, PhaseMidgame].
// Pieces in hand count toward the phase so drop games stay sharp.
func gamePhase(pos *board.Position) int {
	npm := pos.NonPawnMaterial(board.White) + pos.NonPawnMaterial(board.Black)
	for c := board.White; c <= board.Black; c++ {
		for _, pt := range []board.PieceType{board.Knight, board.Bishop, board.Rook, board.Queen} {
			npm += board.PieceValueMg[pt] * board.Value(pos.CountInHand(c, pt))
		}
	}
	if npm > MidgameLimit {
		npm = MidgameLimit
	}
	if npm < EndgameLimit {
		npm = EndgameLimit
	}
	return int(((npm - EndgameLimit) * PhaseMidgame) / (MidgameLimit - EndgameLimit))
}

// materialScale spots won endings the winning side cannot actually win:
// a pawnless side with too little material gets its endgame scaled down.
func materialScale(pos *board.Position, strong board.Color) int {
	if pos.CapturesToHand() || pos.PieceDrops() {
		return ScaleFactorNormal
	}
	weak := strong.Other()
	if pos.Count(strong, board.Pawn) == 0 && pos.Count(strong, board.ShogiPawn) == 0 &&
		pos.NonPawnMaterial(strong)-pos.NonPawnMaterial(weak) <= board.BishopValueMg {
		switch {
		case pos.NonPawnMaterial(strong) < board.RookValueMg:
			return ScaleFactorDraw
		case pos.NonPawnMaterial(weak) <= board.BishopValueMg:
			return 4
		default:
			return 14
		}
	}
	return ScaleFactorNormal
}

// Imbalance weights, pawn-count adjusted minors and redundant majors.
var (
	imbalanceRefPawnCount    = 5
	imbalanceKnightPerPawn   = S(3, 5)
	imbalanceBishopPerPawn   = S(2, 5)
	imbalanceMinorsForMajor  = S(-8, -2)
	imbalanceRedundantRook   = S(5, -10)
	imbalanceRookQueenShare  = S(5, -8)
	imbalanceQueenManyMinors = S(13, -17)
)

// imbalance scores piece-combination effects beyond raw material, white
// minus black.
func imbalance(pos *board.Position) Score {
	side := func(c board.Color) Score {
		p := pos.Count(c, board.Pawn) + pos.Count(c, board.ShogiPawn)
		n := pos.Count(c, board.Knight)
		b := pos.Count(c, board.Bishop)
		r := pos.Count(c, board.Rook)
		q := pos.Count(c, board.Queen)

		var s Score
		pawnDelta := p - imbalanceRefPawnCount
		s = s.Add(imbalanceKnightPerPawn.Mul(pawnDelta * n))
		s = s.Add(imbalanceBishopPerPawn.Mul(pawnDelta * b))

		if r > 1 {
			s = s.Sub(imbalanceRedundantRook.Mul(r - 1))
		}
		if q >= 1 && r >= 2 {
			s = s.Sub(imbalanceRookQueenShare.Mul(r))
		}
		if q > 0 && n+b >= 3 {
			s = s.Sub(imbalanceQueenManyMinors.Mul(n + b - 2))
		}
		return s
	}

	score := side(board.White).Sub(side(board.Black))

	// Rook-for-minors trades in crowded queen-on positions.
	totalPawns := pos.Count(board.White, board.Pawn) + pos.Count(board.Black, board.Pawn)
	wMinors := pos.Count(board.White, board.Knight) + pos.Count(board.White, board.Bishop)
	bMinors := pos.Count(board.Black, board.Knight) + pos.Count(board.Black, board.Bishop)
	wRooks := pos.Count(board.White, board.Rook)
	bRooks := pos.Count(board.Black, board.Rook)
	queens := pos.Count(board.White, board.Queen) + pos.Count(board.Black, board.Queen)
	if totalPawns >= 11 && queens > 0 {
		if wRooks > bRooks && wMinors < bMinors {
			score = score.Add(imbalanceMinorsForMajor.Mul(bMinors - wMinors))
		}
		if bRooks > wRooks && bMinors < wMinors {
			score = score.Sub(imbalanceMinorsForMajor.Mul(wMinors - bMinors))
		}
	}
	return score
}

// specializedEval returns a material-keyed evaluation function for positions
// the normal pipeline misjudges, or nil. Only plain chess-like rule sets
// qualify; any exotic win condition leaves the pipeline in charge.
func specializedEval(pos *board.Position) func(*board.Position) board.Value {
	v := pos.Rules()
	if v.PieceDrops || v.CapturesToHand || v.MustCapture || v.ConnectN > 0 ||
		v.MaxCheckCount > 0 || v.ExtinctionValue != board.ValueNone || v.CaptureTheFlag() {
		return nil
	}
	if pos.KingSq(board.White) == board.NoSquare || pos.KingSq(board.Black) == board.NoSquare {
		return nil
	}
	if isMaterialDraw(pos) {
		return func(*board.Position) board.Value { return board.ValueDraw }
	}
	for _, strong := range []board.Color{board.White, board.Black} {
		weak := strong.Other()
		bareKing := pos.CountAll(weak) == 1
		winnable := pos.NonPawnMaterial(strong) >= board.RookValueMg ||
			pos.Count(strong, board.Pawn) > 0
		if bareKing && winnable {
			s := strong
			return func(p *board.Position) board.Value { return mopUp(p, s) }
		}
	}
	return nil
}

// isMaterialDraw covers the pawnless one- and two-piece setups nobody wins.
func isMaterialDraw(pos *board.Position) bool {
	if pos.ByType(board.Pawn)|pos.ByType(board.ShogiPawn) != 0 {
		return false
	}
	wn := pos.Count(board.White, board.Knight)
	wb := pos.Count(board.White, board.Bishop)
	wr := pos.Count(board.White, board.Rook)
	wq := pos.Count(board.White, board.Queen)
	bn := pos.Count(board.Black, board.Knight)
	bb := pos.Count(board.Black, board.Bishop)
	br := pos.Count(board.Black, board.Rook)
	bq := pos.Count(board.Black, board.Queen)

	all := wn + wb + wr + wq + bn + bb + br + bq
	switch all {
	case 0:
		return true
	case 1:
		return wn+wb+bn+bb == 1
	case 2:
		switch {
		case wn == 2 || bn == 2:
			return true
		case wn+wb == 1 && bn+bb == 1:
			return true
		case wr == 1 && (bn+bb+br == 1):
			return true
		case br == 1 && (wn+wb+wr == 1):
			return true
		case wq == 1 && bq == 1:
			return true
		}
	}
	return false
}

// mopUp drives the bare king toward the edge and the strong king toward it.
// Returned from the side to move's perspective, material difference included.
func mopUp(pos *board.Position, strong board.Color) board.Value {
	weak := strong.Other()
	strongKing := pos.KingSq(strong)
	weakKing := pos.KingSq(weak)

	closeWeight, edgeWeight := 12, 12
	hasQueen := pos.Count(strong, board.Queen) > 0
	hasRook := pos.Count(strong, board.Rook) > 0
	if hasQueen && !hasRook {
		closeWeight, edgeWeight = 10, 12
	} else if hasRook && !hasQueen {
		closeWeight, edgeWeight = 18, 20
	}

	bonus := (7-board.Distance(strongKing, weakKing))*closeWeight +
		(3-edgeDistance(weakKing))*edgeWeight
	if bonus > 120 {
		bonus = 120
	}
	if bonus < 0 {
		bonus = 0
	}

	v := pos.NonPawnMaterial(strong) - pos.NonPawnMaterial(weak) +
		board.PawnValueEg*board.Value(pos.Count(strong, board.Pawn)-pos.Count(weak, board.Pawn)) +
		board.Value(bonus)
	if pos.SideToMove() != strong {
		v = -v
	}
	return v
}

func edgeDistance(sq board.Square) int {
	f, r := sq.File(), sq.Rank()
	fd := minInt(f, 7-f)
	rd := minInt(r, 7-r)
	return minInt(fd, rd)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
