package engine

import (
	"variant-engine/board"
)

// Evaluator owns the material and pawn caches. Create one per worker; a
// single Evaluator must not be shared between goroutines, but any number of
// Evaluators can score positions concurrently.
type Evaluator struct {
	material materialTable
	pawns    pawnTable

	// Contempt is folded into the score after the material imbalance,
	// from white's point of view. Zero by default.
	Contempt Score
}

func NewEvaluator() *Evaluator { return &Evaluator{} }

// Evaluate returns the static evaluation from the side to move's view.
func (ev *Evaluator) Evaluate(pos *board.Position) board.Value {
	ctx := evalCtx{pos: pos, ev: ev}
	return ctx.value()
}

// TraceEval evaluates like Evaluate and also returns the per-term breakdown
// from white's point of view.
func (ev *Evaluator) TraceEval(pos *board.Position) (board.Value, *Trace) {
	ctx := evalCtx{pos: pos, ev: ev, trace: &Trace{}}
	v := ctx.value()
	wv := v
	if pos.SideToMove() == board.Black {
		wv = -v
	}
	ctx.trace.total = wv
	return v, ctx.trace
}

// TempoValue returns the side-to-move bonus for the position's rule set.
func TempoValue(pos *board.Position) board.Value {
	if pos.CapturesToHand() {
		return tempo * 5
	}
	return tempo
}

const tempo board.Value = 28

// King attack weights by attacking piece type.
var kingAttackWeights = [board.PieceTypeNB]int{
	board.ShogiPawn: 10,
	board.Knight:    77,
	board.Bishop:    55,
	board.Rook:      44,
	board.Queen:     10,
}

// Penalties for the enemy's safe checks.
const (
	queenSafeCheck  = 780
	rookSafeCheck   = 880
	bishopSafeCheck = 435
	knightSafeCheck = 790
	otherSafeCheck  = 600
)

// mobilityBonus[pt][n] scores n reachable mobility-area squares. Piece types
// without a table fall back to the saturating maxMobility formula.
var mobilityBonus = [board.PieceTypeNB][]Score{
	board.Knight: {
		S(-75, -76), S(-57, -54), S(-9, -28), S(-2, -10), S(6, 5), S(14, 12),
		S(22, 26), S(29, 29), S(36, 29),
	},
	board.Bishop: {
		S(-48, -59), S(-20, -23), S(16, -3), S(26, 13), S(38, 24), S(51, 42),
		S(55, 54), S(63, 57), S(63, 65), S(68, 73), S(81, 78), S(81, 86),
		S(91, 88), S(98, 97),
	},
	board.Rook: {
		S(-58, -76), S(-27, -18), S(-15, 28), S(-10, 55), S(-5, 69), S(-2, 82),
		S(9, 112), S(16, 118), S(30, 132), S(29, 142), S(32, 155), S(38, 165),
		S(46, 166), S(48, 169), S(58, 171),
	},
	board.Queen: {
		S(-39, -36), S(-21, -15), S(3, 8), S(3, 18), S(14, 34), S(22, 54),
		S(28, 61), S(41, 73), S(43, 79), S(48, 92), S(56, 94), S(60, 104),
		S(60, 113), S(66, 120), S(67, 123), S(70, 126), S(71, 133), S(73, 136),
		S(79, 140), S(88, 143), S(88, 148), S(99, 166), S(102, 170), S(102, 175),
		S(106, 184), S(109, 191), S(113, 206), S(116, 212),
	},
}

var (
	maxMobility  = S(300, 300)
	dropMobility = S(10, 10)
)

// outpost[bishop][supported by pawn] bonuses for minors on or reaching an
// outpost square.
var outpost = [2][2]Score{
	{S(22, 6), S(36, 12)}, // knight
	{S(9, 2), S(15, 5)},   // bishop
}

// rookOnFile[open] bonuses for a rook with no friendly pawn on its file.
var rookOnFile = [2]Score{S(20, 7), S(45, 20)}

// Threat bonuses indexed by the attacked piece type.
var threatByMinor = [board.PieceTypeNB]Score{
	board.Pawn: S(0, 31), board.ShogiPawn: S(0, 31), board.Knight: S(39, 42),
	board.Bishop: S(57, 44), board.Rook: S(68, 112), board.Queen: S(47, 120),
}

var threatByRook = [board.PieceTypeNB]Score{
	board.Pawn: S(0, 24), board.ShogiPawn: S(0, 24), board.Knight: S(38, 71),
	board.Bishop: S(38, 61), board.Rook: S(0, 38), board.Queen: S(36, 38),
}

// threatByKing[attacks on many] for king attacks on undefended enemies.
var threatByKing = [2]Score{S(3, 65), S(9, 145)}

// Passed pawn bonuses by relative rank and file, and the rank weight used
// for the path analysis.
var passedRank = [8]Score{
	{}, S(5, 7), S(5, 13), S(18, 23), S(74, 58), S(164, 166), S(268, 243), {},
}

var passedFile = [8]Score{
	S(15, 7), S(-5, 14), S(1, -5), S(-22, -11),
	S(-22, -11), S(1, -5), S(-5, 14), S(15, 7),
}

var passedDanger = [8]int{0, 0, 0, 3, 6, 12, 21, 0}

// kingProtector[pt] penalizes distance between a piece and its own king.
var kingProtector = [board.PieceTypeNB]Score{
	board.ShogiPawn: S(2, 2), board.Knight: S(3, 5), board.Bishop: S(4, 3),
	board.Rook: S(3, 0), board.Queen: S(1, -1),
}

// Assorted bonuses and penalties.
var (
	bishopPawns        = S(3, 5)
	closeEnemies       = S(7, 0)
	connectivity       = S(3, 1)
	corneredBishop     = S(50, 50)
	hanging            = S(52, 30)
	hinderPassedPawn   = S(8, 1)
	knightOnQueen      = S(21, 11)
	longDiagonalBishop = S(22, 0)
	minorBehindPawn    = S(16, 0)
	overload           = S(10, 5)
	pawnlessFlank      = S(20, 80)
	rookOnPawn         = S(8, 24)
	sliderOnQueen      = S(42, 21)
	threatByPawnPush   = S(47, 26)
	threatByRank       = S(16, 3)
	threatBySafePawn   = S(175, 168)
	trappedRook        = S(92, 0)
	weakQueen          = S(50, 10)
	weakUnopposedPawn  = S(5, 25)
)

const spaceThreshold = board.Value(12222)

var kingFlank = [8]uint64{
	board.QueenSideBB, board.QueenSideBB, board.QueenSideBB,
	board.CenterFilesBB, board.CenterFilesBB,
	board.KingSideBB, board.KingSideBB, board.KingSideBB,
}

// evalCtx carries the per-call working state: attack tables, mobility
// accumulators and king safety counters. A fresh one is built per call, so
// evaluation never mutates shared state beyond the Evaluator's caches.
type evalCtx struct {
	pos   *board.Position
	ev    *Evaluator
	trace *Trace

	me *materialEntry
	pe *pawnEntry

	mobilityArea [board.ColorNB]uint64
	mobility     [board.ColorNB]Score

	// attackedBy[color][type]; the AllPieces slot aggregates every type.
	attackedBy  [board.ColorNB][board.PieceTypeNB]uint64
	attackedBy2 [board.ColorNB]uint64

	kingRing            [board.ColorNB]uint64
	kingAttackersCount  [board.ColorNB]int
	kingAttackersWeight [board.ColorNB]int
	kingAttacksCount    [board.ColorNB]int
}

// initialize computes the pawn and king attack tables, the mobility area and
// the king ring for one side. Runs before any per-piece scoring.
func (e *evalCtx) initialize(us board.Color) {
	pos := e.pos
	them := us.Other()

	lowRanks := relRanksBB(us, 1) | relRanksBB(us, 2)

	// Our pawns that are blocked or on the first two ranks.
	b := pos.Bitboard(us, board.Pawn) & (board.ShiftDown(us, pos.Occupied()) | lowRanks)

	if pos.MustCapture() {
		e.mobilityArea[us] = board.AllSquaresBB
	} else {
		e.mobilityArea[us] = ^(b | pos.Bitboard(us, board.King) | pos.Bitboard(us, board.Queen) |
			e.pe.pawnAttacks(them) | e.pe.shogiAttacks(them))
	}

	ksq := pos.KingSq(us)
	if ksq != board.NoSquare {
		e.attackedBy[us][board.King] = board.KingAttacksBB(ksq)
	}
	e.attackedBy[us][board.Pawn] = e.pe.pawnAttacks(us)
	e.attackedBy[us][board.AllPieces] = e.attackedBy[us][board.King] | e.attackedBy[us][board.Pawn]
	e.attackedBy2[us] = e.attackedBy[us][board.King] & e.attackedBy[us][board.Pawn]

	kingSafetyRelevant := ksq != board.NoSquare &&
		(pos.NonPawnMaterial(them) >= board.RookValueMg+board.KnightValueMg || pos.CapturesToHand())
	if kingSafetyRelevant {
		ring := e.attackedBy[us][board.King]
		if board.RelativeRank(us, ksq) == 0 {
			ring |= board.ShiftUp(us, ring)
		}
		if ksq.File() == 7 {
			ring |= board.ShiftWest(ring)
		} else if ksq.File() == 0 {
			ring |= board.ShiftEast(ring)
		}
		e.kingRing[us] = ring
		e.kingAttackersCount[them] = board.Popcount(ring & e.pe.pawnAttacks(them))
	} else {
		e.kingRing[us] = 0
		e.kingAttackersCount[them] = 0
	}
}

// pieces scores all pieces of one side and type and populates the attack
// tables as a side effect.
func (e *evalCtx) pieces(us board.Color, pt board.PieceType) Score {
	pos := e.pos
	them := us.Other()
	occ := pos.Occupied()
	outpostRanks := relRanksBB(us, 3) | relRanksBB(us, 4) | relRanksBB(us, 5)
	ksq := pos.KingSq(us)
	theirKsq := pos.KingSq(them)

	var score Score
	e.attackedBy[us][pt] = 0

	for x := pos.Bitboard(us, pt); x != 0; x &= x - 1 {
		s := board.Lsb(x)

		// Attacked squares, including x-ray through queens for sliders.
		var b uint64
		switch pt {
		case board.Bishop:
			b = board.BishopAttacksBB(s, occ^pos.ByType(board.Queen))
		case board.Rook:
			b = board.RookAttacksBB(s, occ^pos.ByType(board.Queen)^pos.Bitboard(us, board.Rook))
		default:
			b = (board.AttacksBB(us, pt, s, occ) & occ) |
				(board.MovesBB(us, pt, s, occ) &^ occ)
		}

		if ksq != board.NoSquare && pos.BlockersForKing(us)&s.Bit() != 0 {
			b &= board.LineBB(ksq, s)
		}

		e.attackedBy2[us] |= e.attackedBy[us][board.AllPieces] & b
		e.attackedBy[us][pt] |= b
		e.attackedBy[us][board.AllPieces] |= b

		if b&e.kingRing[them] != 0 {
			e.kingAttackersCount[us]++
			e.kingAttackersWeight[us] += kingAttackWeights[pt]
			e.kingAttacksCount[us] += board.Popcount(b & e.attackedBy[them][board.King])
		}

		mob := board.Popcount(b & e.mobilityArea[us])

		if tbl := mobilityBonus[pt]; tbl != nil {
			e.mobility[us] = e.mobility[us].Add(tbl[mob])
		} else {
			e.mobility[us] = e.mobility[us].Add(maxMobility.Mul(mob - 1).Div(10 + mob))
		}

		// Piece promotion prospects, or the demotion debit for promoted
		// pieces that revert on capture.
		rules := pos.Rules()
		if promo := rules.PromotedPieceType[pt]; promo != board.AllPieces {
			if rules.PromotionZone(us)&(b|s.Bit()) != 0 {
				score = score.Add(pieceScore(promo).Sub(pieceScore(pt)).Div(10))
			}
		} else if pos.CapturesToHand() {
			if unpromoted := pos.UnpromotedPieceOn(s); unpromoted != board.AllPieces {
				score = score.Add(pieceScore(pt).Sub(pieceScore(unpromoted)).Div(8))
			}
		}

		// Penalty for straying from the king.
		if ksq != board.NoSquare {
			dist := board.Distance(s, ksq)
			if pos.CapturesToHand() && theirKsq != board.NoSquare {
				dist *= board.Distance(s, theirKsq)
			}
			score = score.Sub(kingProtector[pt].Mul(dist))
		}

		if pt == board.Knight || pt == board.Bishop {
			isBishop := 0
			if pt == board.Bishop {
				isBishop = 1
			}

			// On an outpost square, or able to reach one.
			bb := outpostRanks &^ e.pe.attackSpan(them)
			if bb&s.Bit() != 0 {
				score = score.Add(outpost[isBishop][b2i(e.attackedBy[us][board.Pawn]&s.Bit() != 0)].Mul(2))
			} else if bb &= b &^ pos.ByColor(us); bb != 0 {
				score = score.Add(outpost[isBishop][b2i(e.attackedBy[us][board.Pawn]&bb != 0)])
			}

			if board.RelativeRank(us, s) < 4 &&
				pos.ByType(board.Pawn)&board.ShiftUp(us, s.Bit()) != 0 {
				score = score.Add(minorBehindPawn)
			}

			if pt == board.Bishop {
				blocked := pos.Bitboard(us, board.Pawn) & board.ShiftDown(us, occ)
				score = score.Sub(bishopPawns.
					Mul(e.pe.pawnsOnSameColorSquares(us, s)).
					Mul(1 + board.Popcount(blocked&board.CenterFilesBB)))

				if board.MoreThanOne(board.CenterBB & (board.BishopAttacksBB(s, pos.ByType(board.Pawn)) | s.Bit())) {
					score = score.Add(longDiagonalBishop)
				}

				// The classic Chess960 cornered bishop.
				if pos.IsChess960() &&
					(s == board.RelativeSquare(us, board.SquareAt(0, 0)) ||
						s == board.RelativeSquare(us, board.SquareAt(7, 0))) {
					d := 1
					if s.File() != 0 {
						d = -1
					}
					up := 8
					if us == board.Black {
						up = -8
					}
					if pos.PieceOn(s+board.Square(up+d)) == board.MakePiece(us, board.Pawn) {
						switch {
						case pos.PieceOn(s+board.Square(2*up+d)) != board.NoPiece:
							score = score.Sub(corneredBishop.Mul(4))
						case pos.PieceOn(s+board.Square(2*up+2*d)) == board.MakePiece(us, board.Pawn):
							score = score.Sub(corneredBishop.Mul(2))
						default:
							score = score.Sub(corneredBishop)
						}
					}
				}
			}
		}

		if pt == board.Rook {
			if board.RelativeRank(us, s) >= 4 {
				score = score.Add(rookOnPawn.Mul(board.Popcount(
					pos.Bitboard(them, board.Pawn) & board.PseudoRookAttacksBB(s))))
			}

			if e.pe.semiopenFile(us, s.File()) {
				score = score.Add(rookOnFile[b2i(e.pe.semiopenFile(them, s.File()))])
			} else if mob <= 3 && ksq != board.NoSquare {
				kf := ksq.File()
				if (kf < 4) == (s.File() < kf) {
					penalty := trappedRook.Sub(S(mob*22, 0))
					if !pos.CanCastle(us) {
						penalty = penalty.Mul(2)
					}
					score = score.Sub(penalty)
				}
			}
		}

		if pt == board.Queen {
			pinners := pos.Bitboard(them, board.Rook) | pos.Bitboard(them, board.Bishop)
			if blockers, _ := pos.SliderBlockers(pinners, s); blockers != 0 {
				score = score.Sub(weakQueen)
			}
		}
	}

	e.traceAdd(pieceTerm(pt), us, score)
	return score
}

// hand scores in-hand pieces of one type: their drop squares feed the king
// attack counters and a flat drop mobility term.
func (e *evalCtx) hand(us board.Color, pt board.PieceType) Score {
	pos := e.pos
	them := us.Other()

	n := pos.CountInHand(us, pt)
	if n == 0 {
		return Score{}
	}

	b := pos.Rules().DropRegionBB(us, pt) &^ pos.Occupied() &
		(^e.attackedBy2[them] | e.attackedBy[us][board.AllPieces])
	if b&e.kingRing[them] != 0 && pt != board.ShogiPawn {
		e.kingAttackersCount[us] += n
		e.kingAttackersWeight[us] += kingAttackWeights[pt] * n
		e.kingAttacksCount[us] += board.Popcount(b & e.attackedBy[them][board.King])
	}

	theirHalf := relForwardRanksBB(us, 3)
	e.mobility[us] = e.mobility[us].Add(
		dropMobility.Mul(board.Popcount(b & theirHalf &^ e.attackedBy[them][board.AllPieces])))

	return Score{}
}

// king scores king safety: shelter, the danger formula, safe checks and
// flank pressure.
func (e *evalCtx) king(us board.Color) Score {
	pos := e.pos
	them := us.Other()

	ksq := pos.KingSq(us)
	if ksq == board.NoSquare || !pos.CheckingPermitted() {
		return Score{}
	}

	camp := board.AllSquaresBB ^ relForwardRanksBB(us, 4)
	occ := pos.Occupied()
	hasCheckLimit := b2i(pos.MaxCheckCount() > 0)

	score := e.pe.kingSafetyOf(pos, us, ksq)

	if e.kingAttackersCount[them] > 1-pos.Count(them, board.Queen) || pos.CapturesToHand() {
		kingDanger := 0
		var unsafeChecks uint64

		// Attacked squares defended at most once by our queen or king.
		weak := e.attackedBy[them][board.AllPieces] &^ e.attackedBy2[us] &
			(^e.attackedBy[us][board.AllPieces] | e.attackedBy[us][board.King] | e.attackedBy[us][board.Queen])

		safe := ^pos.ByColor(them)
		safe &= ^e.attackedBy[us][board.AllPieces] | (weak & e.attackedBy2[them])

		// In drop games a piece in hand covers every empty square.
		getAttacks := func(c board.Color, pt board.PieceType) uint64 {
			atk := e.attackedBy[c][pt]
			if pos.CapturesToHand() && pos.CountInHand(c, pt) > 0 {
				atk |= ^occ
			}
			return atk
		}

		for _, pt := range pos.PieceTypes() {
			switch pt {
			case board.Queen:
				b := board.QueenAttacksBB(ksq, occ^pos.Bitboard(us, board.Queen)) &
					getAttacks(them, pt) & safe &^ e.attackedBy[us][board.Queen]
				if b != 0 {
					kingDanger += queenSafeCheck
				}
			case board.Rook, board.Bishop, board.Knight:
				b := board.AttacksBB(us, pt, ksq, occ^pos.Bitboard(us, board.Queen)) & getAttacks(them, pt)
				if b&safe != 0 {
					switch pt {
					case board.Rook:
						kingDanger += rookSafeCheck
					case board.Bishop:
						kingDanger += bishopSafeCheck
					default:
						kingDanger += knightSafeCheck
					}
				} else {
					unsafeChecks |= b
				}
			case board.Pawn:
				if pos.CapturesToHand() && pos.CountInHand(them, pt) > 0 {
					b := board.PawnAttacksFrom(us, ksq) &^ occ
					if b&safe != 0 {
						kingDanger += otherSafeCheck
					} else {
						unsafeChecks |= b
					}
				}
			case board.ShogiPawn:
				// No meaningful checking distance.
			}
		}

		if pos.MaxCheckCount() > 0 {
			kingDanger *= 2
		}

		unsafeChecks &= e.mobilityArea[them]

		kingDanger += e.kingAttackersCount[them]*e.kingAttackersWeight[them] +
			102*e.kingAttacksCount[them]*(1+b2i(pos.CapturesToHand())+hasCheckLimit) +
			191*board.Popcount(e.kingRing[us]&weak)*(1+b2i(pos.CapturesToHand())+hasCheckLimit) +
			143*board.Popcount(pos.BlockersForKing(us)|unsafeChecks) -
			848*b2i(pos.Count(them, board.Queen) == 0 && !pos.CapturesToHand())/(1+hasCheckLimit) -
			9*score.MG/8 +
			40

		if kingDanger > 0 {
			kingDanger += e.mobility[them].MG - e.mobility[us].MG
			if kingDanger < 0 {
				kingDanger = 0
			}
			score = score.Sub(S(minInt(kingDanger*kingDanger/4096, 3000), kingDanger/16))
		}
	}

	f := clampInt(ksq.File(), 1, 6)
	kf := kingFlank[f]

	if pos.ByType(board.Pawn)&kf == 0 {
		score = score.Sub(pawnlessFlank)
	}

	// Enemy pressure in our king's flank, doubled squares counting twice
	// unless our pawns defend them.
	b1 := e.attackedBy[them][board.AllPieces] & kf & camp
	b2 := b1 & e.attackedBy2[them] &^ (e.attackedBy[us][board.Pawn] | e.attackedBy[us][board.ShogiPawn])
	score = score.Sub(closeEnemies.
		Mul(board.Popcount(b1) + board.Popcount(b2)).
		Mul(1 + b2i(pos.CapturesToHand()) + hasCheckLimit))

	// In drop games king danger never fades with the phase.
	if pos.CapturesToHand() {
		div := 1
		if !pos.ShogiDoubledPawn() {
			div = 3
		}
		score = S(score.MG, score.MG).Div(div)
	}

	e.traceAdd(TermKing, us, score)
	return score
}

// threats scores attacks on enemy pieces, safe pawn pushes and assorted
// pressure terms.
func (e *evalCtx) threats(us board.Color) Score {
	pos := e.pos
	them := us.Other()
	occ := pos.Occupied()
	trank3 := relRanksBB(us, 2)

	var score Score

	if pos.MustCapture() {
		// Everything we can capture is a liability; everything the enemy
		// would be forced to capture is leverage.
		score = score.Sub(S(100, 100).Mul(board.Popcount(
			e.attackedBy[us][board.AllPieces] & pos.ByColor(them))))

		var moves uint64
		for x := pos.ByColor(us); x != 0; x &= x - 1 {
			s := board.Lsb(x)
			if pt := pos.PieceOn(s).Type(); pt != board.King {
				moves |= board.MovesBB(us, pt, s, occ)
			}
		}
		forced := e.attackedBy[them][board.AllPieces] & moves &^ occ
		score = score.Add(S(200, 200).Mul(board.Popcount(forced)))
		score = score.Add(S(200, 200).Mul(board.Popcount(forced &^ e.attackedBy2[us])))
	}

	nonPawnEnemies := pos.ByColor(them) &^ (pos.ByType(board.Pawn) | pos.ByType(board.ShogiPawn))

	stronglyProtected := e.attackedBy[them][board.Pawn] |
		(e.attackedBy2[them] &^ e.attackedBy2[us])

	defended := nonPawnEnemies & stronglyProtected

	weak := pos.ByColor(them) &^ stronglyProtected & e.attackedBy[us][board.AllPieces]

	if defended|weak != 0 {
		for b := (defended | weak) & (e.attackedBy[us][board.Knight] | e.attackedBy[us][board.Bishop]); b != 0; b &= b - 1 {
			s := board.Lsb(b)
			pt := pos.PieceOn(s).Type()
			score = score.Add(threatByMinor[pt])
			if pt != board.Pawn && pt != board.ShogiPawn {
				score = score.Add(threatByRank.Mul(board.RelativeRank(them, s)))
			}
		}

		for b := (pos.Bitboard(them, board.Queen) | weak) & e.attackedBy[us][board.Rook]; b != 0; b &= b - 1 {
			s := board.Lsb(b)
			pt := pos.PieceOn(s).Type()
			score = score.Add(threatByRook[pt])
			if pt != board.Pawn && pt != board.ShogiPawn {
				score = score.Add(threatByRank.Mul(board.RelativeRank(them, s)))
			}
		}

		if b := weak & e.attackedBy[us][board.King]; b != 0 {
			score = score.Add(threatByKing[b2i(board.MoreThanOne(b))])
		}

		score = score.Add(hanging.Mul(board.Popcount(
			weak &^ e.attackedBy[them][board.AllPieces])))

		// Non-pawn enemies attacked and defended exactly once.
		b := nonPawnEnemies &
			e.attackedBy[us][board.AllPieces] &^ e.attackedBy2[us] &
			e.attackedBy[them][board.AllPieces] &^ e.attackedBy2[them]
		score = score.Add(overload.Mul(board.Popcount(b)))
	}

	if pos.Bitboard(us, board.Rook)|pos.Bitboard(us, board.Queen) != 0 {
		score = score.Add(weakUnopposedPawn.Mul(e.pe.weakUnopposedCount(them)))
	}

	// Threats by our safe or protected pawns, and by shogi pawn pushes.
	b := pos.Bitboard(us, board.Pawn) &
		(^e.attackedBy[them][board.AllPieces] | e.attackedBy[us][board.AllPieces])
	safeThreats := (board.PawnAttacksBB(us, b) | board.ShiftUp(us, pos.Bitboard(us, board.ShogiPawn))) & nonPawnEnemies
	score = score.Add(threatBySafePawn.Mul(board.Popcount(safeThreats)))

	// Squares our pawns reach with the next push.
	b = board.ShiftUp(us, pos.Bitboard(us, board.Pawn)) &^ occ
	b |= board.ShiftUp(us, b&trank3) &^ occ
	b &= ^e.attackedBy[them][board.Pawn] &
		(e.attackedBy[us][board.AllPieces] | ^e.attackedBy[them][board.AllPieces])
	b = board.PawnAttacksBB(us, b) & pos.ByColor(them) &^ e.attackedBy[us][board.Pawn]
	score = score.Add(threatByPawnPush.Mul(board.Popcount(b)))

	if pos.Count(them, board.Queen) == 1 {
		qsq := board.Lsb(pos.Bitboard(them, board.Queen))
		safe := e.mobilityArea[us] &^ stronglyProtected

		b := e.attackedBy[us][board.Knight] & board.KnightAttacksBB(qsq)
		score = score.Add(knightOnQueen.Mul(board.Popcount(b & safe)))

		b = (e.attackedBy[us][board.Bishop] & board.BishopAttacksBB(qsq, occ)) |
			(e.attackedBy[us][board.Rook] & board.RookAttacksBB(qsq, occ))
		score = score.Add(sliderOnQueen.Mul(board.Popcount(b & safe & e.attackedBy2[us])))
	}

	// Keep the pieces connected.
	b = pos.ByColor(us) &^
		(pos.Bitboard(us, board.Pawn) | pos.Bitboard(us, board.ShogiPawn) | pos.Bitboard(us, board.King)) &
		e.attackedBy[us][board.AllPieces]
	score = score.Add(connectivity.
		Mul(board.Popcount(b)).
		Mul(1 + 2*b2i(pos.CapturesToHand())))

	e.traceAdd(TermThreat, us, score)
	return score
}

// passed scores the passed pawns found by the pawn cache.
func (e *evalCtx) passed(us board.Color) Score {
	pos := e.pos
	them := us.Other()
	occ := pos.Occupied()

	kingProximity := func(c board.Color, s board.Square) int {
		if ksq := pos.KingSq(c); ksq != board.NoSquare {
			return minInt(board.Distance(ksq, s), 5)
		}
		return 5
	}

	var score Score
	for x := e.pe.passedPawns(us); x != 0; x &= x - 1 {
		s := board.Lsb(x)

		blocked := board.ForwardFileBB(us, s) & (e.attackedBy[them][board.AllPieces] | pos.ByColor(them))
		score = score.Sub(hinderPassedPawn.Mul(board.Popcount(blocked)))

		r := board.RelativeRank(us, s)
		w := passedDanger[r]
		bonus := passedRank[r]

		if w != 0 {
			blockSq := board.Square(int(s) + pushDelta(us))

			// The king race matters except when losing everything wins.
			if pos.ExtinctionValue() != board.ValueMate {
				bonus = bonus.Add(S(0, (kingProximity(them, blockSq)*5-kingProximity(us, blockSq)*2)*w))
				if r != 6 {
					bonus = bonus.Sub(S(0, kingProximity(us, board.Square(int(blockSq)+pushDelta(us)))*w))
				}
			}

			if occ&blockSq.Bit() == 0 {
				squaresToQueen := board.ForwardFileBB(us, s)
				defendedSquares := squaresToQueen
				unsafeSquares := squaresToQueen

				behind := board.ForwardFileBB(them, s) &
					(pos.ByType(board.Rook) | pos.ByType(board.Queen)) &
					board.RookAttacksBB(s, occ)

				if pos.ByColor(us)&behind == 0 {
					defendedSquares &= e.attackedBy[us][board.AllPieces]
				}
				if pos.ByColor(them)&behind == 0 {
					unsafeSquares &= e.attackedBy[them][board.AllPieces] | pos.ByColor(them)
				}

				k := 0
				switch {
				case unsafeSquares == 0:
					k = 20
				case unsafeSquares&blockSq.Bit() == 0:
					k = 9
				}
				if defendedSquares == squaresToQueen {
					k += 6
				} else if defendedSquares&blockSq.Bit() != 0 {
					k += 4
				}
				bonus = bonus.Add(S(k*w, k*w))
			} else if pos.ByColor(us)&blockSq.Bit() != 0 {
				bonus = bonus.Add(S(w+r*2, w+r*2))
			}
		}

		// Candidates needing more than one push, or with a pawn ahead,
		// only get half.
		next := board.Square(int(s) + pushDelta(us))
		stillPassed := pos.Bitboard(them, board.Pawn)&board.PassedPawnSpan(us, next) == 0
		if !stillPassed || pos.ByType(board.Pawn)&board.ForwardFileBB(us, s) != 0 {
			bonus = bonus.Div(2)
		}

		score = score.Add(bonus).Add(passedFile[s.File()])
	}

	// Worth only as much as the best promotion on offer.
	maxMg, maxEg := board.Value(0), board.Value(0)
	for _, pt := range pos.Rules().PromotionPieceTypes {
		maxMg = maxValue(maxMg, board.PieceValueMg[pt])
		maxEg = maxValue(maxEg, board.PieceValueEg[pt])
	}
	score = S(score.MG*int(maxMg)/int(board.QueenValueMg),
		score.EG*int(maxEg)/int(board.QueenValueEg))

	e.traceAdd(TermPassed, us, score)
	return score
}

// space scores safe central squares behind the pawn chain.
func (e *evalCtx) space(us board.Color) Score {
	pos := e.pos
	them := us.Other()

	spaceMask := board.CenterFilesBB & (relRanksBB(us, 1) | relRanksBB(us, 2) | relRanksBB(us, 3))

	pawnsOnly := pos.ByColor(us)&^pos.Bitboard(us, board.Pawn) == 0

	totalNpm := pos.NonPawnMaterial(board.White) + pos.NonPawnMaterial(board.Black)
	if totalNpm < spaceThreshold && !pos.CapturesToHand() && !pawnsOnly {
		return Score{}
	}

	safe := spaceMask &^
		(pos.Bitboard(us, board.Pawn) | pos.Bitboard(us, board.ShogiPawn)) &^
		e.attackedBy[them][board.Pawn] &^ e.attackedBy[them][board.ShogiPawn]
	if pawnsOnly {
		safe = pos.Bitboard(us, board.Pawn) &^ e.attackedBy[them][board.AllPieces]
	}

	behind := pos.Pawns(us)
	behind |= board.ShiftDown(us, behind)
	behind |= board.ShiftDown(us, board.ShiftDown(us, behind))

	bonus := board.Popcount(safe) + board.Popcount(behind&safe)
	weight := pos.CountAll(us) - 2*e.pe.openFiles()

	score := S(bonus*weight*weight/16, 0)

	e.traceAdd(TermSpace, us, score)
	return score
}

// variantBonus scores win conditions beyond checkmate: flag races, counted
// checks and connect-n runs.
func (e *evalCtx) variantBonus(us board.Color) Score {
	pos := e.pos
	them := us.Other()

	var score Score

	if region := pos.FlagRegionBB(us); region != 0 && pos.CaptureTheFlag() {
		flagPt := pos.FlagPiece()
		isKingRace := flagPt == board.King
		scale := pos.Count(us, flagPt)
		for pieces := pos.Bitboard(us, flagPt); pieces != 0; pieces &= pieces - 1 {
			s1 := board.Lsb(pieces)
			for targets := region; targets != 0; targets &= targets - 1 {
				s2 := board.Lsb(targets)
				dist := board.Distance(s1, s2)
				if isKingRace {
					dist += board.Popcount(pos.AttackersTo(s2, pos.Occupied()) & pos.ByColor(them))
				}
				if pos.ByColor(us)&s2.Bit() != 0 {
					dist++
				}
				mult := dist
				if isKingRace && !pos.CheckingPermitted() {
					mult = 1
				}
				score = score.Add(S(2500, 2500).Div(1 + scale*dist*mult))
			}
		}
	}

	if pos.MaxCheckCount() > 0 {
		if remaining := pos.ChecksRemaining(us); remaining > 0 {
			score = score.Add(S(3000, 1000).Div(remaining * remaining))
		}
	}

	if n := pos.ConnectN(); n > 0 {
		ours := pos.ByColor(us)
		theirs := pos.ByColor(them)
		occ := pos.Occupied()
		for d := board.Direction(0); d < board.DirectionNB; d++ {
			// Uninterrupted runs.
			b := ours
			for i := 1; i < n && b != 0; i++ {
				score = score.Add(S(100, 100).Mul(board.Popcount(b) * i * i).Div(n - i))
				b &= board.ShiftDir(d.Opposite(), board.ShiftDir(d, board.ShiftDir(d, b))&^theirs)
			}
			// Runs allowed to contain holes.
			b = ours
			for i := 1; i < n && b != 0; i++ {
				score = score.Add(S(50, 50).Mul(board.Popcount(b) * i * i).Div(n - i))
				b &= board.ShiftDir(d.Opposite(), board.ShiftDir(d, board.ShiftDir(d, b))&^theirs) |
					board.ShiftDir(d, board.ShiftDir(d, b)&^occ)
			}
		}
	}

	e.traceAdd(TermVariant, us, score)
	return score
}

// initiative computes the second-order complexity correction applied to the
// endgame component.
func (e *evalCtx) initiative(eg int) Score {
	pos := e.pos

	if pos.ExtinctionValue() != board.ValueNone || pos.CapturesToHand() || pos.ConnectN() > 0 {
		return Score{}
	}

	outflanking := 0
	wk, bk := pos.KingSq(board.White), pos.KingSq(board.Black)
	if wk != board.NoSquare && bk != board.NoSquare {
		outflanking = board.FileDistance(wk, bk) - board.RankDistance(wk, bk)
	}

	pawns := pos.ByType(board.Pawn)
	bothFlanks := pawns&board.QueenSideBB != 0 && pawns&board.KingSideBB != 0

	totalNpm := pos.NonPawnMaterial(board.White) + pos.NonPawnMaterial(board.Black)

	complexity := 8*outflanking +
		8*e.pe.pawnAsymmetry() +
		12*board.Popcount(pawns) +
		16*b2i(bothFlanks) +
		48*b2i(totalNpm == 0) -
		136

	v := sign(eg) * maxInt(complexity, -absInt(eg))

	s := S(0, v)
	e.traceAddWhite(TermInitiative, s)
	return s
}

// scaleFactor picks the endgame scale for the stronger side.
func (e *evalCtx) scaleFactor(eg int) int {
	pos := e.pos
	strong := board.White
	if eg <= 0 {
		strong = board.Black
	}
	sf := e.me.factor[strong]

	if sf == ScaleFactorNormal && !pos.CapturesToHand() {
		if oppositeBishops(pos) {
			if pos.NonPawnMaterial(board.White) == board.BishopValueMg &&
				pos.NonPawnMaterial(board.Black) == board.BishopValueMg {
				sf = 31
			} else {
				sf = 46
			}
		} else {
			sf = minInt(40+7*pos.Count(strong, board.Pawn), sf)
		}
	}
	return sf
}

func oppositeBishops(pos *board.Position) bool {
	if pos.Count(board.White, board.Bishop) != 1 || pos.Count(board.Black, board.Bishop) != 1 {
		return false
	}
	wb := pos.Bitboard(board.White, board.Bishop)
	bb := pos.Bitboard(board.Black, board.Bishop)
	return (wb&board.DarkSquaresBB != 0) != (bb&board.DarkSquaresBB != 0)
}

// value runs the whole pipeline and returns the score from the side to
// move's point of view, tempo included.
func (e *evalCtx) value() board.Value {
	pos := e.pos

	e.me = e.ev.material.probe(pos)
	if e.me.hasEval {
		return e.me.eval(pos)
	}

	mg, eg := pos.PSQScore()
	score := S(mg, eg)
	e.traceAddWhite(TermMaterial, score)
	score = score.Add(e.me.imbalance).Add(e.ev.Contempt)

	e.pe = e.ev.pawns.probe(pos)
	score = score.Add(e.pe.pawnScore(board.White)).Sub(e.pe.pawnScore(board.Black))

	e.initialize(board.White)
	e.initialize(board.Black)

	// Piece scoring runs first so every attack table is complete before the
	// cross-cutting terms read them.
	for _, pt := range pos.PieceTypes() {
		if pt == board.Pawn {
			continue
		}
		score = score.Add(e.pieces(board.White, pt)).Sub(e.pieces(board.Black, pt))
	}

	if pos.PieceDrops() {
		for _, pt := range pos.PieceTypes() {
			score = score.Add(e.hand(board.White, pt)).Sub(e.hand(board.Black, pt))
		}
	}

	mobilityWeight := 1 + b2i(pos.CapturesToHand()) + b2i(pos.MustCapture())
	score = score.Add(e.mobility[board.White].Sub(e.mobility[board.Black]).Mul(mobilityWeight))

	score = score.Add(e.king(board.White)).Sub(e.king(board.Black))
	score = score.Add(e.threats(board.White)).Sub(e.threats(board.Black))
	score = score.Add(e.passed(board.White)).Sub(e.passed(board.Black))
	score = score.Add(e.space(board.White)).Sub(e.space(board.Black))
	score = score.Add(e.variantBonus(board.White)).Sub(e.variantBonus(board.Black))

	score = score.Add(e.initiative(score.EG))

	sf := e.scaleFactor(score.EG)
	v := score.MG*e.me.gamePhase +
		score.EG*(PhaseMidgame-e.me.gamePhase)*sf/ScaleFactorNormal
	v /= PhaseMidgame

	if e.trace != nil {
		e.traceAddWhite(TermImbalance, e.me.imbalance)
		e.traceAdd(TermPawn, board.White, e.pe.pawnScore(board.White))
		e.traceAdd(TermPawn, board.Black, e.pe.pawnScore(board.Black))
		e.traceAdd(TermMobility, board.White, e.mobility[board.White])
		e.traceAdd(TermMobility, board.Black, e.mobility[board.Black])
		e.traceAddWhite(TermTotal, score)
	}

	if pos.SideToMove() == board.Black {
		v = -v
	}
	return board.Value(v) + TempoValue(pos)
}

func (e *evalCtx) traceAdd(t Term, c board.Color, s Score) {
	if e.trace != nil {
		e.trace.add(t, c, s)
	}
}

func (e *evalCtx) traceAddWhite(t Term, s Score) {
	if e.trace != nil {
		e.trace.add(t, board.White, s)
	}
}

// relRanksBB returns the r-th rank from c's point of view.
func relRanksBB(c board.Color, r int) uint64 {
	if c == board.White {
		return board.RankBB[r]
	}
	return board.RankBB[7-r]
}

// relForwardRanksBB returns the ranks strictly beyond relative rank r.
func relForwardRanksBB(c board.Color, r int) uint64 {
	if c == board.White {
		return board.ForwardRanksBB(c, r)
	}
	return board.ForwardRanksBB(c, 7-r)
}

func pushDelta(c board.Color) int {
	if c == board.White {
		return 8
	}
	return -8
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func sign(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxValue(a, b board.Value) board.Value {
	if a > b {
		return a
	}
	return b
}
