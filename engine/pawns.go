package engine

import (
	"variant-engine/board"
)

const pawnTableSize = 1 << 14

// Pawn structure weights.
var (
	pawnIsolated = S(5, 15)
	pawnBackward = S(9, 24)
	pawnDoubled  = S(11, 56)

	// Connected pawn seed per relative rank.
	connectedSeed = [8]int{0, 13, 17, 24, 59, 96, 171, 0}
)

// Shelter penalty by the relative rank of our closest pawn on a king file,
// index 0 meaning no pawn at all. Storm bonus by the enemy pawn's advance.
var (
	shelterWeakness = [8]int{36, 0, 9, 18, 27, 36, 36, 36}
	stormDanger     = [8]int{0, 0, 60, 35, 15, 5, 0, 0}
)

// pawnEntry caches everything derivable from the two pawn bitboards, plus a
// small per-king-square shelter cache the way the material entry caches its
// scale factors.
type pawnEntry struct {
	keyPawn  [board.ColorNB]uint64
	keyShogi [board.ColorNB]uint64
	valid    bool

	attacks  [board.ColorNB]uint64
	shogiAtk [board.ColorNB]uint64
	span     [board.ColorNB]uint64
	passed   [board.ColorNB]uint64
	score    [board.ColorNB]Score

	semiopenFiles  [board.ColorNB]uint64
	openFilesCount int
	asymmetry      int
	pawnsOnSquares [board.ColorNB][2]int // [color][dark/light]
	weakUnopposed  [board.ColorNB]int

	kingSquares  [board.ColorNB]board.Square
	kingCastling [board.ColorNB]board.CastlingRights
	kingSafety   [board.ColorNB]Score
}

type pawnTable struct {
	entries [pawnTableSize]pawnEntry
}

func pawnHashIndex(white, black uint64) uint64 {
	const goldenRatio = 0x9E3779B97F4A7C15
	hash := white ^ (black * goldenRatio)
	hash ^= hash >> 33
	hash *= 0xFF51AFD7ED558CCD
	hash ^= hash >> 33
	return hash & (pawnTableSize - 1)
}

func (pt *pawnTable) probe(pos *board.Position) *pawnEntry {
	var pawns, shogi [board.ColorNB]uint64
	for c := board.White; c <= board.Black; c++ {
		pawns[c] = pos.Bitboard(c, board.Pawn)
		shogi[c] = pos.Bitboard(c, board.ShogiPawn)
	}
	e := &pt.entries[pawnHashIndex(pawns[board.White]|shogi[board.White], pawns[board.Black]|shogi[board.Black])]
	if e.valid && e.keyPawn == pawns && e.keyShogi == shogi {
		return e
	}
	*e = pawnEntry{keyPawn: pawns, keyShogi: shogi, valid: true}
	e.kingSquares[board.White] = board.NoSquare
	e.kingSquares[board.Black] = board.NoSquare
	e.compute(pos)
	return e
}

func (e *pawnEntry) pawnAttacks(c board.Color) uint64  { return e.attacks[c] }
func (e *pawnEntry) shogiAttacks(c board.Color) uint64 { return e.shogiAtk[c] }
func (e *pawnEntry) attackSpan(c board.Color) uint64   { return e.span[c] }
func (e *pawnEntry) passedPawns(c board.Color) uint64  { return e.passed[c] }
func (e *pawnEntry) pawnScore(c board.Color) Score     { return e.score[c] }
func (e *pawnEntry) openFiles() int                    { return e.openFilesCount }
func (e *pawnEntry) pawnAsymmetry() int                { return e.asymmetry }

// semiopenFile reports whether c has no pawn on f.
func (e *pawnEntry) semiopenFile(c board.Color, f int) bool {
	return e.semiopenFiles[c]&board.FileBB[f] != 0
}

// pawnsOnSameColorSquares counts c's pawns on squares of sq's color.
func (e *pawnEntry) pawnsOnSameColorSquares(c board.Color, sq board.Square) int {
	if sq.Bit()&board.DarkSquaresBB != 0 {
		return e.pawnsOnSquares[c][0]
	}
	return e.pawnsOnSquares[c][1]
}

func (e *pawnEntry) weakUnopposedCount(c board.Color) int { return e.weakUnopposed[c] }

func (e *pawnEntry) compute(pos *board.Position) {
	var fileSets [board.ColorNB]uint64
	for c := board.White; c <= board.Black; c++ {
		them := c.Other()
		ourPawns := pos.Bitboard(c, board.Pawn)
		ourShogi := pos.Bitboard(c, board.ShogiPawn)
		theirPawns := pos.Pawns(them)

		e.attacks[c] = board.PawnAttacksBB(c, ourPawns)
		e.shogiAtk[c] = board.ShiftUp(c, ourShogi)

		for x := ourPawns | ourShogi; x != 0; x &= x - 1 {
			sq := board.Lsb(x)
			fileSets[c] |= board.FileBB[sq.File()]
			if sq.Bit()&ourShogi != 0 {
				e.span[c] |= board.ForwardFileBB(c, sq)
			} else {
				e.span[c] |= board.PawnAttackSpan(c, sq)
			}
			if sq.Bit()&board.DarkSquaresBB != 0 {
				e.pawnsOnSquares[c][0]++
			} else {
				e.pawnsOnSquares[c][1]++
			}
		}

		theirDouble := board.ShiftEast(board.ShiftUp(them, theirPawns)) &
			board.ShiftWest(board.ShiftUp(them, theirPawns))

		var structure Score
		for x := ourPawns; x != 0; x &= x - 1 {
			sq := x & -x
			s := board.Lsb(x)
			f := s.File()
			r := board.RelativeRank(c, s)

			neighbours := (ourPawns | ourShogi) & board.AdjacentFilesBB(f)
			opposed := theirPawns&board.ForwardFileBB(c, s) != 0
			doubled := ourPawns&board.ForwardFileBB(c, s) != 0
			support := ourPawns & board.AdjacentFilesBB(f) & board.ShiftDown(c, board.RankBB[s.Rank()])
			phalanxBB := ourPawns & board.AdjacentFilesBB(f) & board.RankBB[s.Rank()]
			supported := support != 0
			phalanx := phalanxBB != 0
			isolated := neighbours == 0

			// Backward: cannot advance supported and the stop square is
			// covered by an enemy pawn.
			stop := board.ShiftUp(c, sq)
			backward := !isolated &&
				neighbours&(board.PassedPawnSpan(c.Other(), s)|board.RankBB[s.Rank()]) == 0 &&
				(board.PawnAttacksBB(them, theirPawns)|theirPawns)&stop != 0

			// Passed, or a candidate close enough to count: every stopper is
			// a lever, the only stoppers are lever pushes the phalanx can
			// match, or a single front stopper that a supporter can lever
			// off. A friendly pawn ahead always disqualifies.
			stoppers := theirPawns & board.PassedPawnSpan(c, s)
			lever := theirPawns & board.PawnAttacksBB(c, sq)
			leverPush := theirPawns & board.PawnAttacksBB(c, stop)
			passed := !doubled &&
				(stoppers == lever ||
					(stoppers == leverPush &&
						board.Popcount(phalanxBB) >= board.Popcount(leverPush)) ||
					(stoppers == stop && r >= 4 &&
						board.ShiftUp(c, support)&^(theirPawns|theirDouble) != 0))
			if passed {
				e.passed[c] |= sq
			}

			switch {
			case isolated:
				structure = structure.Sub(pawnIsolated)
				if !opposed {
					e.weakUnopposed[c]++
				}
			case backward:
				structure = structure.Sub(pawnBackward)
				if !opposed {
					e.weakUnopposed[c]++
				}
			}
			if doubled && !supported {
				structure = structure.Sub(pawnDoubled)
			}
			if supported || phalanx {
				v := connectedSeed[r] * 2
				if phalanx {
					v += connectedSeed[r]
				}
				if opposed {
					v -= connectedSeed[r] / 2
				}
				if supported {
					v += 21
				}
				structure = structure.Add(S(v, v*(r-2)/4))
			}
		}
		e.score[c] = structure
	}

	open := ^fileSets[board.White] & ^fileSets[board.Black] & board.Rank1BB
	e.openFilesCount = board.Popcount(open)
	e.semiopenFiles[board.White] = ^fileSets[board.White]
	e.semiopenFiles[board.Black] = ^fileSets[board.Black]
	e.asymmetry = board.Popcount((fileSets[board.White] ^ fileSets[board.Black]) & board.Rank1BB)
}

// kingSafetyOf returns the cached shelter score for c's king on ksq,
// recomputing when the king has moved or castling rights changed.
func (e *pawnEntry) kingSafetyOf(pos *board.Position, c board.Color, ksq board.Square) Score {
	var rights board.CastlingRights
	if pos.CanCastle(c) {
		rights = 1
	}
	if e.kingSquares[c] == ksq && e.kingCastling[c] == rights {
		return e.kingSafety[c]
	}
	s := evaluateShelter(pos, c, ksq)
	// A side that may still castle is judged by its best available shelter.
	if pos.CanCastle(c) {
		for _, f := range []int{6, 2} {
			alt := evaluateShelter(pos, c, board.RelativeSquare(c, board.SquareAt(f, 0)))
			if alt.MG > s.MG {
				s = alt
			}
		}
	}
	e.kingSquares[c] = ksq
	e.kingCastling[c] = rights
	e.kingSafety[c] = s
	return s
}

func evaluateShelter(pos *board.Position, c board.Color, ksq board.Square) Score {
	them := c.Other()
	ahead := board.ForwardRanksBB(c, ksq.Rank()) | board.RankBB[ksq.Rank()]

	var safety int
	center := clampInt(ksq.File(), 1, 6)
	for f := center - 1; f <= center+1; f++ {
		fileOurs := pos.Pawns(c) & board.FileBB[f] & ahead
		fileTheirs := pos.Pawns(them) & board.FileBB[f] & ahead

		ourRank := 0
		if fileOurs != 0 {
			ourRank = board.RelativeRank(c, backmost(c, fileOurs))
		}
		safety -= shelterWeakness[ourRank]

		if fileTheirs != 0 {
			lead := frontmost(them, fileTheirs)
			bonus := stormDanger[board.RelativeRank(c, lead)]
			if fileOurs&board.ShiftUp(them, lead.Bit()) != 0 {
				bonus /= 2
			}
			safety -= bonus
		}
	}

	eg := 0
	if pos.Pawns(c) != 0 {
		minDist := 8
		for x := pos.Pawns(c); x != 0; x &= x - 1 {
			if d := board.Distance(ksq, board.Lsb(x)); d < minDist {
				minDist = d
			}
		}
		eg = -16 * minDist
	}
	return S(safety, eg)
}

// backmost and frontmost pick the rear and lead pawns from c's view.
func backmost(c board.Color, b uint64) board.Square {
	if c == board.White {
		return board.Lsb(b)
	}
	return msb(b)
}

func frontmost(c board.Color, b uint64) board.Square {
	if c == board.White {
		return msb(b)
	}
	return board.Lsb(b)
}

func msb(b uint64) board.Square {
	sq := board.Square(0)
	for x := b; x != 0; x &= x - 1 {
		sq = board.Lsb(x)
	}
	return sq
}
