package board

import (
	"github.com/dylhunn/dragontoothmg"
)

// Precomputed leaper attack masks.
var (
	knightAttacks [64]uint64
	kingAttacks   [64]uint64
	pawnAttacks   [ColorNB][64]uint64
)

func init() {
	knightOffsets := [8][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	kingOffsets := [8][2]int{
		{1, 0}, {-1, 0}, {0, 1}, {0, -1},
		{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
	}
	for sq := Square(0); sq < 64; sq++ {
		file, rank := sq.File(), sq.Rank()
		for _, off := range knightOffsets {
			f, r := file+off[1], rank+off[0]
			if f >= 0 && f < 8 && r >= 0 && r < 8 {
				knightAttacks[sq] |= SquareAt(f, r).Bit()
			}
		}
		for _, off := range kingOffsets {
			f, r := file+off[1], rank+off[0]
			if f >= 0 && f < 8 && r >= 0 && r < 8 {
				kingAttacks[sq] |= SquareAt(f, r).Bit()
			}
		}
		if rank < 7 {
			if file > 0 {
				pawnAttacks[White][sq] |= SquareAt(file-1, rank+1).Bit()
			}
			if file < 7 {
				pawnAttacks[White][sq] |= SquareAt(file+1, rank+1).Bit()
			}
		}
		if rank > 0 {
			if file > 0 {
				pawnAttacks[Black][sq] |= SquareAt(file-1, rank-1).Bit()
			}
			if file < 7 {
				pawnAttacks[Black][sq] |= SquareAt(file+1, rank-1).Bit()
			}
		}
	}
}

// KnightAttacksBB returns the knight attack mask from sq.
func KnightAttacksBB(sq Square) uint64 { return knightAttacks[sq] }

// KingAttacksBB returns the king attack mask from sq.
func KingAttacksBB(sq Square) uint64 { return kingAttacks[sq] }

// PawnAttacksFrom returns the squares a c-colored pawn on sq attacks.
func PawnAttacksFrom(c Color, sq Square) uint64 { return pawnAttacks[c][sq] }

// PawnAttacksBB computes the attack map of a whole pawn bitboard.
func PawnAttacksBB(c Color, pawns uint64) uint64 {
	if c == White {
		return ((pawns &^ FileABB) << 7) | ((pawns &^ FileHBB) << 9)
	}
	return ((pawns &^ FileHBB) >> 7) | ((pawns &^ FileABB) >> 9)
}

// RookAttacksBB and BishopAttacksBB delegate to the magic-bitboard tables.
func RookAttacksBB(sq Square, occ uint64) uint64 {
	return dragontoothmg.CalculateRookMoveBitboard(uint8(sq), occ)
}

func BishopAttacksBB(sq Square, occ uint64) uint64 {
	return dragontoothmg.CalculateBishopMoveBitboard(uint8(sq), occ)
}

// QueenAttacksBB is the union of the slider attacks.
func QueenAttacksBB(sq Square, occ uint64) uint64 {
	return RookAttacksBB(sq, occ) | BishopAttacksBB(sq, occ)
}

// PseudoRookAttacksBB is the empty-board rook reach (rank and file through).
func PseudoRookAttacksBB(sq Square) uint64 {
	return (FileBB[sq.File()] | RankBB[sq.Rank()]) &^ sq.Bit()
}

// AttacksBB returns the capture targets of a piece of the given color and
// type standing on sq with the given occupancy. Shogi pawns capture straight
// ahead; everything else attacks where it moves.
func AttacksBB(c Color, pt PieceType, sq Square, occ uint64) uint64 {
	switch pt {
	case Pawn:
		return pawnAttacks[c][sq]
	case ShogiPawn:
		return ShiftUp(c, sq.Bit())
	case Knight:
		return knightAttacks[sq]
	case Bishop:
		return BishopAttacksBB(sq, occ)
	case Rook:
		return RookAttacksBB(sq, occ)
	case Queen:
		return QueenAttacksBB(sq, occ)
	case King:
		return kingAttacks[sq]
	}
	return 0
}

// MovesBB returns the quiet-move targets. It differs from AttacksBB only for
// ordinary pawns, which push straight ahead instead of capturing diagonally.
func MovesBB(c Color, pt PieceType, sq Square, occ uint64) uint64 {
	if pt != Pawn {
		return AttacksBB(c, pt, sq, occ)
	}
	one := ShiftUp(c, sq.Bit()) &^ occ
	if one != 0 && RelativeRank(c, sq) == 1 {
		one |= ShiftUp(c, one) &^ occ
	}
	return one
}
