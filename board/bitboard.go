package board

import "math/bits"

// Fixed 8x8 board, one bit per square, a1 = bit 0.
const AllSquaresBB uint64 = 0xFFFFFFFFFFFFFFFF

var (
	FileABB uint64 = 0x0101010101010101
	FileBBB uint64 = FileABB << 1
	FileCBB uint64 = FileABB << 2
	FileDBB uint64 = FileABB << 3
	FileEBB uint64 = FileABB << 4
	FileFBB uint64 = FileABB << 5
	FileGBB uint64 = FileABB << 6
	FileHBB uint64 = FileABB << 7

	Rank1BB uint64 = 0xFF
	Rank2BB uint64 = Rank1BB << 8
	Rank3BB uint64 = Rank1BB << 16
	Rank4BB uint64 = Rank1BB << 24
	Rank5BB uint64 = Rank1BB << 32
	Rank6BB uint64 = Rank1BB << 40
	Rank7BB uint64 = Rank1BB << 48
	Rank8BB uint64 = Rank1BB << 56
)

// FileBB and RankBB index the file/rank masks.
var FileBB = [8]uint64{FileABB, FileBBB, FileCBB, FileDBB, FileEBB, FileFBB, FileGBB, FileHBB}
var RankBB = [8]uint64{Rank1BB, Rank2BB, Rank3BB, Rank4BB, Rank5BB, Rank6BB, Rank7BB, Rank8BB}

// QueenSide/KingSide/CenterFiles/Center follow the usual evaluation regions.
var (
	QueenSideBB   = FileABB | FileBBB | FileCBB | FileDBB
	KingSideBB    = FileEBB | FileFBB | FileGBB | FileHBB
	CenterFilesBB = FileCBB | FileDBB | FileEBB | FileFBB
	CenterBB      = (FileDBB | FileEBB) & (Rank4BB | Rank5BB)
)

// DarkSquaresBB marks the dark-colored squares.
const DarkSquaresBB uint64 = 0xAA55AA55AA55AA55

// Popcount is a thin alias used all over the evaluation.
func Popcount(b uint64) int { return bits.OnesCount64(b) }

// Lsb returns the lowest set square. Undefined for empty boards.
func Lsb(b uint64) Square { return Square(bits.TrailingZeros64(b)) }

// MoreThanOne reports whether b has at least two bits set.
func MoreThanOne(b uint64) bool { return b&(b-1) != 0 }

// Directional single-step shifts with edge masking.
func ShiftNorth(b uint64) uint64 { return b << 8 }
func ShiftSouth(b uint64) uint64 { return b >> 8 }
func ShiftEast(b uint64) uint64  { return (b &^ FileHBB) << 1 }
func ShiftWest(b uint64) uint64  { return (b &^ FileABB) >> 1 }

// ShiftUp and ShiftDown are the pawn-push directions for a color.
func ShiftUp(c Color, b uint64) uint64 {
	if c == White {
		return b << 8
	}
	return b >> 8
}

func ShiftDown(c Color, b uint64) uint64 {
	if c == White {
		return b >> 8
	}
	return b << 8
}

// Direction is a compass step used by the connect-n scorer.
type Direction int

const (
	DirNorth Direction = iota
	DirNorthEast
	DirEast
	DirSouthEast
	DirSouth
	DirSouthWest
	DirWest
	DirNorthWest

	DirectionNB = 8
)

// ShiftDir shifts a bitboard one step along d, masking board wrap.
func ShiftDir(d Direction, b uint64) uint64 {
	switch d {
	case DirNorth:
		return b << 8
	case DirNorthEast:
		return (b &^ FileHBB) << 9
	case DirEast:
		return (b &^ FileHBB) << 1
	case DirSouthEast:
		return (b &^ FileHBB) >> 7
	case DirSouth:
		return b >> 8
	case DirSouthWest:
		return (b &^ FileABB) >> 9
	case DirWest:
		return (b &^ FileABB) >> 1
	case DirNorthWest:
		return (b &^ FileABB) << 7
	}
	return 0
}

// Opposite returns the reverse compass step.
func (d Direction) Opposite() Direction { return (d + 4) % 8 }

// Precomputed geometry tables, filled in by init.
var (
	forwardRanks  [ColorNB][8]uint64  // ranks strictly ahead of a rank
	forwardFile   [ColorNB][64]uint64 // file squares strictly ahead of a square
	pawnSpan      [ColorNB][64]uint64 // attack span: adjacent files ahead
	passedSpan    [ColorNB][64]uint64 // forward file plus attack span
	adjacentFiles [8]uint64
	lineBB        [64][64]uint64 // full line through two aligned squares
	betweenBB     [64][64]uint64 // open segment between two aligned squares
	distanceTab   [64][64]int
)

// ForwardRanksBB returns the ranks strictly in front of rank r from c's view.
func ForwardRanksBB(c Color, r int) uint64 { return forwardRanks[c][r] }

// ForwardFileBB returns the squares ahead of s on its file.
func ForwardFileBB(c Color, s Square) uint64 { return forwardFile[c][s] }

// PawnAttackSpan returns the squares attackable by enemy pawns advancing past s.
func PawnAttackSpan(c Color, s Square) uint64 { return pawnSpan[c][s] }

// PassedPawnSpan is the forward file plus both adjacent-file spans.
func PassedPawnSpan(c Color, s Square) uint64 { return passedSpan[c][s] }

// AdjacentFilesBB returns the neighbouring file masks of file f.
func AdjacentFilesBB(f int) uint64 { return adjacentFiles[f] }

// LineBB returns the full board line through a and b, or 0 if unaligned.
func LineBB(a, b Square) uint64 { return lineBB[a][b] }

// BetweenBB returns the squares strictly between two aligned squares.
func BetweenBB(a, b Square) uint64 { return betweenBB[a][b] }

// Distance is the Chebyshev distance between squares.
func Distance(a, b Square) int { return distanceTab[a][b] }

// FileDistance and RankDistance are the per-axis distances.
func FileDistance(a, b Square) int { return absInt(a.File() - b.File()) }
func RankDistance(a, b Square) int { return absInt(a.Rank() - b.Rank()) }

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// PromotionZoneBB returns the ranks from promotionRank up, from c's view.
func PromotionZoneBB(c Color, promotionRank int) uint64 {
	var zone uint64
	for r := promotionRank; r < 8; r++ {
		if c == White {
			zone |= RankBB[r]
		} else {
			zone |= RankBB[7-r]
		}
	}
	return zone
}

func init() {
	for r := 0; r < 8; r++ {
		var ahead uint64
		for rr := r + 1; rr < 8; rr++ {
			ahead |= RankBB[rr]
		}
		forwardRanks[White][r] = ahead
		forwardRanks[Black][7-r] = flipVertical(ahead)
	}

	for f := 0; f < 8; f++ {
		if f > 0 {
			adjacentFiles[f] |= FileBB[f-1]
		}
		if f < 7 {
			adjacentFiles[f] |= FileBB[f+1]
		}
	}

	for sq := Square(0); sq < 64; sq++ {
		for _, c := range []Color{White, Black} {
			ahead := forwardRanks[c][sq.Rank()]
			forwardFile[c][sq] = ahead & FileBB[sq.File()]
			pawnSpan[c][sq] = ahead & adjacentFiles[sq.File()]
			passedSpan[c][sq] = forwardFile[c][sq] | pawnSpan[c][sq]
		}
	}

	for a := Square(0); a < 64; a++ {
		for b := Square(0); b < 64; b++ {
			fd := FileDistance(a, b)
			rd := RankDistance(a, b)
			if fd > rd {
				distanceTab[a][b] = fd
			} else {
				distanceTab[a][b] = rd
			}
		}
	}

	// Lines and between-segments along the eight compass rays.
	steps := [8][2]int{{0, 1}, {1, 1}, {1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}}
	for a := Square(0); a < 64; a++ {
		for _, st := range steps {
			var ray uint64
			f, r := a.File()+st[0], a.Rank()+st[1]
			for f >= 0 && f < 8 && r >= 0 && r < 8 {
				ray |= SquareAt(f, r).Bit()
				f += st[0]
				r += st[1]
			}
			for t := ray; t != 0; t &= t - 1 {
				b := Lsb(t)
				lineBB[a][b] = ray | a.Bit() | reverseRay(a, b)
				betweenBB[a][b] = segment(a, b, st)
			}
		}
	}
}

func reverseRay(a, b Square) uint64 {
	// The part of the line through a and b lying behind a.
	df := sign(b.File() - a.File())
	dr := sign(b.Rank() - a.Rank())
	var ray uint64
	f, r := a.File()-df, a.Rank()-dr
	for f >= 0 && f < 8 && r >= 0 && r < 8 {
		ray |= SquareAt(f, r).Bit()
		f -= df
		r -= dr
	}
	return ray
}

func segment(a, b Square, st [2]int) uint64 {
	var seg uint64
	f, r := a.File()+st[0], a.Rank()+st[1]
	for SquareAt(f, r) != b {
		seg |= SquareAt(f, r).Bit()
		f += st[0]
		r += st[1]
	}
	return seg
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

func flipVertical(b uint64) uint64 {
	return bits.ReverseBytes64(b)
}
