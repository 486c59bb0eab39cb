package board

// Color identifies a side. White is always index 0.
type Color uint8

const (
	White Color = 0
	Black Color = 1

	ColorNB = 2
)

// Other returns the opposing side.
func (c Color) Other() Color { return c ^ 1 }

// PieceType is a colorless piece kind used to index lookup tables. The zero
// value doubles as the "all pieces" slot in attack tables.
type PieceType uint8

const (
	AllPieces PieceType = 0 // aggregate slot, never a real piece
	Pawn      PieceType = 1
	ShogiPawn PieceType = 2
	Knight    PieceType = 3
	Bishop    PieceType = 4
	Rook      PieceType = 5
	Queen     PieceType = 6
	King      PieceType = 7

	PieceTypeNB = 8
)

// Piece combines a PieceType with a color: black pieces have bit 3 set, so
// p&7 yields the type and p&8 the side, as in the classic bitboard layout.
type Piece uint8

const NoPiece Piece = 0

const (
	WhitePawn      Piece = Piece(Pawn)
	WhiteShogiPawn Piece = Piece(ShogiPawn)
	WhiteKnight    Piece = Piece(Knight)
	WhiteBishop    Piece = Piece(Bishop)
	WhiteRook      Piece = Piece(Rook)
	WhiteQueen     Piece = Piece(Queen)
	WhiteKing      Piece = Piece(King)

	BlackPawn      Piece = Piece(Pawn) | 8
	BlackShogiPawn Piece = Piece(ShogiPawn) | 8
	BlackKnight    Piece = Piece(Knight) | 8
	BlackBishop    Piece = Piece(Bishop) | 8
	BlackRook      Piece = Piece(Rook) | 8
	BlackQueen     Piece = Piece(Queen) | 8
	BlackKing      Piece = Piece(King) | 8
)

// Type returns the colorless kind of the piece.
func (p Piece) Type() PieceType { return PieceType(p & 7) }

// Color returns the side owning the piece. NoPiece reports White.
func (p Piece) Color() Color {
	if p&8 != 0 {
		return Black
	}
	return White
}

// MakePiece combines a side and a type into a concrete Piece.
func MakePiece(c Color, pt PieceType) Piece {
	if pt == AllPieces {
		return NoPiece
	}
	return Piece(pt) | Piece(c<<3)
}

// Square indexes board cells 0..63, a1=0, h8=63.
type Square int

const NoSquare Square = -1

// File and Rank of a square, 0-based.
func (s Square) File() int { return int(s) & 7 }
func (s Square) Rank() int { return int(s) >> 3 }

// Bit returns the single-square bitboard.
func (s Square) Bit() uint64 { return 1 << uint(s) }

// SquareAt builds a square from 0-based file and rank.
func SquareAt(file, rank int) Square { return Square(rank*8 + file) }

// RelativeRank returns the rank of s from c's point of view.
func RelativeRank(c Color, s Square) int {
	if c == White {
		return s.Rank()
	}
	return 7 - s.Rank()
}

// RelativeSquare mirrors s vertically for Black.
func RelativeSquare(c Color, s Square) Square {
	if c == White {
		return s
	}
	return s ^ 56
}

// CastlingRights bit flags, kept only because the evaluator's trapped-rook
// term asks whether a side may still castle.
type CastlingRights uint8

const (
	CastleWhiteK CastlingRights = 1 << iota
	CastleWhiteQ
	CastleBlackK
	CastleBlackQ
)

// Value is a centipawn-scaled evaluation unit.
type Value int

const (
	ValueDraw     Value = 0
	ValueMate     Value = 32000
	ValueInfinite Value = 32001
	ValueNone     Value = 32002
)

// Piece base values per game phase.
const (
	PawnValueMg      Value = 136
	PawnValueEg      Value = 208
	ShogiPawnValueMg Value = 90
	ShogiPawnValueEg Value = 100
	KnightValueMg    Value = 782
	KnightValueEg    Value = 865
	BishopValueMg    Value = 830
	BishopValueEg    Value = 918
	RookValueMg      Value = 1289
	RookValueEg      Value = 1378
	QueenValueMg     Value = 2529
	QueenValueEg     Value = 2687
)

// PieceValueMg/Eg are indexed by PieceType.
var PieceValueMg = [PieceTypeNB]Value{
	Pawn: PawnValueMg, ShogiPawn: ShogiPawnValueMg, Knight: KnightValueMg,
	Bishop: BishopValueMg, Rook: RookValueMg, Queen: QueenValueMg, King: 0,
}
var PieceValueEg = [PieceTypeNB]Value{
	Pawn: PawnValueEg, ShogiPawn: ShogiPawnValueEg, Knight: KnightValueEg,
	Bishop: BishopValueEg, Rook: RookValueEg, Queen: QueenValueEg, King: 0,
}
